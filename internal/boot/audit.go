package boot

import (
	"time"

	"virapi/internal/audit"
	"virapi/internal/repository"
	"virapi/pkg/config"
)

// AuditComponents 包含请求日志相关组件
type AuditComponents struct {
	Recorder *audit.Recorder
	Stream   *audit.Stream
}

// InitAudit 初始化请求日志组件
func InitAudit(cfg *config.Config, logRepo repository.RequestLogRepository) (*AuditComponents, error) {
	stream := audit.NewStream(&audit.StreamConfig{
		PingInterval:   time.Duration(cfg.Audit.WebSocket.PingInterval) * time.Second,
		WriteWait:      time.Duration(cfg.Audit.WebSocket.WriteWait) * time.Second,
		ReadWait:       time.Duration(cfg.Audit.WebSocket.ReadWait) * time.Second,
		MaxMessageSize: int64(cfg.Audit.WebSocket.MaxMessageSize),
	})

	recorder, err := audit.NewRecorder(logRepo, stream, audit.RecorderConfig{
		PoolSize:     cfg.Audit.PoolSize,
		WriteTimeout: time.Duration(cfg.Audit.WriteTimeout) * time.Second,
		FlushTimeout: time.Duration(cfg.Audit.FlushTimeout) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	return &AuditComponents{
		Recorder: recorder,
		Stream:   stream,
	}, nil
}
