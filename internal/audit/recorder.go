package audit

import (
	"context"
	"time"

	"virapi/internal/model"
	"virapi/pkg/logger"

	"github.com/panjf2000/ants/v2"
)

// Sink 日志落盘目标
type Sink interface {
	Insert(ctx context.Context, log *model.RequestLog) error
}

// RecorderConfig 记录器配置
type RecorderConfig struct {
	PoolSize     int           // 异步写入协程池大小
	WriteTimeout time.Duration // 单条写入超时
	FlushTimeout time.Duration // 关闭时等待写入完成的最长时间
}

// Recorder 请求日志记录器
//
// 每条完成的请求产生一条候选记录，提交到有界协程池异步落盘：
// 至多一次、不重试，落盘失败只记运维日志，绝不影响请求路径。
// 池满时直接丢弃该条记录。
type Recorder struct {
	pool         *ants.Pool
	sink         Sink
	stream       *Stream
	writeTimeout time.Duration
	flushTimeout time.Duration
}

// NewRecorder 创建请求日志记录器
func NewRecorder(sink Sink, stream *Stream, cfg RecorderConfig) (*Recorder, error) {
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 8
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if cfg.FlushTimeout <= 0 {
		cfg.FlushTimeout = 10 * time.Second
	}

	// 非阻塞模式：池满时Submit立即报错而不是挂起请求协程
	pool, err := ants.NewPool(cfg.PoolSize, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}

	return &Recorder{
		pool:         pool,
		sink:         sink,
		stream:       stream,
		writeTimeout: cfg.WriteTimeout,
		flushTimeout: cfg.FlushTimeout,
	}, nil
}

// Record 投递一条日志记录，立即返回
func (r *Recorder) Record(log *model.RequestLog) {
	if log == nil {
		return
	}
	if log.Created.IsZero() {
		log.Created = time.Now()
	}

	err := r.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.writeTimeout)
		defer cancel()

		if err := r.sink.Insert(ctx, log); err != nil {
			logger.Warn("request log write failed: app=%s uri=%s: %v", log.AppSlug, log.URI, err)
		}

		if r.stream != nil {
			r.stream.Broadcast(log)
		}
	})
	if err != nil {
		logger.Warn("request log dropped: app=%s uri=%s: %v", log.AppSlug, log.URI, err)
	}
}

// Close 关闭记录器，尽力等待未完成的写入
func (r *Recorder) Close() {
	if err := r.pool.ReleaseTimeout(r.flushTimeout); err != nil {
		logger.Warn("request log flush timed out: %v", err)
	}
}
