package service

import (
	"context"

	"virapi/internal/model"
	"virapi/internal/repository"
)

// RequestLogService 请求日志查询服务接口
type RequestLogService interface {
	List(ctx context.Context, uid string, filter repository.RequestLogFilter, page, perPage int) ([]model.RequestLog, int64, error)
}

// requestLogService 请求日志查询服务实现
type requestLogService struct {
	logs repository.RequestLogRepository
	apps repository.ApplicationRepository
}

// NewRequestLogService 创建请求日志查询服务
func NewRequestLogService(logs repository.RequestLogRepository, apps repository.ApplicationRepository) RequestLogService {
	return &requestLogService{logs: logs, apps: apps}
}

// List 分页查询日志，必须按属主的应用过滤
func (s *requestLogService) List(ctx context.Context, uid string, filter repository.RequestLogFilter, page, perPage int) ([]model.RequestLog, int64, error) {
	if filter.AppID == "" {
		return nil, 0, ErrAppNotFound
	}

	app, err := s.apps.GetByID(ctx, filter.AppID)
	if err != nil {
		return nil, 0, err
	}
	if app == nil || app.UID != uid {
		return nil, 0, ErrAppNotFound
	}

	return s.logs.List(ctx, filter, page, perPage)
}
