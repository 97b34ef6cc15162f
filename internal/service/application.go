package service

import (
	"context"

	"virapi/internal/model"
	"virapi/internal/repository"
	"virapi/pkg/logger"

	"github.com/google/uuid"
)

// ApplicationService 应用管理服务接口
type ApplicationService interface {
	Create(ctx context.Context, uid string, req *model.CreateApplicationRequest) (*model.Application, error)
	Get(ctx context.Context, uid, id string) (*model.Application, error)
	GetBySlug(ctx context.Context, uid, slug string) (*model.Application, error)
	List(ctx context.Context, uid string, offset, limit int) ([]model.Application, int64, error)
	Update(ctx context.Context, uid, id string, req *model.UpdateApplicationRequest) (*model.Application, error)
	Delete(ctx context.Context, uid, id string) error
	ResetKey(ctx context.Context, uid, id string) (*model.Application, error)
}

// applicationService 应用管理服务实现
type applicationService struct {
	apps   repository.ApplicationRepository
	users  repository.UserRepository
	ifaces repository.InterfaceRepository
}

// NewApplicationService 创建应用管理服务
func NewApplicationService(
	apps repository.ApplicationRepository,
	users repository.UserRepository,
	ifaces repository.InterfaceRepository,
) ApplicationService {
	return &applicationService{apps: apps, users: users, ifaces: ifaces}
}

// Create 创建应用
func (s *applicationService) Create(ctx context.Context, uid string, req *model.CreateApplicationRequest) (*model.Application, error) {
	user, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive() {
		return nil, ErrUserNotFound
	}

	// slug按属主唯一
	exist, err := s.apps.GetByOwnerAndSlug(ctx, uid, req.Slug)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrAppSlugTaken
	}

	app := &model.Application{
		UID:        uid,
		VirUID:     user.VirUID,
		Name:       req.Name,
		Slug:       req.Slug,
		VerifyRule: req.VerifyRule,
		Describe:   req.Describe,
		Status:     model.AppStatusActive,
	}
	if app.VerifyRule == "" {
		app.VerifyRule = model.VerifyRuleCompatible
	}
	if req.ResponseTemplate != nil {
		app.ResponseTemplate = *req.ResponseTemplate
	}

	if err := s.apps.Create(ctx, app); err != nil {
		return nil, err
	}

	// 应用计数独立更新，偏差可接受
	if err := s.users.IncrAppsCount(ctx, uid, 1); err != nil {
		logger.Warn("failed to increase apps_count for user %s: %v", uid, err)
	}

	return app, nil
}

// Get 获取应用详情（校验属主）
func (s *applicationService) Get(ctx context.Context, uid, id string) (*model.Application, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil || app.UID != uid || app.Status == model.AppStatusDeleted {
		return nil, ErrAppNotFound
	}
	return app, nil
}

// GetBySlug 通过slug获取应用详情
func (s *applicationService) GetBySlug(ctx context.Context, uid, slug string) (*model.Application, error) {
	app, err := s.apps.GetByOwnerAndSlug(ctx, uid, slug)
	if err != nil {
		return nil, err
	}
	if app == nil || app.Status == model.AppStatusDeleted {
		return nil, ErrAppNotFound
	}
	return app, nil
}

// List 获取应用列表
func (s *applicationService) List(ctx context.Context, uid string, offset, limit int) ([]model.Application, int64, error) {
	return s.apps.ListByOwner(ctx, uid, offset, limit)
}

// Update 更新应用
func (s *applicationService) Update(ctx context.Context, uid, id string, req *model.UpdateApplicationRequest) (*model.Application, error) {
	app, err := s.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}

	app.Name = req.Name
	app.Describe = req.Describe
	if req.VerifyRule != "" {
		app.VerifyRule = req.VerifyRule
	}
	if req.Status != nil {
		app.Status = *req.Status
	}
	if req.ResponseTemplate != nil {
		app.ResponseTemplate = *req.ResponseTemplate
	}

	if err := s.apps.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// Delete 软删除应用并清空其接口
func (s *applicationService) Delete(ctx context.Context, uid, id string) error {
	app, err := s.Get(ctx, uid, id)
	if err != nil {
		return err
	}

	if err := s.apps.Delete(ctx, app.ID); err != nil {
		return err
	}

	if err := s.ifaces.DeleteByApp(ctx, app.ID); err != nil {
		logger.Warn("failed to clear interfaces of application %s: %v", app.ID, err)
	}
	if err := s.users.IncrAppsCount(ctx, uid, -1); err != nil {
		logger.Warn("failed to decrease apps_count for user %s: %v", uid, err)
	}

	return nil
}

// ResetKey 重置应用密钥
func (s *applicationService) ResetKey(ctx context.Context, uid, id string) (*model.Application, error) {
	app, err := s.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}

	app.AppKey = uuid.New().String()
	if err := s.apps.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}
