package service

import (
	"context"

	"virapi/internal/gateway"
	"virapi/internal/generator"
	"virapi/internal/model"
	"virapi/internal/repository"
	"virapi/pkg/logger"
)

// maxInterfacesPerApp 单应用最多接口数
const maxInterfacesPerApp = 30

// InterfaceService 接口管理服务接口
type InterfaceService interface {
	Create(ctx context.Context, uid string, req *model.CreateInterfaceRequest) (*model.Interface, error)
	Get(ctx context.Context, uid, id string) (*model.Interface, error)
	List(ctx context.Context, uid, appID string, offset, limit int) ([]model.Interface, int64, error)
	Update(ctx context.Context, uid, id string, req *model.UpdateInterfaceRequest) (*model.Interface, error)
	Delete(ctx context.Context, uid, id string) error
	Empty(ctx context.Context, uid, appID string) error
	// Debug 不经网关直接用指定规则树渲染一次完整响应体，供控制台预览。
	Debug(ctx context.Context, uid, appID string, rules model.RuleTree) (map[string]any, error)
}

// interfaceService 接口管理服务实现
type interfaceService struct {
	ifaces repository.InterfaceRepository
	apps   repository.ApplicationRepository
	gen    generator.Generator
}

// NewInterfaceService 创建接口管理服务
func NewInterfaceService(
	ifaces repository.InterfaceRepository,
	apps repository.ApplicationRepository,
	gen generator.Generator,
) InterfaceService {
	return &interfaceService{ifaces: ifaces, apps: apps, gen: gen}
}

// ownedApp 校验应用属主与状态
func (s *interfaceService) ownedApp(ctx context.Context, uid, appID string) (*model.Application, error) {
	app, err := s.apps.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app == nil || app.UID != uid || app.Status == model.AppStatusDeleted {
		return nil, ErrAppNotFound
	}
	return app, nil
}

// Create 创建接口
func (s *interfaceService) Create(ctx context.Context, uid string, req *model.CreateInterfaceRequest) (*model.Interface, error) {
	app, err := s.ownedApp(ctx, uid, req.AppID)
	if err != nil {
		return nil, err
	}
	if !app.IsActive() {
		return nil, ErrAppInactive
	}
	if app.APICount >= maxInterfacesPerApp {
		return nil, ErrTooManyInterfaces
	}

	// 同应用下接口名与(方法,uri)都不允许重复
	conflict, err := s.ifaces.FindConflict(ctx, app.ID, req.Name, req.Method, req.URI, "")
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		if conflict.Name == req.Name {
			return nil, ErrInterfaceNameTaken
		}
		return nil, ErrInterfaceURITaken
	}

	iface := &model.Interface{
		AppID:         app.ID,
		AppSlug:       app.Slug,
		UID:           uid,
		VirUID:        app.VirUID,
		Name:          req.Name,
		Describe:      req.Describe,
		URI:           req.URI,
		Method:        req.Method,
		ResponseRules: req.ResponseRules,
		Creator:       uid,
		Status:        1,
	}

	if err := s.ifaces.Create(ctx, iface); err != nil {
		return nil, err
	}

	// 接口计数独立更新，偏差可接受
	if err := s.apps.IncrAPICount(ctx, app.ID, 1); err != nil {
		logger.Warn("failed to increase api_count for application %s: %v", app.ID, err)
	}

	return iface, nil
}

// Get 获取接口详情（校验属主）
func (s *interfaceService) Get(ctx context.Context, uid, id string) (*model.Interface, error) {
	iface, err := s.ifaces.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if iface == nil || iface.UID != uid {
		return nil, ErrInterfaceNotFound
	}
	return iface, nil
}

// List 获取指定应用的接口列表
func (s *interfaceService) List(ctx context.Context, uid, appID string, offset, limit int) ([]model.Interface, int64, error) {
	if _, err := s.ownedApp(ctx, uid, appID); err != nil {
		return nil, 0, err
	}
	return s.ifaces.ListByApp(ctx, appID, offset, limit)
}

// Update 更新接口
func (s *interfaceService) Update(ctx context.Context, uid, id string, req *model.UpdateInterfaceRequest) (*model.Interface, error) {
	iface, err := s.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}

	conflict, err := s.ifaces.FindConflict(ctx, iface.AppID, req.Name, req.Method, req.URI, iface.ID)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		if conflict.Name == req.Name {
			return nil, ErrInterfaceNameTaken
		}
		return nil, ErrInterfaceURITaken
	}

	iface.Name = req.Name
	iface.Describe = req.Describe
	iface.URI = req.URI
	iface.Method = req.Method
	iface.ResponseRules = req.ResponseRules

	if err := s.ifaces.Update(ctx, iface); err != nil {
		return nil, err
	}
	return iface, nil
}

// Delete 删除接口
func (s *interfaceService) Delete(ctx context.Context, uid, id string) error {
	iface, err := s.Get(ctx, uid, id)
	if err != nil {
		return err
	}

	if err := s.ifaces.Delete(ctx, iface.ID); err != nil {
		return err
	}

	if err := s.apps.IncrAPICount(ctx, iface.AppID, -1); err != nil {
		logger.Warn("failed to decrease api_count for application %s: %v", iface.AppID, err)
	}

	return nil
}

// Empty 清空指定应用的全部接口
func (s *interfaceService) Empty(ctx context.Context, uid, appID string) error {
	app, err := s.ownedApp(ctx, uid, appID)
	if err != nil {
		return err
	}

	if err := s.ifaces.DeleteByApp(ctx, app.ID); err != nil {
		return err
	}

	return s.apps.SetAPICount(ctx, app.ID, 0)
}

// Debug 预览一次完整响应体
func (s *interfaceService) Debug(ctx context.Context, uid, appID string, rules model.RuleTree) (map[string]any, error) {
	app, err := s.ownedApp(ctx, uid, appID)
	if err != nil {
		return nil, err
	}

	decoded, err := rules.Decode()
	if err != nil {
		return nil, err
	}
	payload, err := s.gen.Generate(decoded)
	if err != nil {
		return nil, err
	}

	return gateway.SucceedBody(app.ResponseTemplate, payload), nil
}
