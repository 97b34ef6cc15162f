package repository

import (
	"context"
	"errors"

	"virapi/internal/model"

	"gorm.io/gorm"
)

// InterfaceRepository 接口定义仓储接口
type InterfaceRepository interface {
	Create(ctx context.Context, iface *model.Interface) error
	GetByID(ctx context.Context, id string) (*model.Interface, error)
	// Match 按(应用, 方法, 路径)精确匹配接口定义；同元组存在多条时取创建最晚的一条，
	// 创建时间相同再按ID倒序，保证结果确定。
	Match(ctx context.Context, appID, method, uri string) (*model.Interface, error)
	ListByApp(ctx context.Context, appID string, offset, limit int) ([]model.Interface, int64, error)
	FindConflict(ctx context.Context, appID, name, method, uri, excludeID string) (*model.Interface, error)
	CountByApp(ctx context.Context, appID string) (int64, error)
	Update(ctx context.Context, iface *model.Interface) error
	Delete(ctx context.Context, id string) error
	DeleteByApp(ctx context.Context, appID string) error
}

// interfaceRepository 接口定义仓储实现
type interfaceRepository struct {
	db *gorm.DB
}

// NewInterfaceRepository 创建接口定义仓储实例
func NewInterfaceRepository(db *gorm.DB) InterfaceRepository {
	return &interfaceRepository{db: db}
}

// Create 创建接口定义
func (r *interfaceRepository) Create(ctx context.Context, iface *model.Interface) error {
	return r.db.WithContext(ctx).Create(iface).Error
}

// GetByID 通过ID获取接口定义
func (r *interfaceRepository) GetByID(ctx context.Context, id string) (*model.Interface, error) {
	var iface model.Interface
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&iface).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &iface, nil
}

// Match 精确匹配接口定义，后创建者优先
func (r *interfaceRepository) Match(ctx context.Context, appID, method, uri string) (*model.Interface, error) {
	var iface model.Interface
	err := r.db.WithContext(ctx).
		Where("app_id = ? AND method = ? AND uri = ?", appID, method, uri).
		Order("created_at DESC, id DESC").
		First(&iface).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &iface, nil
}

// ListByApp 获取指定应用的接口列表
func (r *interfaceRepository) ListByApp(ctx context.Context, appID string, offset, limit int) ([]model.Interface, int64, error) {
	var ifaces []model.Interface
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Interface{}).Where("app_id = ?", appID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&ifaces).Error; err != nil {
		return nil, 0, err
	}

	return ifaces, total, nil
}

// FindConflict 查找同应用下名称重复或(方法,uri)重复的接口
func (r *interfaceRepository) FindConflict(ctx context.Context, appID, name, method, uri, excludeID string) (*model.Interface, error) {
	var iface model.Interface
	query := r.db.WithContext(ctx).
		Where("app_id = ?", appID).
		Where("name = ? OR (method = ? AND uri = ?)", name, method, uri)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&iface).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &iface, nil
}

// CountByApp 统计指定应用的接口数
func (r *interfaceRepository) CountByApp(ctx context.Context, appID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Interface{}).Where("app_id = ?", appID).Count(&total).Error
	return total, err
}

// Update 更新接口定义
func (r *interfaceRepository) Update(ctx context.Context, iface *model.Interface) error {
	return r.db.WithContext(ctx).Save(iface).Error
}

// Delete 删除接口定义
func (r *interfaceRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Interface{}, "id = ?", id).Error
}

// DeleteByApp 清空指定应用的全部接口定义
func (r *interfaceRepository) DeleteByApp(ctx context.Context, appID string) error {
	return r.db.WithContext(ctx).Delete(&model.Interface{}, "app_id = ?", appID).Error
}
