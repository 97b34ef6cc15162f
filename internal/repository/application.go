package repository

import (
	"context"
	"errors"

	"virapi/internal/model"

	"gorm.io/gorm"
)

// ApplicationRepository 应用仓储接口
type ApplicationRepository interface {
	Create(ctx context.Context, app *model.Application) error
	GetByID(ctx context.Context, id string) (*model.Application, error)
	GetByOwnerAndSlug(ctx context.Context, uid, slug string) (*model.Application, error)
	ListByOwner(ctx context.Context, uid string, offset, limit int) ([]model.Application, int64, error)
	Update(ctx context.Context, app *model.Application) error
	Delete(ctx context.Context, id string) error
	IncrAPICount(ctx context.Context, id string, delta int) error
	SetAPICount(ctx context.Context, id string, count int) error
	UpdateOwnerVirUID(ctx context.Context, uid, virUID string) error
	Count(ctx context.Context) (int64, error)
}

// applicationRepository 应用仓储实现
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository 创建应用仓储实例
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create 创建应用
func (r *applicationRepository) Create(ctx context.Context, app *model.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// GetByID 通过ID获取应用
func (r *applicationRepository) GetByID(ctx context.Context, id string) (*model.Application, error) {
	var app model.Application
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &app, nil
}

// GetByOwnerAndSlug 通过(属主, slug)获取应用
func (r *applicationRepository) GetByOwnerAndSlug(ctx context.Context, uid, slug string) (*model.Application, error) {
	var app model.Application
	if err := r.db.WithContext(ctx).Where("uid = ? AND slug = ?", uid, slug).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &app, nil
}

// ListByOwner 获取指定用户的应用列表
func (r *applicationRepository) ListByOwner(ctx context.Context, uid string, offset, limit int) ([]model.Application, int64, error) {
	var apps []model.Application
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Application{}).Where("uid = ? AND status <> ?", uid, model.AppStatusDeleted)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&apps).Error; err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

// Update 更新应用
func (r *applicationRepository) Update(ctx context.Context, app *model.Application) error {
	return r.db.WithContext(ctx).Save(app).Error
}

// Delete 软删除应用
func (r *applicationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&model.Application{}).
		Where("id = ?", id).
		UpdateColumn("status", model.AppStatusDeleted).Error
}

// IncrAPICount 调整应用接口计数（独立原子更新，不在事务内）
func (r *applicationRepository) IncrAPICount(ctx context.Context, id string, delta int) error {
	return r.db.WithContext(ctx).Model(&model.Application{}).
		Where("id = ?", id).
		UpdateColumn("api_count", gorm.Expr("api_count + ?", delta)).Error
}

// SetAPICount 重置应用接口计数
func (r *applicationRepository) SetAPICount(ctx context.Context, id string, count int) error {
	return r.db.WithContext(ctx).Model(&model.Application{}).
		Where("id = ?", id).
		UpdateColumn("api_count", count).Error
}

// UpdateOwnerVirUID 同步属主vir_uid变更到其全部应用的冗余字段
func (r *applicationRepository) UpdateOwnerVirUID(ctx context.Context, uid, virUID string) error {
	return r.db.WithContext(ctx).Model(&model.Application{}).
		Where("uid = ?", uid).
		UpdateColumn("vir_uid", virUID).Error
}

// Count 统计应用数
func (r *applicationRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Application{}).Count(&total).Error
	return total, err
}
