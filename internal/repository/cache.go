package repository

import (
	"context"
	"encoding/json"
	"time"

	"virapi/internal/model"
	"virapi/pkg/logger"
	"virapi/pkg/redis"
)

// 网关实体缓存键前缀
const (
	cacheKeyUser = "virapi:user:"
	cacheKeyApp  = "virapi:app:"
)

// cachedUserRepository 带Redis读穿缓存的用户仓储装饰器
//
// 只缓存网关解析路径用到的 GetByVirUID；写操作直接透传并失效缓存。
// 缓存读写失败一律回退到底层仓储，不影响请求结果。
type cachedUserRepository struct {
	UserRepository
	cache *redis.Client
	ttl   time.Duration
}

// NewCachedUserRepository 创建带缓存的用户仓储
func NewCachedUserRepository(inner UserRepository, cache *redis.Client, ttl time.Duration) UserRepository {
	return &cachedUserRepository{UserRepository: inner, cache: cache, ttl: ttl}
}

// GetByVirUID 优先读缓存
func (r *cachedUserRepository) GetByVirUID(ctx context.Context, virUID string) (*model.User, error) {
	key := cacheKeyUser + virUID

	if data, err := r.cache.Get(ctx, key); err == nil {
		var user model.User
		if err := json.Unmarshal([]byte(data), &user); err == nil {
			return &user, nil
		}
	} else if !redis.IsNil(err) {
		logger.Warn("user cache read failed: %v", err)
	}

	user, err := r.UserRepository.GetByVirUID(ctx, virUID)
	if err != nil || user == nil {
		return user, err
	}

	if data, err := json.Marshal(user); err == nil {
		if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
			logger.Warn("user cache write failed: %v", err)
		}
	}
	return user, nil
}

// Update 更新并失效缓存
func (r *cachedUserRepository) Update(ctx context.Context, user *model.User) error {
	if err := r.UserRepository.Update(ctx, user); err != nil {
		return err
	}
	if err := r.cache.Del(ctx, cacheKeyUser+user.VirUID); err != nil {
		logger.Warn("user cache invalidate failed: %v", err)
	}
	return nil
}

// cachedApplicationRepository 带Redis读穿缓存的应用仓储装饰器
type cachedApplicationRepository struct {
	ApplicationRepository
	cache *redis.Client
	ttl   time.Duration
}

// NewCachedApplicationRepository 创建带缓存的应用仓储
func NewCachedApplicationRepository(inner ApplicationRepository, cache *redis.Client, ttl time.Duration) ApplicationRepository {
	return &cachedApplicationRepository{ApplicationRepository: inner, cache: cache, ttl: ttl}
}

func appCacheKey(uid, slug string) string {
	return cacheKeyApp + uid + ":" + slug
}

// GetByOwnerAndSlug 优先读缓存
func (r *cachedApplicationRepository) GetByOwnerAndSlug(ctx context.Context, uid, slug string) (*model.Application, error) {
	key := appCacheKey(uid, slug)

	if data, err := r.cache.Get(ctx, key); err == nil {
		var app model.Application
		if err := json.Unmarshal([]byte(data), &app); err == nil {
			return &app, nil
		}
	} else if !redis.IsNil(err) {
		logger.Warn("application cache read failed: %v", err)
	}

	app, err := r.ApplicationRepository.GetByOwnerAndSlug(ctx, uid, slug)
	if err != nil || app == nil {
		return app, err
	}

	if data, err := json.Marshal(app); err == nil {
		if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
			logger.Warn("application cache write failed: %v", err)
		}
	}
	return app, nil
}

// Update 更新并失效缓存
func (r *cachedApplicationRepository) Update(ctx context.Context, app *model.Application) error {
	if err := r.ApplicationRepository.Update(ctx, app); err != nil {
		return err
	}
	if err := r.cache.Del(ctx, appCacheKey(app.UID, app.Slug)); err != nil {
		logger.Warn("application cache invalidate failed: %v", err)
	}
	return nil
}

// Delete 软删除并失效缓存
func (r *cachedApplicationRepository) Delete(ctx context.Context, id string) error {
	app, err := r.ApplicationRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.ApplicationRepository.Delete(ctx, id); err != nil {
		return err
	}
	if app != nil {
		if err := r.cache.Del(ctx, appCacheKey(app.UID, app.Slug)); err != nil {
			logger.Warn("application cache invalidate failed: %v", err)
		}
	}
	return nil
}
