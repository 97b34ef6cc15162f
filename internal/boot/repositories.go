package boot

import (
	"time"

	"virapi/internal/repository"
	"virapi/pkg/config"
	"virapi/pkg/database"
	"virapi/pkg/redis"

	"gorm.io/gorm"
)

// Repositories 包含所有仓储实例
type Repositories struct {
	UserRepo       repository.UserRepository
	AppRepo        repository.ApplicationRepository
	InterfaceRepo  repository.InterfaceRepository
	RequestLogRepo repository.RequestLogRepository
}

// InitRepositories 初始化所有仓储实例
//
// 开启Redis缓存时，用户与应用仓储套上读穿缓存装饰器，网关解析路径
// 的热点读走缓存。
func InitRepositories(cfg *config.Config, db *gorm.DB, mongodb *database.MongoClient, redisClient *redis.Client) *Repositories {
	userRepo := repository.NewUserRepository(db)
	appRepo := repository.NewApplicationRepository(db)

	if cfg.Redis.Enabled && redisClient != nil {
		ttl := time.Duration(cfg.Redis.CacheTTL) * time.Second
		userRepo = repository.NewCachedUserRepository(userRepo, redisClient, ttl)
		appRepo = repository.NewCachedApplicationRepository(appRepo, redisClient, ttl)
	}

	return &Repositories{
		UserRepo:       userRepo,
		AppRepo:        appRepo,
		InterfaceRepo:  repository.NewInterfaceRepository(db),
		RequestLogRepo: repository.NewRequestLogRepository(mongodb),
	}
}
