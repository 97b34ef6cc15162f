package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"virapi/internal/boot"
	"virapi/internal/generator"
	"virapi/pkg/banner"
	"virapi/pkg/logger"
	"virapi/pkg/middleware"
	"virapi/pkg/redis"
	"virapi/pkg/router"
	"virapi/pkg/validate"
	"virapi/pkg/version"

	"github.com/gin-gonic/gin"
)

// checkFatalErr 用于统一处理错误检查并中断流程。
func checkFatalErr(err error, message string) {
	if err != nil {
		logger.Fatal("%s: %v", message, err)
	}
}

func main() {
	// 加载配置文件（Configuration）
	cfg, err := boot.InitConfig("config/config.yaml")
	checkFatalErr(err, "Failed to load config")

	// 日志文件输出（Log File）
	logger.SetFileOutput(logger.FileConfig{
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	})

	// 根据配置设置 Gin 的运行模式（Gin Mode）
	gin.SetMode(cfg.Server.Mode)

	// 注册请求体自定义校验规则（Validators）
	checkFatalErr(validate.Register(), "Failed to register validators")

	// 初始化数据库连接（PostgreSQL）
	db, err := boot.InitDB(&cfg.Database)
	checkFatalErr(err, "Failed to connect to database")

	sqlDB, err := db.DB()
	checkFatalErr(err, "Failed to get underlying *sql.DB")
	defer sqlDB.Close()

	// 初始化 MongoDB 连接（MongoDB）
	mongodb, err := boot.InitMongo(&cfg.MongoDB)
	checkFatalErr(err, "Failed to connect to MongoDB")
	defer mongodb.Close(context.Background())

	// 初始化 Redis 客户端（Redis，可选）
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(&redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		checkFatalErr(err, "Failed to connect to Redis")
		defer redisClient.Close()
	}

	// 初始化仓储层（Repositories）
	repos := boot.InitRepositories(cfg, db, mongodb, redisClient)

	// 初始化响应生成器（Generator）
	gen := generator.NewMockGenerator(generator.Options{
		MaxDepth:  cfg.Generator.MaxDepth,
		MaxRepeat: cfg.Generator.MaxRepeat,
	})

	// 初始化服务层（Services）
	services := boot.InitServices(cfg, repos, gen)

	// 初始化请求日志组件（Audit Components）
	auditComponents, err := boot.InitAudit(cfg, repos.RequestLogRepo)
	checkFatalErr(err, "Failed to init audit components")

	go auditComponents.Stream.Start()

	// 初始化 HTTP 处理器（Handlers）
	handlers := boot.InitHandlers(cfg, repos, services, auditComponents, gen)

	// 初始化 Gin 引擎和路由（Router）
	r := gin.Default()
	authMiddleware := middleware.NewAuthMiddleware(cfg.Console.JWTSecret)
	router.NewRouter(
		r,
		authMiddleware,
		handlers.AuthHandler,
		handlers.AppHandler,
		handlers.IfaceHandler,
		handlers.LogHandler,
		handlers.StreamHandler,
		handlers.GatewayHandler,
	).RegisterRoutes()

	// 统计相关系统状态信息（System Status）
	userCount, _ := repos.UserRepo.Count(context.Background())
	appCount, _ := repos.AppRepo.Count(context.Background())

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	banner.Print(banner.SystemStatus{
		Version:        version.GetVersion(),
		Addr:           addr,
		PostgresStatus: db != nil,
		MongoDBStatus:  mongodb != nil,
		RedisStatus:    redisClient != nil,
		RedisEnabled:   cfg.Redis.Enabled,
		UserCount:      userCount,
		AppCount:       appCount,
		AuditPoolSize:  cfg.Audit.PoolSize,
	})

	// 启动服务器（Server）
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		logger.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// 等待退出信号，优雅关闭：先停收新请求，再冲刷未落盘的请求日志
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown: %v", err)
	}

	auditComponents.Recorder.Close()
	auditComponents.Stream.Stop()

	logger.Info("Server exited")
}
