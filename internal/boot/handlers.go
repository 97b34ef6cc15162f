package boot

import (
	"time"

	v1 "virapi/api/v1"
	"virapi/internal/gateway"
	"virapi/internal/generator"
	"virapi/pkg/config"
)

// Handlers 包含所有HTTP处理器
type Handlers struct {
	AuthHandler    *v1.AuthHandler
	AppHandler     *v1.ApplicationHandler
	IfaceHandler   *v1.InterfaceHandler
	LogHandler     *v1.RequestLogHandler
	StreamHandler  *v1.StreamHandler
	GatewayHandler *gateway.Handler
}

// InitHandlers 初始化所有HTTP处理器
func InitHandlers(cfg *config.Config, repos *Repositories, services *Services, auditComponents *AuditComponents, gen generator.Generator) *Handlers {
	resolver := gateway.NewScopeResolver(repos.UserRepo, repos.AppRepo)
	matcher := gateway.NewMatcher(repos.InterfaceRepo)

	return &Handlers{
		AuthHandler: v1.NewAuthHandler(
			services.UserService,
			cfg.Console.AdminKey,
			cfg.Console.JWTSecret,
			time.Duration(cfg.Console.TokenExpire)*time.Second,
		),
		AppHandler:     v1.NewApplicationHandler(services.AppService),
		IfaceHandler:   v1.NewInterfaceHandler(services.InterfaceService),
		LogHandler:     v1.NewRequestLogHandler(services.RequestLogService),
		StreamHandler:  v1.NewStreamHandler(auditComponents.Stream, services.AppService),
		GatewayHandler: gateway.NewHandler(resolver, matcher, gen, auditComponents.Recorder),
	}
}
