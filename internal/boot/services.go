package boot

import (
	"virapi/internal/generator"
	"virapi/internal/service"
	"virapi/pkg/config"
)

// Services 包含所有服务实例
type Services struct {
	UserService       service.UserService
	AppService        service.ApplicationService
	InterfaceService  service.InterfaceService
	RequestLogService service.RequestLogService
}

// InitServices 初始化所有服务实例
func InitServices(cfg *config.Config, repos *Repositories, gen generator.Generator) *Services {
	return &Services{
		UserService:       service.NewUserService(repos.UserRepo, repos.AppRepo),
		AppService:        service.NewApplicationService(repos.AppRepo, repos.UserRepo, repos.InterfaceRepo),
		InterfaceService:  service.NewInterfaceService(repos.InterfaceRepo, repos.AppRepo, gen),
		RequestLogService: service.NewRequestLogService(repos.RequestLogRepo, repos.AppRepo),
	}
}
