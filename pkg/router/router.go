package router

import (
	"net/http"

	v1 "virapi/api/v1"
	"virapi/internal/gateway"
	"virapi/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// Router 路由管理器
type Router struct {
	engine         *gin.Engine
	authMiddleware *middleware.AuthMiddleware
	authHandler    *v1.AuthHandler
	appHandler     *v1.ApplicationHandler
	ifaceHandler   *v1.InterfaceHandler
	logHandler     *v1.RequestLogHandler
	streamHandler  *v1.StreamHandler
	gatewayHandler *gateway.Handler
}

// NewRouter 创建路由管理器实例
func NewRouter(
	engine *gin.Engine,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *v1.AuthHandler,
	appHandler *v1.ApplicationHandler,
	ifaceHandler *v1.InterfaceHandler,
	logHandler *v1.RequestLogHandler,
	streamHandler *v1.StreamHandler,
	gatewayHandler *gateway.Handler,
) *Router {
	return &Router{
		engine:         engine,
		authMiddleware: authMiddleware,
		authHandler:    authHandler,
		appHandler:     appHandler,
		ifaceHandler:   ifaceHandler,
		logHandler:     logHandler,
		streamHandler:  streamHandler,
		gatewayHandler: gatewayHandler,
	}
}

// RegisterRoutes 注册所有路由
//
// 控制台接口挂在 /ajax 下，网关通配路由挂在 /api 下，两棵路由树互不冲突。
func (r *Router) RegisterRoutes() {
	// 健康检查
	r.engine.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	// 控制台
	ajax := r.engine.Group("/ajax")
	{
		r.authHandler.Register(ajax, r.authMiddleware)
		r.appHandler.Register(ajax, r.authMiddleware)
		r.ifaceHandler.Register(ajax, r.authMiddleware)
		r.logHandler.Register(ajax, r.authMiddleware)
		r.streamHandler.Register(ajax, r.authMiddleware)
	}

	// Mock网关
	r.gatewayHandler.Register(r.engine)
}
