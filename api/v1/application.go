package v1

import (
	"errors"
	"net/http"
	"strconv"

	"virapi/internal/model"
	"virapi/internal/service"
	"virapi/pkg/api"
	"virapi/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// ApplicationHandler 应用管理处理器
type ApplicationHandler struct {
	appService service.ApplicationService
}

// NewApplicationHandler 创建应用管理处理器实例
func NewApplicationHandler(appService service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService}
}

// Register 注册路由
func (h *ApplicationHandler) Register(r *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	apps := r.Group("/apps", authMiddleware.HandleAuth())
	{
		apps.POST("", h.Create)
		apps.GET("", h.List)
		apps.GET("/:id", h.Get)
		apps.PUT("/:id", h.Update)
		apps.DELETE("/:id", h.Delete)
		apps.POST("/:id/reset_key", h.ResetKey)
	}

	// 按slug查基础信息，控制台接口列表页使用
	r.GET("/app_base_info/:slug", authMiddleware.HandleAuth(), h.BaseInfo)
}

// Create 创建应用
func (h *ApplicationHandler) Create(c *gin.Context) {
	var req model.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	app, err := h.appService.Create(c.Request.Context(), middleware.CurrentUID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			api.Error(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrAppSlugTaken):
			api.Error(c, http.StatusConflict, err.Error())
		default:
			api.Error(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	api.Success(c, app)
}

// List 分页列出当前用户的应用
func (h *ApplicationHandler) List(c *gin.Context) {
	offset, limit := pagination(c)
	apps, total, err := h.appService.List(c.Request.Context(), middleware.CurrentUID(c), offset, limit)
	if err != nil {
		api.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	api.Success(c, gin.H{"list": apps, "total": total})
}

// Get 获取应用详情
func (h *ApplicationHandler) Get(c *gin.Context) {
	app, err := h.appService.Get(c.Request.Context(), middleware.CurrentUID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrAppNotFound) {
			api.Error(c, http.StatusNotFound, err.Error())
			return
		}
		api.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	api.Success(c, app)
}

// BaseInfo 按slug获取应用基础信息
func (h *ApplicationHandler) BaseInfo(c *gin.Context) {
	app, err := h.appService.GetBySlug(c.Request.Context(), middleware.CurrentUID(c), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrAppNotFound) {
			api.Error(c, http.StatusNotFound, err.Error())
			return
		}
		api.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	api.Success(c, app)
}

// Update 更新应用
func (h *ApplicationHandler) Update(c *gin.Context) {
	var req model.UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	app, err := h.appService.Update(c.Request.Context(), middleware.CurrentUID(c), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrAppNotFound) {
			api.Error(c, http.StatusNotFound, err.Error())
			return
		}
		api.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	api.Success(c, app)
}

// Delete 删除应用（软删除，接口一并清理）
func (h *ApplicationHandler) Delete(c *gin.Context) {
	if err := h.appService.Delete(c.Request.Context(), middleware.CurrentUID(c), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrAppNotFound) {
			api.Error(c, http.StatusNotFound, err.Error())
			return
		}
		api.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	api.Success(c, nil)
}

// ResetKey 重置应用密钥
func (h *ApplicationHandler) ResetKey(c *gin.Context) {
	app, err := h.appService.ResetKey(c.Request.Context(), middleware.CurrentUID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrAppNotFound) {
			api.Error(c, http.StatusNotFound, err.Error())
			return
		}
		api.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	api.Success(c, gin.H{"app_key": app.AppKey})
}

// pagination 解析分页参数，page从1开始
func pagination(c *gin.Context) (offset, limit int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return (page - 1) * size, size
}
