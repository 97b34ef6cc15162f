package v1

import (
	"errors"
	"net/http"

	"virapi/internal/model"
	"virapi/internal/service"
	"virapi/pkg/api"
	"virapi/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// InterfaceHandler 接口管理处理器
type InterfaceHandler struct {
	ifaceService service.InterfaceService
}

// NewInterfaceHandler 创建接口管理处理器实例
func NewInterfaceHandler(ifaceService service.InterfaceService) *InterfaceHandler {
	return &InterfaceHandler{ifaceService: ifaceService}
}

// Register 注册路由
func (h *InterfaceHandler) Register(r *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	ifaces := r.Group("/interfaces", authMiddleware.HandleAuth())
	{
		ifaces.POST("", h.Create)
		ifaces.GET("", h.List)
		ifaces.GET("/:id", h.Get)
		ifaces.PUT("/:id", h.Update)
		ifaces.DELETE("/:id", h.Delete)
		ifaces.POST("/debug", h.Debug)
		ifaces.POST("/empty", h.Empty)
	}
}

// Create 创建接口
func (h *InterfaceHandler) Create(c *gin.Context) {
	var req model.CreateInterfaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	iface, err := h.ifaceService.Create(c.Request.Context(), middleware.CurrentUID(c), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	api.Success(c, iface)
}

// List 分页列出应用下的接口
func (h *InterfaceHandler) List(c *gin.Context) {
	appID := c.Query("app_id")
	if appID == "" {
		api.Error(c, http.StatusBadRequest, "app_id is required")
		return
	}

	offset, limit := pagination(c)
	list, total, err := h.ifaceService.List(c.Request.Context(), middleware.CurrentUID(c), appID, offset, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	api.Success(c, gin.H{"list": list, "total": total})
}

// Get 获取接口详情
func (h *InterfaceHandler) Get(c *gin.Context) {
	iface, err := h.ifaceService.Get(c.Request.Context(), middleware.CurrentUID(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	api.Success(c, iface)
}

// Update 更新接口
func (h *InterfaceHandler) Update(c *gin.Context) {
	var req model.UpdateInterfaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	iface, err := h.ifaceService.Update(c.Request.Context(), middleware.CurrentUID(c), c.Param("id"), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	api.Success(c, iface)
}

// Delete 删除接口
func (h *InterfaceHandler) Delete(c *gin.Context) {
	if err := h.ifaceService.Delete(c.Request.Context(), middleware.CurrentUID(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	api.Success(c, nil)
}

// Debug 调试生成规则，直接返回一次渲染后的完整响应体
func (h *InterfaceHandler) Debug(c *gin.Context) {
	var req model.DebugInterfaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	appID := c.Query("app_id")
	if appID == "" {
		api.Error(c, http.StatusBadRequest, "app_id is required")
		return
	}

	body, err := h.ifaceService.Debug(c.Request.Context(), middleware.CurrentUID(c), appID, req.ResponseRules)
	if err != nil {
		h.writeError(c, err)
		return
	}
	api.Success(c, body)
}

// Empty 清空应用下全部接口
func (h *InterfaceHandler) Empty(c *gin.Context) {
	appID := c.Query("app_id")
	if appID == "" {
		api.Error(c, http.StatusBadRequest, "app_id is required")
		return
	}

	if err := h.ifaceService.Empty(c.Request.Context(), middleware.CurrentUID(c), appID); err != nil {
		h.writeError(c, err)
		return
	}
	api.Success(c, nil)
}

func (h *InterfaceHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAppNotFound), errors.Is(err, service.ErrInterfaceNotFound):
		api.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAppInactive), errors.Is(err, service.ErrTooManyInterfaces):
		api.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInterfaceNameTaken), errors.Is(err, service.ErrInterfaceURITaken):
		api.Error(c, http.StatusConflict, err.Error())
	default:
		api.Error(c, http.StatusInternalServerError, err.Error())
	}
}
