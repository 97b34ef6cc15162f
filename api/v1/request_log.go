package v1

import (
	"errors"
	"net/http"
	"strconv"

	"virapi/internal/repository"
	"virapi/internal/service"
	"virapi/pkg/api"
	"virapi/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// RequestLogHandler 请求日志处理器
type RequestLogHandler struct {
	logService service.RequestLogService
}

// NewRequestLogHandler 创建请求日志处理器实例
func NewRequestLogHandler(logService service.RequestLogService) *RequestLogHandler {
	return &RequestLogHandler{logService: logService}
}

// Register 注册路由
func (h *RequestLogHandler) Register(r *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	r.GET("/logs", authMiddleware.HandleAuth(), h.List)
}

// List 分页查询应用的请求日志
func (h *RequestLogHandler) List(c *gin.Context) {
	filter := repository.RequestLogFilter{
		AppID: c.Query("app_id"),
		APIID: c.Query("api_id"),
	}
	if filter.AppID == "" {
		api.Error(c, http.StatusBadRequest, "app_id is required")
		return
	}
	if v := c.Query("result"); v != "" {
		result, err := strconv.Atoi(v)
		if err != nil || (result != 0 && result != 1) {
			api.Error(c, http.StatusBadRequest, "result must be 0 or 1")
			return
		}
		filter.Result = &result
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	list, total, err := h.logService.List(c.Request.Context(), middleware.CurrentUID(c), filter, page, perPage)
	if err != nil {
		if errors.Is(err, service.ErrAppNotFound) {
			api.Error(c, http.StatusNotFound, err.Error())
			return
		}
		api.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	api.Success(c, gin.H{"list": list, "total": total})
}
