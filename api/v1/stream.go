package v1

import (
	"errors"
	"net/http"

	"virapi/internal/audit"
	"virapi/internal/service"
	"virapi/pkg/api"
	"virapi/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 在生产环境中应该根据实际需求限制来源
	},
}

// StreamHandler 实时请求日志推送处理器
type StreamHandler struct {
	stream     *audit.Stream
	appService service.ApplicationService
}

// NewStreamHandler 创建实时日志处理器实例
func NewStreamHandler(stream *audit.Stream, appService service.ApplicationService) *StreamHandler {
	return &StreamHandler{stream: stream, appService: appService}
}

// Register 注册路由
func (h *StreamHandler) Register(r *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	r.GET("/logs/ws", authMiddleware.HandleAuth(), h.HandleWebSocket)
}

// HandleWebSocket 升级连接，按应用订阅新产生的请求日志
func (h *StreamHandler) HandleWebSocket(c *gin.Context) {
	appID := c.Query("app_id")
	if appID == "" {
		api.Error(c, http.StatusBadRequest, "app_id is required")
		return
	}

	// 校验订阅目标归当前用户所有
	if _, err := h.appService.Get(c.Request.Context(), middleware.CurrentUID(c), appID); err != nil {
		if errors.Is(err, service.ErrAppNotFound) {
			api.Error(c, http.StatusNotFound, err.Error())
			return
		}
		api.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		api.Error(c, http.StatusInternalServerError, "failed to upgrade connection")
		return
	}

	h.stream.AddClient(conn, appID)
}
