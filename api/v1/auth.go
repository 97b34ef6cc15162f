package v1

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"virapi/internal/model"
	"virapi/internal/service"
	"virapi/pkg/api"
	"virapi/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthHandler 控制台认证处理器
type AuthHandler struct {
	userService service.UserService
	adminKey    string
	jwtSecret   []byte
	tokenExpire time.Duration
}

// NewAuthHandler 创建认证处理器实例
func NewAuthHandler(userService service.UserService, adminKey, jwtSecret string, tokenExpire time.Duration) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		adminKey:    adminKey,
		jwtSecret:   []byte(jwtSecret),
		tokenExpire: tokenExpire,
	}
}

// Register 注册路由
func (h *AuthHandler) Register(r *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	r.POST("/login", h.Login)
	r.POST("/register", h.RegisterUser)
	r.GET("/my_account", authMiddleware.HandleAuth(), h.MyAccount)
	r.POST("/my_account", authMiddleware.HandleAuth(), h.UpdateProfile)
	r.POST("/logout", authMiddleware.HandleAuth(), h.Logout)
}

// Login 控制台登录：管理密钥+工作区标识换取会话令牌
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.AdminKey), []byte(h.adminKey)) != 1 {
		api.Error(c, http.StatusUnauthorized, service.ErrAdminKeyInvalid.Error())
		return
	}

	user, err := h.userService.GetByVirUID(c.Request.Context(), req.VirUID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			api.Error(c, http.StatusNotFound, err.Error())
			return
		}
		api.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	if !user.IsActive() {
		api.Error(c, http.StatusForbidden, "user is frozen")
		return
	}

	token, err := h.issueToken(user.ID)
	if err != nil {
		api.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.SetCookie(middleware.CookieConsoleToken, token, int(h.tokenExpire.Seconds()), "/", "", false, true)
	api.Success(c, model.LoginResponse{
		Token:     token,
		ExpiresIn: int(h.tokenExpire.Seconds()),
	})
}

// RegisterUser 创建用户（凭管理密钥）
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req model.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.AdminKey), []byte(h.adminKey)) != 1 {
		api.Error(c, http.StatusUnauthorized, service.ErrAdminKeyInvalid.Error())
		return
	}

	user, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVirUIDTaken), errors.Is(err, service.ErrEmailTaken):
			api.Error(c, http.StatusConflict, err.Error())
		default:
			api.Error(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	api.Success(c, toAccountResponse(user))
}

// MyAccount 获取当前账号信息
func (h *AuthHandler) MyAccount(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), middleware.CurrentUID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			api.Error(c, http.StatusNotFound, err.Error())
			return
		}
		api.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	api.Success(c, toAccountResponse(user))
}

// UpdateProfile 编辑个人资料
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), middleware.CurrentUID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			api.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrVirUIDTaken), errors.Is(err, service.ErrEmailTaken):
			api.Error(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrVirUIDLocked):
			api.Error(c, http.StatusBadRequest, err.Error())
		default:
			api.Error(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	api.Success(c, toAccountResponse(user))
}

// Logout 退出登录（清除会话Cookie，令牌本身到期失效）
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.CookieConsoleToken, "", -1, "/", "", false, true)
	api.Success(c, nil)
}

func (h *AuthHandler) issueToken(uid string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   uid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(h.tokenExpire)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtSecret)
}

func toAccountResponse(user *model.User) model.AccountResponse {
	return model.AccountResponse{
		VirUID:        user.VirUID,
		Nickname:      user.Nickname,
		Email:         user.Email,
		AppsCount:     user.AppsCount,
		VirUIDUpdated: user.VirUIDUpdated,
		Created:       user.CreatedAt,
	}
}
