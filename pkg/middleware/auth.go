package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// BearerSchema Bearer认证方案
	BearerSchema = "Bearer "
	// ContextKeyUID 上下文中当前用户ID的键
	ContextKeyUID = "uid"
	// CookieConsoleToken Cookie中会话令牌的键
	CookieConsoleToken = "console_token"
)

// AuthMiddleware 控制台认证中间件
type AuthMiddleware struct {
	secret []byte
}

// NewAuthMiddleware 创建认证中间件实例
func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

// HandleAuth 校验会话令牌
func (m *AuthMiddleware) HandleAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		uid, err := m.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "token expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			}
			c.Abort()
			return
		}

		c.Set(ContextKeyUID, uid)
		c.Next()
	}
}

// ValidateToken 解析会话令牌，返回其标识的用户ID
func (m *AuthMiddleware) ValidateToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errors.New("invalid token claims")
	}
	return claims.Subject, nil
}

// extractToken 从请求中提取令牌：Authorization头、Cookie、查询参数依次尝试
//
// 查询参数形式是为WebSocket握手保留的，浏览器端无法为其设置请求头。
func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, BearerSchema) {
		return strings.TrimPrefix(auth, BearerSchema)
	}

	if cookie, err := c.Cookie(CookieConsoleToken); err == nil && cookie != "" {
		return cookie
	}

	return c.Query("token")
}

// CurrentUID 取当前请求的用户ID
func CurrentUID(c *gin.Context) string {
	if uid, ok := c.Get(ContextKeyUID); ok {
		if s, ok := uid.(string); ok {
			return s
		}
	}
	return ""
}
