package gateway

import (
	"context"
	"net"
	"net/http"
	"strings"

	"virapi/internal/model"
	"virapi/internal/repository"
)

// ScopeResolver 凭证与作用域解析器
//
// 把(公开用户标识, 应用slug, 令牌)解析为已授权的(用户, 应用)对。
// 纯读取，无副作用。
type ScopeResolver struct {
	users repository.UserRepository
	apps  repository.ApplicationRepository
}

// NewScopeResolver 创建作用域解析器
func NewScopeResolver(users repository.UserRepository, apps repository.ApplicationRepository) *ScopeResolver {
	return &ScopeResolver{users: users, apps: apps}
}

// Resolve 解析(用户, 应用)并校验令牌
//
// 失败返回终态响应：未知用户/应用为404（未解析到应用模板时用全局默认模板），
// 令牌不符为401（用应用自身模板）。
func (r *ScopeResolver) Resolve(ctx context.Context, virUID, slug string, token func(rule string) string) (*model.User, *model.Application, *Terminal) {
	user, err := r.users.GetByVirUID(ctx, virUID)
	if err != nil {
		return nil, nil, internalTerminal(err)
	}
	if user == nil || !user.IsActive() {
		return nil, nil, &Terminal{
			Status: http.StatusNotFound,
			Body:   FailedBody(model.DefaultResponseTemplate(), MsgUserNotExist),
		}
	}

	app, err := r.apps.GetByOwnerAndSlug(ctx, user.ID, slug)
	if err != nil {
		return nil, nil, internalTerminal(err)
	}
	if app == nil || !app.IsActive() {
		return nil, nil, &Terminal{
			Status: http.StatusNotFound,
			Body:   FailedBody(model.DefaultResponseTemplate(), MsgAppNotExist),
		}
	}

	// 按应用配置的携带方式取令牌，逐字节比较
	if token(app.VerifyRule) != app.AppKey {
		return nil, nil, &Terminal{
			Status: http.StatusUnauthorized,
			Body:   FailedBody(app.ResponseTemplate, MsgTokenError),
		}
	}

	return user, app, nil
}

// ExtractToken 按应用的verify_rule从请求中取出令牌
//
// header方式读固定请求头app-token，param方式读查询参数_token，
// compatible方式请求头优先、其次查询参数。
func ExtractToken(req *http.Request, rule string) string {
	header := req.Header.Get("app-token")
	param := req.URL.Query().Get("_token")

	switch rule {
	case model.VerifyRuleHeader:
		return header
	case model.VerifyRuleParam:
		return param
	default: // compatible
		if header != "" {
			return header
		}
		return param
	}
}

// ResolveClientIP 解析真实客户端IP
//
// 取代理转发链的第一个条目；若它是回环地址则取第二个（跳过本机反向代理），
// 链为空或不可用时回退到直连对端地址。
func ResolveClientIP(forwarded string, remoteAddr string) string {
	var chain []string
	for _, entry := range strings.Split(forwarded, ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			chain = append(chain, entry)
		}
	}

	if len(chain) > 0 {
		if !isLoopback(chain[0]) {
			return chain[0]
		}
		if len(chain) > 1 {
			return chain[1]
		}
	}

	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

func isLoopback(ip string) bool {
	if ip == "127.0.0.1" || ip == "::1" {
		return true
	}
	parsed := net.ParseIP(ip)
	return parsed != nil && parsed.IsLoopback()
}
