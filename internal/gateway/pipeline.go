package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"virapi/internal/generator"
	"virapi/internal/model"
	"virapi/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Terminal 流水线终态响应
type Terminal struct {
	Status int
	Body   map[string]any
}

// internalTerminal 基础设施错误统一映射为500，用默认模板
func internalTerminal(err error) *Terminal {
	logger.Error("gateway lookup failed: %v", err)
	return &Terminal{
		Status: http.StatusInternalServerError,
		Body:   FailedBody(model.DefaultResponseTemplate(), ""),
	}
}

// Recorder 请求日志投递接口，实现必须立即返回、不阻塞调用方
type Recorder interface {
	Record(log *model.RequestLog)
}

// pipelineCtx 单次请求的流水线上下文
//
// 各状态只向后追加数据，失败即短路为终态响应，无重试与回退。
type pipelineCtx struct {
	virUID   string
	appSlug  string
	uri      string // 去掉用户/应用前缀后的接口路径
	method   string
	clientIP string

	user    *model.User
	app     *model.Application
	iface   *model.Interface
	payload any
	body    map[string]any
}

// state 流水线状态：推进上下文或给出终态响应
type state func(c *gin.Context, pc *pipelineCtx) *Terminal

// Handler Mock服务网关
//
// 请求处理顺序固定：ParsePath → ResolveScope → ResolveInterface →
// Generate → Synthesize → Respond，响应写出后异步投递请求日志。
type Handler struct {
	resolver *ScopeResolver
	matcher  *Matcher
	gen      generator.Generator
	recorder Recorder
}

// NewHandler 创建网关处理器
func NewHandler(resolver *ScopeResolver, matcher *Matcher, gen generator.Generator, recorder Recorder) *Handler {
	return &Handler{
		resolver: resolver,
		matcher:  matcher,
		gen:      gen,
		recorder: recorder,
	}
}

// Register 注册网关路由
//
// 路径形态由路由器约束，进入流水线的请求必然带全三段。
func (h *Handler) Register(r *gin.Engine) {
	pattern := "/api/:vir_uid/:app_slug/*api_uri"
	r.GET(pattern, h.Serve)
	r.POST(pattern, h.Serve)
	r.PUT(pattern, h.Serve)
	r.DELETE(pattern, h.Serve)
}

// Serve 处理一次Mock调用
func (h *Handler) Serve(c *gin.Context) {
	pc := &pipelineCtx{
		virUID:   c.Param("vir_uid"),
		appSlug:  c.Param("app_slug"),
		uri:      c.Param("api_uri"), // gin通配参数自带前导斜杠，与接口定义的URI形态一致
		method:   c.Request.Method,
		clientIP: ResolveClientIP(c.GetHeader("X-Forwarded-For"), c.Request.RemoteAddr),
	}

	states := []state{
		h.resolveScope,
		h.resolveInterface,
		h.generate,
		h.synthesize,
	}
	for _, next := range states {
		if term := next(c, pc); term != nil {
			c.JSON(term.Status, term.Body)
			return
		}
	}

	// Respond：唯一能影响客户端可见结果的最后一步
	c.JSON(http.StatusOK, pc.body)

	// Log：响应写出后异步投递，不影响延迟与结果
	h.recorder.Record(h.buildLog(c, pc))
}

// resolveScope 解析用户与应用并校验令牌
func (h *Handler) resolveScope(c *gin.Context, pc *pipelineCtx) *Terminal {
	user, app, term := h.resolver.Resolve(c.Request.Context(), pc.virUID, pc.appSlug, func(rule string) string {
		return ExtractToken(c.Request, rule)
	})
	if term != nil {
		return term
	}
	pc.user = user
	pc.app = app
	return nil
}

// resolveInterface 匹配接口定义
func (h *Handler) resolveInterface(c *gin.Context, pc *pipelineCtx) *Terminal {
	iface, term := h.matcher.Match(c.Request.Context(), pc.app, pc.method, pc.uri)
	if term != nil {
		return term
	}
	pc.iface = iface
	return nil
}

// generate 展开响应规则树
//
// 生成失败映射为500，规则树格式问题无恢复策略。
func (h *Handler) generate(c *gin.Context, pc *pipelineCtx) *Terminal {
	rules, err := pc.iface.ResponseRules.Decode()
	if err == nil {
		pc.payload, err = h.gen.Generate(rules)
	}
	if err != nil {
		logger.Error("generate failed for interface %s: %v", pc.iface.ID, err)
		return &Terminal{
			Status: http.StatusInternalServerError,
			Body:   FailedBody(pc.app.ResponseTemplate, MsgGenerationFailed),
		}
	}
	return nil
}

// synthesize 按应用模板包裹响应体
func (h *Handler) synthesize(c *gin.Context, pc *pipelineCtx) *Terminal {
	pc.body = SucceedBody(pc.app.ResponseTemplate, pc.payload)
	return nil
}

// buildLog 构造请求日志记录
func (h *Handler) buildLog(c *gin.Context, pc *pipelineCtx) *model.RequestLog {
	result := model.RequestResultFailed
	if IsSucceedBody(pc.app.ResponseTemplate, pc.body) {
		result = model.RequestResultSucceed
	}

	return &model.RequestLog{
		AppID:    pc.app.ID,
		AppSlug:  pc.app.Slug,
		APIID:    pc.iface.ID,
		URI:      strings.TrimPrefix(c.Request.URL.RequestURI(), "/api"),
		Method:   pc.method,
		Params:   requestParams(c),
		Response: pc.body,
		Result:   result,
		Referer:  c.GetHeader("Referer"),
		IP:       pc.clientIP,
		Device:   c.GetHeader("User-Agent"),
		Created:  time.Now(),
	}
}

// requestParams 提取请求参数：POST/PUT取JSON请求体，其余取查询参数
func requestParams(c *gin.Context) map[string]any {
	if c.Request.Method == http.MethodPost || c.Request.Method == http.MethodPut {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil || len(data) == 0 {
			return nil
		}
		var params map[string]any
		if err := json.Unmarshal(data, &params); err != nil {
			return nil
		}
		return params
	}

	query := c.Request.URL.Query()
	if len(query) == 0 {
		return nil
	}
	params := make(map[string]any, len(query))
	for key, values := range query {
		if len(values) == 1 {
			params[key] = values[0]
		} else {
			params[key] = values
		}
	}
	return params
}
