package http

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"iiot-responder/internal/api/http/middleware"
)

// Router HTTP 路由器
type Router struct {
	handler        *Handler
	middleware     *middleware.Middleware
	extra          []app.HandlerFunc
	metricsEnabled bool
}

// NewRouter 创建新的 HTTP 路由器
func NewRouter(handler *Handler, middleware *middleware.Middleware) *Router {
	return &Router{
		handler:        handler,
		middleware:     middleware,
		metricsEnabled: true,
	}
}

// SetMetricsEnabled 是否注册 /metrics
func (r *Router) SetMetricsEnabled(enabled bool) {
	r.metricsEnabled = enabled
}

// Use 追加全局中间件，须在 Build 之前调用（如链路追踪中间件）
func (r *Router) Use(mw ...app.HandlerFunc) {
	r.extra = append(r.extra, mw...)
}

// Build 创建 Hertz 实例并注册路由，addr 如 ":8080"
func (r *Router) Build(addr string, opts ...config.Option) *server.Hertz {
	opts = append([]config.Option{server.WithHostPorts(addr)}, opts...)
	h := server.New(opts...)

	h.Use(r.middleware.Recovery(), r.middleware.Logger())
	h.Use(r.extra...)

	api := h.Group("/api", r.middleware.CORS())
	api.GET("/health", r.handler.HealthCheck)
	api.GET("/scenarios", r.handler.ListScenarios)
	api.POST("/incidents", r.handler.RunIncident)
	api.OPTIONS("/*path", func(ctx context.Context, c *app.RequestContext) {
		c.SetStatusCode(consts.StatusNoContent)
	})

	if r.metricsEnabled {
		h.GET("/metrics", r.handler.Metrics)
	}
	return h
}
