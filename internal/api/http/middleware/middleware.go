package middleware

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/middlewares/server/recovery"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"iiot-responder/pkg/log"
)

// Middleware 中间件管理器
type Middleware struct {
	logger *log.Logger
}

// NewMiddleware 创建新的中间件管理器
func NewMiddleware(logger *log.Logger) *Middleware {
	if logger == nil {
		logger = log.Nop()
	}
	return &Middleware{logger: logger}
}

// CORS CORS 中间件；OPTIONS 预检直接返回 204
func (m *Middleware) CORS() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		c.Response.Header.Set("Access-Control-Allow-Origin", "*")
		c.Response.Header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Response.Header.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding")
		c.Response.Header.Set("Access-Control-Max-Age", "86400")

		if string(c.Method()) == consts.MethodOptions {
			c.AbortWithStatus(consts.StatusNoContent)
			return
		}
		c.Next(ctx)
	}
}

// Logger 请求日志中间件
func (m *Middleware) Logger() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()
		c.Next(ctx)
		m.logger.Info("http request",
			"method", string(c.Method()),
			"path", string(c.Path()),
			"status", c.Response.StatusCode(),
			"client_ip", c.ClientIP(),
			"latency", time.Since(start).String(),
		)
	}
}

// Recovery 恢复中间件
func (m *Middleware) Recovery() app.HandlerFunc {
	return recovery.Recovery()
}
