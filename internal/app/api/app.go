// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzslog "github.com/hertz-contrib/logger/slog"
	"github.com/hertz-contrib/obs-opentelemetry/provider"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"

	"iiot-responder/internal/api/http"
	"iiot-responder/internal/api/http/middleware"
	"iiot-responder/internal/app"
	pkglog "iiot-responder/pkg/log"
)

// otelProviderShutdown 用于优雅关闭时关闭 OpenTelemetry provider
type otelProviderShutdown interface {
	Shutdown(ctx context.Context) error
}

// App API 应用（装配 HTTP Router、Handler、Middleware）
type App struct {
	bootstrap    *app.Bootstrap
	router       *http.Router
	hertz        *server.Hertz
	otelProvider otelProviderShutdown
}

// NewApp 创建 API 应用（由 cmd/api 调用）
func NewApp(bootstrap *app.Bootstrap) (*App, error) {
	if bootstrap == nil || bootstrap.Pipeline == nil {
		return nil, fmt.Errorf("api: bootstrap 未初始化流水线")
	}
	handler := http.NewHandler(bootstrap.Pipeline, bootstrap.Scenarios, bootstrap.Logger)
	router := http.NewRouter(handler, middleware.NewMiddleware(bootstrap.Logger))
	router.SetMetricsEnabled(bootstrap.Config.Monitoring.Prometheus.Enable)
	return &App{bootstrap: bootstrap, router: router}, nil
}

// Run 启动 HTTP 服务，addr 如 ":8080"
func (a *App) Run(addr string) error {
	cfg := a.bootstrap.Config
	a.bootstrap.Logger.Info("API 服务启动", "addr", addr)

	// 使用 Hertz slog 扩展，与 bootstrap 配置对齐
	var output io.Writer = os.Stdout
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("打开日志文件失败: %w", err)
		}
		output = f
	}
	levelVar := &slog.LevelVar{}
	levelVar.Set(pkglog.ParseLevel(cfg.Log.Level))
	hlog.SetLogger(hertzslog.NewLogger(
		hertzslog.WithOutput(output),
		hertzslog.WithLevel(levelVar),
	))

	opts := []config.Option{
		server.WithExitWaitTime(parseDuration(cfg.API.Timeout, 5*time.Second)),
	}
	// 可选：启用链路追踪（OpenTelemetry）
	if cfg.Monitoring.Tracing.Enable {
		exportEndpoint := cfg.Monitoring.Tracing.ExportEndpoint
		if exportEndpoint == "" {
			exportEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
		}
		if exportEndpoint != "" {
			popts := []provider.Option{
				provider.WithServiceName(cfg.Monitoring.Tracing.ServiceName),
				provider.WithExportEndpoint(exportEndpoint),
			}
			if cfg.Monitoring.Tracing.Insecure {
				popts = append(popts, provider.WithInsecure())
			}
			a.otelProvider = provider.NewOpenTelemetryProvider(popts...)
			tracerOpt, tcfg := hertztracing.NewServerTracer()
			opts = append(opts, tracerOpt)
			a.router.Use(hertztracing.ServerMiddleware(tcfg))
			a.bootstrap.Logger.Info("链路追踪已启用", "service_name", cfg.Monitoring.Tracing.ServiceName, "endpoint", exportEndpoint)
		}
	}
	a.hertz = a.router.Build(addr, opts...)
	return a.hertz.Run()
}

// Shutdown 优雅关闭（传入 ctx 以支持超时，如 cmd 层 WithTimeout）
func (a *App) Shutdown(ctx context.Context) error {
	if a.otelProvider != nil {
		_ = a.otelProvider.Shutdown(ctx)
	}
	if a.hertz != nil {
		return a.hertz.Shutdown(ctx)
	}
	return nil
}

// parseDuration 解析时长字符串，无效或空时返回 defaultVal
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	return d
}
