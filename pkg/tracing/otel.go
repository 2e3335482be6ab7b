// Copyright 2026 fanjia1024
// 事件处置链路的 OpenTelemetry span

package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName         = "iiot-responder"
	defaultServiceName = "iiot-responder"
)

// OTelConfig OTLP/HTTP 导出配置
type OTelConfig struct {
	ServiceName    string
	ExportEndpoint string
	Insecure       bool
}

// ShutdownFunc 刷新并关闭 exporter
type ShutdownFunc func(context.Context) error

// InitTracer 安装全局 TracerProvider，批量导出到 ExportEndpoint
func InitTracer(ctx context.Context, cfg OTelConfig) (ShutdownFunc, error) {
	if cfg.ExportEndpoint == "" {
		return nil, fmt.Errorf("tracing: export endpoint is empty")
	}
	name := cfg.ServiceName
	if name == "" {
		name = defaultServiceName
	}

	clientOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.ExportEndpoint)}
	if cfg.Insecure {
		clientOpts = append(clientOpts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient(clientOpts...))
	if err != nil {
		return nil, fmt.Errorf("tracing: exporter: %w", err)
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(name)))
	if err != nil {
		return nil, fmt.Errorf("tracing: resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter), sdktrace.WithResource(res))
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

func start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartRunSpan 一次 run 的根 span
func StartRunSpan(ctx context.Context, runID, scenario string) (context.Context, trace.Span) {
	return start(ctx, "incident.triage",
		attribute.String("run.id", runID),
		attribute.String("incident.scenario", scenario))
}

// StartStageSpan 流水线阶段 span，名称为 stage.<name>
func StartStageSpan(ctx context.Context, stage string) (context.Context, trace.Span) {
	return start(ctx, "stage."+stage, attribute.String("stage.name", stage))
}

// StartOracleSpan planner oracle 调用
func StartOracleSpan(ctx context.Context, provider, model string) (context.Context, trace.Span) {
	return start(ctx, "planner.oracle",
		attribute.String("oracle.provider", provider),
		attribute.String("oracle.model", model))
}
