package triage

import (
	"context"

	"iiot-responder/internal/agent/memory"
	"iiot-responder/internal/agent/planner"
	"iiot-responder/internal/dataset"
	"iiot-responder/internal/pipeline/query"
)

// EvidenceSource 时序与日志数据源
type EvidenceSource interface {
	GetTimeSeries(ctx context.Context, sensorID string, window int, scenario string) (*dataset.TimeSeries, error)
	SearchLogs(ctx context.Context, query string, scenario string) ([]dataset.LogRecord, error)
}

// KnowledgeBase 知识库检索
type KnowledgeBase interface {
	Query(text string, topK int) []query.Hit
}

// Planner 计划来源；返回的 error 为非致命的 oracle 失败
type Planner interface {
	Resolve(ctx context.Context, description string) (*planner.Plan, error)
}

// ArtifactSink 工单落地，返回位置
type ArtifactSink interface {
	Store(ctx context.Context, content string) (string, error)
}

// Run 在阶段之间显式传递的运行上下文：状态、trace 与计划
type Run struct {
	ID    string
	State *IncidentState
	Trace *memory.Trace
	Plan  *planner.Plan

	PlanError      error
	TicketLocation string

	failure error
}

func newRun(id, scenario, description string) *Run {
	return &Run{
		ID:    id,
		State: NewIncidentState(scenario, description),
		Trace: memory.NewTrace(),
	}
}
