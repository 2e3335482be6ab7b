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

// Package triage 事件处置流水线：六个固定阶段组成的 Eino 线性图
package triage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"

	"iiot-responder/internal/agent/memory"
	"iiot-responder/internal/agent/planner"
	"iiot-responder/pkg/log"
	"iiot-responder/pkg/metrics"
	"iiot-responder/pkg/tracing"
)

// GraphName 编译后图的名称（Eino Dev 中可见）
const GraphName = "incident_triage"

// 运行结论
const (
	DecisionRemediate = "remediate"
	DecisionHuman     = "human_confirmation"
	DecisionFailed    = "failed"
)

// Deps 流水线协作者
type Deps struct {
	Source    EvidenceSource
	Knowledge KnowledgeBase
	Planner   Planner
	Sink      ArtifactSink
	Logger    *log.Logger
}

// Option 流水线选项
type Option func(*Pipeline)

// WithIDGenerator 自定义 run ID 生成
func WithIDGenerator(fn func() string) Option {
	return func(p *Pipeline) { p.newID = fn }
}

// Pipeline 编译好的处置流水线；Run 串行执行
type Pipeline struct {
	mu        sync.Mutex
	source    EvidenceSource
	knowledge KnowledgeBase
	planner   Planner
	sink      ArtifactSink
	logger    *log.Logger
	newID     func() string
	runnable  compose.Runnable[*Run, *Run]
}

// Result 一次运行的输出
type Result struct {
	RunID          string         `json:"run_id"`
	State          *IncidentState `json:"state"`
	Plan           *planner.Plan  `json:"plan"`
	PlanError      string         `json:"plan_error,omitempty"`
	Decision       string         `json:"decision"`
	Trace          []memory.Event `json:"trace"`
	TraceMarkdown  string         `json:"trace_markdown"`
	TicketLocation string         `json:"ticket_location,omitempty"`
}

// TicketCreated 是否写出了工单
func (r *Result) TicketCreated() bool {
	return r.TicketLocation != ""
}

// NewPipeline 校验协作者并编译图；Planner 为空时使用静态计划
func NewPipeline(ctx context.Context, deps Deps, opts ...Option) (*Pipeline, error) {
	if deps.Source == nil {
		return nil, fmt.Errorf("triage: evidence source is required")
	}
	if deps.Knowledge == nil {
		return nil, fmt.Errorf("triage: knowledge base is required")
	}
	if deps.Sink == nil {
		return nil, fmt.Errorf("triage: artifact sink is required")
	}
	p := &Pipeline{
		source:    deps.Source,
		knowledge: deps.Knowledge,
		planner:   deps.Planner,
		sink:      deps.Sink,
		logger:    deps.Logger,
		newID:     func() string { return "run-" + uuid.NewString() },
	}
	if p.planner == nil {
		p.planner = planner.NewAdapter(nil, deps.Logger)
	}
	if p.logger == nil {
		p.logger = log.Nop()
	}
	for _, opt := range opts {
		opt(p)
	}

	runnable, err := p.compile(ctx)
	if err != nil {
		return nil, err
	}
	p.runnable = runnable
	return p, nil
}

// compile 构建线性图 START -> plan -> ... -> maybe_ticket -> END
func (p *Pipeline) compile(ctx context.Context) (compose.Runnable[*Run, *Run], error) {
	g := compose.NewGraph[*Run, *Run]()
	stages := p.stages()
	for _, name := range StageNames {
		if err := g.AddLambdaNode(name, compose.InvokableLambda(p.node(name, stages[name]))); err != nil {
			return nil, fmt.Errorf("add node %s: %w", name, err)
		}
	}
	prev := compose.START
	for _, name := range StageNames {
		if err := g.AddEdge(prev, name); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", prev, name, err)
		}
		prev = name
	}
	if err := g.AddEdge(prev, compose.END); err != nil {
		return nil, fmt.Errorf("add edge %s->end: %w", prev, err)
	}
	runnable, err := g.Compile(ctx, compose.WithGraphName(GraphName))
	if err != nil {
		return nil, fmt.Errorf("compile triage graph: %w", err)
	}
	return runnable, nil
}

// node 将阶段包装为图节点：span、耗时指标，失败时记录 StageError 到 run
func (p *Pipeline) node(name string, fn stageFunc) func(context.Context, *Run) (*Run, error) {
	return func(ctx context.Context, run *Run) (*Run, error) {
		ctx, span := tracing.StartStageSpan(ctx, name)
		defer span.End()
		start := time.Now()
		err := fn(ctx, run)
		metrics.StageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		if err != nil {
			se := &StageError{Stage: name, Err: err}
			run.failure = se
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return run, se
		}
		return run, nil
	}
}

// Run 处置一个事件。硬失败（数据源缺失、工单写入失败）返回 *StageError
func (p *Pipeline) Run(ctx context.Context, scenario, description string) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	run := newRun(p.newID(), scenario, description)
	ctx, span := tracing.StartRunSpan(ctx, run.ID, scenario)
	defer span.End()

	logger := p.logger.With("run_id", run.ID, "scenario", scenario)
	logger.Info("incident run started")

	_, err := p.runnable.Invoke(ctx, run)
	if run.failure != nil {
		err = run.failure
	}
	if err != nil {
		metrics.RunTotal.WithLabelValues(DecisionFailed).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("incident run failed", "error", err)
		return nil, err
	}

	ev := run.State.Evidence()
	decision := DecisionHuman
	if RemediationAllowed(run.State.Confidence(), ev.Sources()) {
		decision = DecisionRemediate
	}
	metrics.RunTotal.WithLabelValues(decision).Inc()

	res := &Result{
		RunID:          run.ID,
		State:          run.State,
		Plan:           run.Plan,
		Decision:       decision,
		Trace:          run.Trace.Events(),
		TraceMarkdown:  run.Trace.Markdown(),
		TicketLocation: run.TicketLocation,
	}
	if run.PlanError != nil {
		res.PlanError = run.PlanError.Error()
	}
	logger.Info("incident run finished",
		"confidence", run.State.Confidence(),
		"decision", decision,
		"ticket", res.TicketLocation)
	return res, nil
}
