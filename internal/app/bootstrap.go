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

package app

import (
	"context"
	"fmt"

	"iiot-responder/internal/agent/planner"
	"iiot-responder/internal/agent/triage"
	"iiot-responder/internal/dataset"
	"iiot-responder/internal/pipeline/ingest"
	"iiot-responder/internal/pipeline/query"
	"iiot-responder/internal/storage/object"
	"iiot-responder/pkg/config"
	"iiot-responder/pkg/log"
	"iiot-responder/pkg/secrets"
)

// Bootstrap 统一初始化：供 cli、api 与 devops 复用，避免在 cmd 内装配流水线
type Bootstrap struct {
	Config    *config.Config
	Logger    *log.Logger
	Source    *dataset.Source
	Retriever *query.Retriever
	Planner   *planner.Adapter
	Tickets   *object.TicketSink
	Pipeline  *triage.Pipeline
	Scenarios ScenarioService
}

type options struct {
	dryRun  bool
	logger  *log.Logger
	secrets secrets.Store
	pipe    []triage.Option
}

// Option 装配选项
type Option func(*options)

// WithDryRun 工单写入内存而不落盘
func WithDryRun(dryRun bool) Option {
	return func(o *options) { o.dryRun = dryRun }
}

// WithLogger 使用已有 Logger，不再按配置新建
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSecrets 覆盖按配置创建的 secret store
func WithSecrets(s secrets.Store) Option {
	return func(o *options) { o.secrets = s }
}

// WithPipelineOptions 透传给 triage.NewPipeline
func WithPipelineOptions(opts ...triage.Option) Option {
	return func(o *options) { o.pipe = append(o.pipe, opts...) }
}

// NewBootstrap 根据配置创建 Bootstrap（日志、数据源、知识库索引、planner、工单、流水线）
func NewBootstrap(ctx context.Context, cfg *config.Config, opts ...Option) (*Bootstrap, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		var err error
		logger, err = log.NewLogger(&log.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File})
		if err != nil {
			return nil, fmt.Errorf("初始化日志失败: %w", err)
		}
	}

	source := dataset.NewSource(cfg.Data.Root)

	docs, err := ingest.LoadCorpus(ctx, cfg.Knowledge.Dir, logger)
	if err != nil {
		return nil, fmt.Errorf("加载知识库失败: %w", err)
	}
	retriever := query.NewRetriever(docs, query.WithSnippetChars(cfg.Knowledge.SnippetChars))
	logger.Info("knowledge base indexed", "dir", cfg.Knowledge.Dir, "docs", retriever.Len())

	store := o.secrets
	if store == nil && cfg.Planner.Provider != "static" {
		store, err = secrets.NewStore(cfg.Secrets)
		if err != nil {
			return nil, fmt.Errorf("初始化 secret store 失败: %w", err)
		}
	}
	adapter, err := NewPlannerFromConfig(ctx, cfg.Planner, store, logger)
	if err != nil {
		return nil, fmt.Errorf("初始化 planner 失败: %w", err)
	}

	kind := "file"
	if o.dryRun {
		kind = "memory"
	}
	objects, err := object.NewStore(kind, cfg.Ticket.Dir)
	if err != nil {
		return nil, fmt.Errorf("初始化工单存储失败: %w", err)
	}
	tickets := object.NewTicketSink(objects)

	pipeline, err := triage.NewPipeline(ctx, triage.Deps{
		Source:    source,
		Knowledge: retriever,
		Planner:   adapter,
		Sink:      tickets,
		Logger:    logger,
	}, o.pipe...)
	if err != nil {
		return nil, fmt.Errorf("编译处置流水线失败: %w", err)
	}

	return &Bootstrap{
		Config:    cfg,
		Logger:    logger,
		Source:    source,
		Retriever: retriever,
		Planner:   adapter,
		Tickets:   tickets,
		Pipeline:  pipeline,
		Scenarios: NewScenarioService(source),
	}, nil
}
