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

package planner

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"

	"iiot-responder/pkg/log"
	"iiot-responder/pkg/metrics"
	"iiot-responder/pkg/tracing"
)

// Adapter 获取计划：优先 oracle，任何失败都回退静态计划
type Adapter struct {
	oracle Oracle
	logger *log.Logger
}

// NewAdapter oracle 为 nil 时只使用静态计划
func NewAdapter(oracle Oracle, logger *log.Logger) *Adapter {
	if logger == nil {
		logger = log.Nop()
	}
	return &Adapter{oracle: oracle, logger: logger}
}

// HasOracle 是否配置了外部 oracle
func (a *Adapter) HasOracle() bool {
	if a.oracle == nil {
		return false
	}
	_, static := a.oracle.(StaticPlanner)
	return !static
}

// Resolve 总是返回一个合法计划；第二个返回值是被吸收的 oracle 错误（非致命）
func (a *Adapter) Resolve(ctx context.Context, description string) (*Plan, error) {
	if !a.HasOracle() {
		return StaticPlan(), nil
	}

	provider, model := "unknown", ""
	if o, ok := a.oracle.(*LLMOracle); ok {
		provider, model = o.Provider(), o.Model()
	}
	ctx, span := tracing.StartOracleSpan(ctx, provider, model)
	defer span.End()

	plan, err := a.describe(ctx, description)
	if err == nil {
		return plan, nil
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	metrics.PlannerFallbackTotal.Inc()
	a.logger.Warn("planner oracle failed, using static plan", "provider", provider, "error", err)
	return StaticPlan(), err
}

func (a *Adapter) describe(ctx context.Context, description string) (plan *Plan, err error) {
	defer func() {
		if r := recover(); r != nil {
			plan, err = nil, fmt.Errorf("planner oracle panic: %v", r)
		}
	}()
	plan, err = a.oracle.Describe(ctx, description)
	if err != nil {
		return nil, err
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if plan.Source == "" {
		plan.Source = SourceOracle
	}
	return plan, nil
}
