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

// Package planner 事件处置计划：外部 oracle（可失败）与静态回退
package planner

import (
	"fmt"
	"strings"
)

// 计划来源
const (
	SourceStatic = "static"
	SourceOracle = "oracle"
)

// Plan 处置计划；仅作记录，不改变流水线的阶段顺序
type Plan struct {
	Steps          []string `json:"steps"`
	StopCondition  string   `json:"stop_condition"`
	ConfidenceHint float64  `json:"confidence_hint"`
	Source         string   `json:"source,omitempty"`
}

// StaticPlan 静态回退计划
func StaticPlan() *Plan {
	return &Plan{
		Steps:          []string{"triage", "timeseries", "logs", "hypothesize", "verify", "remediate"},
		StopCondition:  "confidence>=0.6 and evidence_sources>=2",
		ConfidenceHint: 0.3,
		Source:         SourceStatic,
	}
}

// Validate 检查计划形状：步骤非空、停止条件非空、置信度提示在 [0,1]
func (p *Plan) Validate() error {
	if p == nil {
		return fmt.Errorf("plan is nil")
	}
	if len(p.Steps) == 0 {
		return fmt.Errorf("plan has no steps")
	}
	for i, s := range p.Steps {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("plan step %d is empty", i)
		}
	}
	if strings.TrimSpace(p.StopCondition) == "" {
		return fmt.Errorf("plan has no stop_condition")
	}
	if p.ConfidenceHint < 0 || p.ConfidenceHint > 1 {
		return fmt.Errorf("confidence_hint %v out of [0,1]", p.ConfidenceHint)
	}
	return nil
}

// String 单行文本，用于 trace
func (p *Plan) String() string {
	if p == nil {
		return "<nil>"
	}
	return fmt.Sprintf("{steps:[%s], stop_condition:%s, confidence_hint:%g}",
		strings.Join(p.Steps, ", "), p.StopCondition, p.ConfidenceHint)
}
