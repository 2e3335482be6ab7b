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

package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// 全局 Registry，供 CLI/API 注册与暴露
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(
		StageDuration, RunTotal, TicketTotal,
		PlannerFallbackTotal, Confidence, RetrievalHits,
	)
}

// StageDuration 流水线阶段耗时（秒）
var StageDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "responder_stage_duration_seconds",
		Help:    "流水线阶段耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"stage"},
)

// RunTotal 事件处置总数（按结论）
var RunTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "responder_run_total",
		Help: "事件处置总数（按结论）",
	},
	[]string{"decision"}, // remediate | human_confirmation | failed
)

// TicketTotal 工单门禁结果
var TicketTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "responder_ticket_total",
		Help: "工单门禁结果",
	},
	[]string{"result"}, // created | skipped | error
)

// PlannerFallbackTotal Planner oracle 失败后回退静态计划的次数
var PlannerFallbackTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "responder_planner_fallback_total",
		Help: "Planner 回退静态计划次数",
	},
)

// Confidence 决策置信度分布
var Confidence = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "responder_confidence",
		Help:    "决策置信度分布",
		Buckets: []float64{0.2, 0.45, 0.5, 0.6, 0.75, 1.0},
	},
)

// RetrievalHits 每次知识库检索返回的笔记数
var RetrievalHits = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "responder_retrieval_hits",
		Help:    "知识库检索命中数",
		Buckets: []float64{0, 1, 2, 3, 5, 10},
	},
)

// WritePrometheus 将 Prometheus 文本格式写入 w（供 Hertz 与 CLI 复用）
func WritePrometheus(w io.Writer) error {
	metrics, err := DefaultRegistry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range metrics {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
