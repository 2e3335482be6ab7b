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

// Package eval 在全部场景上运行流水线并与标注比对
package eval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"iiot-responder/internal/agent/triage"
	"iiot-responder/internal/dataset"
	"iiot-responder/pkg/log"
)

// 预测类别
const (
	LabelNetwork = "network_packet_loss"
	LabelBearing = "bearing_wear"
	LabelUnknown = "unknown"
)

var (
	networkLogKeys    = []string{"packet", "gateway", "backhaul", "retry", "loss"}
	bearingLogKeys    = []string{"vibration", "bearing", "lubric", "temp"}
	networkReportKeys = []string{"packet", "gateway", "backhaul", "loss"}
	bearingReportKeys = []string{"vibration", "bearing"}
)

// Row 单个场景的评估结果
type Row struct {
	Scenario   string  `json:"scenario"`
	Label      string  `json:"label"`
	Pred       string  `json:"pred"`
	Correct    bool    `json:"correct"`
	Confidence float64 `json:"confidence"`
}

// Runner 执行单次处置
type Runner interface {
	Run(ctx context.Context, scenario, description string) (*triage.Result, error)
}

// ScenarioSource 场景列表与标注
type ScenarioSource interface {
	ListScenarios(ctx context.Context) ([]string, error)
	LoadScenario(ctx context.Context, name string) (*dataset.Scenario, error)
}

// Classify 先看日志证据，再退回报告文本
func Classify(ev triage.Evidence, reportMD string) string {
	inLogs := func(keys []string) bool {
		for _, rec := range ev.Logs {
			if containsAny(strings.ToLower(rec.String()), keys) {
				return true
			}
		}
		return false
	}
	if inLogs(networkLogKeys) {
		return LabelNetwork
	}
	if inLogs(bearingLogKeys) {
		return LabelBearing
	}

	report := strings.ToLower(reportMD)
	if containsAny(report, networkReportKeys) {
		return LabelNetwork
	}
	if containsAny(report, bearingReportKeys) {
		return LabelBearing
	}
	return LabelUnknown
}

func containsAny(s string, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// Run 按场景名顺序逐个评估；描述固定为 "Scenario <name>"
func Run(ctx context.Context, runner Runner, src ScenarioSource, logger *log.Logger) ([]Row, error) {
	if logger == nil {
		logger = log.Nop()
	}
	names, err := src.ListScenarios(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	rows := make([]Row, 0, len(names))
	for _, name := range names {
		sc, err := src.LoadScenario(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("load scenario %s: %w", name, err)
		}
		res, err := runner.Run(ctx, name, "Scenario "+name)
		if err != nil {
			return nil, fmt.Errorf("run scenario %s: %w", name, err)
		}
		pred := Classify(res.State.Evidence(), res.State.ReportMD())
		rows = append(rows, Row{
			Scenario:   name,
			Label:      sc.Label,
			Pred:       pred,
			Correct:    pred == sc.Label,
			Confidence: res.State.Confidence(),
		})
		logger.Info("scenario evaluated", "scenario", name, "label", sc.Label, "pred", pred)
	}
	return rows, nil
}

// Accuracy 正确比例；无样本时为 0
func Accuracy(rows []Row) float64 {
	if len(rows) == 0 {
		return 0
	}
	n := 0
	for _, r := range rows {
		if r.Correct {
			n++
		}
	}
	return float64(n) / float64(len(rows))
}

// Confusion 混淆矩阵，Matrix[label][pred]
type Confusion struct {
	Categories []string
	Matrix     [][]int
}

// ConfusionMatrix 类别为标注与预测的并集，按字典序
func ConfusionMatrix(rows []Row) Confusion {
	set := map[string]bool{}
	for _, r := range rows {
		set[r.Label] = true
		set[r.Pred] = true
	}
	cats := make([]string, 0, len(set))
	for c := range set {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	index := make(map[string]int, len(cats))
	for i, c := range cats {
		index[c] = i
	}
	mat := make([][]int, len(cats))
	for i := range mat {
		mat[i] = make([]int, len(cats))
	}
	for _, r := range rows {
		mat[index[r.Label]][index[r.Pred]]++
	}
	return Confusion{Categories: cats, Matrix: mat}
}
