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

// Package anomaly 基于中位数与 MAD 的时序尖峰评分
package anomaly

import (
	"math"
	"sort"
)

// 评分映射常量：ratio<=RatioFloor 记 0，ratio>=RatioFloor+RatioSpan 记 1
const (
	MinSamples = 5
	RatioFloor = 3.0
	RatioSpan  = 7.0
	Epsilon    = 1e-8
)

// ReasonTooShort 样本不足时的原因
const ReasonTooShort = "too_short"

// Result 评分结果与诊断信息
type Result struct {
	Score  float64 `json:"score"`
	Reason string  `json:"reason,omitempty"`
	N      int     `json:"n"`
	Ratio  float64 `json:"peak_to_mad"`
	Median float64 `json:"median"`
}

// Score 将样本序列映射为 [0,1] 的异常置信度
func Score(points []float64) Result {
	n := len(points)
	if n < MinSamples {
		return Result{Score: 0, Reason: ReasonTooShort, N: n}
	}

	med := Median(points)
	dev := make([]float64, n)
	peak := 0.0
	for i, x := range points {
		d := math.Abs(x - med)
		dev[i] = d
		if d > peak {
			peak = d
		}
	}
	mad := Median(dev) + Epsilon
	ratio := peak / mad

	return Result{
		Score:  clamp((ratio-RatioFloor)/RatioSpan, 0, 1),
		N:      n,
		Ratio:  ratio,
		Median: med,
	}
}

// Median 中位数；偶数个样本取中间两值均值，空输入返回 0
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
