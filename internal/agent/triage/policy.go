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

package triage

import "math"

// 决策与门禁常量，属于对外可观察的行为
const (
	ConfidenceThreshold = 0.6
	AnomalyThreshold    = 0.6
	BaseConfidence      = 0.2
	AnomalyWeight       = 0.3
	CorroborationWeight = 0.25
	MinEvidenceSources  = 2
)

// 证据采集参数
const (
	SensorID         = "sensor_A"
	TimeSeriesWindow = 300
	PrimaryLogQuery  = "error|warn|vibration|packet|overheat|gateway|backhaul|loss|cpu"
	FollowupLogQuery = "bearing|gateway|temp|cpu"

	EvidenceLogLimit     = 5
	GatherMoreLogCap     = 10
	RetrievalContextLogs = 5
	RetrievalTopK        = 3
	ReportLogHits        = 3
)

// 报告结论
const (
	RecommendHuman       = "Human confirmation required."
	RecommendRemediation = "Proceed to remediation: schedule bearing inspection and reduce load by 10%."
)

// EvidenceSources 成立的证据源个数（0-3）：异常分达阈值、日志非空、知识库命中非空
func EvidenceSources(anomalyScore float64, logs, kb int) int {
	n := 0
	if anomalyScore >= AnomalyThreshold {
		n++
	}
	if logs > 0 {
		n++
	}
	if kb > 0 {
		n++
	}
	return n
}

// ComputeConfidence 0.2 + 0.3·[异常达阈值] + 0.25·[证据源≥2]，上限 1
func ComputeConfidence(anomalyScore float64, sources int) float64 {
	conf := BaseConfidence
	if anomalyScore >= AnomalyThreshold {
		conf += AnomalyWeight
	}
	if sources >= MinEvidenceSources {
		conf += CorroborationWeight
	}
	return math.Min(1.0, conf)
}

// RemediationAllowed 报告阶段的结论门禁
func RemediationAllowed(confidence float64, sources int) bool {
	return sources >= MinEvidenceSources && confidence >= ConfidenceThreshold
}

// TicketAllowed 工单门禁：置信度达阈值且日志与知识库命中都非空（比报告门禁更严）
func TicketAllowed(confidence float64, logs, kb int) bool {
	return confidence >= ConfidenceThreshold && logs > 0 && kb > 0
}
