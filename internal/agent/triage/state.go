package triage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"iiot-responder/internal/dataset"
	"iiot-responder/internal/pipeline/query"
)

// ErrAlreadyWritten 一次性字段被重复写入
var ErrAlreadyWritten = errors.New("field already written")

// Evidence 证据快照
type Evidence struct {
	AnomalyScore float64             `json:"anomaly_score"`
	Logs         []dataset.LogRecord `json:"logs"`
	KB           []query.Hit         `json:"kb"`
}

// Sources 成立的证据源个数
func (e Evidence) Sources() int {
	return EvidenceSources(e.AnomalyScore, len(e.Logs), len(e.KB))
}

// IncidentState 单次运行的事件状态。scenario 与 description 创建后不变；
// confidence 与 report 只写一次；logs 只追加
type IncidentState struct {
	mu          sync.RWMutex
	scenario    string
	description string

	confidence    float64
	confidenceSet bool

	evidence Evidence

	reportMD  string
	reportSet bool
}

// NewIncidentState 创建初始状态
func NewIncidentState(scenario, description string) *IncidentState {
	return &IncidentState{
		scenario:    scenario,
		description: description,
		evidence:    Evidence{Logs: []dataset.LogRecord{}, KB: []query.Hit{}},
	}
}

// Scenario 场景标识
func (s *IncidentState) Scenario() string { return s.scenario }

// Description 事件描述
func (s *IncidentState) Description() string { return s.description }

// Confidence 当前置信度（decide 之前为 0）
func (s *IncidentState) Confidence() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.confidence
}

// SetConfidence 写入置信度，仅允许一次
func (s *IncidentState) SetConfidence(v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("confidence %v out of [0,1]", v)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.confidenceSet {
		return fmt.Errorf("confidence: %w", ErrAlreadyWritten)
	}
	s.confidence = v
	s.confidenceSet = true
	return nil
}

// Evidence 返回证据副本
func (s *IncidentState) Evidence() Evidence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Evidence{
		AnomalyScore: s.evidence.AnomalyScore,
		Logs:         append([]dataset.LogRecord{}, s.evidence.Logs...),
		KB:           append([]query.Hit{}, s.evidence.KB...),
	}
}

// SetEvidence 整体写入一个采集阶段的证据
func (s *IncidentState) SetEvidence(anomalyScore float64, logs []dataset.LogRecord, kb []query.Hit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evidence = Evidence{
		AnomalyScore: anomalyScore,
		Logs:         append([]dataset.LogRecord{}, logs...),
		KB:           append([]query.Hit{}, kb...),
	}
}

// AppendLogs 追加日志并截断到 limit 条，已有条目不会被移除；返回新增条数
func (s *IncidentState) AppendLogs(hits []dataset.LogRecord, limit int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := len(s.evidence.Logs)
	room := limit - prev
	if room <= 0 {
		return 0
	}
	if len(hits) > room {
		hits = hits[:room]
	}
	s.evidence.Logs = append(s.evidence.Logs, hits...)
	return len(s.evidence.Logs) - prev
}

// ReportMD 报告正文，write_report 之前为空
func (s *IncidentState) ReportMD() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reportMD
}

// SetReport 写入报告，仅允许一次
func (s *IncidentState) SetReport(md string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reportSet {
		return fmt.Errorf("report: %w", ErrAlreadyWritten)
	}
	s.reportMD = md
	s.reportSet = true
	return nil
}

type stateJSON struct {
	Scenario    string   `json:"scenario"`
	Description string   `json:"description"`
	Confidence  float64  `json:"confidence"`
	Evidence    Evidence `json:"evidence"`
	ReportMD    string   `json:"report_md"`
}

// MarshalJSON 对外的状态视图
func (s *IncidentState) MarshalJSON() ([]byte, error) {
	return json.Marshal(stateJSON{
		Scenario:    s.scenario,
		Description: s.description,
		Confidence:  s.Confidence(),
		Evidence:    s.Evidence(),
		ReportMD:    s.ReportMD(),
	})
}
