package triage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// RenderReport 生成 Markdown 事件报告；trace 为已渲染的 "## Trace" 段落
func RenderReport(scenario, description string, confidence float64, ev Evidence, verdict, trace string) (string, error) {
	logs := "None"
	if len(ev.Logs) > 0 {
		n := len(ev.Logs)
		if n > ReportLogHits {
			n = ReportLogHits
		}
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ev.Logs[:n]); err != nil {
			return "", fmt.Errorf("encode log hits: %w", err)
		}
		logs = strings.TrimRight(buf.String(), "\n")
	}

	cites := "None"
	if len(ev.KB) > 0 {
		lines := make([]string, len(ev.KB))
		for i, h := range ev.KB {
			lines[i] = fmt.Sprintf("- %s (score=%.3f)", h.ID, h.Score)
		}
		cites = strings.Join(lines, "\n")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Incident Report: %s\n\n", scenario)
	fmt.Fprintf(&b, "**Summary**: %s\n\n", description)
	fmt.Fprintf(&b, "**Confidence**: %.2f\n\n", confidence)
	b.WriteString("## Evidence\n")
	fmt.Fprintf(&b, "- **Anomaly Score**: %.2f\n", ev.AnomalyScore)
	b.WriteString("- **Log hits** (trimmed):\n")
	b.WriteString(logs)
	b.WriteString("\n- **RAG citations**:\n")
	b.WriteString(cites)
	b.WriteString("\n\n## Recommendation\n")
	b.WriteString(verdict)
	b.WriteString("\n\n")
	b.WriteString(trace)
	b.WriteString("\n")
	return b.String(), nil
}
