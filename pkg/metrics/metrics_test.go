package metrics

import (
	"bytes"
	"strings"
	"testing"
)

func TestWritePrometheus(t *testing.T) {
	RunTotal.WithLabelValues("remediate").Inc()
	TicketTotal.WithLabelValues("skipped").Inc()
	StageDuration.WithLabelValues("decide").Observe(0.01)

	var buf bytes.Buffer
	if err := WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`responder_run_total{decision="remediate"}`,
		`responder_ticket_total{result="skipped"}`,
		`responder_stage_duration_seconds_bucket{stage="decide"`,
		"responder_planner_fallback_total",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
