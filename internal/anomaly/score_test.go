package anomaly

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_TooShort(t *testing.T) {
	for n := 0; n < MinSamples; n++ {
		points := make([]float64, n)
		for i := range points {
			points[i] = float64(i * 100)
		}
		got := Score(points)
		assert.Equal(t, 0.0, got.Score, "n=%d", n)
		assert.Equal(t, ReasonTooShort, got.Reason, "n=%d", n)
		assert.Equal(t, n, got.N)
	}
}

// 中位数 0、MAD 1 时，峰值偏离即为 ratio
func peakSeries(peak float64) []float64 {
	return []float64{-1, -1, 0, 1, 1, 0, peak}
}

func TestScore_RatioMapping(t *testing.T) {
	tests := []struct {
		name string
		peak float64
		want float64
	}{
		{"ratio 10 saturates", 10, 1.0},
		{"ratio 6.5 is midpoint", 6.5, 0.5},
		{"ratio 3 is floor", 3, 0.0},
		{"ratio 2 clamps to zero", 2, 0.0},
		{"ratio 20 clamps to one", 20, 1.0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(peakSeries(tc.peak))
			assert.InDelta(t, 0.0, got.Median, 1e-12)
			assert.InDelta(t, tc.peak, got.Ratio, 1e-6)
			assert.InDelta(t, tc.want, got.Score, 1e-6)
			assert.Empty(t, got.Reason)
		})
	}
}

func TestScore_FlatSignalIsNotAnomalous(t *testing.T) {
	got := Score([]float64{5, 5, 5, 5, 5, 5})
	assert.Equal(t, 0.0, got.Score)
	assert.Equal(t, 0.0, got.Ratio)
}

func TestScore_Deterministic(t *testing.T) {
	points := []float64{0.1, 0.3, -0.2, 0.05, 4.2, 0.0, -0.1, 0.2}
	assert.Equal(t, Score(points), Score(points))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, Median(nil))
	assert.Equal(t, 2.0, Median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 3, 2}))

	in := []float64{3, 1, 2}
	Median(in)
	assert.Equal(t, []float64{3, 1, 2}, in, "input must not be reordered")
}

func TestPolicyConstants(t *testing.T) {
	assert.Equal(t, 5, MinSamples)
	assert.Equal(t, 3.0, RatioFloor)
	assert.Equal(t, 7.0, RatioSpan)
	assert.Equal(t, 1e-8, Epsilon)
}

func TestResult_JSONKeepsZeroDiagnostics(t *testing.T) {
	got := Score(peakSeries(3))
	raw, err := json.Marshal(got)
	assert.NoError(t, err)

	var fields map[string]any
	assert.NoError(t, json.Unmarshal(raw, &fields))
	assert.Contains(t, fields, "median")
	assert.Contains(t, fields, "peak_to_mad")
	assert.Equal(t, 0.0, fields["median"])
	assert.NotContains(t, fields, "reason")
}
