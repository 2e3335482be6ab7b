package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iiot-responder/pkg/errors"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadScenario(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "scenarios/bearing_wear_03.yaml", "description: High vibration on sensor_A\nlabel: bearing_wear\n")
	src := NewSource(root)

	sc, err := src.LoadScenario(context.Background(), "bearing_wear_03")
	require.NoError(t, err)
	assert.Equal(t, "bearing_wear_03", sc.Name)
	assert.Equal(t, "High vibration on sensor_A", sc.Description)
	assert.Equal(t, "bearing_wear", sc.Label)

	_, err = src.LoadScenario(context.Background(), "absent")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	_, err = src.LoadScenario(context.Background(), "../etc/passwd")
	assert.True(t, errors.Is(err, errors.ErrInvalidArg))
}

func TestListScenarios(t *testing.T) {
	root := t.TempDir()
	src := NewSource(root)
	names, err := src.ListScenarios(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)

	writeFile(t, root, "scenarios/b.yaml", "description: b\n")
	writeFile(t, root, "scenarios/a.yaml", "description: a\n")
	writeFile(t, root, "scenarios/notes.txt", "ignored")
	names, err = src.ListScenarios(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestGetTimeSeries_Window(t *testing.T) {
	root := t.TempDir()
	var b strings.Builder
	b.WriteString("ts,value\n")
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "%d,%d.5\n", i, i)
	}
	writeFile(t, root, "timeseries/s1.csv", b.String())
	src := NewSource(root)

	ts, err := src.GetTimeSeries(context.Background(), "sensor_A", 3, "s1")
	require.NoError(t, err)
	assert.Equal(t, "sensor_A", ts.SensorID)
	assert.Equal(t, []float64{7.5, 8.5, 9.5}, ts.Points)
	assert.Equal(t, 1.0, ts.SamplingHz)

	ts, err = src.GetTimeSeries(context.Background(), "sensor_A", 300, "s1")
	require.NoError(t, err)
	assert.Len(t, ts.Points, 10)
}

func TestGetTimeSeries_Errors(t *testing.T) {
	root := t.TempDir()
	src := NewSource(root)

	_, err := src.GetTimeSeries(context.Background(), "sensor_A", 300, "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSourceMissing))

	writeFile(t, root, "timeseries/nocol.csv", "ts,temp\n1,2\n")
	_, err = src.GetTimeSeries(context.Background(), "sensor_A", 300, "nocol")
	assert.True(t, errors.Is(err, errors.ErrInvalidArg))

	writeFile(t, root, "timeseries/bad.csv", "value\n1\nabc\n")
	_, err = src.GetTimeSeries(context.Background(), "sensor_A", 300, "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}

func TestReadersRejectPathTraversal(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "data")
	writeFile(t, base, "private/secret.jsonl", `{"msg":"error: db password=hunter2"}`+"\n")
	writeFile(t, base, "private/secret.csv", "value\n1\n2\n")
	writeFile(t, base, "private/secret.yaml", "description: leaked\n")
	src := NewSource(root)
	ctx := context.Background()

	for _, name := range []string{"../../private/secret", "..", ".", "", `..\private\secret`, "logs/../x"} {
		t.Run(fmt.Sprintf("%q", name), func(t *testing.T) {
			hits, err := src.SearchLogs(ctx, "error", name)
			assert.True(t, errors.Is(err, errors.ErrInvalidArg), "SearchLogs err = %v", err)
			assert.Empty(t, hits)

			ts, err := src.GetTimeSeries(ctx, "sensor_A", 300, name)
			assert.True(t, errors.Is(err, errors.ErrInvalidArg), "GetTimeSeries err = %v", err)
			assert.Nil(t, ts)

			_, err = src.LoadScenario(ctx, name)
			assert.True(t, errors.Is(err, errors.ErrInvalidArg), "LoadScenario err = %v", err)
		})
	}
}

const sampleLogs = `{"ts": 1, "level": "INFO", "msg": "startup complete"}
{"ts": 2, "level": "WARN", "msg": "Vibration above threshold"}

{"ts": 3, "level": "INFO", "msg": "gateway heartbeat"}
{"ts": 4, "level": "ERROR", "msg": "packet loss on backhaul"}
`

func TestSearchLogs_KeywordOR(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "logs/s1.jsonl", sampleLogs)
	src := NewSource(root)

	hits, err := src.SearchLogs(context.Background(), "VIBRATION|packet", "s1")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "Vibration above threshold", hits[0].Msg())
	assert.Equal(t, "packet loss on backhaul", hits[1].Msg())

	// 关键词也匹配字段名与级别
	hits, err = src.SearchLogs(context.Background(), "warn", "s1")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, float64(2), hits[0].Fields["ts"])

	hits, err = src.SearchLogs(context.Background(), "overheat", "s1")
	require.NoError(t, err)
	assert.NotNil(t, hits)
	assert.Empty(t, hits)
}

func TestSearchLogs_MatchesCompactJSON(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "logs/s1.jsonl", sampleLogs)
	src := NewSource(root)

	hits, err := src.SearchLogs(context.Background(), `"level":"warn"`, "s1")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Vibration above threshold", hits[0].Msg())

	hits, err = src.SearchLogs(context.Background(), `"level": "warn"`, "s1")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchLogs_CapsAtMaxHits(t *testing.T) {
	root := t.TempDir()
	var b strings.Builder
	for i := 0; i < MaxLogHits+7; i++ {
		fmt.Fprintf(&b, "{\"seq\": %d, \"msg\": \"cpu high\"}\n", i)
	}
	writeFile(t, root, "logs/busy.jsonl", b.String())

	hits, err := NewSource(root).SearchLogs(context.Background(), "cpu", "busy")
	require.NoError(t, err)
	require.Len(t, hits, MaxLogHits)
	assert.Equal(t, float64(0), hits[0].Fields["seq"])
	assert.Equal(t, float64(MaxLogHits-1), hits[MaxLogHits-1].Fields["seq"])
}

func TestSearchLogs_Errors(t *testing.T) {
	root := t.TempDir()
	src := NewSource(root)

	_, err := src.SearchLogs(context.Background(), "error", "missing")
	assert.True(t, errors.Is(err, errors.ErrSourceMissing))

	writeFile(t, root, "logs/broken.jsonl", "{\"msg\": \"ok\"}\nnot json\n")
	_, err = src.SearchLogs(context.Background(), "ok", "broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLogRecord_JSONPreservesKeyOrder(t *testing.T) {
	var rec LogRecord
	require.NoError(t, json.Unmarshal([]byte(`{"z": 1, "a": "x"}`), &rec))
	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":"x"}`, string(out))
	assert.Equal(t, "", rec.Msg())
}

func TestKeywords(t *testing.T) {
	assert.Equal(t, []string{"error", "warn"}, Keywords("Error||WARN|"))
	assert.Empty(t, Keywords(""))
}
