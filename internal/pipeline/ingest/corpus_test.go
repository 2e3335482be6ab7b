package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCorpus_SortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"gateway_troubleshooting.md": "Check backhaul link and gateway CPU.",
		"bearing_wear.md":            "Vibration spikes indicate bearing wear.",
		"lubrication.txt":            "Lubricate bearings every 500 hours.",
		"image.png":                  "binary",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.md"), 0o755))

	docs, err := LoadCorpus(context.Background(), dir, nil)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "bearing_wear", docs[0].ID)
	assert.Equal(t, "gateway_troubleshooting", docs[1].ID)
	assert.Equal(t, "lubrication", docs[2].ID)
	assert.Equal(t, "Vibration spikes indicate bearing wear.", docs[0].Text)
}

func TestLoadCorpus_MissingDirIsEmpty(t *testing.T) {
	docs, err := LoadCorpus(context.Background(), filepath.Join(t.TempDir(), "kb"), nil)
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestLoadCorpus_SkipsUnreadablePDF(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.pdf"), []byte("not a pdf"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.md"), []byte("ok"), 0o644))

	docs, err := LoadCorpus(context.Background(), dir, nil)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "ok", docs[0].ID)
}

func TestLoadCorpus_InvalidUTF8Dropped(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.md"), []byte{'a', 0xff, 'b'}, 0o644))
	docs, err := LoadCorpus(context.Background(), dir, nil)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "ab", docs[0].Text)
}

func TestExtractPDFText_Empty(t *testing.T) {
	text, err := ExtractPDFText(nil)
	require.NoError(t, err)
	assert.Empty(t, text)
}
