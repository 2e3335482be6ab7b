package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iiot-responder/internal/app"
	"iiot-responder/pkg/config"
	"iiot-responder/pkg/log"
)

func TestNewApp(t *testing.T) {
	_, err := NewApp(nil)
	assert.Error(t, err)

	cfg := config.Default()
	cfg.Data.Root = t.TempDir()
	cfg.Knowledge.Dir = t.TempDir()
	b, err := app.NewBootstrap(context.Background(), cfg, app.WithLogger(log.Nop()), app.WithDryRun(true))
	require.NoError(t, err)

	a, err := NewApp(b)
	require.NoError(t, err)
	assert.NoError(t, a.Shutdown(context.Background()))
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, "5s", parseDuration("", 5e9).String())
	assert.Equal(t, "1m0s", parseDuration("60s", 5e9).String())
	assert.Equal(t, "5s", parseDuration("bogus", 5e9).String())
}
