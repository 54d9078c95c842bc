package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitializeWritesToRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "co2js.log")

	cfg := DefaultConfig()
	cfg.Format = "json"
	cfg.Output = path
	require.NoError(t, Initialize(cfg))
	t.Cleanup(InitializeDefault)

	Info("configured model")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"configured model"`)
}

func TestInitializeFallsBackToInfoOnBadLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "loud"
	require.NoError(t, Initialize(cfg))
	t.Cleanup(InitializeDefault)

	assert.False(t, Logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, Logger.Core().Enabled(zapcore.InfoLevel))
}
