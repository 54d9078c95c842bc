package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"co2js-plugin/internal/errors"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoadFileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "co2js.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"logging": {"level": "warn", "format": "json"},
		"output": {"format": "json"},
		"model": {"default_type": "1byte"}
	}`), 0644))

	t.Setenv("CO2JS_LOG_LEVEL", "debug")
	t.Setenv("CO2JS_MODEL_DEFAULT", "swd")
	t.Setenv("CO2JS_METRICS_TEXTFILE", "/tmp/co2js.prom")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "swd", cfg.Model.DefaultType)
	assert.Equal(t, "/tmp/co2js.prom", cfg.Metrics.Textfile)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	t.Setenv("CO2JS_OUTPUT_FORMAT", "html")

	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestLoadRejectsUnknownModel(t *testing.T) {
	t.Setenv("CO2JS_MODEL_DEFAULT", "2bytes")

	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "co2js.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"logging":`), 0644))

	_, err := Load(path)

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeParsing))
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "co2js.json")
	cfg := Default()
	cfg.Model.DefaultType = "swd"

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
