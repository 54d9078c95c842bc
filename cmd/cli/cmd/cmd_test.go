package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"co2js-plugin/core/types"
)

const websiteManifest = "../../../core/manifest/testdata/website.yaml"

// execute runs the root command with args and returns its stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(func() {
		for _, c := range append(rootCmd.Commands(), rootCmd) {
			resetFlags(c)
		}
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "co2js version "+version+"\n", out)
}

func TestModelsListsCo2js(t *testing.T) {
	out, err := execute(t, "models")
	require.NoError(t, err)
	assert.Equal(t, "Co2jsModel\n", out)
}

func TestEstimateOneByte(t *testing.T) {
	out, err := execute(t, "estimate", "--bytes", "1000000000", "--model", "1byte", "--format", "json")
	require.NoError(t, err)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &record))
	assert.InDelta(t, 2240.35, record[types.FieldOperationalCarbon], 0.01)
	assert.Equal(t, false, record[types.FieldGreenWebHost])
}

func TestEstimateSWDPerVisit(t *testing.T) {
	out, err := execute(t, "estimate", "--bytes", "1000000000", "--format", "json")
	require.NoError(t, err)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &record))
	assert.InDelta(t, 270.3051, record[types.FieldOperationalCarbon], 0.001)
	assert.NotContains(t, record, types.FieldOptions)
}

func TestEstimateTraceFlagsBuildOptions(t *testing.T) {
	out, err := execute(t, "estimate", "--bytes", "1000000000", "--format", "json",
		"--data-reload-ratio", "0.02", "--grid-device", "442")
	require.NoError(t, err)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &record))
	assert.Equal(t, map[string]interface{}{
		"dataReloadRatio": 0.02,
		"gridIntensity":   map[string]interface{}{"device": 442.0},
	}, record[types.FieldOptions])
	assert.InDelta(t, 270.3051, record[types.FieldOperationalCarbon], 0.001)
}

func TestEstimateRejectsUnknownModel(t *testing.T) {
	_, err := execute(t, "estimate", "--bytes", "10", "--model", "2bytes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid enum value")
}

func TestRunManifest(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "computed.json")
	promPath := filepath.Join(dir, "co2js.prom")

	out, err := execute(t, "run", "--format", "json", "--output", outPath, "--metrics-textfile", promPath, websiteManifest)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var computed struct {
		Graph struct {
			Children map[string]struct {
				Children map[string]struct {
					Outputs []map[string]interface{} `json:"outputs"`
				} `json:"children"`
			} `json:"children"`
		} `json:"graph"`
	}
	require.NoError(t, json.Unmarshal(data, &computed))

	landing := computed.Graph.Children["frontend"].Children["landing"]
	require.Len(t, landing.Outputs, 2)
	assert.InDelta(t, 0.23434596, landing.Outputs[0][types.FieldOperationalCarbon], 1e-9)

	prom, err := os.ReadFile(promPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "co2js_executions_total")
}

func TestRunRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, "run", "--format", "html", websiteManifest)
	require.Error(t, err)
}
