// Package cmd - run command
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"co2js-plugin/core/manifest"
	"co2js-plugin/core/output"
	"co2js-plugin/core/pipeline"
	"co2js-plugin/core/types"
	"co2js-plugin/internal/config"
	"co2js-plugin/internal/logging"
	"co2js-plugin/models"
)

var (
	outputFile      string
	outputFormat    string
	metricsTextfile string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <manifest>",
	Short: "Compute every pipeline in a manifest",
	Long: `Load a manifest (YAML, JSON or HCL), run each node's inputs through its
pipeline and print the manifest with outputs filled in.

Examples:
  co2js run website.yaml
  co2js run --format json website.hcl
  co2js run --output computed.yaml --metrics-textfile co2js.prom website.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runManifest,
}

func init() {
	runCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the computed manifest to a file instead of stdout")
	runCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (yaml, json); defaults to the configured format")
	runCmd.Flags().StringVar(&metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file after the run")
}

func runManifest(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	formatter, err := resolveFormatter(outputFormat, cfg)
	if err != nil {
		return err
	}

	m, err := manifest.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}

	opts := []pipeline.Option{pipeline.WithLogger(logging.Named("pipeline"))}
	if cfg.Model.DefaultType != "" {
		opts = append(opts, pipeline.WithDefaults(types.KeyValuePair{types.FieldType: cfg.Model.DefaultType}))
	}

	runner := pipeline.NewRunner(models.GetDefaultRegistry(), opts...)
	result, runErr := runner.Run(contextOrBackground(cmd.Context()), m)

	if err := writeMetrics(firstNonEmpty(metricsTextfile, cfg.Metrics.Textfile)); err != nil {
		logging.Warn("failed to write metrics", zap.Error(err))
	}
	if runErr != nil {
		return runErr
	}

	logging.Info("manifest computed",
		zap.String("run_id", result.RunID.String()),
		zap.Int("nodes", result.Nodes),
		zap.Int("records", result.Records),
	)

	return writeOutput(cmd.OutOrStdout(), formatter, m)
}

func resolveFormatter(flag string, cfg *config.Config) (output.Formatter, error) {
	format, err := output.ParseFormat(firstNonEmpty(flag, cfg.Output.Format))
	if err != nil {
		return nil, err
	}
	return output.Get(format)
}

func writeOutput(stdout io.Writer, formatter output.Formatter, v interface{}) error {
	if outputFile == "" {
		return formatter.Render(stdout, v)
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := formatter.Render(f, v); err != nil {
		return err
	}
	return f.Close()
}

func writeMetrics(path string) error {
	if path == "" {
		return nil
	}
	return recorder.WriteTextfile(path)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// contextOrBackground guards commands executed without a context
func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
