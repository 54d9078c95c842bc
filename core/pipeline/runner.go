// Package pipeline runs manifests: every leaf node's inputs flow through its
// pipeline of model plugins, and the final records become the node outputs.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"co2js-plugin/core/manifest"
	"co2js-plugin/core/types"
	"co2js-plugin/internal/errors"
	"co2js-plugin/internal/logging"
	"co2js-plugin/models"
)

// Runner executes manifests against a plugin registry
type Runner struct {
	registry *models.Registry
	defaults types.KeyValuePair
	logger   *zap.Logger
}

// Option customizes a Runner
type Option func(*Runner)

// WithDefaults sets static parameters applied beneath every model's config
func WithDefaults(defaults types.KeyValuePair) Option {
	return func(r *Runner) {
		r.defaults = defaults
	}
}

// WithLogger replaces the runner logger
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a runner resolving plugins from registry
func NewRunner(registry *models.Registry, opts ...Option) *Runner {
	r := &Runner{
		registry: registry,
		logger:   logging.Named("pipeline"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result summarizes a manifest run
type Result struct {
	RunID    uuid.UUID
	Nodes    int
	Records  int
	Duration time.Duration
}

// Run executes every pipeline in m and stores outputs on its nodes. Node
// inputs are left untouched. The first failing step aborts the run.
func (r *Runner) Run(ctx context.Context, m *manifest.Manifest) (*Result, error) {
	start := time.Now()
	result := &Result{RunID: uuid.New()}
	logger := r.logger.With(zap.String("run_id", result.RunID.String()), zap.String("manifest", m.Name))
	logger.Info("starting manifest run")

	err := m.Walk(func(path []string, node *manifest.Node) error {
		if len(node.Pipeline) == 0 {
			return nil
		}
		name := strings.Join(path, ".")

		outputs, err := r.runNode(ctx, m, node, logger.With(zap.String("node", name)))
		if err != nil {
			return fmt.Errorf("node %s: %w", name, err)
		}

		node.Outputs = outputs
		result.Nodes++
		result.Records += len(outputs)
		return nil
	})
	result.Duration = time.Since(start)
	if err != nil {
		logger.Error("manifest run failed", zap.Error(err))
		return nil, err
	}

	logger.Info("manifest run complete",
		zap.Int("nodes", result.Nodes),
		zap.Int("records", result.Records),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

func (r *Runner) runNode(ctx context.Context, m *manifest.Manifest, node *manifest.Node, logger *zap.Logger) ([]types.ModelParams, error) {
	records := cloneRecords(node.Inputs)

	for _, step := range node.Pipeline {
		ref, ok := m.Model(step)
		if !ok {
			return nil, errors.Config(fmt.Sprintf("pipeline step %q is not initialized", step))
		}

		plugin, ok := r.registry.New(ref.Model)
		if !ok {
			return nil, errors.NotFound("model plugin", ref.Model).WithContext("step", step)
		}

		static := mergeParams(r.defaults, ref.Config, node.Config[step])
		plugin, err := plugin.Configure(ctx, static)
		if err != nil {
			return nil, fmt.Errorf("configure %s: %w", step, err)
		}

		records, err = plugin.Execute(ctx, records)
		if err != nil {
			return nil, fmt.Errorf("execute %s: %w", step, err)
		}
		logger.Debug("executed pipeline step", zap.String("step", step), zap.Int("records", len(records)))
	}

	return records, nil
}

// cloneRecords copies each record so plugins mutating outputs in place do
// not touch the declared inputs
func cloneRecords(inputs []types.ModelParams) []types.ModelParams {
	out := make([]types.ModelParams, len(inputs))
	for i, in := range inputs {
		rec := make(types.ModelParams, len(in))
		for k, v := range in {
			rec[k] = v
		}
		out[i] = rec
	}
	return out
}

// mergeParams layers parameter sets, later ones winning
func mergeParams(layers ...types.KeyValuePair) types.KeyValuePair {
	merged := types.KeyValuePair{}
	for _, layer := range layers {
		for k, v := range layer {
			merged[k] = v
		}
	}
	return merged
}
