// Package co2js provides the Co2jsModel plugin, which estimates the
// operational carbon of a data transfer with the 1byte or swd model.
package co2js

import (
	"context"
	stderrors "errors"
	"math"
	"time"

	"go.uber.org/zap"

	"co2js-plugin/core/estimation"
	"co2js-plugin/core/types"
	"co2js-plugin/internal/errors"
	"co2js-plugin/internal/logging"
	"co2js-plugin/internal/metrics"
	"co2js-plugin/models"
)

// Name identifies the plugin in manifests and in its errors
const Name = "Co2jsModel"

// Model is the Co2jsModel plugin. It is not safe for concurrent use:
// callers sharing an instance must serialize Configure and Execute.
type Model struct {
	staticParams StaticParams
	backend      estimation.Backend

	newBackend estimation.Factory
	logger     *zap.Logger
	metrics    *metrics.Recorder
}

// Option customizes a Model
type Option func(*Model)

// WithBackendFactory replaces the estimation backend factory
func WithBackendFactory(factory estimation.Factory) Option {
	return func(m *Model) {
		m.newBackend = factory
	}
}

// WithLogger replaces the plugin logger
func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// WithMetrics records executions on r
func WithMetrics(r *metrics.Recorder) Option {
	return func(m *Model) {
		m.metrics = r
	}
}

// New creates an unconfigured plugin
func New(opts ...Option) *Model {
	m := &Model{
		newBackend: estimation.New,
		logger:     logging.Named(Name),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Constructor returns a models.Constructor producing plugins with opts
func Constructor(opts ...Option) models.Constructor {
	return func() models.ModelPlugin {
		return New(opts...)
	}
}

// StaticParams returns the configured static parameters
func (m *Model) StaticParams() StaticParams {
	return m.staticParams
}

// Execute calculates operational carbon for each input in order. Inputs are
// mutated in place and returned; the first invalid input aborts the batch.
//
// An input's type override applies to the inputs after it in the same call
// only. Later calls use the type set by Configure again.
func (m *Model) Execute(ctx context.Context, inputs []types.ModelParams) ([]types.ModelParams, error) {
	start := time.Now()
	outputs, err := m.execute(ctx, inputs)
	m.metrics.ObserveExecution(Name, time.Since(start), err)
	return outputs, err
}

func (m *Model) execute(ctx context.Context, inputs []types.ModelParams) ([]types.ModelParams, error) {
	// An input's type override carries to the inputs after it, within this call only.
	sel := m.current()
	outputs := make([]types.ModelParams, 0, len(inputs))

	for i, input := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next, err := m.validateInput(sel, input)
		if err != nil {
			m.metrics.RecordValidationFailure(Name)
			return nil, withInputIndex(err, i)
		}
		sel = next

		result, strategy, err := m.calculate(sel, input)
		if err != nil {
			return nil, withInputIndex(err, i)
		}
		m.metrics.RecordCalculation(string(strategy))

		if result != 0 && !math.IsNaN(result) {
			input[types.FieldOperationalCarbon] = result
		}

		m.logger.Debug("calculated operational carbon",
			zap.Int("input", i),
			zap.String("model", sel.model.String()),
			zap.String("strategy", string(strategy)),
			zap.Float64("operational_carbon", result),
		)
		outputs = append(outputs, input)
	}

	return outputs, nil
}

func withInputIndex(err error, index int) error {
	var e *errors.Error
	if stderrors.As(err, &e) {
		e.WithContext("input", index)
	}
	return err
}
