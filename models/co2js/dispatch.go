package co2js

import (
	"go.uber.org/zap"

	"co2js-plugin/core/estimation"
	"co2js-plugin/core/types"
	"co2js-plugin/internal/errors"
)

// Strategy names the backend operation used for a calculation
type Strategy string

const (
	// StrategyPerByte is the 1byte model's per-byte estimate
	StrategyPerByte Strategy = "1byte/perByte"

	// StrategyPerVisit is the swd model's per-visit estimate
	StrategyPerVisit Strategy = "swd/perVisit"

	// StrategyPerVisitTrace is the swd per-visit estimate with options, read from the trace
	StrategyPerVisitTrace Strategy = "swd/perVisitTrace"
)

// calculate runs the strategy of the selected model for input. Only a
// literal boolean true marks the host as green.
func (m *Model) calculate(sel selection, input types.ModelParams) (float64, Strategy, error) {
	green := input.Get(types.FieldGreenWebHost) == true
	options := input.Get(types.FieldOptions)
	bytes, _ := input.GetFloat(types.FieldBytes)

	if sel.backend == nil {
		return 0, "", m.noStrategy(sel.model)
	}

	switch sel.model {
	case types.ModelSWD:
		if types.IsTruthy(options) {
			opts, warnings := estimation.ParseTraceOptions(options)
			for _, w := range warnings {
				m.logger.Warn("ignoring trace option", zap.String("reason", w))
			}
			trace, err := sel.backend.PerVisitTrace(bytes, green, opts)
			if err != nil {
				return 0, StrategyPerVisitTrace, err
			}
			return trace.CO2, StrategyPerVisitTrace, nil
		}
		result, err := sel.backend.PerVisit(bytes, green)
		return result, StrategyPerVisit, err

	case types.ModelOneByte:
		result, err := sel.backend.PerByte(bytes, green)
		return result, StrategyPerByte, err

	default:
		return 0, "", m.noStrategy(sel.model)
	}
}

func (m *Model) noStrategy(model types.ModelType) error {
	err := errors.Newf(errors.TypeConfig, "no calculation strategy for model type %q, configure a type first", model)
	err.Plugin = Name
	return err
}
