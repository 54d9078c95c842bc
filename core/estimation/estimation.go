// Package estimation provides the carbon estimation backends.
// A backend is bound to one model and turns a byte count into grams of CO2.
package estimation

import (
	"co2js-plugin/core/types"
	"co2js-plugin/internal/errors"
)

// Backend is a carbon estimation capability bound to a single model
type Backend interface {
	// Model returns the model this backend is bound to
	Model() types.ModelType

	// PerByte estimates the CO2 in grams for transferring bytes
	PerByte(bytes float64, green bool) (float64, error)

	// PerVisit estimates the CO2 in grams for one page visit of bytes
	PerVisit(bytes float64, green bool) (float64, error)

	// PerVisitTrace is PerVisit with adjustable variables, returning the
	// variables that produced the estimate alongside it
	PerVisitTrace(bytes float64, green bool, opts TraceOptions) (*Trace, error)
}

// Factory constructs a backend bound to a model
type Factory func(model types.ModelType) (Backend, error)

// New is the default Factory
func New(model types.ModelType) (Backend, error) {
	switch model {
	case types.ModelOneByte:
		return NewOneByte(), nil
	case types.ModelSWD:
		return NewSustainableWebDesign(), nil
	default:
		return nil, errors.Newf(errors.TypeConfig, "no estimation backend for model %q", model)
	}
}

// Trace is a per-visit estimate with the variables used to produce it
type Trace struct {
	CO2       float64        `json:"co2" yaml:"co2"`
	Green     bool           `json:"green" yaml:"green"`
	Variables TraceVariables `json:"variables" yaml:"variables"`
}

// TraceVariables documents the inputs of a traced estimate
type TraceVariables struct {
	Description           string        `json:"description" yaml:"description"`
	Bytes                 float64       `json:"bytes" yaml:"bytes"`
	GridIntensity         GridIntensity `json:"gridIntensity" yaml:"gridIntensity"`
	DataReloadRatio       float64       `json:"dataReloadRatio" yaml:"dataReloadRatio"`
	FirstVisitPercentage  float64       `json:"firstVisitPercentage" yaml:"firstVisitPercentage"`
	ReturnVisitPercentage float64       `json:"returnVisitPercentage" yaml:"returnVisitPercentage"`
}

// GridIntensity holds grams of CO2 per kWh for each system segment
type GridIntensity struct {
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Device      float64 `json:"device" yaml:"device"`
	DataCenter  float64 `json:"dataCenter" yaml:"dataCenter"`
	Network     float64 `json:"network" yaml:"network"`
	Production  float64 `json:"production" yaml:"production"`
}
