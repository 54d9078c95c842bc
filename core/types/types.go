// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions.
package types

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ModelType selects a carbon estimation strategy
type ModelType string

const (
	// ModelOneByte is the simple per-byte linear model
	ModelOneByte ModelType = "1byte"

	// ModelSWD is the Sustainable Web Design per-visit page-weight model
	ModelSWD ModelType = "swd"
)

// String returns the string representation of the model type
func (m ModelType) String() string {
	return string(m)
}

// IsValid checks if the model type is a known model
func (m ModelType) IsValid() bool {
	switch m {
	case ModelOneByte, ModelSWD:
		return true
	default:
		return false
	}
}

// ModelTypes returns every known model type
func ModelTypes() []ModelType {
	return []ModelType{ModelOneByte, ModelSWD}
}

// Field names recognised on model parameters
const (
	FieldType              = "type"
	FieldBytes             = "bytes"
	FieldGreenWebHost      = "green-web-host"
	FieldOptions           = "options"
	FieldOperationalCarbon = "operational-carbon"
)

// KeyValuePair is an untyped bag of named values, used for static parameters
type KeyValuePair map[string]interface{}

// ModelParams is a single record flowing through a model pipeline
type ModelParams map[string]interface{}

// Has reports whether key is present, even if its value is nil
func (p ModelParams) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Get retrieves a value, returning nil if not found
func (p ModelParams) Get(key string) interface{} {
	return p[key]
}

// GetFloat retrieves a numeric value
func (p ModelParams) GetFloat(key string) (float64, bool) {
	return ToFloat64(p[key])
}

// ToFloat64 coerces the numeric representations produced by the YAML, JSON
// and HCL decoders, and numeric strings, into a float64.
func ToFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// IsTruthy reports whether a decoded value counts as "set": nil, false,
// zero, NaN and the empty string do not.
func IsTruthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	if f, ok := ToFloat64(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}
