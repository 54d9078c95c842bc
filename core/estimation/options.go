package estimation

import (
	"fmt"

	"co2js-plugin/core/types"
)

// TraceOptions adjusts the variables of a per-visit trace. Nil fields use
// the model defaults.
type TraceOptions struct {
	DataReloadRatio       *float64
	FirstVisitPercentage  *float64
	ReturnVisitPercentage *float64
	GridIntensity         SegmentIntensity
}

// SegmentIntensity overrides grid intensity, in grams per kWh, per segment
type SegmentIntensity struct {
	Device     *float64
	DataCenter *float64
	Network    *float64
}

// ParseTraceOptions reads trace options from a decoded manifest value.
// Values that cannot be used are skipped and reported as warnings, so the
// defaults apply for them.
func ParseTraceOptions(raw interface{}) (TraceOptions, []string) {
	var opts TraceOptions
	var warnings []string

	m, ok := asMap(raw)
	if !ok {
		if raw != nil {
			warnings = append(warnings, fmt.Sprintf("options must be a mapping, got %T; using defaults", raw))
		}
		return opts, warnings
	}

	ratio := func(key string, def float64) *float64 {
		v, present := m[key]
		if !present {
			return nil
		}
		f, ok := types.ToFloat64(v)
		if _, isString := v.(string); isString || !ok || f < 0 || f > 1 {
			warnings = append(warnings, fmt.Sprintf("%s is not a number between 0 and 1; using default %v", key, def))
			return nil
		}
		return &f
	}

	opts.DataReloadRatio = ratio("dataReloadRatio", percentageOfDataLoadedOnSubsequentLoad)
	opts.FirstVisitPercentage = ratio("firstVisitPercentage", firstTimeViewingPercentage)
	opts.ReturnVisitPercentage = ratio("returnVisitPercentage", returningVisitorPercentage)

	if gi, present := m["gridIntensity"]; present {
		segments, ok := asMap(gi)
		if !ok {
			warnings = append(warnings, "gridIntensity must be a mapping; using global grid intensity")
			return opts, warnings
		}

		intensity := func(key string) *float64 {
			v, present := segments[key]
			if !present {
				return nil
			}
			if _, isMap := asMap(v); isMap {
				warnings = append(warnings, fmt.Sprintf("gridIntensity.%s by country is not available; using global grid intensity", key))
				return nil
			}
			f, ok := types.ToFloat64(v)
			if _, isString := v.(string); isString || !ok || f < 0 {
				warnings = append(warnings, fmt.Sprintf("gridIntensity.%s is not a non-negative number; using global grid intensity", key))
				return nil
			}
			return &f
		}

		opts.GridIntensity.Device = intensity("device")
		opts.GridIntensity.DataCenter = intensity("dataCenter")
		opts.GridIntensity.Network = intensity("network")
	}

	return opts, warnings
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case types.KeyValuePair:
		return m, true
	case types.ModelParams:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}
