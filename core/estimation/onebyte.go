package estimation

import (
	"co2js-plugin/core/types"
	"co2js-plugin/internal/errors"
)

// OneByte model constants, grams of CO2 per kWh and kWh per byte
const (
	co2PerKWhInDCGrey    = 519.0
	co2PerKWhNetworkGrey = 475.0
	co2PerKWhInDCGreen   = 0.0

	kwhPerByteInDC      = 0.00000000072
	fixedNetworkWired   = 0.00000000043
	fixedNetworkWifi    = 0.00000000152
	fourGMobile         = 0.00000000884
	kwhPerByteOfNetwork = (fixedNetworkWired + fixedNetworkWifi + fourGMobile) / 3
)

// OneByte is the linear per-byte model from The Shift Project's "1byte" study.
// It has no notion of a page visit.
type OneByte struct{}

// NewOneByte creates a OneByte backend
func NewOneByte() *OneByte {
	return &OneByte{}
}

// Model returns the model identifier
func (m *OneByte) Model() types.ModelType {
	return types.ModelOneByte
}

// PerByte estimates CO2 for transferring bytes. A green host removes the
// data centre share; the network keeps its grey intensity.
func (m *OneByte) PerByte(bytes float64, green bool) (float64, error) {
	if bytes < 1 {
		return 0, nil
	}

	if green {
		dc := bytes * kwhPerByteInDC * co2PerKWhInDCGreen
		network := bytes * kwhPerByteOfNetwork * co2PerKWhNetworkGrey
		return dc + network, nil
	}

	return bytes * (kwhPerByteInDC + kwhPerByteOfNetwork) * co2PerKWhInDCGrey, nil
}

// PerVisit is not supported by the OneByte model
func (m *OneByte) PerVisit(bytes float64, green bool) (float64, error) {
	return 0, errors.NotSupported("perVisit on the 1byte model, use perByte instead")
}

// PerVisitTrace is not supported by the OneByte model
func (m *OneByte) PerVisitTrace(bytes float64, green bool, opts TraceOptions) (*Trace, error) {
	return nil, errors.NotSupported("perVisitTrace on the 1byte model, use perByte instead")
}
