package estimation

import (
	"github.com/shopspring/decimal"

	"co2js-plugin/core/types"
)

// Sustainable Web Design model constants
const (
	kwhPerGB = 0.81

	endUserDeviceEnergy = 0.52
	networkEnergy       = 0.14
	dataCenterEnergy    = 0.15
	productionEnergy    = 0.19

	// grams of CO2 per kWh
	globalGridIntensity     = 442.0
	renewablesGridIntensity = 50.0

	firstTimeViewingPercentage             = 0.75
	returningVisitorPercentage             = 0.25
	percentageOfDataLoadedOnSubsequentLoad = 0.02

	traceDescription         = "Below are the variables used to calculate this CO2 estimate."
	gridIntensityDescription = "The grid intensity (grams per kilowatt-hour) used to calculate this CO2 estimate."
)

// Segment is a part of the system that consumes energy to serve bytes
type Segment int

const (
	SegmentConsumerDevice Segment = iota
	SegmentNetwork
	SegmentDataCenter
	SegmentProduction
	segmentCount
)

// String returns the segment name
func (s Segment) String() string {
	switch s {
	case SegmentConsumerDevice:
		return "consumerDevice"
	case SegmentNetwork:
		return "network"
	case SegmentDataCenter:
		return "dataCenter"
	case SegmentProduction:
		return "production"
	default:
		return "unknown"
	}
}

var segmentShare = [segmentCount]float64{
	SegmentConsumerDevice: endUserDeviceEnergy,
	SegmentNetwork:        networkEnergy,
	SegmentDataCenter:     dataCenterEnergy,
	SegmentProduction:     productionEnergy,
}

// bySegment holds one value per segment
type bySegment [segmentCount]decimal.Decimal

func (b bySegment) sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range b {
		total = total.Add(v)
	}
	return total
}

// SustainableWebDesign is the per-visit page-weight model. Energy per GB is
// split over four segments, each multiplied by its grid intensity.
type SustainableWebDesign struct{}

// NewSustainableWebDesign creates an SWD backend
func NewSustainableWebDesign() *SustainableWebDesign {
	return &SustainableWebDesign{}
}

// Model returns the model identifier
func (m *SustainableWebDesign) Model() types.ModelType {
	return types.ModelSWD
}

// PerByte estimates CO2 for transferring bytes once
func (m *SustainableWebDesign) PerByte(bytes float64, green bool) (float64, error) {
	if bytes < 1 {
		return 0, nil
	}
	energy := m.energyPerByte(bytes)
	intensity := resolveIntensity(green, SegmentIntensity{})
	return co2(energy, intensity).InexactFloat64(), nil
}

// PerVisit estimates CO2 for a visit, weighting first and returning visitors
func (m *SustainableWebDesign) PerVisit(bytes float64, green bool) (float64, error) {
	if bytes < 1 {
		return 0, nil
	}
	energy := m.energyPerVisit(bytes, firstTimeViewingPercentage, returningVisitorPercentage, percentageOfDataLoadedOnSubsequentLoad)
	intensity := resolveIntensity(green, SegmentIntensity{})
	return co2(energy, intensity).InexactFloat64(), nil
}

// PerVisitTrace estimates CO2 for a visit using the adjusted variables in opts
func (m *SustainableWebDesign) PerVisitTrace(bytes float64, green bool, opts TraceOptions) (*Trace, error) {
	first := valueOr(opts.FirstVisitPercentage, firstTimeViewingPercentage)
	returning := valueOr(opts.ReturnVisitPercentage, returningVisitorPercentage)
	reload := valueOr(opts.DataReloadRatio, percentageOfDataLoadedOnSubsequentLoad)
	intensity := resolveIntensity(green, opts.GridIntensity)

	trace := &Trace{
		Green: green,
		Variables: TraceVariables{
			Description:           traceDescription,
			Bytes:                 bytes,
			GridIntensity:         intensity,
			DataReloadRatio:       reload,
			FirstVisitPercentage:  first,
			ReturnVisitPercentage: returning,
		},
	}
	trace.Variables.GridIntensity.Description = gridIntensityDescription

	if bytes >= 1 {
		energy := m.energyPerVisit(bytes, first, returning, reload)
		trace.CO2 = co2(energy, intensity).InexactFloat64()
	}
	return trace, nil
}

func (m *SustainableWebDesign) energyPerByte(bytes float64) bySegment {
	kwh := decimal.NewFromFloat(bytes).Shift(-9).Mul(decimal.NewFromFloat(kwhPerGB))

	var energy bySegment
	for s := Segment(0); s < segmentCount; s++ {
		energy[s] = kwh.Mul(decimal.NewFromFloat(segmentShare[s]))
	}
	return energy
}

func (m *SustainableWebDesign) energyPerVisit(bytes, first, returning, reload float64) bySegment {
	perByte := m.energyPerByte(bytes)
	firstView := decimal.NewFromFloat(first)
	subsequent := decimal.NewFromFloat(returning).Mul(decimal.NewFromFloat(reload))

	var energy bySegment
	for s, e := range perByte {
		energy[s] = e.Mul(firstView).Add(e.Mul(subsequent))
	}
	return energy
}

func co2(energy bySegment, intensity GridIntensity) decimal.Decimal {
	perSegment := [segmentCount]float64{
		SegmentConsumerDevice: intensity.Device,
		SegmentNetwork:        intensity.Network,
		SegmentDataCenter:     intensity.DataCenter,
		SegmentProduction:     intensity.Production,
	}

	var emissions bySegment
	for s, e := range energy {
		emissions[s] = e.Mul(decimal.NewFromFloat(perSegment[s]))
	}
	return emissions.sum()
}

// resolveIntensity applies overrides to the global grid intensity. A green
// host always uses the renewables intensity for the data centre.
func resolveIntensity(green bool, overrides SegmentIntensity) GridIntensity {
	gi := GridIntensity{
		Device:     valueOr(overrides.Device, globalGridIntensity),
		DataCenter: valueOr(overrides.DataCenter, globalGridIntensity),
		Network:    valueOr(overrides.Network, globalGridIntensity),
		Production: globalGridIntensity,
	}
	if green {
		gi.DataCenter = renewablesGridIntensity
	}
	return gi
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
