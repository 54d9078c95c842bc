package estimation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"co2js-plugin/core/types"
	"co2js-plugin/internal/errors"
)

const gigabyte = 1e9

func TestNewBindsModel(t *testing.T) {
	for _, model := range types.ModelTypes() {
		t.Run(model.String(), func(t *testing.T) {
			backend, err := New(model)
			require.NoError(t, err)
			assert.Equal(t, model, backend.Model())
		})
	}

	_, err := New("3bytes")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestOneBytePerByte(t *testing.T) {
	m := NewOneByte()

	grey, err := m.PerByte(gigabyte, false)
	require.NoError(t, err)
	assert.InDelta(t, 2240.35, grey, 0.01)

	green, err := m.PerByte(gigabyte, true)
	require.NoError(t, err)
	assert.InDelta(t, 1708.4167, green, 0.001)

	zero, err := m.PerByte(0.5, false)
	require.NoError(t, err)
	assert.Zero(t, zero)
}

func TestOneByteHasNoVisits(t *testing.T) {
	m := NewOneByte()

	_, err := m.PerVisit(gigabyte, false)
	assert.True(t, errors.IsType(err, errors.TypeNotSupported))

	_, err = m.PerVisitTrace(gigabyte, false, TraceOptions{})
	assert.True(t, errors.IsType(err, errors.TypeNotSupported))
}

func TestSustainableWebDesignPerByte(t *testing.T) {
	m := NewSustainableWebDesign()

	grey, err := m.PerByte(gigabyte, false)
	require.NoError(t, err)
	assert.InDelta(t, 358.02, grey, 1e-9)

	green, err := m.PerByte(gigabyte, true)
	require.NoError(t, err)
	assert.InDelta(t, 310.392, green, 1e-9)
}

func TestSustainableWebDesignPerVisit(t *testing.T) {
	m := NewSustainableWebDesign()

	got, err := m.PerVisit(gigabyte, false)
	require.NoError(t, err)
	assert.InDelta(t, 270.3051, got, 1e-9)

	none, err := m.PerVisit(0, false)
	require.NoError(t, err)
	assert.Zero(t, none)
}

func TestSustainableWebDesignPerVisitTraceDefaultsMatchPerVisit(t *testing.T) {
	m := NewSustainableWebDesign()

	plain, err := m.PerVisit(gigabyte, true)
	require.NoError(t, err)

	trace, err := m.PerVisitTrace(gigabyte, true, TraceOptions{})
	require.NoError(t, err)

	assert.InDelta(t, plain, trace.CO2, 1e-9)
	assert.True(t, trace.Green)
	assert.Equal(t, renewablesGridIntensity, trace.Variables.GridIntensity.DataCenter)
	assert.Equal(t, globalGridIntensity, trace.Variables.GridIntensity.Network)
	assert.Equal(t, percentageOfDataLoadedOnSubsequentLoad, trace.Variables.DataReloadRatio)
	assert.Equal(t, gigabyte, trace.Variables.Bytes)
}

func TestSustainableWebDesignPerVisitTraceAdjustments(t *testing.T) {
	m := NewSustainableWebDesign()
	first, returning := 1.0, 0.0
	network := 100.0

	trace, err := m.PerVisitTrace(gigabyte, false, TraceOptions{
		FirstVisitPercentage:  &first,
		ReturnVisitPercentage: &returning,
		GridIntensity:         SegmentIntensity{Network: &network},
	})
	require.NoError(t, err)

	// network share 0.14 of 0.81 kWh moves from 442 to 100 g/kWh
	want := 358.02 - 0.81*0.14*(442-100)
	assert.InDelta(t, want, trace.CO2, 1e-9)
	assert.Equal(t, network, trace.Variables.GridIntensity.Network)
}

func TestGreenOverridesDataCenterIntensity(t *testing.T) {
	dc := 10.0
	gi := resolveIntensity(true, SegmentIntensity{DataCenter: &dc})
	assert.Equal(t, renewablesGridIntensity, gi.DataCenter)

	gi = resolveIntensity(false, SegmentIntensity{DataCenter: &dc})
	assert.Equal(t, dc, gi.DataCenter)
}
