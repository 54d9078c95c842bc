package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder()

	r.ObserveExecution("Co2jsModel", time.Millisecond, nil)
	r.ObserveExecution("Co2jsModel", time.Millisecond, errors.New("bad input"))
	r.RecordCalculation("swd/perVisit")
	r.RecordCalculation("swd/perVisit")
	r.RecordValidationFailure("Co2jsModel")

	assert.Equal(t, 1.0, testutil.ToFloat64(r.ExecutionsTotal.WithLabelValues("Co2jsModel", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ExecutionsTotal.WithLabelValues("Co2jsModel", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.CalculationsTotal.WithLabelValues("swd/perVisit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ValidationFailuresTotal.WithLabelValues("Co2jsModel")))
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder

	r.ObserveExecution("Co2jsModel", time.Second, nil)
	r.RecordCalculation("1byte/perByte")
	r.RecordValidationFailure("Co2jsModel")

	assert.Nil(t, r.Registry())
	assert.NoError(t, r.WriteTextfile(filepath.Join(t.TempDir(), "never.prom")))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.RecordCalculation("1byte/perByte")

	path := filepath.Join(t.TempDir(), "co2js.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `co2js_calculations_total{strategy="1byte/perByte"} 1`)
}
