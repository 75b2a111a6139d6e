package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTrackerRecordsOutcome(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	assert.NoError(t, m.Track("report").End(nil))
	boom := errors.New("boom")
	assert.Equal(t, boom, m.Track("report").End(boom))
	m.Skipped("report", "no_invoices")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("report", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("report", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("report")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.skipped.WithLabelValues("report", "no_invoices")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	err := errors.New("kept")
	assert.Equal(t, err, m.Track("report").End(err))
	m.Skipped("report", "no_invoices")
}
