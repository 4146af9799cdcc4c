package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/x", 200, time.Millisecond)
		m.ObserveDBQuery("query", nil, time.Millisecond)
		m.SetDBPoolStats(1, 1, 0, 0)
		m.IncBookingOutcome("created")
		m.IncCacheResult("hit")
		m.IncEmailJob("CONFIRMATION", "sent")
		m.IncRefundSLABreach()
	})
}

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegisterer("test", prometheus.NewRegistry())

	m.IncBookingOutcome("created")
	m.IncBookingOutcome("created")
	m.IncBookingOutcome("conflict")
	m.ObserveDBQuery("exec", errors.New("boom"), time.Millisecond)
	m.IncRefundSLABreach()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookingOutcomes.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingOutcomes.WithLabelValues("conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.refundSLABreaches))
}
