package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_ObserveReservation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg, "gtp-test")

	m.ObserveReservation(ReservationCreated)
	m.ObserveReservation(ReservationCreated)
	m.ObserveReservation(ReservationSlotUnavailable)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reservationsTotal.WithLabelValues(ReservationCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reservationsTotal.WithLabelValues(ReservationSlotUnavailable)))
}

func TestMetrics_ObserveHTTPRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg, "gtp-test")

	m.ObserveHTTPRequest(http.MethodPost, "/api/v1/bookings", http.StatusCreated, 15*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues(http.MethodPost, "/api/v1/bookings", "201")))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveReservation(ReservationError)
		m.ObserveTxRetry("postgres")
		m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Second)
		m.RegisterDBStats(nil, "gtp")
	})
}
