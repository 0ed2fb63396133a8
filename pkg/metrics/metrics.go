package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Исходы попытки бронирования
const (
	ReservationCreated         = "created"
	ReservationSlotUnavailable = "slot_unavailable"
	ReservationInvalid         = "invalid"
	ReservationError           = "error"
)

// Metrics набор метрик сервиса
// Все методы безопасны для nil-получателя: если метрики выключены, вызовы ничего не делают
type Metrics struct {
	registerer prometheus.Registerer

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	reservationsTotal   *prometheus.CounterVec
	txRetriesTotal      *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry создает метрики в переданном реестре (используется в тестах)
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		registerer: reg,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		reservationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_reservations_total",
			Help:        "Booking reservation attempts by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		txRetriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "store_transaction_retries_total",
			Help:        "Store transaction retries caused by write conflicts",
			ConstLabels: constLabels,
		}, []string{"store"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.reservationsTotal,
		m.txRetriesTotal,
	)

	return m
}

// ObserveHTTPRequest учитывает обработанный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveReservation учитывает исход попытки бронирования
func (m *Metrics) ObserveReservation(outcome string) {
	if m == nil {
		return
	}
	m.reservationsTotal.WithLabelValues(outcome).Inc()
}

// ObserveTxRetry учитывает повтор транзакции из-за конфликта записи
func (m *Metrics) ObserveTxRetry(store string) {
	if m == nil {
		return
	}
	m.txRetriesTotal.WithLabelValues(store).Inc()
}

// RegisterDBStats регистрирует метрики пула соединений *sql.DB
func (m *Metrics) RegisterDBStats(db *sql.DB, dbName string) {
	if m == nil {
		return
	}
	m.registerer.MustRegister(collectors.NewDBStatsCollector(db, dbName))
}
