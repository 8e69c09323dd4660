// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор коллекторов сервиса. Все методы безопасны для nil-получателя,
// поэтому компоненты работают и при выключенных метриках.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRateLimited     *prometheus.CounterVec

	DBQueryDuration     *prometheus.HistogramVec
	DBOpenConnections   *prometheus.GaugeVec
	DBWaitCount         prometheus.Gauge
	DBWaitDurationTotal prometheus.Gauge

	BookingOperations      *prometheus.CounterVec
	SlotGenerationDuration prometheus.Histogram
	SlotsGenerated         prometheus.Histogram
	BookingsAutoCompleted  prometheus.Counter
}

// New регистрирует коллекторы в регистре по умолчанию
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry регистрирует коллекторы в переданном регистре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		HTTPRateLimited: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_rate_limited_total",
			Help:        "Requests rejected by the rate limiter",
			ConstLabels: labels,
		}, []string{"path"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation", "status"}),

		DBOpenConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database pool connections by state",
			ConstLabels: labels,
		}, []string{"state"}),

		DBWaitCount: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: labels,
		}),

		DBWaitDurationTotal: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_wait_seconds",
			Help:        "Total time blocked waiting for a new connection",
			ConstLabels: labels,
		}),

		BookingOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_operations_total",
			Help:        "Booking ledger operations by outcome code",
			ConstLabels: labels,
		}, []string{"operation", "outcome"}),

		SlotGenerationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:        "slot_generation_duration_seconds",
			Help:        "Time spent generating a slot list",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}),

		SlotsGenerated: factory.NewHistogram(prometheus.HistogramOpts{
			Name:        "slots_generated",
			Help:        "Number of slots returned per query",
			ConstLabels: labels,
			Buckets:     []float64{0, 1, 5, 10, 20, 40, 80, 160},
		}),

		BookingsAutoCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name:        "bookings_auto_completed_total",
			Help:        "Bookings completed by the scheduled sweep",
			ConstLabels: labels,
		}),
	}
}

// ObserveHTTP записывает метрики HTTP запроса
func (m *Metrics) ObserveHTTP(method, path, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// IncRateLimited считает отклоненные лимитером запросы
func (m *Metrics) IncRateLimited(path string) {
	if m == nil {
		return
	}
	m.HTTPRateLimited.WithLabelValues(path).Inc()
}

// ObserveQuery записывает длительность запроса к БД
func (m *Metrics) ObserveQuery(operation string, err error, d time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.DBQueryDuration.WithLabelValues(operation, status).Observe(d.Seconds())
}

// ObserveBooking считает операции с бронированиями по коду результата
func (m *Metrics) ObserveBooking(operation, outcome string) {
	if m == nil {
		return
	}
	m.BookingOperations.WithLabelValues(operation, outcome).Inc()
}

// ObserveSlotGeneration записывает длительность и размер выдачи слотов
func (m *Metrics) ObserveSlotGeneration(d time.Duration, slots int) {
	if m == nil {
		return
	}
	m.SlotGenerationDuration.Observe(d.Seconds())
	m.SlotsGenerated.Observe(float64(slots))
}

// AddAutoCompleted считает бронирования, завершенные по расписанию
func (m *Metrics) AddAutoCompleted(n int) {
	if m == nil {
		return
	}
	m.BookingsAutoCompleted.Add(float64(n))
}
