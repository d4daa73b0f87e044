package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RequestDuration   *prometheus.HistogramVec
	CheckIns          prometheus.Counter
	CheckInConflicts  prometheus.Counter
	IncidentsReported prometheus.Counter
	PaymentsCreated   prometheus.Counter
	ExpensesRecorded  prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "daystar_http_request_duration_ms",
			Help:    "Latency of HTTP requests in milliseconds",
			Buckets: []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"route", "method", "status"}),
		CheckIns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "daystar_attendance_checkins_total",
			Help: "Total number of successful attendance check-ins",
		}),
		CheckInConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "daystar_attendance_checkin_conflicts_total",
			Help: "Check-in attempts rejected because the child was already checked in",
		}),
		IncidentsReported: promauto.NewCounter(prometheus.CounterOpts{
			Name: "daystar_incidents_reported_total",
			Help: "Total number of incident reports filed",
		}),
		PaymentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "daystar_payments_created_total",
			Help: "Total number of babysitter payment records created",
		}),
		ExpensesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "daystar_expenses_recorded_total",
			Help: "Total number of expense records created",
		}),
	}
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(route, method, status string, durationMs float64) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, method, status).Observe(durationMs)
}

// The counter helpers are nil-safe so services can run without a
// registry in tests.

func (m *Metrics) CheckIn() {
	if m != nil {
		m.CheckIns.Inc()
	}
}

func (m *Metrics) CheckInConflict() {
	if m != nil {
		m.CheckInConflicts.Inc()
	}
}

func (m *Metrics) IncidentReported() {
	if m != nil {
		m.IncidentsReported.Inc()
	}
}

func (m *Metrics) PaymentCreated() {
	if m != nil {
		m.PaymentsCreated.Inc()
	}
}

func (m *Metrics) ExpenseRecorded() {
	if m != nil {
		m.ExpensesRecorded.Inc()
	}
}
