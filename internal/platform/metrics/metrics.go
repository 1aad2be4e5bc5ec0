package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the ledger engines.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Registry owns the collectors below. Private so tests can build many instances.
	Registry *prometheus.Registry

	operationDuration *prometheus.HistogramVec
	authorizations    *prometheus.CounterVec
	settlements       *prometheus.CounterVec
	payments          prometheus.Counter
	paymentVolume     prometheus.Counter
	statements        *prometheus.CounterVec
	duplicates        *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_operation_duration_seconds",
				Help:    "Duration of ledger engine operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		authorizations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_authorizations_total",
				Help: "Authorization decisions by result and decline code.",
			},
			[]string{"result", "code"},
		),
		settlements: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_settlements_total",
				Help: "Settlement outcomes by result and reason code.",
			},
			[]string{"result", "code"},
		),
		payments: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_payments_total",
				Help: "Payments applied.",
			},
		),
		paymentVolume: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_payment_amount_total",
				Help: "Sum of applied payment amounts in currency units.",
			},
		),
		statements: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_statements_total",
				Help: "Statement generation results.",
			},
			[]string{"result"},
		),
		duplicates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_duplicate_requests_total",
				Help: "Requests answered from an already stored record.",
			},
			[]string{"operation"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// ObserveDuration records time elapsed since start for operation.
func (m *Metrics) ObserveDuration(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.operationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// IncAuthorization counts a decision. code is empty for approvals.
func (m *Metrics) IncAuthorization(approved bool, code string) {
	if m == nil {
		return
	}
	m.authorizations.WithLabelValues(result(approved), code).Inc()
}

func (m *Metrics) IncSettlement(settled bool, code string) {
	if m == nil {
		return
	}
	res := "settled"
	if !settled {
		res = "rejected"
	}
	m.settlements.WithLabelValues(res, code).Inc()
}

func (m *Metrics) IncPayment(amount float64) {
	if m == nil {
		return
	}
	m.payments.Inc()
	m.paymentVolume.Add(amount)
}

// IncStatement counts one account's outcome: "generated", "skipped" or "failed".
func (m *Metrics) IncStatement(outcome string) {
	if m == nil {
		return
	}
	m.statements.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncDuplicate(operation string) {
	if m == nil {
		return
	}
	m.duplicates.WithLabelValues(operation).Inc()
}

func result(ok bool) string {
	if ok {
		return "approved"
	}
	return "declined"
}
