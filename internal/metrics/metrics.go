// Package metrics exposes Prometheus counters for the engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Application outcomes.
const (
	OutcomeApproved = "approved"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics holds the counters and the registry they are registered with.
type Metrics struct {
	registry *prometheus.Registry

	Applications  *prometheus.CounterVec
	RateFallbacks prometheus.Counter
	HTTPRequests  *prometheus.CounterVec
	OverdueMarked *prometheus.CounterVec
	DepositsPaid  prometheus.Counter
}

// New registers every counter with a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Applications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bank_applications_total",
			Help: "Product applications by product and outcome.",
		}, []string{"product", "outcome"}),
		RateFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bank_rate_fallbacks_total",
			Help: "Times the fallback rate was used because the central bank rate was unavailable.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bank_http_requests_total",
			Help: "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
		OverdueMarked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bank_overdue_payments_total",
			Help: "Installments marked late by the overdue sweep.",
		}, []string{"product"}),
		DepositsPaid: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bank_deposits_paid_out_total",
			Help: "Matured deposits credited back to their accounts.",
		}),
	}
	m.registry.MustRegister(m.Applications, m.RateFallbacks, m.HTTPRequests, m.OverdueMarked, m.DepositsPaid)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Application counts one product application outcome.
func (m *Metrics) Application(product, outcome string) {
	m.Applications.WithLabelValues(product, outcome).Inc()
}
