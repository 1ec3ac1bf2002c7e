// Package metrics holds the Prometheus instruments for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics aggregates every instrument so constructors receive one dependency.
// A nil *Metrics is safe: all methods no-op.
type Metrics struct {
	loginAttempts         *prometheus.CounterVec
	accountsCreated       *prometheus.CounterVec
	applicationsSubmitted prometheus.Counter
	statusUpdates         *prometheus.CounterVec
	httpDuration          *prometheus.HistogramVec
}

// New creates and registers all instruments on the default registry.
func New() *Metrics {
	return &Metrics{
		loginAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ongfinder_login_attempts_total",
			Help: "Login attempts by outcome (success, not_found, inactive, bad_password, throttled).",
		}, []string{"outcome"}),
		accountsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ongfinder_accounts_created_total",
			Help: "Accounts registered, by kind.",
		}, []string{"kind"}),
		applicationsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ongfinder_applications_submitted_total",
			Help: "Applications submitted by volunteers.",
		}),
		statusUpdates: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ongfinder_application_status_updates_total",
			Help: "Application status updates, by resulting status.",
		}, []string{"status"}),
		httpDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ongfinder_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status class.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

func (m *Metrics) IncrementLogin(outcome string) {
	if m != nil {
		m.loginAttempts.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncrementAccountCreated(kind string) {
	if m != nil {
		m.accountsCreated.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) IncrementApplicationSubmitted() {
	if m != nil {
		m.applicationsSubmitted.Inc()
	}
}

func (m *Metrics) IncrementStatusUpdate(status string) {
	if m != nil {
		m.statusUpdates.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) ObserveHTTPDuration(route, status string, seconds float64) {
	if m != nil {
		m.httpDuration.WithLabelValues(route, status).Observe(seconds)
	}
}
