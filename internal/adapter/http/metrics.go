package adapthttp

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Outcome labels of njaboot_auth_attempts_total.
const (
	outcomeSuccess  = "success"
	outcomeFailure  = "failure"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

type metrics struct {
	authAttempts *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// newMetrics registers the server metrics on reg.
func newMetrics(reg prometheus.Registerer) *metrics {
	authAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "njaboot_auth_attempts_total",
		Help: "Authentication attempts by operation and outcome.",
	}, []string{"op", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "njaboot_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	reg.MustRegister(
		authAttempts,
		duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &metrics{authAttempts: authAttempts, duration: duration}
}

func (m *metrics) authAttempt(op, outcome string) {
	if m == nil {
		return
	}
	m.authAttempts.WithLabelValues(op, outcome).Inc()
}

func (m *metrics) observe(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.duration.WithLabelValues(method, route, statusClass(status)).Observe(d.Seconds())
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
