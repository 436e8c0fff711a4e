package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes
const (
	LoginTrusted     = "trusted"
	LoginOTPRequired = "otp_required"
	LoginOTPVerified = "otp_verified"
	LoginFailed      = "failed"
)

var (
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Login attempts by outcome.",
		},
		[]string{"outcome"},
	)
	CreditScores = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_scores_calculated_total",
			Help: "Credit scores calculated by rating.",
		},
		[]string{"rating"},
	)
	MailsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mail_dispatched_total",
			Help: "Outbound mails by result.",
		},
		[]string{"template", "result"},
	)
)

func Register(registry *prometheus.Registry) {
	registry.MustRegister(RequestCount, RequestDuration, LoginAttempts, CreditScores, MailsDispatched)
}

func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
