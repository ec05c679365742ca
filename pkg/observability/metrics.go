// Package observability provides a Prometheus implementation of the client's
// request lifecycle hook.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mutinyhq/paypal-go/paypal"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paypal_api_requests_total",
			Help: "Total number of API request attempts",
		},
		[]string{"protocol", "method"},
	)

	apiRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paypal_api_request_errors_total",
			Help: "Total number of API request attempts that failed at the transport or HTTP layer",
		},
		[]string{"protocol", "method"},
	)

	apiRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paypal_api_retries_total",
			Help: "Total number of retries scheduled for transient gateway errors",
		},
		[]string{"protocol", "method"},
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "paypal_api_request_duration_seconds",
			Help:    "Duration of API request attempts in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"protocol", "method"},
	)
)

// RequestMetrics records Prometheus metrics for every request attempt.
// Install it with Client.SetObserver.
type RequestMetrics struct{}

// NewRequestMetrics creates a RequestMetrics observer. Metrics register on
// the default registry.
func NewRequestMetrics() *RequestMetrics {
	return &RequestMetrics{}
}

// RequestSent implements paypal.Observer.
func (m *RequestMetrics) RequestSent(protocol paypal.Protocol, method string, attempt int) {
	apiRequestsTotal.WithLabelValues(string(protocol), method).Inc()
}

// ResponseReceived implements paypal.Observer.
func (m *RequestMetrics) ResponseReceived(protocol paypal.Protocol, method string, attempt int, duration time.Duration, err error) {
	apiRequestDuration.WithLabelValues(string(protocol), method).Observe(duration.Seconds())
	if err != nil {
		apiRequestErrors.WithLabelValues(string(protocol), method).Inc()
	}
}

// RetryScheduled implements paypal.Observer.
func (m *RequestMetrics) RetryScheduled(protocol paypal.Protocol, method string, attempt int, delay time.Duration) {
	apiRetriesTotal.WithLabelValues(string(protocol), method).Inc()
}
