// Package metrics exposes Prometheus collectors for the site.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "magneto_http_requests_total",
		Help: "HTTP requests by route and status class",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "magneto_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "magneto_operation_duration_seconds",
		Help:    "Duration of tracked operations by kind",
		Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"kind", "success"})

	CMSQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "magneto_cms_queries_total",
		Help: "CMS GraphQL queries by operation and outcome",
	}, []string{"operation", "outcome"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "magneto_content_cache_lookups_total",
		Help: "Content cache lookups by result",
	}, []string{"result"})

	FallbackCopyServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "magneto_fallback_copy_served_total",
		Help: "Page sections rendered from fallback copy because the CMS failed",
	}, []string{"section"})

	DeliveryOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "magneto_delivery_outcomes_total",
		Help: "Outbound deliveries by channel and outcome",
	}, []string{"channel", "outcome"})

	BookingRedirects = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "magneto_booking_redirects_total",
		Help: "No-script booking redirects by campaign tag",
	}, []string{"campaign"})
)

// ObserveOperation records a performance marker. Operations are named
// "kind:detail" and only the kind is used as a label.
func ObserveOperation(operation string, duration time.Duration, success bool) {
	kind := operation
	if i := strings.IndexByte(operation, ':'); i > 0 {
		kind = operation[:i]
	}
	OperationDuration.WithLabelValues(kind, outcome(success)).Observe(duration.Seconds())
}

// Delivery records the outcome of one outbound channel.
func Delivery(channel string, success bool) {
	DeliveryOutcomes.WithLabelValues(channel, outcome(success)).Inc()
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
