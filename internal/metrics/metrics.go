// Package metrics provides Prometheus metrics for the review summarizer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "review_summarizer"

var (
	// RequestsTotal counts HTTP requests by route and status code.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"route", "code"},
	)

	// RequestDuration measures HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// UpstreamDuration measures scrape and summarize calls.
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "Duration of upstream calls in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"stage", "status"},
	)

	// ReviewsScraped observes the number of reviews found per page.
	ReviewsScraped = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reviews_scraped",
			Help:      "Distribution of review counts per scraped page",
			Buckets:   []float64{1, 5, 10, 25, 50, 100},
		},
	)

	// ErrorsTotal counts pipeline errors by kind.
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total number of pipeline errors",
		},
		[]string{"kind"},
	)
)

// RecordRequest records a served HTTP request.
func RecordRequest(route, code string, duration float64) {
	RequestsTotal.WithLabelValues(route, code).Inc()
	RequestDuration.WithLabelValues(route).Observe(duration)
}

// RecordUpstream records an upstream call for stage ("scrape" or "summarize").
func RecordUpstream(stage string, err error, duration float64) {
	status := "success"
	if err != nil {
		status = "error"
	}
	UpstreamDuration.WithLabelValues(stage, status).Observe(duration)
}

// RecordError records a classified pipeline error.
func RecordError(kind string) {
	ErrorsTotal.WithLabelValues(kind).Inc()
}
