package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the service.
type Metrics struct {
	PagesFetchedTotal prometheus.Counter
	FetchErrorsTotal  prometheus.Counter
	FetchDuration     prometheus.Histogram
	HTTPRequestsTotal *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		PagesFetchedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cohort_provider_pages_fetched_total",
			Help: "Total number of provider list pages fetched successfully",
		}),
		FetchErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cohort_provider_fetch_errors_total",
			Help: "Total number of failed provider list requests",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cohort_provider_fetch_duration_seconds",
			Help:    "Provider list request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cohort_http_requests_total",
			Help: "Total number of HTTP requests served",
		}, []string{"method", "path", "status"}),
	}

	reg.MustRegister(
		m.PagesFetchedTotal,
		m.FetchErrorsTotal,
		m.FetchDuration,
		m.HTTPRequestsTotal,
	)
	return m
}
