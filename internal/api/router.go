package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/api/handlers"
)

// NewRouter builds the HTTP router for the cohort service.
func NewRouter(h *handlers.CohortHandler, registry *prometheus.Registry, exposeMetrics bool) http.Handler {
	r := chi.NewRouter()

	r.Route("/cohorts", func(r chi.Router) {
		r.Get("/", h.GetCohort)
		r.Get("/mrr", h.GetMRR)
		r.Get("/report.xlsx", h.GetReport)
	})

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if exposeMetrics && registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	return r
}
