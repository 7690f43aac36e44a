package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/cache"
	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/cohort"
	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/report"
	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/revenue"
)

// --- Response DTOs ---

type CustomerSummary struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Created    int64  `json:"created"`
	Delinquent bool   `json:"delinquent"`
}

type CohortResponse struct {
	Count     int               `json:"count"`
	Customers []CustomerSummary `json:"customers"`
}

type MRRResponse struct {
	MRR           float64 `json:"mrr"`
	Subscriptions int     `json:"subscriptions"`
	Customers     int     `json:"customers"`
	FeeRate       float64 `json:"fee_rate"`
}

// --- Handler struct & constructor ---

type CohortHandler struct {
	assembler *cohort.Assembler
	cache     *cache.CohortCache
	log       *logrus.Logger
}

func NewCohortHandler(assembler *cohort.Assembler, cohortCache *cache.CohortCache, log *logrus.Logger) *CohortHandler {
	if log == nil {
		log = logrus.New()
	}
	return &CohortHandler{
		assembler: assembler,
		cache:     cohortCache,
		log:       log,
	}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// parseDate accepts YYYY-MM-DD or full RFC3339 timestamps.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func parseWindow(r *http.Request) (start, end time.Time, err error) {
	start, err = parseDate(r.URL.Query().Get("start"))
	if err != nil {
		return
	}
	end, err = parseDate(r.URL.Query().Get("end"))
	return
}

// loadCohort assembles the cohort for the window, going through the
// TTL cache when one is configured.
func (h *CohortHandler) loadCohort(r *http.Request, start, end time.Time) (*cohort.Customers, error) {
	key := cache.Key(start, end)
	if h.cache != nil {
		if customers, ok := h.cache.Get(key); ok {
			return customers, nil
		}
	}
	customers, err := h.assembler.Cohort(r.Context(), start, end)
	if err != nil {
		return nil, err
	}
	if h.cache != nil {
		h.cache.Set(key, customers)
	}
	return customers, nil
}

// writeError maps the error taxonomy onto status codes: bad input is
// the caller's fault, an unknown interval is bad provider data, and
// everything else is a provider/transport failure.
func (h *CohortHandler) writeError(w http.ResponseWriter, err error) {
	h.log.WithError(err).Error("cohort request failed")

	switch {
	case errors.Is(err, cohort.ErrMissingStart), errors.Is(err, cohort.ErrInvalidWindow):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		var intervalErr *revenue.UnsupportedIntervalError
		if errors.As(err, &intervalErr) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
}

// --- Handlers ---

// GetCohort handles GET /cohorts?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *CohortHandler) GetCohort(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseWindow(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date; use YYYY-MM-DD or RFC3339"})
		return
	}

	customers, err := h.loadCohort(r, start, end)
	if err != nil {
		h.writeError(w, err)
		return
	}

	list := customers.List(time.Time{}, time.Time{})
	resp := CohortResponse{
		Count:     len(list),
		Customers: make([]CustomerSummary, 0, len(list)),
	}
	for _, c := range list {
		resp.Customers = append(resp.Customers, CustomerSummary{
			ID:         c.ID,
			Email:      c.Email,
			Created:    c.Created,
			Delinquent: c.Delinquent,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetMRR handles GET /cohorts/mrr?start=...&end=...&status=...&plan=...
func (h *CohortHandler) GetMRR(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseWindow(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date; use YYYY-MM-DD or RFC3339"})
		return
	}

	customers, err := h.loadCohort(r, start, end)
	if err != nil {
		h.writeError(w, err)
		return
	}

	subs := customers.Subscriptions(time.Time{}, time.Time{})
	if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
		subs = subs.Status(status)
	}
	if planID := strings.TrimSpace(r.URL.Query().Get("plan")); planID != "" {
		subs = subs.Plan(planID)
	}

	mrr, err := subs.MRR(time.Time{}, time.Time{})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MRRResponse{
		MRR:           mrr,
		Subscriptions: subs.Count(time.Time{}, time.Time{}),
		Customers:     customers.Count(time.Time{}, time.Time{}),
		FeeRate:       subs.FeeRate(),
	})
}

// GetReport handles GET /cohorts/report.xlsx?start=...&end=...
func (h *CohortHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseWindow(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date; use YYYY-MM-DD or RFC3339"})
		return
	}

	customers, err := h.loadCohort(r, start, end)
	if err != nil {
		h.writeError(w, err)
		return
	}

	subs := customers.Subscriptions(time.Time{}, time.Time{})
	buf, err := report.Excel(subs.List(time.Time{}, time.Time{}), subs.FeeRate())
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="cohort-mrr.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
