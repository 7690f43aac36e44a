package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/cache"
	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/cohort"
	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/models"
)

type stubProvider struct {
	customers []*models.Customer
	err       error
	calls     atomic.Int32
}

func (p *stubProvider) ListCustomers(_ context.Context, _ models.CreatedRange, limit, offset int) (*models.Page, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	end := offset + limit
	if end > len(p.customers) {
		end = len(p.customers)
	}
	var data []*models.Customer
	if offset < end {
		data = p.customers[offset:end]
	}
	return &models.Page{Data: data, TotalCount: len(p.customers)}, nil
}

func testCustomers() []*models.Customer {
	created := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC).Unix()
	return []*models.Customer{{
		ID:      "cus_1",
		Email:   "jane@example.com",
		Created: created,
		Subscriptions: models.SubscriptionList{Data: []*models.Subscription{{
			ID:     "sub_1",
			Status: models.StatusActive,
			Start:  created,
			Plan:   &models.Plan{ID: "pro", Name: "Pro", Amount: 10000, Interval: "month", IntervalCount: 1},
		}}},
	}}
}

func newHandler(provider *stubProvider, opts cohort.Options, ttl time.Duration) *CohortHandler {
	assembler := cohort.New(provider, opts, nil, nil)
	return NewCohortHandler(assembler, cache.New(ttl), nil)
}

func TestGetCohort(t *testing.T) {
	h := newHandler(&stubProvider{customers: testCustomers()}, cohort.Options{}, 0)

	req := httptest.NewRequest(http.MethodGet, "/cohorts?start=2024-02-01&end=2024-03-01", nil)
	rec := httptest.NewRecorder()
	h.GetCohort(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)
	assert.Contains(t, rec.Body.String(), "jane@example.com")
}

func TestGetCohortMissingStart(t *testing.T) {
	h := newHandler(&stubProvider{customers: testCustomers()}, cohort.Options{}, 0)

	req := httptest.NewRequest(http.MethodGet, "/cohorts", nil)
	rec := httptest.NewRecorder()
	h.GetCohort(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCohortBadDate(t *testing.T) {
	h := newHandler(&stubProvider{customers: testCustomers()}, cohort.Options{}, 0)

	req := httptest.NewRequest(http.MethodGet, "/cohorts?start=february", nil)
	rec := httptest.NewRecorder()
	h.GetCohort(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCohortProviderFailure(t *testing.T) {
	h := newHandler(&stubProvider{err: errors.New("boom")}, cohort.Options{}, 0)

	req := httptest.NewRequest(http.MethodGet, "/cohorts?start=2024-02-01", nil)
	rec := httptest.NewRecorder()
	h.GetCohort(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetMRR(t *testing.T) {
	h := newHandler(&stubProvider{customers: testCustomers()}, cohort.Options{IgnoreFees: true}, 0)

	req := httptest.NewRequest(http.MethodGet, "/cohorts/mrr?start=2024-02-01", nil)
	rec := httptest.NewRecorder()
	h.GetMRR(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"mrr":100`)
	assert.Contains(t, rec.Body.String(), `"subscriptions":1`)
}

func TestGetMRRWithFees(t *testing.T) {
	h := newHandler(&stubProvider{customers: testCustomers()}, cohort.Options{}, 0)

	req := httptest.NewRequest(http.MethodGet, "/cohorts/mrr?start=2024-02-01", nil)
	rec := httptest.NewRecorder()
	h.GetMRR(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"mrr":97.1`)
}

func TestGetMRRUnknownIntervalIsServerError(t *testing.T) {
	customers := testCustomers()
	customers[0].Subscriptions.Data[0].Plan.Interval = "fortnight"
	h := newHandler(&stubProvider{customers: customers}, cohort.Options{}, 0)

	req := httptest.NewRequest(http.MethodGet, "/cohorts/mrr?start=2024-02-01", nil)
	rec := httptest.NewRecorder()
	h.GetMRR(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCohortCacheAvoidsRefetch(t *testing.T) {
	provider := &stubProvider{customers: testCustomers()}
	h := newHandler(provider, cohort.Options{}, time.Minute)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/cohorts?start=2024-02-01&end=2024-03-01", nil)
		rec := httptest.NewRecorder()
		h.GetCohort(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestGetReport(t *testing.T) {
	h := newHandler(&stubProvider{customers: testCustomers()}, cohort.Options{}, 0)

	req := httptest.NewRequest(http.MethodGet, "/cohorts/report.xlsx?start=2024-02-01", nil)
	rec := httptest.NewRecorder()
	h.GetReport(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())
}
