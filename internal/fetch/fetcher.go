package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/metrics"
	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/models"
)

var (
	ErrInvalidPageSize    = errors.New("fetch: page size must be positive")
	ErrInvalidConcurrency = errors.New("fetch: concurrency must be positive")
)

// CustomerLister is the paged-list capability the billing provider
// exposes: one batch of customers at the given offset plus the total
// unfiltered count for the query.
type CustomerLister interface {
	ListCustomers(ctx context.Context, created models.CreatedRange, limit, offset int) (*models.Page, error)
}

// Fetcher retrieves a complete, provider-paginated customer listing
// into a single slice: one probing request at offset 0, then the
// remaining pages fanned out with a bounded number of requests in
// flight. Pages are concatenated in ascending offset order no matter
// which order the responses arrive in.
type Fetcher struct {
	lister      CustomerLister
	pageSize    int
	concurrency int
	metrics     *metrics.Metrics
}

// New builds a Fetcher. pageSize and concurrency are validated on
// FetchAll, before any request goes out.
func New(lister CustomerLister, pageSize, concurrency int, m *metrics.Metrics) *Fetcher {
	return &Fetcher{
		lister:      lister,
		pageSize:    pageSize,
		concurrency: concurrency,
		metrics:     m,
	}
}

// FetchAll returns every customer the provider reports for the created
// window. If any page request fails, the first error is returned and no
// partial results are exposed. The total count is captured once by the
// probe request; concurrent mutation at the provider between the probe
// and the page requests can make the final count drift from it.
func (f *Fetcher) FetchAll(ctx context.Context, created models.CreatedRange) ([]*models.Customer, error) {
	if f.pageSize <= 0 {
		return nil, ErrInvalidPageSize
	}
	if f.concurrency <= 0 {
		return nil, ErrInvalidConcurrency
	}

	first, err := f.listPage(ctx, created, 0)
	if err != nil {
		return nil, err
	}

	got := len(first.Data)
	total := first.TotalCount
	if got >= total {
		// Single page, or an empty result set.
		return first.Data, nil
	}

	remaining := total - got
	pages := (remaining + f.pageSize - 1) / f.pageSize

	// Each page writes into its own slot so results land in offset
	// order regardless of response arrival order.
	slots := make([][]*models.Customer, pages)

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(f.concurrency)
	for i := 0; i < pages; i++ {
		i := i
		eg.Go(func() error {
			page, err := f.listPage(gctx, created, got+i*f.pageSize)
			if err != nil {
				return err
			}
			slots[i] = page.Data
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := make([]*models.Customer, 0, total)
	out = append(out, first.Data...)
	for _, slot := range slots {
		out = append(out, slot...)
	}
	return out, nil
}

func (f *Fetcher) listPage(ctx context.Context, created models.CreatedRange, offset int) (*models.Page, error) {
	start := time.Now()
	page, err := f.lister.ListCustomers(ctx, created, f.pageSize, offset)
	if f.metrics != nil {
		f.metrics.FetchDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			f.metrics.FetchErrorsTotal.Inc()
		} else {
			f.metrics.PagesFetchedTotal.Inc()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("list customers at offset %d: %w", offset, err)
	}
	return page, nil
}
