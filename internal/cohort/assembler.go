package cohort

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/fetch"
	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/metrics"
	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/models"
	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/revenue"
)

var (
	ErrMissingStart  = errors.New("cohort: start date is required")
	ErrInvalidWindow = errors.New("cohort: end date is before start date")
)

const (
	DefaultPageSize    = 100
	DefaultConcurrency = 1
)

// Options configures cohort assembly.
type Options struct {
	// PageSize is the provider page size (default 100).
	PageSize int
	// Concurrency bounds the number of page requests in flight at
	// once (default 1, fully sequential).
	Concurrency int
	// IgnoreFees leaves provider transaction fees out of MRR figures.
	IgnoreFees bool
}

// Assembler fetches every customer created inside a window and joins
// each subscription with its owning customer.
type Assembler struct {
	fetcher *fetch.Fetcher
	opts    Options
	log     *logrus.Logger
}

// New builds an Assembler over the given provider capability. Zero
// option fields fall back to the defaults.
func New(lister fetch.CustomerLister, opts Options, m *metrics.Metrics, log *logrus.Logger) *Assembler {
	if opts.PageSize == 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Concurrency == 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if log == nil {
		log = logrus.New()
	}
	return &Assembler{
		fetcher: fetch.New(lister, opts.PageSize, opts.Concurrency, m),
		opts:    opts,
		log:     log,
	}
}

// Cohort fetches all customers created between start and end
// (inclusive). A zero end means "far future". The returned view is a
// complete snapshot; it never contains partial results.
func (a *Assembler) Cohort(ctx context.Context, start, end time.Time) (*Customers, error) {
	if start.IsZero() {
		return nil, ErrMissingStart
	}
	if end.IsZero() {
		end = farFuture
	}
	if end.Before(start) {
		return nil, ErrInvalidWindow
	}

	created := models.CreatedRange{GTE: start.Unix(), LTE: end.Unix()}
	customers, err := a.fetcher.FetchAll(ctx, created)
	if err != nil {
		return nil, fmt.Errorf("assemble cohort: %w", err)
	}

	a.log.WithFields(logrus.Fields{
		"start":     start.Format(time.RFC3339),
		"end":       end.Format(time.RFC3339),
		"customers": len(customers),
	}).Debug("assembled cohort")

	return &Customers{customers: customers, feeRate: a.feeRate()}, nil
}

func (a *Assembler) feeRate() float64 {
	if a.opts.IgnoreFees {
		return 0
	}
	return revenue.DefaultFeeRate
}

// farFuture stands in for an unset end bound.
var farFuture = time.Date(9999, time.January, 1, 0, 0, 0, 0, time.UTC)
