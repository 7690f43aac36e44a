package cohort

import (
	"time"

	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/models"
	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/revenue"
)

// Subscriptions is an immutable view over customer/subscription pairs.
type Subscriptions struct {
	entries []revenue.Entry
	feeRate float64
}

// Started filters to active subscriptions started between start and
// end, inclusive. A zero start leaves the view unfiltered; a zero end
// means "far future". Only status "active" counts as started, so a
// trialing subscription is never matched by a start window.
func (s *Subscriptions) Started(start, end time.Time) *Subscriptions {
	if start.IsZero() {
		return s
	}
	if end.IsZero() {
		end = farFuture
	}
	from, to := start.Unix(), end.Unix()
	return s.filter(func(e revenue.Entry) bool {
		if e.Subscription.Status != models.StatusActive {
			return false
		}
		return e.Subscription.Start >= from && e.Subscription.Start <= to
	})
}

// Active filters to active subscriptions started in the window.
func (s *Subscriptions) Active(start, end time.Time) *Subscriptions {
	return s.Started(start, end).Status(models.StatusActive)
}

// Trialing filters to trialing subscriptions started in the window.
func (s *Subscriptions) Trialing(start, end time.Time) *Subscriptions {
	return s.Started(start, end).Status(models.StatusTrialing)
}

// Status filters by exact subscription status.
func (s *Subscriptions) Status(status string) *Subscriptions {
	return s.filter(func(e revenue.Entry) bool {
		return e.Subscription.Status == status
	})
}

// Plan filters to subscriptions on the given plan.
func (s *Subscriptions) Plan(planID string) *Subscriptions {
	return s.filter(func(e revenue.Entry) bool {
		return e.Subscription.Plan != nil && e.Subscription.Plan.ID == planID
	})
}

// WithoutPlan filters out subscriptions on the given plan.
func (s *Subscriptions) WithoutPlan(planID string) *Subscriptions {
	return s.filter(func(e revenue.Entry) bool {
		return e.Subscription.Plan == nil || e.Subscription.Plan.ID != planID
	})
}

// Paid filters to subscriptions whose plan costs at least minAmount
// minor units. Zero means at least one cent.
func (s *Subscriptions) Paid(minAmount int64) *Subscriptions {
	if minAmount == 0 {
		minAmount = 1
	}
	return s.filter(func(e revenue.Entry) bool {
		return e.Subscription.Plan != nil && e.Subscription.Plan.Amount >= minAmount
	})
}

// List returns the subscription/customer pairs started in the window.
func (s *Subscriptions) List(start, end time.Time) []revenue.Entry {
	return s.Started(start, end).entries
}

// Count counts the subscriptions started in the window.
func (s *Subscriptions) Count(start, end time.Time) int {
	return len(s.Started(start, end).entries)
}

// MRR computes the monthly recurring revenue of the subscriptions
// started in the window, rounded to cents. An unsupported billing
// interval anywhere in the batch fails the whole figure.
func (s *Subscriptions) MRR(start, end time.Time) (float64, error) {
	return revenue.SumMonthly(s.Started(start, end).entries, s.feeRate)
}

// FeeRate reports the fee rate MRR figures are computed with.
func (s *Subscriptions) FeeRate() float64 {
	return s.feeRate
}

func (s *Subscriptions) filter(fn func(revenue.Entry) bool) *Subscriptions {
	kept := make([]revenue.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if fn(e) {
			kept = append(kept, e)
		}
	}
	return &Subscriptions{entries: kept, feeRate: s.feeRate}
}
