package revenue

import (
	"fmt"
	"math"

	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/models"
)

// DefaultFeeRate is the provider transaction fee deducted from MRR
// unless fees are ignored (2.9%).
const DefaultFeeRate = 0.029

// UnsupportedIntervalError signals a plan interval outside the known
// set. It is fatal for the whole batch: silently defaulting would
// under-report revenue.
type UnsupportedIntervalError struct {
	Interval string
}

func (e *UnsupportedIntervalError) Error() string {
	return fmt.Sprintf("unsupported billing interval %q", e.Interval)
}

// Entry pairs a subscription with its owning customer. The pairing is
// built once at cohort assembly; computing a monthly amount needs the
// customer's discount, which is not reachable from the subscription
// record alone.
type Entry struct {
	Subscription *models.Subscription
	Customer     *models.Customer
}

// Monthly converts one subscription into dollars per month: minor units
// to dollars, proration to a monthly cadence, subscription discount,
// then customer discount, then the fee deduction. feeRate <= 0 disables
// the fee step. The result is intentionally unrounded; rounding happens
// once at the aggregation boundary.
func Monthly(e Entry, feeRate float64) (float64, error) {
	plan := e.Subscription.Plan
	amount := float64(plan.Amount) / 100.0

	amount, err := prorate(amount, plan.Interval, plan.IntervalCount)
	if err != nil {
		return 0, err
	}

	// A free (or negative) subscription never goes negative from
	// discounts and never pays fees.
	if amount <= 0 {
		return amount, nil
	}

	amount = applyDiscount(amount, e.Subscription.Discount)
	amount = applyDiscount(amount, e.Customer.Discount)

	if feeRate > 0 {
		amount *= 1.0 - feeRate
	}
	return amount, nil
}

// SumMonthly sums Monthly over all entries and rounds to cents,
// half-up. Any unsupported interval aborts the whole batch.
func SumMonthly(entries []Entry, feeRate float64) (float64, error) {
	total := 0.0
	for _, e := range entries {
		amount, err := Monthly(e, feeRate)
		if err != nil {
			return 0, err
		}
		total += amount
	}
	return RoundCents(total), nil
}

// RoundCents rounds a dollar amount to two decimal places, half-up.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100.0
}

func prorate(amount float64, interval string, intervalCount int) (float64, error) {
	count := float64(intervalCount)
	switch interval {
	case models.IntervalDay:
		return amount * 30 / count, nil
	case models.IntervalWeek:
		return amount * 4 / count, nil
	case models.IntervalMonth:
		return amount / count, nil
	case models.IntervalYear:
		return amount / 12 / count, nil
	default:
		return 0, &UnsupportedIntervalError{Interval: interval}
	}
}

// applyDiscount applies a single coupon to a shrinking base. A fixed
// amount_off wins over percent_off when both are present; a coupon with
// neither falls through unchanged.
func applyDiscount(amount float64, d *models.Discount) float64 {
	if d == nil || d.Coupon == nil {
		return amount
	}
	c := d.Coupon
	if c.AmountOff != 0 {
		amount -= float64(c.AmountOff) / 100.0
	} else if c.PercentOff != 0 {
		amount *= 1.0 - c.PercentOff/100.0
	}
	return amount
}
