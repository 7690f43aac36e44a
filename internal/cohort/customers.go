package cohort

import (
	"time"

	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/models"
	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/revenue"
)

// Customers is an immutable view over an assembled cohort. Every filter
// returns a new view; the underlying records are shared and never
// mutated.
type Customers struct {
	customers []*models.Customer
	feeRate   float64
}

// NewCustomers wraps an already-fetched customer set. feeRate is the
// provider fee applied in MRR figures; pass 0 to ignore fees.
func NewCustomers(customers []*models.Customer, feeRate float64) *Customers {
	return &Customers{customers: customers, feeRate: feeRate}
}

// Created filters to customers created between start and end,
// inclusive. A zero start leaves the view unfiltered; a zero end means
// "far future".
func (c *Customers) Created(start, end time.Time) *Customers {
	if start.IsZero() {
		return c
	}
	if end.IsZero() {
		end = farFuture
	}
	s, e := start.Unix(), end.Unix()
	return c.Filter(func(customer *models.Customer) bool {
		return customer.Created >= s && customer.Created <= e
	})
}

// Delinquent filters by the provider's delinquency flag.
func (c *Customers) Delinquent(delinquent bool) *Customers {
	return c.Filter(func(customer *models.Customer) bool {
		return customer.Delinquent == delinquent
	})
}

// Filter returns a new view holding the customers fn accepts.
func (c *Customers) Filter(fn func(*models.Customer) bool) *Customers {
	kept := make([]*models.Customer, 0, len(c.customers))
	for _, customer := range c.customers {
		if fn(customer) {
			kept = append(kept, customer)
		}
	}
	return &Customers{customers: kept, feeRate: c.feeRate}
}

// List returns the customers created between start and end.
func (c *Customers) List(start, end time.Time) []*models.Customer {
	return c.Created(start, end).customers
}

// Count counts the customers created between start and end.
func (c *Customers) Count(start, end time.Time) int {
	return len(c.Created(start, end).customers)
}

// Subscriptions derives the subscription view, pairing every
// subscription with its owning customer, filtered to subscriptions
// started between start and end.
func (c *Customers) Subscriptions(start, end time.Time) *Subscriptions {
	var entries []revenue.Entry
	for _, customer := range c.customers {
		for _, sub := range customer.Subscriptions.Data {
			entries = append(entries, revenue.Entry{Subscription: sub, Customer: customer})
		}
	}
	view := &Subscriptions{entries: entries, feeRate: c.feeRate}
	return view.Started(start, end)
}
