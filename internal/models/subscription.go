package models

// Subscription statuses the provider reports. Anything else is carried
// through as an opaque string and only matched by exact Status filters.
const (
	StatusActive   = "active"
	StatusTrialing = "trialing"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
	StatusUnpaid   = "unpaid"
)

// Billing intervals the revenue normalizer understands.
const (
	IntervalDay   = "day"
	IntervalWeek  = "week"
	IntervalMonth = "month"
	IntervalYear  = "year"
)

type Subscription struct {
	ID       string    `json:"id"`
	Status   string    `json:"status"`
	Start    int64     `json:"start"` // unix seconds
	Plan     *Plan     `json:"plan"`
	Discount *Discount `json:"discount,omitempty"`
}

type Plan struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Amount        int64  `json:"amount"` // minor currency units (cents)
	Interval      string `json:"interval"`
	IntervalCount int    `json:"interval_count"`
}
