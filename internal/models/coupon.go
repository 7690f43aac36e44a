package models

// Discount wraps the coupon attached to a customer or subscription.
type Discount struct {
	Coupon *Coupon `json:"coupon,omitempty"`
}

// Coupon carries either a fixed amount off in minor units or a
// percentage off. A coupon with neither set is a no-op.
type Coupon struct {
	ID         string  `json:"id"`
	AmountOff  int64   `json:"amount_off,omitempty"`
	PercentOff float64 `json:"percent_off,omitempty"`
}
