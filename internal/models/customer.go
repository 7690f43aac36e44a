package models

// Customer is a billing-provider customer record as returned by the
// paginated list endpoint. Records are read-only once fetched.
type Customer struct {
	ID            string           `json:"id"`
	Email         string           `json:"email"`
	Created       int64            `json:"created"` // unix seconds
	Delinquent    bool             `json:"delinquent"`
	Discount      *Discount        `json:"discount,omitempty"`
	Subscriptions SubscriptionList `json:"subscriptions"`
}

// SubscriptionList mirrors the provider's nested sublist object.
type SubscriptionList struct {
	Data []*Subscription `json:"data"`
}
