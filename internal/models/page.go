package models

// Page is one batch of a paginated customer listing. TotalCount is the
// provider's unfiltered count for the whole query, not the batch size.
type Page struct {
	Data       []*Customer `json:"data"`
	TotalCount int         `json:"total_count"`
}

// CreatedRange bounds a customer-creation query window in unix seconds.
// A zero bound means unbounded on that side.
type CreatedRange struct {
	GTE int64
	LTE int64
}
