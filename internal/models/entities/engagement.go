package entities

// EngagementSummary is one row of the engagement report: per-request
// view and shortlist counts recomputed straight from the log tables.
type EngagementSummary struct {
	RequestID      string `db:"request_id" json:"request_id"`
	ServiceType    string `db:"service_type" json:"service_type"`
	Status         string `db:"status" json:"status"`
	ViewCount      int64  `db:"view_count" json:"view_count"`
	ShortlistCount int64  `db:"shortlist_count" json:"shortlist_count"`
}

// RequestStats is the cached per-request engagement tally handed to
// browse screens. Counts are recomputed from the logs on a cache miss.
type RequestStats struct {
	RequestID  string `json:"request_id"`
	Views      int64  `json:"views"`
	Shortlists int64  `json:"shortlists"`
}
