package entities

import "github.com/shopspring/decimal"

// ClaimTotals aggregates the money side of one request: how many claims
// were submitted against it, the summed item amounts, and how many of
// those claims carry both approvals.
type ClaimTotals struct {
	RequestID    string          `db:"request_id" json:"request_id"`
	ClaimCount   int64           `db:"claim_count" json:"claim_count"`
	TotalAmount  decimal.Decimal `db:"total_amount" json:"total_amount"`
	SettledCount int64           `db:"settled_count" json:"settled_count"`
}
