package repositories

import (
	"context"
	"fmt"

	"github.com/cpenseur/CSIT314-Null/internal/constants"
	"github.com/cpenseur/CSIT314-Null/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// ReportRepository serves the read-only aggregate queries behind admin
// reporting. It speaks raw SQL over sqlx instead of the ORM: the
// queries are wide joins shaped for StructScan, not entity graphs.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new sqlx-based report repository
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db}
}

// EngagementSummary returns one row per request with view and shortlist
// counts recomputed from the log tables.
func (r *ReportRepository) EngagementSummary(ctx context.Context) ([]entities.EngagementSummary, error) {
	var rows []entities.EngagementSummary

	err := r.db.SelectContext(ctx, &rows, constants.EngagementSummaryQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to run engagement summary: %w", err)
	}

	return rows, nil
}

// ClaimTotals returns per-request claim counts, summed amounts and how
// many claims are fully approved. Requests without claims are omitted.
func (r *ReportRepository) ClaimTotals(ctx context.Context) ([]entities.ClaimTotals, error) {
	var rows []entities.ClaimTotals

	err := r.db.SelectContext(ctx, &rows, constants.ClaimTotalsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to run claim totals: %w", err)
	}

	return rows, nil
}
