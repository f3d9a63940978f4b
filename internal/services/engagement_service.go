package services

import (
	"context"
	"fmt"
	"time"

	"github.com/cpenseur/CSIT314-Null/internal/common"
	"github.com/cpenseur/CSIT314-Null/internal/constants"
	"github.com/cpenseur/CSIT314-Null/internal/db/repositories"
	"github.com/cpenseur/CSIT314-Null/internal/metrics"
	"github.com/cpenseur/CSIT314-Null/internal/models/entities"
	gormModels "github.com/cpenseur/CSIT314-Null/internal/models/gorm"
)

// EngagementService records views and shortlists, serves the cached
// per-request tallies, and runs the read-side reports.
type EngagementService struct {
	engagement *repositories.EngagementRepository
	reports    *repositories.ReportRepository
	cache      common.CacheInterface
	metrics    *metrics.MetricsRegistry
	statsTTL   time.Duration
}

// NewEngagementService creates a new engagement service. reports may be
// nil when the deployment has no sqlx handle; the report calls then
// fail cleanly.
func NewEngagementService(
	engagement *repositories.EngagementRepository,
	reports *repositories.ReportRepository,
	cache common.CacheInterface,
	m *metrics.MetricsRegistry,
	statsTTL time.Duration,
) *EngagementService {
	return &EngagementService{
		engagement: engagement,
		reports:    reports,
		cache:      cache,
		metrics:    m,
		statsTTL:   statsTTL,
	}
}

func statsKey(requestID string) string {
	return string(constants.CachePrefixRequestStats) + requestID
}

// RecordView logs a volunteer browsing a request and invalidates the
// cached tally.
func (svc *EngagementService) RecordView(ctx context.Context, requestID, viewerID string) (*gormModels.RequestView, error) {
	start := time.Now()
	view, err := svc.engagement.LogView(ctx, requestID, viewerID)
	svc.metrics.ObserveOp("engagement_view", start, err)
	if err != nil {
		return nil, err
	}

	svc.metrics.ViewsLoggedTotal.Inc()
	svc.cache.Delete(statsKey(requestID))
	return view, nil
}

// RecordShortlist logs a CSR bookmarking a request and invalidates the
// cached tally.
func (svc *EngagementService) RecordShortlist(ctx context.Context, requestID, csrID string) (*gormModels.Shortlist, error) {
	start := time.Now()
	entry, err := svc.engagement.LogShortlist(ctx, requestID, csrID)
	svc.metrics.ObserveOp("engagement_shortlist", start, err)
	if err != nil {
		return nil, err
	}

	svc.metrics.ShortlistsLoggedTotal.Inc()
	svc.cache.Delete(statsKey(requestID))
	return entry, nil
}

// Stats returns the per-request engagement tally, cache-first. A hit
// that lost its shape to JSON (the Redis backend round-trips through
// it) counts as a miss and is recomputed from the logs.
func (svc *EngagementService) Stats(ctx context.Context, requestID string) (*entities.RequestStats, error) {
	key := statsKey(requestID)
	pattern := string(constants.CachePrefixRequestStats)

	if cached, found := svc.cache.Get(key); found {
		if stats, ok := cached.(*entities.RequestStats); ok {
			svc.metrics.CacheHitsTotal.WithLabelValues(pattern).Inc()
			return stats, nil
		}
	}
	svc.metrics.CacheMissesTotal.WithLabelValues(pattern).Inc()

	views, err := svc.engagement.CountViews(ctx, requestID)
	if err != nil {
		return nil, err
	}
	shortlists, err := svc.engagement.CountShortlists(ctx, requestID)
	if err != nil {
		return nil, err
	}

	stats := &entities.RequestStats{
		RequestID:  requestID,
		Views:      views,
		Shortlists: shortlists,
	}
	svc.cache.Set(key, stats, svc.statsTTL)
	return stats, nil
}

// ViewLog returns the raw view history for a request.
func (svc *EngagementService) ViewLog(ctx context.Context, requestID string) ([]gormModels.RequestView, error) {
	return svc.engagement.ListViews(ctx, requestID)
}

// ShortlistLog returns the raw shortlist history for a request.
func (svc *EngagementService) ShortlistLog(ctx context.Context, requestID string) ([]gormModels.Shortlist, error) {
	return svc.engagement.ListShortlists(ctx, requestID)
}

// RepairCounters rewrites a request's cached counters from the logs and
// drops the cached tally.
func (svc *EngagementService) RepairCounters(ctx context.Context, requestID string) error {
	if err := svc.engagement.RecomputeCounters(ctx, requestID); err != nil {
		return err
	}
	svc.cache.Delete(statsKey(requestID))
	return nil
}

// EngagementReport runs the per-request engagement aggregate.
func (svc *EngagementService) EngagementReport(ctx context.Context) ([]entities.EngagementSummary, error) {
	if svc.reports == nil {
		return nil, fmt.Errorf("report repository not configured")
	}
	start := time.Now()
	rows, err := svc.reports.EngagementSummary(ctx)
	svc.metrics.ObserveOp("report_engagement", start, err)
	return rows, err
}

// ClaimReport runs the per-request claim aggregate.
func (svc *EngagementService) ClaimReport(ctx context.Context) ([]entities.ClaimTotals, error) {
	if svc.reports == nil {
		return nil, fmt.Errorf("report repository not configured")
	}
	start := time.Now()
	rows, err := svc.reports.ClaimTotals(ctx)
	svc.metrics.ObserveOp("report_claims", start, err)
	return rows, err
}
