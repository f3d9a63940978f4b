package services

import (
	"context"

	"github.com/cpenseur/CSIT314-Null/internal/constants"
	"github.com/cpenseur/CSIT314-Null/internal/db/repositories"
	"github.com/cpenseur/CSIT314-Null/internal/logging"
	"github.com/cpenseur/CSIT314-Null/internal/metrics"
	gormModels "github.com/cpenseur/CSIT314-Null/internal/models/gorm"

	"gorm.io/gorm"
)

// MatchingService pairs requests with volunteers. It holds the raw DB
// handle rather than repositories because accepting an offer must move
// the match and the request in one transaction.
type MatchingService struct {
	db      *gorm.DB
	metrics *metrics.MetricsRegistry
}

// NewMatchingService creates a new matching service
func NewMatchingService(db *gorm.DB, m *metrics.MetricsRegistry) *MatchingService {
	return &MatchingService{
		db:      db,
		metrics: m,
	}
}

// Offer extends a PENDING request to a volunteer. One offer per request;
// a second attempt surfaces the repository's UniquenessError.
func (svc *MatchingService) Offer(ctx context.Context, requestID, cvID string) (*gormModels.Match, error) {
	volunteer, err := repositories.NewUserRepository(svc.db).GetByID(ctx, cvID)
	if err != nil {
		return nil, err
	}
	if !volunteer.IsCV() {
		return nil, ErrNotCV
	}

	req, err := repositories.NewRequestRepository(svc.db).GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != constants.RequestPending {
		return nil, &repositories.ValidationError{Field: "status", Reason: "only PENDING requests can be offered"}
	}

	match := &gormModels.Match{
		RequestID: requestID,
		CVID:      cvID,
	}
	if err := repositories.NewMatchRepository(svc.db).Create(ctx, match); err != nil {
		return nil, err
	}

	logging.Info("match offered", "reference", req.RequestID, "cv_id", cvID)
	return match, nil
}

// Accept settles the offer in the volunteer's favour and activates the
// request. Both writes ride one transaction: there is no moment where
// the match is accepted but the request still looks PENDING.
func (svc *MatchingService) Accept(ctx context.Context, requestID string) (*gormModels.Match, error) {
	var match *gormModels.Match

	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := repositories.NewMatchRepository(tx).Decide(ctx, requestID, constants.MatchAccepted)
		if err != nil {
			return err
		}
		if _, err := repositories.NewRequestRepository(tx).UpdateStatus(ctx, requestID, constants.RequestActive); err != nil {
			return err
		}
		match = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	svc.metrics.MatchesDecidedTotal.WithLabelValues(string(constants.MatchAccepted)).Inc()
	logging.Info("match accepted", "request_id", requestID, "cv_id", match.CVID)
	return match, nil
}

// Decline settles the offer against the volunteer. The request stays
// PENDING and the offer can be withdrawn to make room for a new one.
func (svc *MatchingService) Decline(ctx context.Context, requestID string) (*gormModels.Match, error) {
	match, err := repositories.NewMatchRepository(svc.db).Decide(ctx, requestID, constants.MatchDeclined)
	if err != nil {
		return nil, err
	}

	svc.metrics.MatchesDecidedTotal.WithLabelValues(string(constants.MatchDeclined)).Inc()
	logging.Info("match declined", "request_id", requestID, "cv_id", match.CVID)
	return match, nil
}

// Withdraw removes the match row so the request can be offered afresh,
// typically after a decline.
func (svc *MatchingService) Withdraw(ctx context.Context, requestID string) error {
	if err := repositories.NewMatchRepository(svc.db).Delete(ctx, requestID); err != nil {
		return err
	}
	logging.Info("match withdrawn", "request_id", requestID)
	return nil
}

// GetForRequest retrieves the match on a request, if any.
func (svc *MatchingService) GetForRequest(ctx context.Context, requestID string) (*gormModels.Match, error) {
	return repositories.NewMatchRepository(svc.db).GetByRequest(ctx, requestID)
}

// ListForCV retrieves every offer a volunteer has received.
func (svc *MatchingService) ListForCV(ctx context.Context, cvID string) ([]gormModels.Match, error) {
	return repositories.NewMatchRepository(svc.db).ListByCV(ctx, cvID)
}
