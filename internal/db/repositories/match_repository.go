package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cpenseur/CSIT314-Null/internal/constants"
	gormModels "github.com/cpenseur/CSIT314-Null/internal/models/gorm"

	"gorm.io/gorm"
)

// ErrAlreadyDecided is returned when a volunteer answers an offer that
// was already accepted or declined. Decisions are one-shot.
var ErrAlreadyDecided = errors.New("match already decided")

// MatchRepository manages the one-to-one pairing between a request and
// a volunteer.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new GORM-based match repository
func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Create records an offer. The unique index on request_id turns a second
// offer for the same request into a UniquenessError.
func (r *MatchRepository) Create(ctx context.Context, match *gormModels.Match) error {
	if match.OfferedAt.IsZero() {
		match.OfferedAt = time.Now()
	}
	if match.Decision == "" {
		match.Decision = constants.MatchOffered
	}
	if err := checkStruct(match); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&gormModels.ServiceRequest{}).Where("id = ?", match.RequestID).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to check request reference: %w", err)
		}
		if n == 0 {
			return &ValidationError{Field: "request_id", Reason: "references a row that does not exist"}
		}
		if err := tx.Model(&gormModels.User{}).Where("id = ?", match.CVID).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to check volunteer reference: %w", err)
		}
		if n == 0 {
			return &ValidationError{Field: "cv_id", Reason: "references a row that does not exist"}
		}

		if err := tx.Create(match).Error; err != nil {
			return translate(err, "match", "request")
		}
		return nil
	})
}

// GetByRequest retrieves the match for a request, if one exists.
func (r *MatchRepository) GetByRequest(ctx context.Context, requestID string) (*gormModels.Match, error) {
	var match gormModels.Match

	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		First(&match).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch match: %w", err)
	}

	return &match, nil
}

// ListByCV retrieves every match a volunteer has been offered.
func (r *MatchRepository) ListByCV(ctx context.Context, cvID string) ([]gormModels.Match, error) {
	var matches []gormModels.Match

	err := r.db.WithContext(ctx).
		Where("cv_id = ?", cvID).
		Order("offered_at ASC").
		Find(&matches).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list matches for volunteer: %w", err)
	}

	return matches, nil
}

// Decide settles an offer one way or the other. Decision and DecidedAt
// move together in a single update; a settled match cannot be re-decided.
func (r *MatchRepository) Decide(ctx context.Context, requestID string, decision constants.MatchDecision) (*gormModels.Match, error) {
	if !decision.IsDecided() {
		return nil, &ValidationError{Field: "decision", Reason: "must be ACCEPTED or DECLINED"}
	}

	var out *gormModels.Match
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var match gormModels.Match
		if err := tx.Where("request_id = ?", requestID).First(&match).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return fmt.Errorf("failed to fetch match: %w", err)
		}

		if match.IsDecided() {
			return ErrAlreadyDecided
		}

		now := time.Now()
		err := tx.Model(&match).Updates(map[string]interface{}{
			"decision":   decision,
			"decided_at": now,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to record decision: %w", err)
		}

		match.Decision = decision
		match.DecidedAt = &now
		out = &match
		return nil
	})

	return out, err
}

// Delete withdraws the offer on a request, freeing it for a fresh match.
func (r *MatchRepository) Delete(ctx context.Context, requestID string) error {
	res := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Delete(&gormModels.Match{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete match: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
