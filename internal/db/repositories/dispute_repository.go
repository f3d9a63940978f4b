package repositories

import (
	"context"
	"fmt"

	gormModels "github.com/cpenseur/CSIT314-Null/internal/models/gorm"

	"gorm.io/gorm"
)

// DisputeRepository stores claim challenges raised by requesters.
// A request can accumulate any number of disputes.
type DisputeRepository struct {
	db *gorm.DB
}

// NewDisputeRepository creates a new GORM-based dispute repository
func NewDisputeRepository(db *gorm.DB) *DisputeRepository {
	return &DisputeRepository{db: db}
}

// Create records a dispute. At least a description is required; the
// three flags say which parts of the claim are contested.
func (r *DisputeRepository) Create(ctx context.Context, dispute *gormModels.Dispute) error {
	if err := checkStruct(dispute); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkEngagementRefs(tx, dispute.RequestID, dispute.PINID, "pin_id"); err != nil {
			return err
		}
		if err := tx.Create(dispute).Error; err != nil {
			return fmt.Errorf("failed to store dispute: %w", err)
		}
		return nil
	})
}

// GetByID retrieves one dispute.
func (r *DisputeRepository) GetByID(ctx context.Context, id string) (*gormModels.Dispute, error) {
	var dispute gormModels.Dispute

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&dispute).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch dispute: %w", err)
	}

	return &dispute, nil
}

// ListByRequest retrieves every dispute raised against a request,
// oldest first.
func (r *DisputeRepository) ListByRequest(ctx context.Context, requestID string) ([]gormModels.Dispute, error) {
	var disputes []gormModels.Dispute

	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&disputes).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list disputes: %w", err)
	}

	return disputes, nil
}
