package repositories

import (
	"context"
	"fmt"
	"time"

	gormModels "github.com/cpenseur/CSIT314-Null/internal/models/gorm"

	"gorm.io/gorm"
)

// EngagementRepository records who looked at and bookmarked requests.
// Every write appends a log row and bumps the matching denormalised
// counter in the same transaction, so the two can only drift if someone
// edits rows behind the store's back.
type EngagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new GORM-based engagement repository
func NewEngagementRepository(db *gorm.DB) *EngagementRepository {
	return &EngagementRepository{db: db}
}

// LogView appends a view event and bumps the views counter.
func (r *EngagementRepository) LogView(ctx context.Context, requestID, viewerID string) (*gormModels.RequestView, error) {
	view := &gormModels.RequestView{
		RequestID: requestID,
		ViewerID:  viewerID,
		ViewedAt:  time.Now(),
	}
	if err := checkStruct(view); err != nil {
		return nil, err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkEngagementRefs(tx, requestID, viewerID, "viewer_id"); err != nil {
			return err
		}
		if err := tx.Create(view).Error; err != nil {
			return fmt.Errorf("failed to log view: %w", err)
		}
		err := tx.Model(&gormModels.ServiceRequest{}).
			Where("id = ?", requestID).
			UpdateColumn("views", gorm.Expr("views + 1")).Error
		if err != nil {
			return fmt.Errorf("failed to bump view counter: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// LogShortlist appends a shortlist event and bumps the shortlists
// counter. A CSR shortlisting the same request twice is two events.
func (r *EngagementRepository) LogShortlist(ctx context.Context, requestID, csrID string) (*gormModels.Shortlist, error) {
	entry := &gormModels.Shortlist{
		RequestID: requestID,
		CSRID:     csrID,
	}
	if err := checkStruct(entry); err != nil {
		return nil, err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkEngagementRefs(tx, requestID, csrID, "csr_id"); err != nil {
			return err
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to log shortlist: %w", err)
		}
		err := tx.Model(&gormModels.ServiceRequest{}).
			Where("id = ?", requestID).
			UpdateColumn("shortlists", gorm.Expr("shortlists + 1")).Error
		if err != nil {
			return fmt.Errorf("failed to bump shortlist counter: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// CountViews counts view events straight from the log.
func (r *EngagementRepository) CountViews(ctx context.Context, requestID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.RequestView{}).
		Where("request_id = ?", requestID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count views: %w", err)
	}
	return n, nil
}

// CountShortlists counts shortlist events straight from the log.
func (r *EngagementRepository) CountShortlists(ctx context.Context, requestID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.Shortlist{}).
		Where("request_id = ?", requestID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count shortlists: %w", err)
	}
	return n, nil
}

// ListViews retrieves the raw view log for a request, oldest first.
func (r *EngagementRepository) ListViews(ctx context.Context, requestID string) ([]gormModels.RequestView, error) {
	var views []gormModels.RequestView
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("viewed_at ASC").
		Find(&views).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	return views, nil
}

// ListShortlists retrieves the raw shortlist log for a request, oldest first.
func (r *EngagementRepository) ListShortlists(ctx context.Context, requestID string) ([]gormModels.Shortlist, error) {
	var entries []gormModels.Shortlist
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list shortlists: %w", err)
	}
	return entries, nil
}

// RecomputeCounters rewrites a request's cached counters from its logs.
// Used after partial cascades (e.g. a deleted viewer account) leave the
// convenience columns higher than the surviving log rows.
func (r *EngagementRepository) RecomputeCounters(ctx context.Context, requestID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var views, shortlists int64
		if err := tx.Model(&gormModels.RequestView{}).
			Where("request_id = ?", requestID).
			Count(&views).Error; err != nil {
			return fmt.Errorf("failed to count views: %w", err)
		}
		if err := tx.Model(&gormModels.Shortlist{}).
			Where("request_id = ?", requestID).
			Count(&shortlists).Error; err != nil {
			return fmt.Errorf("failed to count shortlists: %w", err)
		}

		res := tx.Model(&gormModels.ServiceRequest{}).
			Where("id = ?", requestID).
			UpdateColumns(map[string]interface{}{
				"views":      views,
				"shortlists": shortlists,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to rewrite counters: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// checkEngagementRefs verifies both ends of a log row before insert so
// the failure mode is the same on every database backend.
func checkEngagementRefs(tx *gorm.DB, requestID, userID, userField string) error {
	var n int64
	if err := tx.Model(&gormModels.ServiceRequest{}).Where("id = ?", requestID).Count(&n).Error; err != nil {
		return fmt.Errorf("failed to check request reference: %w", err)
	}
	if n == 0 {
		return &ValidationError{Field: "request_id", Reason: "references a row that does not exist"}
	}
	if err := tx.Model(&gormModels.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return fmt.Errorf("failed to check user reference: %w", err)
	}
	if n == 0 {
		return &ValidationError{Field: userField, Reason: "references a row that does not exist"}
	}
	return nil
}
