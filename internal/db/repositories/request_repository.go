package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cpenseur/CSIT314-Null/internal/constants"
	gormModels "github.com/cpenseur/CSIT314-Null/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RequestRepository manages service request rows and owns the public
// request reference allocator.
type RequestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new GORM-based service request repository
func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create inserts a request, minting its public reference inside the same
// transaction unless the caller brought one (backfills, fixtures). The
// status defaults to PENDING.
func (r *RequestRepository) Create(ctx context.Context, req *gormModels.ServiceRequest) error {
	if req.Status == "" {
		req.Status = constants.RequestPending
	}
	if err := checkStruct(req); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&gormModels.User{}).Where("id = ?", req.PINID).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to check request owner: %w", err)
		}
		if n == 0 {
			return &ValidationError{Field: "pin_id", Reason: "references a row that does not exist"}
		}

		if req.RequestID == "" {
			ref, err := nextRequestRefTx(tx, time.Now())
			if err != nil {
				return err
			}
			req.RequestID = ref
		}

		if err := tx.Create(req).Error; err != nil {
			return translate(err, "service request", "request_id")
		}
		return nil
	})
}

// GetByID retrieves a request by primary key.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*gormModels.ServiceRequest, error) {
	var req gormModels.ServiceRequest

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&req).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch request: %w", err)
	}

	return &req, nil
}

// GetByReference retrieves a request by its public reference, e.g.
// "RQ-2025-00001".
func (r *RequestRepository) GetByReference(ctx context.Context, ref string) (*gormModels.ServiceRequest, error) {
	var req gormModels.ServiceRequest

	err := r.db.WithContext(ctx).
		Where("request_id = ?", ref).
		First(&req).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch request by reference: %w", err)
	}

	return &req, nil
}

// ListByPIN retrieves every request a PIN has filed, newest reference last.
func (r *RequestRepository) ListByPIN(ctx context.Context, pinID string) ([]gormModels.ServiceRequest, error) {
	var reqs []gormModels.ServiceRequest

	err := r.db.WithContext(ctx).
		Where("pin_id = ?", pinID).
		Order("request_id ASC").
		Find(&reqs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list requests for PIN: %w", err)
	}

	return reqs, nil
}

// ListByStatus retrieves requests in one lifecycle state, oldest first,
// which is the browse order volunteers see.
func (r *RequestRepository) ListByStatus(ctx context.Context, status constants.RequestStatus) ([]gormModels.ServiceRequest, error) {
	var reqs []gormModels.ServiceRequest

	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("request_id ASC").
		Find(&reqs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list requests by status: %w", err)
	}

	return reqs, nil
}

// UpdateStatus moves a request one step along its lifecycle. Backwards
// or skipping transitions fail with ErrInvalidTransition; the public
// reference is never touched.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id string, next constants.RequestStatus) (*gormModels.ServiceRequest, error) {
	var out *gormModels.ServiceRequest

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req gormModels.ServiceRequest
		if err := tx.Where("id = ?", id).First(&req).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return fmt.Errorf("failed to fetch request: %w", err)
		}

		if !req.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, req.Status, next)
		}

		if err := tx.Model(&req).Update("status", next).Error; err != nil {
			return fmt.Errorf("failed to update request status: %w", err)
		}
		req.Status = next
		out = &req
		return nil
	})

	return out, err
}

// Delete removes a request and its whole sub-tree (logs, match, chat,
// claims with items and receipts, disputes) in one transaction.
func (r *RequestRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&gormModels.ServiceRequest{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to check request existence: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return deleteRequestTx(tx, id)
	})
}

// nextRequestRefTx mints the next public reference for the year of now,
// e.g. "RQ-2025-00042". The per-year counter row is bumped atomically;
// the row lock taken by the UPDATE rides until the enclosing transaction
// commits, so concurrent creates serialise instead of colliding.
func nextRequestRefTx(tx *gorm.DB, now time.Time) (string, error) {
	year := now.Year()

	var seq gormModels.RequestSequence
	err := tx.Where("year = ?", year).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// First request of the year. Seed the counter from the highest
		// reference already on file so pre-allocator rows keep their
		// place in the sequence. ON CONFLICT DO NOTHING absorbs the
		// once-a-year seeding race.
		last, serr := lastIssuedSequence(tx, year)
		if serr != nil {
			return "", serr
		}
		seed := gormModels.RequestSequence{Year: year, LastValue: last}
		if cerr := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; cerr != nil {
			return "", fmt.Errorf("failed to seed request sequence: %w", cerr)
		}
	} else if err != nil {
		return "", fmt.Errorf("failed to read request sequence: %w", err)
	}

	res := tx.Model(&gormModels.RequestSequence{}).
		Where("year = ?", year).
		UpdateColumn("last_value", gorm.Expr("last_value + 1"))
	if res.Error != nil {
		return "", fmt.Errorf("failed to advance request sequence: %w", res.Error)
	}

	if err := tx.Where("year = ?", year).First(&seq).Error; err != nil {
		return "", fmt.Errorf("failed to read advanced request sequence: %w", err)
	}

	return fmt.Sprintf("%s-%d-%0*d", constants.RequestIDPrefix, year, constants.RequestIDSeqWidth, seq.LastValue), nil
}

// lastIssuedSequence finds the highest sequence number already issued
// for a year by scanning existing references. Because the numeric part
// is zero-padded, MAX over the string column is the numeric maximum.
func lastIssuedSequence(tx *gorm.DB, year int) (uint, error) {
	prefix := fmt.Sprintf("%s-%d-", constants.RequestIDPrefix, year)

	var maxRef sql.NullString
	err := tx.Model(&gormModels.ServiceRequest{}).
		Select("MAX(request_id)").
		Where("request_id LIKE ?", prefix+"%").
		Scan(&maxRef).Error
	if err != nil {
		return 0, fmt.Errorf("failed to scan issued references: %w", err)
	}
	if !maxRef.Valid || maxRef.String == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(strings.TrimPrefix(maxRef.String, prefix))
	if err != nil {
		return 0, fmt.Errorf("malformed request reference %q: %w", maxRef.String, err)
	}
	return uint(n), nil
}

// deleteRequestTx removes one request and every row hanging off it, in
// FK-safe order. Shared by request deletion and the user cascade.
func deleteRequestTx(tx *gorm.DB, requestUUID string) error {
	var claimIDs []string
	if err := tx.Model(&gormModels.FinancialClaim{}).
		Where("request_id = ?", requestUUID).
		Pluck("id", &claimIDs).Error; err != nil {
		return fmt.Errorf("failed to collect request claims: %w", err)
	}
	if len(claimIDs) > 0 {
		if err := deleteClaimsTx(tx, claimIDs); err != nil {
			return err
		}
	}

	dependents := []interface{}{
		&gormModels.Dispute{},
		&gormModels.Message{},
		&gormModels.Match{},
		&gormModels.RequestView{},
		&gormModels.Shortlist{},
	}
	for _, m := range dependents {
		if err := tx.Where("request_id = ?", requestUUID).Delete(m).Error; err != nil {
			return fmt.Errorf("failed to cascade request delete: %w", err)
		}
	}

	if err := tx.Where("id = ?", requestUUID).Delete(&gormModels.ServiceRequest{}).Error; err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	return nil
}
