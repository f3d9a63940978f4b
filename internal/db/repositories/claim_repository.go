package repositories

import (
	"context"
	"fmt"
	"time"

	gormModels "github.com/cpenseur/CSIT314-Null/internal/models/gorm"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClaimRepository manages reimbursement claims with their expense items
// and receipt references.
type ClaimRepository struct {
	db *gorm.DB
}

// NewClaimRepository creates a new GORM-based claim repository
func NewClaimRepository(db *gorm.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

// Create stores a claim together with its expense items. A claim needs
// at least one item; every amount must be zero or positive. Approval
// flags always start false regardless of what the caller set.
func (r *ClaimRepository) Create(ctx context.Context, claim *gormModels.FinancialClaim) error {
	if len(claim.Items) == 0 {
		return &ValidationError{Field: "items", Reason: "claim needs at least one expense item"}
	}
	if claim.SubmittedAt.IsZero() {
		claim.SubmittedAt = time.Now()
	}
	claim.ApprovedByPIN = false
	claim.ApprovedByCSR = false

	// Assign the claim key up front so the items can be validated with
	// their parent reference in place.
	if claim.ID == "" {
		claim.ID = uuid.NewString()
	}
	for i := range claim.Items {
		claim.Items[i].ClaimID = claim.ID
		if err := checkClaimItem(&claim.Items[i]); err != nil {
			return err
		}
	}
	if err := checkStruct(claim); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&gormModels.ServiceRequest{}).Where("id = ?", claim.RequestID).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to check request reference: %w", err)
		}
		if n == 0 {
			return &ValidationError{Field: "request_id", Reason: "references a row that does not exist"}
		}
		if err := tx.Model(&gormModels.User{}).Where("id = ?", claim.CVID).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to check volunteer reference: %w", err)
		}
		if n == 0 {
			return &ValidationError{Field: "cv_id", Reason: "references a row that does not exist"}
		}

		if err := tx.Create(claim).Error; err != nil {
			return fmt.Errorf("failed to store claim: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a claim with its items and their receipts.
func (r *ClaimRepository) GetByID(ctx context.Context, id string) (*gormModels.FinancialClaim, error) {
	var claim gormModels.FinancialClaim

	err := r.db.WithContext(ctx).
		Preload("Items.Receipts").
		Where("id = ?", id).
		First(&claim).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch claim: %w", err)
	}

	return &claim, nil
}

// ListByRequest retrieves every claim filed against a request.
func (r *ClaimRepository) ListByRequest(ctx context.Context, requestID string) ([]gormModels.FinancialClaim, error) {
	var claims []gormModels.FinancialClaim

	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("request_id = ?", requestID).
		Order("submitted_at ASC").
		Find(&claims).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}

	return claims, nil
}

// ListByCV retrieves every claim a volunteer has submitted.
func (r *ClaimRepository) ListByCV(ctx context.Context, cvID string) ([]gormModels.FinancialClaim, error) {
	var claims []gormModels.FinancialClaim

	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("cv_id = ?", cvID).
		Order("submitted_at ASC").
		Find(&claims).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list claims for volunteer: %w", err)
	}

	return claims, nil
}

// SetPINApproval flips the requester-side approval flag. The CSR flag
// is deliberately untouchable from here.
func (r *ClaimRepository) SetPINApproval(ctx context.Context, claimID string, approved bool) (*gormModels.FinancialClaim, error) {
	return r.setApproval(ctx, claimID, "approved_by_pin", approved)
}

// SetCSRApproval flips the platform-side approval flag.
func (r *ClaimRepository) SetCSRApproval(ctx context.Context, claimID string, approved bool) (*gormModels.FinancialClaim, error) {
	return r.setApproval(ctx, claimID, "approved_by_csr", approved)
}

func (r *ClaimRepository) setApproval(ctx context.Context, claimID, column string, approved bool) (*gormModels.FinancialClaim, error) {
	var out *gormModels.FinancialClaim

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var claim gormModels.FinancialClaim
		if err := tx.Where("id = ?", claimID).First(&claim).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return fmt.Errorf("failed to fetch claim: %w", err)
		}

		if err := tx.Model(&claim).UpdateColumn(column, approved).Error; err != nil {
			return fmt.Errorf("failed to update approval: %w", err)
		}

		switch column {
		case "approved_by_pin":
			claim.ApprovedByPIN = approved
		case "approved_by_csr":
			claim.ApprovedByCSR = approved
		}
		out = &claim
		return nil
	})

	return out, err
}

// AddItem appends an expense line to an existing claim.
func (r *ClaimRepository) AddItem(ctx context.Context, item *gormModels.ClaimItem) error {
	if err := checkClaimItem(item); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&gormModels.FinancialClaim{}).Where("id = ?", item.ClaimID).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to check claim reference: %w", err)
		}
		if n == 0 {
			return &ValidationError{Field: "claim_id", Reason: "references a row that does not exist"}
		}
		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("failed to store claim item: %w", err)
		}
		return nil
	})
}

// DeleteItem removes one expense line and its receipts.
func (r *ClaimRepository) DeleteItem(ctx context.Context, itemID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", itemID).Delete(&gormModels.Receipt{}).Error; err != nil {
			return fmt.Errorf("failed to delete receipts: %w", err)
		}
		res := tx.Where("id = ?", itemID).Delete(&gormModels.ClaimItem{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete claim item: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// AddReceipt attaches a proof-of-purchase reference to an expense item.
// Only the external path/URL is stored, never the image bytes.
func (r *ClaimRepository) AddReceipt(ctx context.Context, receipt *gormModels.Receipt) error {
	if receipt.UploadedAt.IsZero() {
		receipt.UploadedAt = time.Now()
	}
	if err := checkStruct(receipt); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&gormModels.ClaimItem{}).Where("id = ?", receipt.ItemID).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to check item reference: %w", err)
		}
		if n == 0 {
			return &ValidationError{Field: "item_id", Reason: "references a row that does not exist"}
		}
		if err := tx.Create(receipt).Error; err != nil {
			return fmt.Errorf("failed to store receipt: %w", err)
		}
		return nil
	})
}

// Delete removes a claim with its items and receipts.
func (r *ClaimRepository) Delete(ctx context.Context, claimID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&gormModels.FinancialClaim{}).Where("id = ?", claimID).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to check claim existence: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return deleteClaimsTx(tx, []string{claimID})
	})
}

// checkClaimItem validates an expense line. The amount check is done by
// hand because tag validation cannot compare decimal values: negative
// amounts are rejected and zero is explicitly allowed.
func checkClaimItem(item *gormModels.ClaimItem) error {
	if item.TotalAmount.IsNegative() {
		return &ValidationError{Field: "total_amount", Reason: "must not be negative"}
	}
	return checkStruct(item)
}

// deleteClaimsTx removes claims with their items and receipts. Shared
// by claim deletion and the request/user cascades.
func deleteClaimsTx(tx *gorm.DB, claimIDs []string) error {
	var itemIDs []string
	if err := tx.Model(&gormModels.ClaimItem{}).
		Where("claim_id IN ?", claimIDs).
		Pluck("id", &itemIDs).Error; err != nil {
		return fmt.Errorf("failed to collect claim items: %w", err)
	}

	if len(itemIDs) > 0 {
		if err := tx.Where("item_id IN ?", itemIDs).Delete(&gormModels.Receipt{}).Error; err != nil {
			return fmt.Errorf("failed to delete receipts: %w", err)
		}
		if err := tx.Where("id IN ?", itemIDs).Delete(&gormModels.ClaimItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete claim items: %w", err)
		}
	}

	if err := tx.Where("id IN ?", claimIDs).Delete(&gormModels.FinancialClaim{}).Error; err != nil {
		return fmt.Errorf("failed to delete claims: %w", err)
	}
	return nil
}
