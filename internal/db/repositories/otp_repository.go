package repositories

import (
	"context"
	"fmt"

	gormModels "github.com/cpenseur/CSIT314-Null/internal/models/gorm"

	"gorm.io/gorm"
)

// OTPRepository stores one-time codes. Expiry is derived from the row's
// creation time, so the store never needs a background sweeper to keep
// verification honest; stale rows are purged opportunistically.
type OTPRepository struct {
	db *gorm.DB
}

// NewOTPRepository creates a new GORM-based OTP repository
func NewOTPRepository(db *gorm.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

// Create stores a freshly issued code.
func (r *OTPRepository) Create(ctx context.Context, token *gormModels.OTPToken) error {
	if err := checkStruct(token); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&gormModels.User{}).Where("id = ?", token.UserID).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to check user reference: %w", err)
		}
		if n == 0 {
			return &ValidationError{Field: "user_id", Reason: "references a row that does not exist"}
		}
		if err := tx.Create(token).Error; err != nil {
			return fmt.Errorf("failed to store token: %w", err)
		}
		return nil
	})
}

// FindByCode retrieves the newest token matching a user/code pair. The
// caller decides whether it is still redeemable.
func (r *OTPRepository) FindByCode(ctx context.Context, userID, code string) (*gormModels.OTPToken, error) {
	var token gormModels.OTPToken

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND code = ?", userID, code).
		Order("created_at DESC").
		First(&token).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch token: %w", err)
	}

	return &token, nil
}

// Latest retrieves the most recently issued token for a user.
func (r *OTPRepository) Latest(ctx context.Context, userID string) (*gormModels.OTPToken, error) {
	var token gormModels.OTPToken

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&token).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch latest token: %w", err)
	}

	return &token, nil
}

// MarkUsed burns a token. Verification never succeeds twice with the
// same row.
func (r *OTPRepository) MarkUsed(ctx context.Context, tokenID string) error {
	res := r.db.WithContext(ctx).
		Model(&gormModels.OTPToken{}).
		Where("id = ?", tokenID).
		UpdateColumn("is_used", true)
	if res.Error != nil {
		return fmt.Errorf("failed to mark token used: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteForUser drops every token a user holds, used or not. Called
// after a successful profile change and by the account cascade.
func (r *OTPRepository) DeleteForUser(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&gormModels.OTPToken{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete tokens: %w", err)
	}
	return nil
}
