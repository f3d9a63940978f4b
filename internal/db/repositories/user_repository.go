package repositories

import (
	"context"
	"fmt"

	"github.com/cpenseur/CSIT314-Null/internal/constants"
	gormModels "github.com/cpenseur/CSIT314-Null/internal/models/gorm"

	"gorm.io/gorm"
)

// UserRepository manages account rows and their PIN preference records.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new GORM-based user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new account. A username collision surfaces as a
// UniquenessError; everything else fails validation first.
func (r *UserRepository) Create(ctx context.Context, user *gormModels.User) error {
	if err := checkStruct(user); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err, "user", "username")
	}
	return nil
}

// GetByID retrieves an account by primary key with its preference record.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).
		Preload("Preference").
		Where("id = ?", id).
		First(&user).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

// GetByUsername retrieves an account by its unique username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).
		Preload("Preference").
		Where("username = ?", username).
		First(&user).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user by username: %w", err)
	}

	return &user, nil
}

// ListByRole retrieves every account holding the given role.
func (r *UserRepository) ListByRole(ctx context.Context, role constants.UserRole) ([]gormModels.User, error) {
	var users []gormModels.User

	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("username ASC").
		Find(&users).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}

	return users, nil
}

// Exists reports whether an account row with the given ID is present.
// Repositories use it to pre-check references, which keeps the
// missing-row failure identical across Postgres and SQLite.
func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("id = ?", id).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return n > 0, nil
}

// Delete removes an account and everything hanging off it: requests the
// user filed (with their full sub-trees), log rows they produced on
// other requests, their matches, claims, disputes, preference and
// outstanding codes. All of it happens in one transaction.
//
// Engagement counters on surviving requests are not decremented here;
// RecomputeCounters restores them from the logs when it matters.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user gormModels.User
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return fmt.Errorf("failed to fetch user: %w", err)
		}

		// Requests this user owns go first, sub-trees included.
		var requestIDs []string
		if err := tx.Model(&gormModels.ServiceRequest{}).
			Where("pin_id = ?", id).
			Pluck("id", &requestIDs).Error; err != nil {
			return fmt.Errorf("failed to collect owned requests: %w", err)
		}
		for _, rid := range requestIDs {
			if err := deleteRequestTx(tx, rid); err != nil {
				return err
			}
		}

		// Claims the user submitted as a volunteer on surviving requests.
		var claimIDs []string
		if err := tx.Model(&gormModels.FinancialClaim{}).
			Where("cv_id = ?", id).
			Pluck("id", &claimIDs).Error; err != nil {
			return fmt.Errorf("failed to collect volunteer claims: %w", err)
		}
		if len(claimIDs) > 0 {
			if err := deleteClaimsTx(tx, claimIDs); err != nil {
				return err
			}
		}

		steps := []struct {
			column string
			model  interface{}
		}{
			{"cv_id", &gormModels.Match{}},
			{"sender_id", &gormModels.Message{}},
			{"viewer_id", &gormModels.RequestView{}},
			{"csr_id", &gormModels.Shortlist{}},
			{"pin_id", &gormModels.Dispute{}},
			{"user_id", &gormModels.PINPreference{}},
			{"user_id", &gormModels.OTPToken{}},
		}
		for _, s := range steps {
			if err := tx.Where(s.column+" = ?", id).Delete(s.model).Error; err != nil {
				return fmt.Errorf("failed to cascade user delete: %w", err)
			}
		}

		if err := tx.Delete(&user).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

// SetPreference stores a PIN's matching preference. The unique index on
// user_id makes a second record fail with a UniquenessError; callers
// update the existing row instead.
func (r *UserRepository) SetPreference(ctx context.Context, pref *gormModels.PINPreference) error {
	if err := checkStruct(pref); err != nil {
		return err
	}

	ok, err := r.Exists(ctx, pref.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return &ValidationError{Field: "user_id", Reason: "references a row that does not exist"}
	}

	if err := r.db.WithContext(ctx).Create(pref).Error; err != nil {
		return translate(err, "preference", "user")
	}
	return nil
}

// UpdatePreference rewrites the language/gender choices on an existing
// preference record.
func (r *UserRepository) UpdatePreference(ctx context.Context, pref *gormModels.PINPreference) error {
	if err := checkStruct(pref); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Save(pref).Error
	if err != nil {
		return fmt.Errorf("failed to update preference: %w", err)
	}
	return nil
}

// GetPreference retrieves the preference record for a user, if any.
func (r *UserRepository) GetPreference(ctx context.Context, userID string) (*gormModels.PINPreference, error) {
	var pref gormModels.PINPreference

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&pref).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch preference: %w", err)
	}

	return &pref, nil
}
