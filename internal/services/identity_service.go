package services

import (
	"context"
	"time"

	"github.com/cpenseur/CSIT314-Null/internal/common"
	"github.com/cpenseur/CSIT314-Null/internal/constants"
	"github.com/cpenseur/CSIT314-Null/internal/db/repositories"
	"github.com/cpenseur/CSIT314-Null/internal/logging"
	"github.com/cpenseur/CSIT314-Null/internal/metrics"
	"github.com/cpenseur/CSIT314-Null/internal/models/dtos"
	gormModels "github.com/cpenseur/CSIT314-Null/internal/models/gorm"
)

// IdentityService owns account lifecycle: registration, credential
// checks, PIN preferences and account removal.
type IdentityService struct {
	users   *repositories.UserRepository
	metrics *metrics.MetricsRegistry
}

// NewIdentityService creates a new identity service
func NewIdentityService(users *repositories.UserRepository, m *metrics.MetricsRegistry) *IdentityService {
	return &IdentityService{
		users:   users,
		metrics: m,
	}
}

// Register opens an account. The role is fixed here for good; company
// fields are quietly dropped for non-corporate roles since they carry
// no meaning there.
func (svc *IdentityService) Register(ctx context.Context, input dtos.RegisterUserInput) (*gormModels.User, error) {
	start := time.Now()

	if !input.Role.IsValid() {
		return nil, &repositories.ValidationError{Field: "role", Reason: "must be PIN, CV, CSR or ADMIN"}
	}
	if input.Password == "" {
		return nil, &repositories.ValidationError{Field: "password", Reason: "failed 'required' constraint"}
	}

	hash, err := common.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &gormModels.User{
		Username:     input.Username,
		PasswordHash: hash,
		Email:        input.Email,
		FullName:     input.FullName,
		DateOfBirth:  input.DateOfBirth,
		HomeAddress:  input.HomeAddress,
		Role:         input.Role,
		CompanyName:  input.CompanyName,
		CompanyID:    input.CompanyID,
		CompanyEmail: input.CompanyEmail,
	}
	if !input.Role.IsCorporate() {
		user.CompanyName = ""
		user.CompanyID = ""
		user.CompanyEmail = ""
	}

	err = svc.users.Create(ctx, user)
	svc.metrics.ObserveOp("user_register", start, err)
	if err != nil {
		return nil, err
	}

	logging.Info("user registered", "username", user.Username, "role", user.Role)
	return user, nil
}

// VerifyCredentials checks a username/password pair against the stored
// hash. Unknown usernames and wrong passwords are indistinguishable to
// the caller.
func (svc *IdentityService) VerifyCredentials(ctx context.Context, username, password string) (*gormModels.User, error) {
	user, err := svc.users.GetByUsername(ctx, username)
	if err != nil {
		if err == repositories.ErrNotFound {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !common.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrBadCredentials
	}
	return user, nil
}

// GetProfile retrieves an account with its preference record.
func (svc *IdentityService) GetProfile(ctx context.Context, username string) (*gormModels.User, error) {
	return svc.users.GetByUsername(ctx, username)
}

// ListByRole retrieves every account holding the given role.
func (svc *IdentityService) ListByRole(ctx context.Context, role constants.UserRole) ([]gormModels.User, error) {
	if !role.IsValid() {
		return nil, &repositories.ValidationError{Field: "role", Reason: "must be PIN, CV, CSR or ADMIN"}
	}
	return svc.users.ListByRole(ctx, role)
}

// SetPreference stores a PIN's matching preference. Only PIN accounts
// may hold one, and only one per account; a second attempt surfaces the
// repository's UniquenessError untouched.
func (svc *IdentityService) SetPreference(ctx context.Context, userID, language, gender string) (*gormModels.PINPreference, error) {
	user, err := svc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsPIN() {
		return nil, ErrNotPIN
	}

	pref := &gormModels.PINPreference{
		UserID:                   userID,
		PreferredLanguage:        language,
		PreferredVolunteerGender: gender,
	}
	if err := svc.users.SetPreference(ctx, pref); err != nil {
		return nil, err
	}

	logging.Info("preference recorded", "user_id", userID)
	return pref, nil
}

// UpdatePreference rewrites an existing preference record.
func (svc *IdentityService) UpdatePreference(ctx context.Context, userID, language, gender string) (*gormModels.PINPreference, error) {
	pref, err := svc.users.GetPreference(ctx, userID)
	if err != nil {
		return nil, err
	}

	pref.PreferredLanguage = language
	pref.PreferredVolunteerGender = gender
	if err := svc.users.UpdatePreference(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}

// RemoveAccount deletes a user and the full tree of records hanging
// off them.
func (svc *IdentityService) RemoveAccount(ctx context.Context, userID string) error {
	start := time.Now()
	err := svc.users.Delete(ctx, userID)
	svc.metrics.ObserveOp("user_delete", start, err)
	if err != nil {
		return err
	}
	logging.Info("account removed", "user_id", userID)
	return nil
}
