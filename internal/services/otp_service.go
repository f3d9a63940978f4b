package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/cpenseur/CSIT314-Null/internal/constants"
	"github.com/cpenseur/CSIT314-Null/internal/db/repositories"
	"github.com/cpenseur/CSIT314-Null/internal/logging"
	"github.com/cpenseur/CSIT314-Null/internal/metrics"
	gormModels "github.com/cpenseur/CSIT314-Null/internal/models/gorm"

	"golang.org/x/time/rate"
)

// OTPService issues and redeems the one-time codes that guard sensitive
// profile changes. Issuance is throttled per user so a stuck client
// cannot mint codes in a loop.
type OTPService struct {
	tokens  *repositories.OTPRepository
	users   *repositories.UserRepository
	metrics *metrics.MetricsRegistry

	limitersMutex sync.Mutex
	limiters      map[string]*rate.Limiter
}

// NewOTPService creates a new OTP service
func NewOTPService(tokens *repositories.OTPRepository, users *repositories.UserRepository, m *metrics.MetricsRegistry) *OTPService {
	return &OTPService{
		tokens:   tokens,
		users:    users,
		metrics:  m,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (svc *OTPService) getLimiter(userID string) *rate.Limiter {
	svc.limitersMutex.Lock()
	defer svc.limitersMutex.Unlock()

	if limiter, exists := svc.limiters[userID]; exists {
		return limiter
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute), 3) // 1 code/min refill, burst of 3
	svc.limiters[userID] = limiter
	return limiter
}

// Issue mints a fresh 6-digit code for a user. The code value never
// reaches the logs.
func (svc *OTPService) Issue(ctx context.Context, userID string) (*gormModels.OTPToken, error) {
	if _, err := svc.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if !svc.getLimiter(userID).Allow() {
		return nil, ErrTooManyOTPRequests
	}

	code, err := generateCode()
	if err != nil {
		return nil, err
	}

	token := &gormModels.OTPToken{
		UserID: userID,
		Code:   code,
	}
	if err := svc.tokens.Create(ctx, token); err != nil {
		return nil, err
	}

	svc.metrics.OTPIssuedTotal.Inc()
	logging.Info("one-time code issued", "user_id", userID)
	return token, nil
}

// Verify checks a code without burning it: the newest token for the
// user/code pair must exist, be unused and still inside its window.
func (svc *OTPService) Verify(ctx context.Context, userID, code string) (*gormModels.OTPToken, error) {
	token, err := svc.tokens.FindByCode(ctx, userID, code)
	if err != nil {
		return nil, err
	}
	if token.IsUsed {
		return nil, ErrOTPUsed
	}
	if token.IsExpired() {
		return nil, ErrOTPExpired
	}
	return token, nil
}

// Consume verifies a code and burns it in the same call. A second
// Consume with the same code fails with ErrOTPUsed.
func (svc *OTPService) Consume(ctx context.Context, userID, code string) (*gormModels.OTPToken, error) {
	token, err := svc.Verify(ctx, userID, code)
	if err != nil {
		return nil, err
	}
	if err := svc.tokens.MarkUsed(ctx, token.ID); err != nil {
		return nil, err
	}
	token.IsUsed = true
	return token, nil
}

// Invalidate drops every outstanding code a user holds, e.g. after the
// guarded profile change went through.
func (svc *OTPService) Invalidate(ctx context.Context, userID string) error {
	return svc.tokens.DeleteForUser(ctx, userID)
}

// generateCode draws a uniformly random zero-padded numeric code.
func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < constants.OTPLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to draw code: %w", err)
	}
	return fmt.Sprintf("%0*d", constants.OTPLength, n.Int64()), nil
}
