package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cpenseur/CSIT314-Null/internal/constants"
	"github.com/cpenseur/CSIT314-Null/internal/db/repositories"
	gormModels "github.com/cpenseur/CSIT314-Null/internal/models/gorm"
)

func TestOTPService_Issue(t *testing.T) {
	env := newTestEnv(t)
	pin := env.register(t, "otp.pin", constants.RolePIN)

	token, err := env.otp.Issue(context.Background(), pin.ID)
	if err != nil {
		t.Fatalf("Failed to issue: %v", err)
	}

	if len(token.Code) != constants.OTPLength {
		t.Errorf("Expected a %d-digit code, got %q", constants.OTPLength, token.Code)
	}
	for _, r := range token.Code {
		if r < '0' || r > '9' {
			t.Errorf("Expected a numeric code, got %q", token.Code)
			break
		}
	}
	if token.IsUsed {
		t.Error("Expected a fresh token to be unused")
	}
}

func TestOTPService_Issue_UnknownUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.otp.Issue(context.Background(), "e9a7c5d3-0000-0000-0000-000000000000")
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestOTPService_Issue_Throttled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	pin := env.register(t, "otp.burst", constants.RolePIN)
	other := env.register(t, "otp.calm", constants.RolePIN)

	for i := 0; i < 3; i++ {
		if _, err := env.otp.Issue(ctx, pin.ID); err != nil {
			t.Fatalf("Failed to issue code %d: %v", i+1, err)
		}
	}

	if _, err := env.otp.Issue(ctx, pin.ID); !errors.Is(err, ErrTooManyOTPRequests) {
		t.Errorf("Expected ErrTooManyOTPRequests on the 4th issue, got %v", err)
	}

	// The throttle is per user, not global.
	if _, err := env.otp.Issue(ctx, other.ID); err != nil {
		t.Errorf("Expected another user to issue freely, got %v", err)
	}
}

func TestOTPService_VerifyAndConsume(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	pin := env.register(t, "otp.redeem", constants.RolePIN)

	token, err := env.otp.Issue(ctx, pin.ID)
	if err != nil {
		t.Fatalf("Failed to issue: %v", err)
	}

	// Verify does not burn the code.
	if _, err := env.otp.Verify(ctx, pin.ID, token.Code); err != nil {
		t.Fatalf("Failed to verify: %v", err)
	}
	if _, err := env.otp.Verify(ctx, pin.ID, token.Code); err != nil {
		t.Fatalf("Failed to verify a second time: %v", err)
	}

	consumed, err := env.otp.Consume(ctx, pin.ID, token.Code)
	if err != nil {
		t.Fatalf("Failed to consume: %v", err)
	}
	if !consumed.IsUsed {
		t.Error("Expected consumed token to be marked used")
	}

	if _, err := env.otp.Consume(ctx, pin.ID, token.Code); !errors.Is(err, ErrOTPUsed) {
		t.Errorf("Expected ErrOTPUsed on replay, got %v", err)
	}
	if _, err := env.otp.Verify(ctx, pin.ID, token.Code); !errors.Is(err, ErrOTPUsed) {
		t.Errorf("Expected ErrOTPUsed on verify after consume, got %v", err)
	}
}

func TestOTPService_Verify_WrongCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	pin := env.register(t, "otp.wrong", constants.RolePIN)

	token, err := env.otp.Issue(ctx, pin.ID)
	if err != nil {
		t.Fatalf("Failed to issue: %v", err)
	}

	wrong := "000000"
	if token.Code == wrong {
		wrong = "000001"
	}
	if _, err := env.otp.Verify(ctx, pin.ID, wrong); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a code that was never issued, got %v", err)
	}
}

func TestOTPService_Verify_Expired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	pin := env.register(t, "otp.stale", constants.RolePIN)

	// Plant a token already past its window.
	stale := &gormModels.OTPToken{
		UserID: pin.ID,
		Code:   "424242",
	}
	stale.CreatedAt = time.Now().Add(-constants.OTPTTL - time.Minute)
	if err := repositories.NewOTPRepository(env.conn).Create(ctx, stale); err != nil {
		t.Fatalf("Failed to plant stale token: %v", err)
	}

	if _, err := env.otp.Verify(ctx, pin.ID, "424242"); !errors.Is(err, ErrOTPExpired) {
		t.Errorf("Expected ErrOTPExpired, got %v", err)
	}
	if _, err := env.otp.Consume(ctx, pin.ID, "424242"); !errors.Is(err, ErrOTPExpired) {
		t.Errorf("Expected ErrOTPExpired on consume, got %v", err)
	}
}

func TestOTPService_Invalidate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	pin := env.register(t, "otp.drop", constants.RolePIN)

	token, err := env.otp.Issue(ctx, pin.ID)
	if err != nil {
		t.Fatalf("Failed to issue: %v", err)
	}

	if err := env.otp.Invalidate(ctx, pin.ID); err != nil {
		t.Fatalf("Failed to invalidate: %v", err)
	}

	if _, err := env.otp.Verify(ctx, pin.ID, token.Code); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after invalidate, got %v", err)
	}
}
