package services

import (
	"context"
	"testing"
	"time"

	"github.com/cpenseur/CSIT314-Null/internal/common"
	"github.com/cpenseur/CSIT314-Null/internal/constants"
	"github.com/cpenseur/CSIT314-Null/internal/db"
	"github.com/cpenseur/CSIT314-Null/internal/db/repositories"
	"github.com/cpenseur/CSIT314-Null/internal/metrics"
	"github.com/cpenseur/CSIT314-Null/internal/models/dtos"
	gormModels "github.com/cpenseur/CSIT314-Null/internal/models/gorm"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv wires every service onto one in-memory database, mirroring
// the production wiring minus the sqlx report handle. Each test gets a
// fresh metrics registry so registration never collides.
type testEnv struct {
	conn       *gorm.DB
	cache      common.CacheInterface
	identity   *IdentityService
	requests   *RequestService
	engagement *EngagementService
	matching   *MatchingService
	chat       *ChatService
	finance    *FinanceService
	otp        *OTPService
}

func newTestEnv(t *testing.T) *testEnv {
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(conn); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	cache := common.NewCacheService(60, 120)

	users := repositories.NewUserRepository(conn)
	requests := repositories.NewRequestRepository(conn)
	engagement := repositories.NewEngagementRepository(conn)
	claims := repositories.NewClaimRepository(conn)
	disputes := repositories.NewDisputeRepository(conn)
	messages := repositories.NewMessageRepository(conn)
	tokens := repositories.NewOTPRepository(conn)

	return &testEnv{
		conn:       conn,
		cache:      cache,
		identity:   NewIdentityService(users, reg),
		requests:   NewRequestService(requests, users, reg),
		engagement: NewEngagementService(engagement, nil, cache, reg, time.Minute),
		matching:   NewMatchingService(conn, reg),
		chat:       NewChatService(messages, requests),
		finance:    NewFinanceService(claims, disputes, requests, users, reg),
		otp:        NewOTPService(tokens, users, reg),
	}
}

func (e *testEnv) register(t *testing.T, username string, role constants.UserRole) *gormModels.User {
	user, err := e.identity.Register(context.Background(), dtos.RegisterUserInput{
		Username: username,
		Password: "Secret123!",
		FullName: "Test " + username,
		Role:     role,
	})
	if err != nil {
		t.Fatalf("Failed to register %s: %v", username, err)
	}
	return user
}

func (e *testEnv) fileRequest(t *testing.T, pinID string) *gormModels.ServiceRequest {
	req, err := e.requests.Create(context.Background(), dtos.CreateRequestInput{
		PINID:           pinID,
		ServiceType:     constants.ServiceDialysisEscort,
		AppointmentDate: time.Now().AddDate(0, 0, 7),
		PickupLocation:  "Blk 214 Serangoon Ave 4",
		ServiceLocation: "Renal Care Centre",
	})
	if err != nil {
		t.Fatalf("Failed to file request: %v", err)
	}
	return req
}

// activate walks a fresh request into ACTIVE via an accepted offer.
func (e *testEnv) activate(t *testing.T, requestID, cvID string) {
	if _, err := e.matching.Offer(context.Background(), requestID, cvID); err != nil {
		t.Fatalf("Failed to offer: %v", err)
	}
	if _, err := e.matching.Accept(context.Background(), requestID); err != nil {
		t.Fatalf("Failed to accept: %v", err)
	}
}
