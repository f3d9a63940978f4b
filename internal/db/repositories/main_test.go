package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/cpenseur/CSIT314-Null/internal/constants"
	"github.com/cpenseur/CSIT314-Null/internal/db"
	gormModels "github.com/cpenseur/CSIT314-Null/internal/models/gorm"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Setup test database. TranslateError must be on, exactly as in
// production, or the duplicate/foreign-key mapping under test
// never fires.
func setupTestDB(t *testing.T) *gorm.DB {
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(conn); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return conn
}

func createUser(t *testing.T, conn *gorm.DB, username string, role constants.UserRole) *gormModels.User {
	user := &gormModels.User{
		Username: username,
		FullName: "Test " + username,
		Role:     role,
	}
	if err := NewUserRepository(conn).Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to create %s user: %v", role, err)
	}
	return user
}

func createRequest(t *testing.T, conn *gorm.DB, pinID string) *gormModels.ServiceRequest {
	req := &gormModels.ServiceRequest{
		PINID:           pinID,
		ServiceType:     constants.ServiceDialysisEscort,
		AppointmentDate: time.Now().AddDate(0, 0, 7),
		PickupLocation:  "Blk 5 Ang Mo Kio Ave 3",
		ServiceLocation: "Renal Care Centre",
	}
	if err := NewRequestRepository(conn).Create(context.Background(), req); err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	return req
}

func countRows(t *testing.T, conn *gorm.DB, model interface{}) int64 {
	var n int64
	if err := conn.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}
