package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/cpenseur/CSIT314-Null/internal/constants"
	gormModels "github.com/cpenseur/CSIT314-Null/internal/models/gorm"

	"github.com/google/uuid"
)

func TestMatchRepository_Create_Defaults(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewMatchRepository(conn)

	pin := createUser(t, conn, "mdm.lim", constants.RolePIN)
	cv := createUser(t, conn, "marcus.tan", constants.RoleCV)
	req := createRequest(t, conn, pin.ID)

	match := &gormModels.Match{RequestID: req.ID, CVID: cv.ID}
	if err := repo.Create(context.Background(), match); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if match.Decision != constants.MatchOffered {
		t.Errorf("Expected OFFERED, got %s", match.Decision)
	}
	if match.OfferedAt.IsZero() {
		t.Error("Expected OfferedAt to be stamped")
	}
	if match.DecidedAt != nil {
		t.Error("Expected DecidedAt to start empty")
	}
}

func TestMatchRepository_Create_OnePerRequest(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewMatchRepository(conn)
	ctx := context.Background()

	pin := createUser(t, conn, "mdm.lim", constants.RolePIN)
	cv := createUser(t, conn, "marcus.tan", constants.RoleCV)
	other := createUser(t, conn, "zara.v", constants.RoleCV)
	req := createRequest(t, conn, pin.ID)

	if err := repo.Create(ctx, &gormModels.Match{RequestID: req.ID, CVID: cv.ID}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	err := repo.Create(ctx, &gormModels.Match{RequestID: req.ID, CVID: other.ID})
	var uniq *UniquenessError
	if !errors.As(err, &uniq) {
		t.Fatalf("Expected UniquenessError, got %T: %v", err, err)
	}
	if uniq.Entity != "match" {
		t.Errorf("Expected entity match, got %s", uniq.Entity)
	}
}

func TestMatchRepository_Create_UnknownRefs(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewMatchRepository(conn)
	ctx := context.Background()

	pin := createUser(t, conn, "mdm.lim", constants.RolePIN)
	cv := createUser(t, conn, "marcus.tan", constants.RoleCV)
	req := createRequest(t, conn, pin.ID)

	var verr *ValidationError

	err := repo.Create(ctx, &gormModels.Match{RequestID: uuid.NewString(), CVID: cv.ID})
	if !errors.As(err, &verr) || verr.Field != "request_id" {
		t.Errorf("Expected ValidationError on request_id, got %v", err)
	}

	err = repo.Create(ctx, &gormModels.Match{RequestID: req.ID, CVID: uuid.NewString()})
	if !errors.As(err, &verr) || verr.Field != "cv_id" {
		t.Errorf("Expected ValidationError on cv_id, got %v", err)
	}
}

func TestMatchRepository_Decide_Accept(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewMatchRepository(conn)
	ctx := context.Background()

	pin := createUser(t, conn, "mdm.lim", constants.RolePIN)
	cv := createUser(t, conn, "marcus.tan", constants.RoleCV)
	req := createRequest(t, conn, pin.ID)
	if err := repo.Create(ctx, &gormModels.Match{RequestID: req.ID, CVID: cv.ID}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	decided, err := repo.Decide(ctx, req.ID, constants.MatchAccepted)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if decided.Decision != constants.MatchAccepted {
		t.Errorf("Expected ACCEPTED, got %s", decided.Decision)
	}
	if decided.DecidedAt == nil {
		t.Error("Expected DecidedAt to move with the decision")
	}

	// Persisted, not just on the returned struct.
	got, err := repo.GetByRequest(ctx, req.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.Decision != constants.MatchAccepted || got.DecidedAt == nil {
		t.Errorf("Expected persisted decision, got %s / %v", got.Decision, got.DecidedAt)
	}
}

func TestMatchRepository_Decide_OneShot(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewMatchRepository(conn)
	ctx := context.Background()

	pin := createUser(t, conn, "mdm.lim", constants.RolePIN)
	cv := createUser(t, conn, "marcus.tan", constants.RoleCV)
	req := createRequest(t, conn, pin.ID)
	if err := repo.Create(ctx, &gormModels.Match{RequestID: req.ID, CVID: cv.ID}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := repo.Decide(ctx, req.ID, constants.MatchDeclined); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := repo.Decide(ctx, req.ID, constants.MatchAccepted); !errors.Is(err, ErrAlreadyDecided) {
		t.Errorf("Expected ErrAlreadyDecided, got %v", err)
	}
	if _, err := repo.Decide(ctx, req.ID, constants.MatchDeclined); !errors.Is(err, ErrAlreadyDecided) {
		t.Errorf("Expected ErrAlreadyDecided on repeat decline, got %v", err)
	}
}

func TestMatchRepository_Decide_RejectsNonDecision(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewMatchRepository(conn)

	_, err := repo.Decide(context.Background(), uuid.NewString(), constants.MatchOffered)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %T: %v", err, err)
	}
	if verr.Field != "decision" {
		t.Errorf("Expected field decision, got %s", verr.Field)
	}
}

func TestMatchRepository_Decide_NotFound(t *testing.T) {
	conn := setupTestDB(t)

	_, err := NewMatchRepository(conn).Decide(context.Background(), uuid.NewString(), constants.MatchAccepted)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMatchRepository_Delete_FreesRequest(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewMatchRepository(conn)
	ctx := context.Background()

	pin := createUser(t, conn, "mdm.lim", constants.RolePIN)
	cv := createUser(t, conn, "marcus.tan", constants.RoleCV)
	other := createUser(t, conn, "zara.v", constants.RoleCV)
	req := createRequest(t, conn, pin.ID)

	if err := repo.Create(ctx, &gormModels.Match{RequestID: req.ID, CVID: cv.ID}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := repo.Decide(ctx, req.ID, constants.MatchDeclined); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := repo.Delete(ctx, req.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Withdrawing clears the slot for a fresh offer.
	fresh := &gormModels.Match{RequestID: req.ID, CVID: other.ID}
	if err := repo.Create(ctx, fresh); err != nil {
		t.Fatalf("Expected re-offer to succeed, got %v", err)
	}
	if fresh.Decision != constants.MatchOffered {
		t.Errorf("Expected fresh offer to start OFFERED, got %s", fresh.Decision)
	}

	if err := repo.Delete(ctx, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMatchRepository_ListByCV(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewMatchRepository(conn)
	ctx := context.Background()

	pin := createUser(t, conn, "mdm.lim", constants.RolePIN)
	cv := createUser(t, conn, "marcus.tan", constants.RoleCV)
	req1 := createRequest(t, conn, pin.ID)
	req2 := createRequest(t, conn, pin.ID)

	if err := repo.Create(ctx, &gormModels.Match{RequestID: req1.ID, CVID: cv.ID}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := repo.Create(ctx, &gormModels.Match{RequestID: req2.ID, CVID: cv.ID}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	matches, err := repo.ListByCV(ctx, cv.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("Expected 2 matches, got %d", len(matches))
	}
}
