package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cpenseur/CSIT314-Null/internal/constants"
	gormModels "github.com/cpenseur/CSIT314-Null/internal/models/gorm"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestUserRepository_Create_DuplicateUsername(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewUserRepository(conn)

	first := &gormModels.User{Username: "mdm.lim", FullName: "Lim Bee Hoon", Role: constants.RolePIN}
	if err := repo.Create(context.Background(), first); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	dup := &gormModels.User{Username: "mdm.lim", FullName: "Another Lim", Role: constants.RolePIN}
	err := repo.Create(context.Background(), dup)
	if err == nil {
		t.Fatal("Expected error for duplicate username")
	}

	var uniq *UniquenessError
	if !errors.As(err, &uniq) {
		t.Fatalf("Expected UniquenessError, got %T: %v", err, err)
	}
	if uniq.Field != "username" {
		t.Errorf("Expected field username, got %s", uniq.Field)
	}
}

func TestUserRepository_Create_InvalidRole(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewUserRepository(conn)

	user := &gormModels.User{Username: "guest", FullName: "Guest", Role: "GUEST"}
	err := repo.Create(context.Background(), user)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %T: %v", err, err)
	}
	if verr.Field != "role" {
		t.Errorf("Expected field role, got %s", verr.Field)
	}
}

func TestUserRepository_Create_AssignsID(t *testing.T) {
	conn := setupTestDB(t)

	user := createUser(t, conn, "marcus.tan", constants.RoleCV)
	if user.ID == "" {
		t.Error("Expected an ID to be assigned on create")
	}
	if _, err := uuid.Parse(user.ID); err != nil {
		t.Errorf("Expected a UUID primary key, got %q", user.ID)
	}
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewUserRepository(conn)

	_, err := repo.GetByID(context.Background(), uuid.NewString())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_GetByUsername_PreloadsPreference(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewUserRepository(conn)
	pin := createUser(t, conn, "mdm.lim", constants.RolePIN)

	pref := &gormModels.PINPreference{UserID: pin.ID, PreferredLanguage: "Hokkien"}
	if err := repo.SetPreference(context.Background(), pref); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got, err := repo.GetByUsername(context.Background(), "mdm.lim")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.Preference == nil {
		t.Fatal("Expected preference to be preloaded")
	}
	if got.Preference.PreferredLanguage != "Hokkien" {
		t.Errorf("Expected Hokkien, got %s", got.Preference.PreferredLanguage)
	}
}

func TestUserRepository_ListByRole(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewUserRepository(conn)

	createUser(t, conn, "zara.v", constants.RoleCV)
	createUser(t, conn, "marcus.tan", constants.RoleCV)
	createUser(t, conn, "mdm.lim", constants.RolePIN)

	cvs, err := repo.ListByRole(context.Background(), constants.RoleCV)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(cvs) != 2 {
		t.Fatalf("Expected 2 volunteers, got %d", len(cvs))
	}
	if cvs[0].Username != "marcus.tan" || cvs[1].Username != "zara.v" {
		t.Errorf("Expected username order [marcus.tan zara.v], got [%s %s]", cvs[0].Username, cvs[1].Username)
	}
}

func TestUserRepository_SetPreference_OnePerUser(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewUserRepository(conn)
	pin := createUser(t, conn, "mdm.lim", constants.RolePIN)

	first := &gormModels.PINPreference{UserID: pin.ID, PreferredLanguage: "Hokkien"}
	if err := repo.SetPreference(context.Background(), first); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	second := &gormModels.PINPreference{UserID: pin.ID, PreferredLanguage: "Malay"}
	err := repo.SetPreference(context.Background(), second)

	var uniq *UniquenessError
	if !errors.As(err, &uniq) {
		t.Fatalf("Expected UniquenessError, got %T: %v", err, err)
	}
	if uniq.Entity != "preference" {
		t.Errorf("Expected entity preference, got %s", uniq.Entity)
	}
}

func TestUserRepository_SetPreference_UnknownUser(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewUserRepository(conn)

	pref := &gormModels.PINPreference{UserID: uuid.NewString()}
	err := repo.SetPreference(context.Background(), pref)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %T: %v", err, err)
	}
	if verr.Field != "user_id" {
		t.Errorf("Expected field user_id, got %s", verr.Field)
	}
}

func TestUserRepository_UpdatePreference(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewUserRepository(conn)
	pin := createUser(t, conn, "mdm.lim", constants.RolePIN)

	pref := &gormModels.PINPreference{UserID: pin.ID, PreferredLanguage: "Hokkien"}
	if err := repo.SetPreference(context.Background(), pref); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	pref.PreferredLanguage = "Malay"
	pref.PreferredVolunteerGender = "female"
	if err := repo.UpdatePreference(context.Background(), pref); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got, err := repo.GetPreference(context.Background(), pin.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.PreferredLanguage != "Malay" || got.PreferredVolunteerGender != "female" {
		t.Errorf("Expected updated preference, got %+v", got)
	}
}

func TestUserRepository_Exists(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewUserRepository(conn)
	user := createUser(t, conn, "marcus.tan", constants.RoleCV)

	ok, err := repo.Exists(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !ok {
		t.Error("Expected user to exist")
	}

	ok, err = repo.Exists(context.Background(), uuid.NewString())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ok {
		t.Error("Expected unknown ID not to exist")
	}
}

// The big cascade: deleting a PIN takes their requests and every row
// hanging off them, plus the PIN's own preference, disputes and codes.
func TestUserRepository_Delete_CascadesOwnedRequests(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()

	pin := createUser(t, conn, "mdm.lim", constants.RolePIN)
	cv := createUser(t, conn, "marcus.tan", constants.RoleCV)
	csr := createUser(t, conn, "sarah.chen", constants.RoleCSR)
	req := createRequest(t, conn, pin.ID)

	if err := NewUserRepository(conn).SetPreference(ctx, &gormModels.PINPreference{UserID: pin.ID, PreferredLanguage: "Hokkien"}); err != nil {
		t.Fatalf("Failed to set preference: %v", err)
	}
	if _, err := NewEngagementRepository(conn).LogView(ctx, req.ID, cv.ID); err != nil {
		t.Fatalf("Failed to log view: %v", err)
	}
	if _, err := NewEngagementRepository(conn).LogShortlist(ctx, req.ID, csr.ID); err != nil {
		t.Fatalf("Failed to log shortlist: %v", err)
	}
	if err := NewMatchRepository(conn).Create(ctx, &gormModels.Match{RequestID: req.ID, CVID: cv.ID}); err != nil {
		t.Fatalf("Failed to create match: %v", err)
	}
	if err := NewMessageRepository(conn).Create(ctx, &gormModels.Message{RequestID: req.ID, SenderID: cv.ID, Text: "on my way"}); err != nil {
		t.Fatalf("Failed to create message: %v", err)
	}

	claim := &gormModels.FinancialClaim{
		RequestID: req.ID,
		CVID:      cv.ID,
		Items: []gormModels.ClaimItem{{
			Category:      "Transport",
			DateOfExpense: time.Now(),
			TotalAmount:   decimal.NewFromFloat(12.50),
			PaymentMethod: "Cash",
		}},
	}
	if err := NewClaimRepository(conn).Create(ctx, claim); err != nil {
		t.Fatalf("Failed to create claim: %v", err)
	}
	if err := NewClaimRepository(conn).AddReceipt(ctx, &gormModels.Receipt{ItemID: claim.Items[0].ID, Image: "receipts/r1.jpg"}); err != nil {
		t.Fatalf("Failed to add receipt: %v", err)
	}
	if err := NewDisputeRepository(conn).Create(ctx, &gormModels.Dispute{RequestID: req.ID, PINID: pin.ID, IncorrectAmount: true, Description: "fare was higher"}); err != nil {
		t.Fatalf("Failed to create dispute: %v", err)
	}
	if err := NewOTPRepository(conn).Create(ctx, &gormModels.OTPToken{UserID: pin.ID, Code: "123456"}); err != nil {
		t.Fatalf("Failed to create token: %v", err)
	}

	if err := NewUserRepository(conn).Delete(ctx, pin.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Everything hanging off the PIN and their request is gone.
	for name, model := range map[string]interface{}{
		"requests":    &gormModels.ServiceRequest{},
		"views":       &gormModels.RequestView{},
		"shortlists":  &gormModels.Shortlist{},
		"matches":     &gormModels.Match{},
		"messages":    &gormModels.Message{},
		"claims":      &gormModels.FinancialClaim{},
		"items":       &gormModels.ClaimItem{},
		"receipts":    &gormModels.Receipt{},
		"disputes":    &gormModels.Dispute{},
		"preferences": &gormModels.PINPreference{},
		"tokens":      &gormModels.OTPToken{},
	} {
		if n := countRows(t, conn, model); n != 0 {
			t.Errorf("Expected 0 %s after delete, got %d", name, n)
		}
	}

	// The other accounts survive.
	if n := countRows(t, conn, &gormModels.User{}); n != 2 {
		t.Errorf("Expected 2 surviving users, got %d", n)
	}
}

func TestUserRepository_Delete_VolunteerLeavesRequestBehind(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()

	pin := createUser(t, conn, "mdm.lim", constants.RolePIN)
	cv := createUser(t, conn, "marcus.tan", constants.RoleCV)
	req := createRequest(t, conn, pin.ID)

	if _, err := NewEngagementRepository(conn).LogView(ctx, req.ID, cv.ID); err != nil {
		t.Fatalf("Failed to log view: %v", err)
	}
	if err := NewMatchRepository(conn).Create(ctx, &gormModels.Match{RequestID: req.ID, CVID: cv.ID}); err != nil {
		t.Fatalf("Failed to create match: %v", err)
	}
	claim := &gormModels.FinancialClaim{
		RequestID: req.ID,
		CVID:      cv.ID,
		Items: []gormModels.ClaimItem{{
			Category:      "Meals",
			DateOfExpense: time.Now(),
			TotalAmount:   decimal.NewFromFloat(4.80),
			PaymentMethod: "Cash",
		}},
	}
	if err := NewClaimRepository(conn).Create(ctx, claim); err != nil {
		t.Fatalf("Failed to create claim: %v", err)
	}

	if err := NewUserRepository(conn).Delete(ctx, cv.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// The request the volunteer touched stays; their traces do not.
	if n := countRows(t, conn, &gormModels.ServiceRequest{}); n != 1 {
		t.Errorf("Expected the request to survive, got %d rows", n)
	}
	if n := countRows(t, conn, &gormModels.RequestView{}); n != 0 {
		t.Errorf("Expected 0 views, got %d", n)
	}
	if n := countRows(t, conn, &gormModels.Match{}); n != 0 {
		t.Errorf("Expected 0 matches, got %d", n)
	}
	if n := countRows(t, conn, &gormModels.FinancialClaim{}); n != 0 {
		t.Errorf("Expected 0 claims, got %d", n)
	}
	if n := countRows(t, conn, &gormModels.ClaimItem{}); n != 0 {
		t.Errorf("Expected 0 claim items, got %d", n)
	}
}

func TestUserRepository_Delete_NotFound(t *testing.T) {
	conn := setupTestDB(t)

	err := NewUserRepository(conn).Delete(context.Background(), uuid.NewString())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
