package services

import (
	"context"
	"time"

	"github.com/cpenseur/CSIT314-Null/internal/db/repositories"
	"github.com/cpenseur/CSIT314-Null/internal/logging"
	"github.com/cpenseur/CSIT314-Null/internal/metrics"
	"github.com/cpenseur/CSIT314-Null/internal/models/dtos"
	gormModels "github.com/cpenseur/CSIT314-Null/internal/models/gorm"
)

// FinanceService owns the money trail: claims, expense items, receipt
// references, two-party approval and disputes.
type FinanceService struct {
	claims   *repositories.ClaimRepository
	disputes *repositories.DisputeRepository
	requests *repositories.RequestRepository
	users    *repositories.UserRepository
	metrics  *metrics.MetricsRegistry
}

// NewFinanceService creates a new finance service
func NewFinanceService(
	claims *repositories.ClaimRepository,
	disputes *repositories.DisputeRepository,
	requests *repositories.RequestRepository,
	users *repositories.UserRepository,
	m *metrics.MetricsRegistry,
) *FinanceService {
	return &FinanceService{
		claims:   claims,
		disputes: disputes,
		requests: requests,
		users:    users,
		metrics:  m,
	}
}

// SubmitClaim files a reimbursement claim from a volunteer. Both
// approval flags start false no matter what.
func (svc *FinanceService) SubmitClaim(ctx context.Context, input dtos.SubmitClaimInput) (*gormModels.FinancialClaim, error) {
	start := time.Now()

	volunteer, err := svc.users.GetByID(ctx, input.CVID)
	if err != nil {
		return nil, err
	}
	if !volunteer.IsCV() {
		return nil, ErrNotCV
	}
	if _, err := svc.requests.GetByID(ctx, input.RequestID); err != nil {
		return nil, err
	}

	items := make([]gormModels.ClaimItem, len(input.Items))
	for i, in := range input.Items {
		items[i] = gormModels.ClaimItem{
			Category:      in.Category,
			DateOfExpense: in.DateOfExpense,
			TotalAmount:   in.TotalAmount,
			PaymentMethod: in.PaymentMethod,
			Description:   in.Description,
		}
	}

	claim := &gormModels.FinancialClaim{
		RequestID: input.RequestID,
		CVID:      input.CVID,
		Items:     items,
	}

	err = svc.claims.Create(ctx, claim)
	svc.metrics.ObserveOp("claim_submit", start, err)
	if err != nil {
		return nil, err
	}

	logging.Info("claim submitted",
		"claim_id", claim.ID,
		"request_id", claim.RequestID,
		"cv_id", claim.CVID,
		"items", len(claim.Items),
	)
	return claim, nil
}

// ApproveAsPIN records the requester-side approval. The approver must
// be the PIN who owns the claimed request.
func (svc *FinanceService) ApproveAsPIN(ctx context.Context, claimID, userID string) (*gormModels.FinancialClaim, error) {
	user, err := svc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsPIN() {
		return nil, ErrNotPIN
	}

	claim, err := svc.claims.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	req, err := svc.requests.GetByID(ctx, claim.RequestID)
	if err != nil {
		return nil, err
	}
	if req.PINID != userID {
		return nil, ErrNotRequestOwner
	}

	updated, err := svc.claims.SetPINApproval(ctx, claimID, true)
	if err != nil {
		return nil, err
	}
	svc.noteSettlement(updated)
	return updated, nil
}

// ApproveAsCSR records the platform-side approval.
func (svc *FinanceService) ApproveAsCSR(ctx context.Context, claimID, userID string) (*gormModels.FinancialClaim, error) {
	user, err := svc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsCSR() {
		return nil, ErrNotCSR
	}

	updated, err := svc.claims.SetCSRApproval(ctx, claimID, true)
	if err != nil {
		return nil, err
	}
	svc.noteSettlement(updated)
	return updated, nil
}

func (svc *FinanceService) noteSettlement(claim *gormModels.FinancialClaim) {
	if !claim.IsSettled() {
		return
	}
	svc.metrics.ClaimsSettledTotal.Inc()
	logging.Info("claim settled", "claim_id", claim.ID, "request_id", claim.RequestID)
}

// AddExpenseItem appends an expense line to an existing claim.
func (svc *FinanceService) AddExpenseItem(ctx context.Context, claimID string, input dtos.ClaimItemInput) (*gormModels.ClaimItem, error) {
	item := &gormModels.ClaimItem{
		ClaimID:       claimID,
		Category:      input.Category,
		DateOfExpense: input.DateOfExpense,
		TotalAmount:   input.TotalAmount,
		PaymentMethod: input.PaymentMethod,
		Description:   input.Description,
	}
	if err := svc.claims.AddItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveExpenseItem drops an expense line and its receipts.
func (svc *FinanceService) RemoveExpenseItem(ctx context.Context, itemID string) error {
	return svc.claims.DeleteItem(ctx, itemID)
}

// AttachReceipt stores the external path/URL of a receipt image against
// an expense item.
func (svc *FinanceService) AttachReceipt(ctx context.Context, itemID, image string) (*gormModels.Receipt, error) {
	receipt := &gormModels.Receipt{
		ItemID: itemID,
		Image:  image,
	}
	if err := svc.claims.AddReceipt(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// GetClaim retrieves a claim with items and receipts.
func (svc *FinanceService) GetClaim(ctx context.Context, claimID string) (*gormModels.FinancialClaim, error) {
	return svc.claims.GetByID(ctx, claimID)
}

// ListClaimsForRequest retrieves every claim against a request.
func (svc *FinanceService) ListClaimsForRequest(ctx context.Context, requestID string) ([]gormModels.FinancialClaim, error) {
	return svc.claims.ListByRequest(ctx, requestID)
}

// FileDispute records a PIN's challenge against the claims on their own
// request. Repeat disputes are allowed.
func (svc *FinanceService) FileDispute(ctx context.Context, input dtos.FileDisputeInput) (*gormModels.Dispute, error) {
	pin, err := svc.users.GetByID(ctx, input.PINID)
	if err != nil {
		return nil, err
	}
	if !pin.IsPIN() {
		return nil, ErrNotPIN
	}

	req, err := svc.requests.GetByID(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}
	if req.PINID != input.PINID {
		return nil, ErrNotRequestOwner
	}

	dispute := &gormModels.Dispute{
		RequestID:        input.RequestID,
		PINID:            input.PINID,
		IncorrectAmount:  input.IncorrectAmount,
		IncorrectItem:    input.IncorrectItem,
		IncorrectReceipt: input.IncorrectReceipt,
		Description:      input.Description,
	}
	if err := svc.disputes.Create(ctx, dispute); err != nil {
		return nil, err
	}

	svc.metrics.DisputesFiledTotal.Inc()
	logging.Info("dispute filed", "request_id", input.RequestID, "pin_id", input.PINID)
	return dispute, nil
}

// ListDisputes retrieves the disputes raised against a request.
func (svc *FinanceService) ListDisputes(ctx context.Context, requestID string) ([]gormModels.Dispute, error) {
	return svc.disputes.ListByRequest(ctx, requestID)
}
