package dtos

import (
	"time"

	"github.com/cpenseur/CSIT314-Null/internal/constants"

	"github.com/shopspring/decimal"
)

// RegisterUserInput carries everything needed to open an account. The
// company fields only stick for corporate roles (CV, CSR).
type RegisterUserInput struct {
	Username     string
	Password     string
	Email        string
	FullName     string
	DateOfBirth  *time.Time
	HomeAddress  string
	Role         constants.UserRole
	CompanyName  string
	CompanyID    string
	CompanyEmail string
}

// CreateRequestInput is a PIN's ask for help. The public reference and
// the PENDING status are filled in by the store.
type CreateRequestInput struct {
	PINID           string
	ServiceType     constants.ServiceType
	AppointmentDate time.Time
	PickupLocation  string
	ServiceLocation string
	Description     string
}

// ClaimItemInput is one expense line of a reimbursement claim.
type ClaimItemInput struct {
	Category      string
	DateOfExpense time.Time
	TotalAmount   decimal.Decimal
	PaymentMethod string
	Description   string
}

// SubmitClaimInput files a reimbursement claim; at least one item is
// required.
type SubmitClaimInput struct {
	RequestID string
	CVID      string
	Items     []ClaimItemInput
}

// FileDisputeInput challenges a claim on a request the PIN owns. The
// flags mark which parts are contested.
type FileDisputeInput struct {
	RequestID        string
	PINID            string
	IncorrectAmount  bool
	IncorrectItem    bool
	IncorrectReceipt bool
	Description      string
}
