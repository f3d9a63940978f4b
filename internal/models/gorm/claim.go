package gorm

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialClaim is a CV's reimbursement request against a service
// request. Settlement needs two independent approvals, one from the
// PIN and one from a CSR; neither side can flip the other's flag.
type FinancialClaim struct {
	Base
	RequestID     string    `gorm:"column:request_id;type:uuid;not null;index" validate:"required"`
	CVID          string    `gorm:"column:cv_id;type:uuid;not null;index" validate:"required"`
	ApprovedByPIN bool      `gorm:"column:approved_by_pin;not null;default:false"`
	ApprovedByCSR bool      `gorm:"column:approved_by_csr;not null;default:false"`
	SubmittedAt   time.Time `gorm:"column:submitted_at;not null"`

	// Relationships
	Request *ServiceRequest `gorm:"foreignKey:RequestID"`
	CV      *User           `gorm:"foreignKey:CVID"`
	Items   []ClaimItem     `gorm:"foreignKey:ClaimID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (FinancialClaim) TableName() string {
	return "financial_claims"
}

// IsSettled reports whether both parties have approved the claim.
func (c *FinancialClaim) IsSettled() bool {
	return c.ApprovedByPIN && c.ApprovedByCSR
}

// ClaimItem is a single expense line on a claim. TotalAmount is a
// decimal(10,2); zero is a legal amount, negative is not.
type ClaimItem struct {
	Base
	ClaimID       string          `gorm:"column:claim_id;type:uuid;not null;index" validate:"required"`
	Category      string          `gorm:"column:category;size:80;not null" validate:"required,max=80"`
	DateOfExpense time.Time       `gorm:"column:date_of_expense;not null" validate:"required"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount;type:decimal(10,2);not null"`
	PaymentMethod string          `gorm:"column:payment_method;size:40;not null" validate:"required,max=40"`
	Description   string          `gorm:"column:description;type:text"`

	// Relationships
	Claim    *FinancialClaim `gorm:"foreignKey:ClaimID"`
	Receipts []Receipt       `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (ClaimItem) TableName() string {
	return "claim_items"
}

// Receipt points at proof-of-purchase imagery kept in external storage.
// Only the path/URL lives here; the bytes never touch this database.
type Receipt struct {
	Base
	ItemID     string    `gorm:"column:item_id;type:uuid;not null;index" validate:"required"`
	Image      string    `gorm:"column:image;size:512;not null" validate:"required,max=512"`
	UploadedAt time.Time `gorm:"column:uploaded_at;not null"`

	// Relationships
	Item *ClaimItem `gorm:"foreignKey:ItemID"`
}

// TableName specifies the table name for GORM
func (Receipt) TableName() string {
	return "receipts"
}
