package gorm

// Dispute is a PIN's challenge to a financial claim on one of their
// requests. The three flags say what is being contested; several can
// be raised at once, and repeated disputes per request are allowed.
type Dispute struct {
	Base
	RequestID        string `gorm:"column:request_id;type:uuid;not null;index" validate:"required"`
	PINID            string `gorm:"column:pin_id;type:uuid;not null;index" validate:"required"`
	IncorrectAmount  bool   `gorm:"column:incorrect_amount;not null;default:false"`
	IncorrectItem    bool   `gorm:"column:incorrect_item;not null;default:false"`
	IncorrectReceipt bool   `gorm:"column:incorrect_receipt;not null;default:false"`
	Description      string `gorm:"column:description;type:text;not null" validate:"required"`

	// Relationships
	Request *ServiceRequest `gorm:"foreignKey:RequestID"`
	PIN     *User           `gorm:"foreignKey:PINID"`
}

// TableName specifies the table name for GORM
func (Dispute) TableName() string {
	return "disputes"
}
