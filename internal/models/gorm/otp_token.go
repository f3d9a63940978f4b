package gorm

import (
	"time"

	"github.com/cpenseur/CSIT314-Null/internal/constants"
)

// OTPToken is a short-lived numeric code backing sensitive profile
// changes. CreatedAt anchors the expiry window; a token is good for
// exactly one successful verification.
type OTPToken struct {
	Base
	UserID string `gorm:"column:user_id;type:uuid;not null;index" validate:"required"`
	Code   string `gorm:"column:code;size:6;not null" validate:"required,len=6,numeric"`
	IsUsed bool   `gorm:"column:is_used;not null;default:false"`

	// Relationships
	User *User `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (OTPToken) TableName() string {
	return "otp_tokens"
}

// IsExpired reports whether the code has outlived its window. The
// comparison is strict: a token aged exactly OTPTTL is still valid.
func (t *OTPToken) IsExpired() bool {
	return time.Now().After(t.CreatedAt.Add(constants.OTPTTL))
}

// IsValid reports whether the code can still be redeemed.
func (t *OTPToken) IsValid() bool {
	return !t.IsUsed && !t.IsExpired()
}
