package gorm

import (
	"time"

	"github.com/cpenseur/CSIT314-Null/internal/constants"
)

// Match pairs one request with one volunteer. The unique index on
// request_id is the 1-to-1 guarantee: a second offer for the same
// request fails at the database.
type Match struct {
	Base
	RequestID string                  `gorm:"column:request_id;type:uuid;uniqueIndex;not null" validate:"required"`
	CVID      string                  `gorm:"column:cv_id;type:uuid;not null;index" validate:"required"`
	OfferedAt time.Time               `gorm:"column:offered_at;not null"`
	Decision  constants.MatchDecision `gorm:"column:decision;size:10;not null"`
	DecidedAt *time.Time              `gorm:"column:decided_at"`

	// Relationships
	Request *ServiceRequest `gorm:"foreignKey:RequestID"`
	CV      *User           `gorm:"foreignKey:CVID"`
}

// TableName specifies the table name for GORM
func (Match) TableName() string {
	return "matches"
}

// IsDecided reports whether the volunteer has answered the offer.
// DecidedAt is set in the same update that moves Decision off OFFERED.
func (m *Match) IsDecided() bool {
	return m.Decision.IsDecided()
}
