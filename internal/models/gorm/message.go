package gorm

import "time"

// Message is one line of per-request chat between the PIN and the
// matched CV. Whether posting is allowed right now is a policy of the
// chat service (requests must be ACTIVE); the row itself stays valid
// history after the request completes.
type Message struct {
	Base
	RequestID string    `gorm:"column:request_id;type:uuid;not null;index" validate:"required"`
	SenderID  string    `gorm:"column:sender_id;type:uuid;not null;index" validate:"required"`
	Text      string    `gorm:"column:text;type:text;not null" validate:"required"`
	SentAt    time.Time `gorm:"column:sent_at;not null;index"`

	// Relationships
	Request *ServiceRequest `gorm:"foreignKey:RequestID"`
	Sender  *User           `gorm:"foreignKey:SenderID"`
}

// TableName specifies the table name for GORM
func (Message) TableName() string {
	return "messages"
}
