package gorm

import "time"

// RequestView is one append-only log row per browse of a request by a
// volunteer. The counter on service_requests is bumped in the same
// transaction that inserts the row.
type RequestView struct {
	Base
	RequestID string    `gorm:"column:request_id;type:uuid;not null;index" validate:"required"`
	ViewerID  string    `gorm:"column:viewer_id;type:uuid;not null;index" validate:"required"`
	ViewedAt  time.Time `gorm:"column:viewed_at;not null"`

	// Relationships
	Request *ServiceRequest `gorm:"foreignKey:RequestID"`
	Viewer  *User           `gorm:"foreignKey:ViewerID"`
}

// TableName specifies the table name for GORM
func (RequestView) TableName() string {
	return "request_views"
}

// Shortlist is one append-only log row per CSR bookmarking a request.
// Repeat shortlists by the same CSR are deliberately allowed; the log
// records events, not set membership.
type Shortlist struct {
	Base
	RequestID string `gorm:"column:request_id;type:uuid;not null;index" validate:"required"`
	CSRID     string `gorm:"column:csr_id;type:uuid;not null;index" validate:"required"`

	// Relationships
	Request *ServiceRequest `gorm:"foreignKey:RequestID"`
	CSR     *User           `gorm:"foreignKey:CSRID"`
}

// TableName specifies the table name for GORM
func (Shortlist) TableName() string {
	return "shortlists"
}
