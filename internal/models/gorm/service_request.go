package gorm

import (
	"time"

	"github.com/cpenseur/CSIT314-Null/internal/constants"
)

// ServiceRequest is a PIN's ask for volunteer help. RequestID is the
// public reference ("RQ-2025-00001"); it is allocated once at creation
// and never rewritten, even by duplication.
type ServiceRequest struct {
	Base
	RequestID       string                  `gorm:"column:request_id;size:20;uniqueIndex;not null"`
	PINID           string                  `gorm:"column:pin_id;type:uuid;not null;index" validate:"required"`
	ServiceType     constants.ServiceType   `gorm:"column:service_type;size:30;not null" validate:"required,oneof=HEALTHCARE ESCORT THERAPY_ESCORT DIALYSIS_ESCORT VACCINE_ESCORT MOBILITY_ESCORT COMMUNITY_ESCORT"`
	AppointmentDate time.Time               `gorm:"column:appointment_date;not null" validate:"required"`
	PickupLocation  string                  `gorm:"column:pickup_location;size:255;not null" validate:"required,max=255"`
	ServiceLocation string                  `gorm:"column:service_location;size:255;not null" validate:"required,max=255"`
	Description     string                  `gorm:"column:description;type:text"`
	Status          constants.RequestStatus `gorm:"column:status;size:12;not null"`

	// Views and Shortlists are denormalised convenience counters. The
	// request_views and shortlists tables are the source of truth.
	Views      uint `gorm:"column:views;not null;default:0"`
	Shortlists uint `gorm:"column:shortlists;not null;default:0"`

	// Relationships
	PIN           *User            `gorm:"foreignKey:PINID"`
	ViewLogs      []RequestView    `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
	ShortlistLogs []Shortlist      `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
	Match         *Match           `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
	Messages      []Message        `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
	Claims        []FinancialClaim `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
	Disputes      []Dispute        `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (ServiceRequest) TableName() string {
	return "service_requests"
}

// IsActive reports whether the request is in the window where chat and
// service delivery happen.
func (r *ServiceRequest) IsActive() bool {
	return r.Status == constants.RequestActive
}

// RequestSequence hands out the per-year counter behind public request
// IDs. One row per calendar year, bumped under a row lock so two
// concurrent creates can never mint the same reference.
type RequestSequence struct {
	Year      int       `gorm:"column:year;primaryKey;autoIncrement:false"`
	LastValue uint      `gorm:"column:last_value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (RequestSequence) TableName() string {
	return "request_sequences"
}
