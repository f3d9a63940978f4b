package gorm

import (
	"time"

	"github.com/cpenseur/CSIT314-Null/internal/constants"
)

// User is a platform account. The role decides which side of a service
// request the account can sit on and never changes after creation.
type User struct {
	Base
	Username     string             `gorm:"column:username;size:150;uniqueIndex;not null" validate:"required,max=150"`
	PasswordHash string             `gorm:"column:password_hash;size:255" json:"-"`
	Email        string             `gorm:"column:email;size:254" validate:"omitempty,email"`
	FullName     string             `gorm:"column:full_name;size:120" validate:"required,max=120"`
	DateOfBirth  *time.Time         `gorm:"column:date_of_birth"`
	HomeAddress  string             `gorm:"column:home_address;size:255" validate:"max=255"`
	Role         constants.UserRole `gorm:"column:role;size:10;not null" validate:"required,oneof=PIN CV CSR ADMIN"`

	// Company fields are meaningful only for CV and CSR accounts and are
	// kept empty for everyone else.
	CompanyName  string `gorm:"column:company_name;size:120" validate:"max=120"`
	CompanyID    string `gorm:"column:company_id;size:60" validate:"max=60"`
	CompanyEmail string `gorm:"column:company_email;size:254" validate:"omitempty,email"`

	// Relationships
	Preference *PINPreference `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

func (u *User) IsPIN() bool   { return u.Role == constants.RolePIN }
func (u *User) IsCV() bool    { return u.Role == constants.RoleCV }
func (u *User) IsCSR() bool   { return u.Role == constants.RoleCSR }
func (u *User) IsAdmin() bool { return u.Role == constants.RoleAdmin }

// PINPreference is the optional matching-preference record a PIN keeps.
// One row per user, enforced by the unique index on user_id.
type PINPreference struct {
	Base
	UserID                   string `gorm:"column:user_id;type:uuid;uniqueIndex;not null" validate:"required"`
	PreferredLanguage        string `gorm:"column:preferred_language;size:60" validate:"max=60"`
	PreferredVolunteerGender string `gorm:"column:preferred_volunteer_gender;size:20" validate:"max=20"`

	// Relationships
	User *User `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (PINPreference) TableName() string {
	return "pin_preferences"
}
