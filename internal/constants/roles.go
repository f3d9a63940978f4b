package constants

import (
	"database/sql/driver"
	"fmt"
)

// UserRole mirrors the 'role' column on users. The role is fixed at
// account creation and never changes afterwards.
type UserRole string

const (
	RolePIN   UserRole = "PIN"
	RoleCV    UserRole = "CV"
	RoleCSR   UserRole = "CSR"
	RoleAdmin UserRole = "ADMIN"
)

// Stringer ­– convenient for fmt / logs
func (r UserRole) String() string { return string(r) }

// IsValid reports whether r is one of the four account roles.
func (r UserRole) IsValid() bool {
	switch r {
	case RolePIN, RoleCV, RoleCSR, RoleAdmin:
		return true
	}
	return false
}

// IsCorporate reports whether the role carries company fields.
// Only volunteers and support reps belong to an organisation.
func (r UserRole) IsCorporate() bool {
	return r == RoleCV || r == RoleCSR
}

/* ---------- DB adapters so sqlx (or database/sql) scans/values cleanly ---------- */

// Scan implements the sql.Scanner interface
func (r *UserRole) Scan(src interface{}) error {
	if src == nil {
		*r = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*r = UserRole(v)
	case []byte:
		*r = UserRole(v)
	default:
		return fmt.Errorf("UserRole: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (r UserRole) Value() (driver.Value, error) { return string(r), nil }
