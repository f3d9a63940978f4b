package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned whenever a lookup misses, regardless of table.
// Callers branch on it with errors.Is.
var ErrNotFound = errors.New("record not found")

// ErrInvalidTransition is returned when a status change walks backwards
// or skips a step in the request lifecycle.
var ErrInvalidTransition = errors.New("illegal status transition")

// UniquenessError reports a write that collided with an existing row,
// e.g. a second preference record for the same PIN or a second match
// for the same request.
type UniquenessError struct {
	Entity string
	Field  string
}

func (e *UniquenessError) Error() string {
	return fmt.Sprintf("%s already exists for this %s", e.Entity, e.Field)
}

// ValidationError reports a write rejected before or by the database:
// a malformed field, a negative amount, a reference to a missing row.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// translate maps GORM's translated driver errors onto the store's own
// error types so callers never import gorm to branch on failures.
// Requires gorm.Config{TranslateError: true} on the session.
func translate(err error, entity, field string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &UniquenessError{Entity: entity, Field: field}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &ValidationError{Field: field, Reason: "references a row that does not exist"}
	}
	return err
}
