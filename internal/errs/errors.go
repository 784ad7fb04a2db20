package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the ledger core. Use with errors.Is().
var (
	// ErrNotFound is returned when a referenced station, nozzle, fuel or
	// ledger entry does not exist or has been deactivated.
	ErrNotFound = errors.New("not found")

	// ErrLocked is returned when a mutation targets a finalized entry.
	// There is no unlock operation.
	ErrLocked = errors.New("entry is locked")

	// ErrConflict is returned on a uniqueness violation: a second create
	// for the same (nozzle, day, station) or (fuel, station, day) key.
	ErrConflict = errors.New("duplicate entry")

	// ErrForbidden is returned when the actor lacks the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned for malformed input: negative amounts,
	// bad dates, unknown fuel types.
	ErrValidation = errors.New("validation failed")
)

// LockedError reports which entry rejected the mutation.
type LockedError struct {
	Entity string // "reading" or "stock"
	ID     int64
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("%s %d is locked and cannot be modified", e.Entity, e.ID)
}

func (e *LockedError) Unwrap() error {
	return ErrLocked
}

// ConflictError reports which key collided.
type ConflictError struct {
	Entity string
	Key    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists for %s", e.Entity, e.Key)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// NotFoundError reports which lookup missed.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ValidationError carries the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ForbiddenError reports which resource the actor may not touch.
type ForbiddenError struct {
	Entity string
	Key    string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("access to %s %s denied", e.Entity, e.Key)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// NotFound builds a NotFoundError.
func NotFound(entity, key string) error {
	return &NotFoundError{Entity: entity, Key: key}
}

// Locked builds a LockedError.
func Locked(entity string, id int64) error {
	return &LockedError{Entity: entity, ID: id}
}

// Conflict builds a ConflictError.
func Conflict(entity, key string) error {
	return &ConflictError{Entity: entity, Key: key}
}

// Validation builds a ValidationError.
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Forbidden builds a ForbiddenError.
func Forbidden(entity, key string) error {
	return &ForbiddenError{Entity: entity, Key: key}
}

// HTTPStatus maps an error to the status code handlers should return.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrLocked):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
