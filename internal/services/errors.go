package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

var (
	ErrValidationFailed    = errors.New("validation failed")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrTeacherNotFound     = fmt.Errorf("teacher %w", ErrNotFound)
	ErrWorkNotFound        = fmt.Errorf("work %w", ErrNotFound)
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrWorkAlreadyReviewed = errors.New("work already reviewed")
)

// BackendError is a failure of the database, the identity provider or another
// remote dependency. It is surfaced as is, callers do not retry.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func NewBackendError(op string, err error) *BackendError {
	return &BackendError{Op: op, Err: err}
}

func IsBackendError(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}

// IsValidationError reports input rejected by a schema or a business rule.
func IsValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs) || errors.Is(err, ErrValidationFailed)
}
