package apperrors

import "errors"

// Common errors
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Selection workflow errors. Each one is a distinct admission failure
// reason and is surfaced to the caller unchanged.
var (
	ErrPackNotOpen           = errors.New("pack is not open for selection")
	ErrDeadlinePassed        = errors.New("selection deadline has passed")
	ErrSelectionCountInvalid = errors.New("invalid number of chosen offerings")
	ErrUnknownOffering       = errors.New("offering does not belong to pack")
	ErrOfferingFull          = errors.New("offering has no remaining capacity")
	ErrSelectionLocked       = errors.New("selection has already been decided")
	ErrConflictingDecision   = errors.New("selection was already decided differently")
)

// Store errors
var (
	// ErrDataUnavailable means the underlying store could not be reached or
	// answered with a transient failure. It is the only retryable kind;
	// callers must never interpret it as "not full" or "not found".
	ErrDataUnavailable = errors.New("data store unavailable")
)

// Pack and offering management errors
var (
	ErrPackNotFound           = errors.New("pack not found")
	ErrOfferingNotFound       = errors.New("offering not found")
	ErrSelectionNotFound      = errors.New("selection not found")
	ErrInstitutionNotFound    = errors.New("institution not found")
	ErrInvalidPackTransition  = errors.New("invalid pack status transition")
	ErrCapacityBelowOccupancy = errors.New("capacity cannot be lowered below current occupancy")
	ErrOfferingHasSelections  = errors.New("offering is referenced by selections and cannot be deleted")
	ErrInstitutionMismatch    = errors.New("resource belongs to another institution")
	ErrEmailAlreadyExists     = errors.New("email already exists")
)

// notFoundSentinels lists every sentinel that means "no such row".
var notFoundSentinels = []error{
	ErrResourceNotFound,
	ErrPackNotFound,
	ErrOfferingNotFound,
	ErrSelectionNotFound,
	ErrInstitutionNotFound,
	ErrTokenNotFound,
}

// IsNotFound reports whether the error is any of the not-found sentinels.
func IsNotFound(err error) bool {
	for _, sentinel := range notFoundSentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewOfferingFullError names the offering that had no seat left so the
// caller can render an actionable message.
func NewOfferingFullError(offeringID int64, offeringName string) error {
	return &CustomError{
		Err:     ErrOfferingFull,
		Message: "offering has no remaining capacity: " + offeringName,
		Details: map[string]interface{}{
			"offeringId":   offeringID,
			"offeringName": offeringName,
		},
	}
}

// NewDataUnavailableError wraps a store failure without losing the cause.
func NewDataUnavailableError(cause error) error {
	return &CustomError{
		Err:     ErrDataUnavailable,
		Message: "data store unavailable",
		Cause:   cause,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
	Cause   error
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
