package dto

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

// Standard error codes for the application
const (
	// Authentication errors
	ErrorCodeInvalidCredentials ErrorCode = "AUTH_001"
	ErrorCodeInvalidToken       ErrorCode = "AUTH_002"
	ErrorCodeExpiredToken       ErrorCode = "AUTH_003"
	ErrorCodeTokenNotFound      ErrorCode = "AUTH_004"
	ErrorCodeUnauthorized       ErrorCode = "AUTH_005"
	ErrorCodeForbidden          ErrorCode = "AUTH_006"

	// Resource errors
	ErrorCodeResourceNotFound      ErrorCode = "RES_001"
	ErrorCodeResourceAlreadyExists ErrorCode = "RES_002"
	ErrorCodeConflict              ErrorCode = "RES_003"

	// Selection workflow errors
	ErrorCodePackNotOpen           ErrorCode = "SEL_001"
	ErrorCodeDeadlinePassed        ErrorCode = "SEL_002"
	ErrorCodeSelectionCountInvalid ErrorCode = "SEL_003"
	ErrorCodeUnknownOffering       ErrorCode = "SEL_004"
	ErrorCodeOfferingFull          ErrorCode = "SEL_005"
	ErrorCodeSelectionLocked       ErrorCode = "SEL_006"
	ErrorCodeConflictingDecision   ErrorCode = "SEL_007"

	// Pack management errors
	ErrorCodeInvalidTransition      ErrorCode = "PACK_001"
	ErrorCodeCapacityBelowOccupancy ErrorCode = "PACK_002"
	ErrorCodeOfferingReferenced     ErrorCode = "PACK_003"

	// Validation errors
	ErrorCodeValidationFailed ErrorCode = "VAL_001"

	// Server errors
	ErrorCodeInternalServer  ErrorCode = "SRV_001"
	ErrorCodeDataUnavailable ErrorCode = "SRV_002"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

// Severity levels
const (
	ErrorSeverityInfo     ErrorSeverity = "INFO"
	ErrorSeverityWarning  ErrorSeverity = "WARNING"
	ErrorSeverityError    ErrorSeverity = "ERROR"
	ErrorSeverityCritical ErrorSeverity = "CRITICAL"
)

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code      ErrorCode     `json:"code" example:"SEL_005"`
	Message   string        `json:"message" example:"offering has no remaining capacity"`
	Field     string        `json:"field,omitempty" example:"offeringIds"`
	Severity  ErrorSeverity `json:"severity" example:"ERROR"`
	Details   interface{}   `json:"details,omitempty"`
	Retryable bool          `json:"retryable,omitempty"`
}

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success   bool         `json:"success" example:"false"`
	Error     *ErrorDetail `json:"error"`
	Timestamp time.Time    `json:"timestamp" example:"2026-04-23T12:01:05.123Z"`
}

// NewErrorDetail creates a new error detail
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:     code,
		Message:  message,
		Severity: ErrorSeverityError,
	}
}

// WithField adds a field name to the error detail
func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

// WithSeverity sets the severity level of the error
func (e *ErrorDetail) WithSeverity(severity ErrorSeverity) *ErrorDetail {
	e.Severity = severity
	return e
}

// WithDetails adds additional details to the error
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// WithRetryable marks the error as safe to retry. Only store outages
// qualify; every workflow error needs corrected input or a later window.
func (e *ErrorDetail) WithRetryable() *ErrorDetail {
	e.Retryable = true
	return e
}

// Formatf sets a formatted message on the error detail
func (e *ErrorDetail) Formatf(format string, args ...interface{}) *ErrorDetail {
	e.Message = fmt.Sprintf(format, args...)
	return e
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(errorDetail *ErrorDetail) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Error:     errorDetail,
		Timestamp: time.Now(),
	}
}
