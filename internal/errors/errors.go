package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeConflict indicates a conflict with existing data.
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"

	// ErrCodeCSRF indicates a missing or mismatched state parameter, or
	// a missing/expired verification session. Deliberately one code for
	// all of those cases so responses cannot be used as an oracle.
	ErrCodeCSRF ErrorCode = "csrf_validation"
	// ErrCodeProviderDenied indicates the provider redirected back with
	// its own error parameter instead of an authorization code. The
	// provider's error value is carried as the cause.
	ErrCodeProviderDenied ErrorCode = "provider_denied"
	// ErrCodeUpstreamAuth indicates the token exchange with the
	// identity provider failed.
	ErrCodeUpstreamAuth ErrorCode = "upstream_auth"
	// ErrCodeUpstreamProfile indicates the userinfo fetch failed.
	ErrCodeUpstreamProfile ErrorCode = "upstream_profile"
	// ErrCodeMissingClaim indicates the profile lacked a required claim.
	ErrCodeMissingClaim ErrorCode = "missing_identity_claim"
	// ErrCodeEmailNotEligible indicates the email failed the configured
	// domain policy.
	ErrCodeEmailNotEligible ErrorCode = "email_not_eligible"
	// ErrCodeRoleGrant indicates a failure listing/creating/attaching
	// roles. Never surfaced to the verifying user.
	ErrCodeRoleGrant ErrorCode = "role_grant"
)

// AppError represents a structured application error with a code,
// message, and optional cause. It supports error wrapping and
// unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message}
}

// Internalf creates a new Internal error with formatted message.
func Internalf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// CodeOf extracts the ErrorCode from err, or ErrCodeInternal when err
// is not an AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
