// File: internal/common/errors.go
package common

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure into the small taxonomy the rest of the
// application understands. Provider-specific error identifiers are mapped onto
// these by the auth gateway.
type Kind string

const (
	KindValidation        Kind = "VALIDATION_ERROR"
	KindInvalidEmail      Kind = "INVALID_EMAIL"
	KindUserNotFound      Kind = "USER_NOT_FOUND"
	KindWrongPassword     Kind = "WRONG_PASSWORD"
	KindInvalidCredential Kind = "INVALID_CREDENTIAL"
	KindUserDisabled      Kind = "USER_DISABLED"
	KindTooManyRequests   Kind = "TOO_MANY_REQUESTS"
	KindEmailInUse        Kind = "EMAIL_ALREADY_IN_USE"
	KindWeakPassword      Kind = "WEAK_PASSWORD"
	KindUnverifiedSession Kind = "UNVERIFIED_SESSION"
	KindNetwork           Kind = "NETWORK_ERROR"
	KindUnknown           Kind = "UNKNOWN"
)

// AppError represents a classified application error with a user-actionable
// heading and message suitable for a notification surface.
type AppError struct {
	Kind    Kind        `json:"kind"`
	Heading string      `json:"heading"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("AppError: Kind=%s, Message=%s", e.Kind, e.Message)
}

func NewAppError(kind Kind, heading, message string) *AppError {
	return &AppError{Kind: kind, Heading: heading, Message: message}
}

// WithDetails returns a copy of the error carrying extra diagnostic detail.
// The sentinel errors below are shared, so the receiver is never mutated.
func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

var (
	ErrInvalidEmail      = NewAppError(KindInvalidEmail, "Invalid Email", "Please enter a valid email address.")
	ErrUserNotFound      = NewAppError(KindUserNotFound, "Account Not Found", "No account exists with this email address.")
	ErrWrongPassword     = NewAppError(KindWrongPassword, "Incorrect Password", "The password you entered is incorrect.")
	ErrInvalidCredential = NewAppError(KindInvalidCredential, "Invalid Credentials", "Your email or password is incorrect.")
	ErrUserDisabled      = NewAppError(KindUserDisabled, "Account Disabled", "This account has been disabled.")
	ErrTooManyRequests   = NewAppError(KindTooManyRequests, "Too Many Attempts", "Access temporarily disabled due to many failed attempts. Try again later or reset your password.")
	ErrEmailInUse        = NewAppError(KindEmailInUse, "Sign Up Failed", "Email is already in use.")
	ErrWeakPassword      = NewAppError(KindWeakPassword, "Sign Up Failed", "Password is too weak.")
	ErrUnverifiedSession = NewAppError(KindUnverifiedSession, "Email Not Verified", "Please verify your email before logging in.")
	ErrNetwork           = NewAppError(KindNetwork, "Network Error", "Please check your internet connection and try again.")
	ErrUnknown           = NewAppError(KindUnknown, "Something Went Wrong", "An unexpected error occurred. Please try again.")
)

// NewValidationError builds a locally detected validation failure. These are
// surfaced beside the offending field or as a notification and never reach the
// auth gateway.
func NewValidationError(heading, message string) *AppError {
	return NewAppError(KindValidation, heading, message)
}

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of a classified error, or KindUnknown for anything
// that is not an AppError.
func KindOf(err error) Kind {
	if appErr, ok := IsAppError(err); ok {
		return appErr.Kind
	}
	return KindUnknown
}
