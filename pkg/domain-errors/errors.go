// Package domainerrors provides code-classified errors for domain and service
// layers. Stores return sentinel errors (pkg/platform/sentinel); services wrap
// them with a Code so transports can map failures without string matching.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for callers and the HTTP layer. Codes are stable
// API: they appear verbatim in error responses and audit reason fields.
type Code string

const (
	// Transport / ambient codes.
	CodeBadRequest      Code = "bad_request"
	CodeInvalidInput    Code = "invalid_input"
	CodeUnauthenticated Code = "unauthenticated"
	CodeUnauthorized    Code = "unauthorized"
	CodeNotFound        Code = "not_found"
	CodeTimeout         Code = "timeout"
	CodeInternal        Code = "internal_error"

	// Identity registry.
	CodeDuplicateSubject Code = "duplicate_subject"
	CodeUnknownSubject   Code = "unknown_subject"

	// Consent ledger.
	CodeInvalidScope   Code = "invalid_scope"
	CodeDuplicateGrant Code = "duplicate_grant"
	CodeNoActiveGrant  Code = "no_active_grant"

	// Record index.
	CodeDuplicateRecord Code = "duplicate_record"
	CodeUnknownRecord   Code = "unknown_record"

	// Access gate.
	CodeRequesterUnknown  Code = "requester_unknown"
	CodeRequesterInactive Code = "requester_inactive"
	CodeRoleNotPermitted  Code = "role_not_permitted"
	CodeConsentMissing    Code = "consent_missing_or_expired"
	CodeAuditWriteFailed  Code = "audit_write_failed"
)

// Error carries a classification code, a caller-safe message, and an optional
// wrapped cause for logs.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error without a cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error. The cause stays
// reachable through errors.Is/As for sentinel checks.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the classification code, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf returns the caller-safe message, or empty for uncoded errors.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
