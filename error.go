package manualagent

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// These are meant to be communicated across service boundaries. Codes map
// retryable conditions (EUNAVAILABLE, ETIMEOUT) apart from terminal ones
// (EQUOTA, EINVALID) so callers can branch on kind instead of matching
// message strings.
const (
	ECONFLICT    = "conflict"
	EINVALID     = "invalid"
	EINTERNAL    = "internal"
	ENOTFOUND    = "not_found"
	EQUOTA       = "quota_exceeded"
	ETIMEOUT     = "timeout"
	EUNAVAILABLE = "unavailable"
)

// Error represents an application-specific error. Application errors carry a
// machine-readable code and a human-readable message.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("manualagent error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsRetryable reports whether an error represents a transient condition
// worth retrying. Quota and validation errors are always terminal.
func IsRetryable(err error) bool {
	switch ErrorCode(err) {
	case EUNAVAILABLE, ETIMEOUT:
		return true
	default:
		return false
	}
}
