package skitter

import (
	"errors"
	"fmt"
)

// Application error codes. These map the crawler's error taxonomy onto
// machine-readable codes: configuration mistakes surface as ECONFIG at
// construction time, unusable URLs as EINVALID, and fetch failures as
// EUNAVAILABLE.
const (
	ECONFIG      = "config"
	EINVALID     = "invalid"
	EUNAVAILABLE = "unavailable"
	EINTERNAL    = "internal"
)

// Error represents an application error with a machine-readable code and a
// human-readable message.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("skitter error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper for constructing an Error with formatting.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code. Non-application
// errors report EINTERNAL; a nil error reports an empty code.
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
// Non-application errors report a generic message; nil reports an empty one.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}
