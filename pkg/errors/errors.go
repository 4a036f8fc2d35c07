package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies failures by how the run reacts to them
type ErrorType string

const (
	ErrorTypeMalformedInput ErrorType = "malformed_input"
	ErrorTypeHTTPStatus     ErrorType = "http_status"
	ErrorTypeNetwork        ErrorType = "network"
	ErrorTypeFilesystem     ErrorType = "filesystem"
	ErrorTypeUnknown        ErrorType = "unknown"
)

// Error carries a type, a message and, for HTTP failures, the status code
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, msg)
	}
	return fmt.Sprintf("%s error: %s", e.Type, msg)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error without a cause
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// Wrap creates a typed error around an existing one
func Wrap(errorType ErrorType, err error, message string) *Error {
	return &Error{Type: errorType, Message: message, Err: err}
}

// HTTPStatus builds the error reported for any non-200 response
func HTTPStatus(code int, url string) *Error {
	return &Error{
		Type:    ErrorTypeHTTPStatus,
		Message: fmt.Sprintf("unexpected status for %s", url),
		Code:    code,
	}
}

// TypeOf returns the type of the first *Error in err's chain
func TypeOf(err error) ErrorType {
	var typed *Error
	if stderrors.As(err, &typed) {
		return typed.Type
	}
	return ErrorTypeUnknown
}

// IsType reports whether err's chain holds an *Error of the given type
func IsType(err error, errorType ErrorType) bool {
	return err != nil && TypeOf(err) == errorType
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var typed *Error
	if stderrors.As(err, &typed) {
		return typed.Code
	}
	return 0
}

// IsFatal reports whether err must stop the whole run. Only malformed input
// in strict mode does; everything else is recovered per file or per download.
func IsFatal(err error, strict bool) bool {
	if err == nil {
		return false
	}
	switch TypeOf(err) {
	case ErrorTypeMalformedInput, ErrorTypeFilesystem:
		return strict
	default:
		return false
	}
}
