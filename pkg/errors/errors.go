package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Resolution errors
	ErrSourceUnreadable ErrorCode = "SOURCE_UNREADABLE"

	// Synchronization errors
	ErrDirCreate     ErrorCode = "DIR_CREATE"
	ErrFileRead      ErrorCode = "FILE_READ"
	ErrFileWrite     ErrorCode = "FILE_WRITE"
	ErrManifestWrite ErrorCode = "MANIFEST_WRITE"
	ErrPrune         ErrorCode = "PRUNE"
)

// IsoenvError represents a structured error with code and details
type IsoenvError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *IsoenvError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *IsoenvError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *IsoenvError) Is(target error) bool {
	var targetErr *IsoenvError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new IsoenvError with the given code and message
func New(code ErrorCode, message string) *IsoenvError {
	return &IsoenvError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new IsoenvError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *IsoenvError {
	return &IsoenvError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an IsoenvError
func Wrap(err error, code ErrorCode, message string) *IsoenvError {
	if err == nil {
		return nil
	}
	return &IsoenvError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *IsoenvError {
	if err == nil {
		return nil
	}
	return &IsoenvError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *IsoenvError) WithDetail(key string, value interface{}) *IsoenvError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var isoErr *IsoenvError
	if errors.As(err, &isoErr) {
		return isoErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an IsoenvError
func GetErrorCode(err error) ErrorCode {
	var isoErr *IsoenvError
	if errors.As(err, &isoErr) {
		return isoErr.Code
	}
	return ErrUnknown
}
