package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Refresh cycle errors
	ErrCodeDiscoveryFailed   ErrorCode = "DISCOVERY_FAILED"
	ErrCodeReadFailed        ErrorCode = "READ_FAILED"
	ErrCodeParseFailed       ErrorCode = "PARSE_FAILED"
	ErrCodeAggregationFailed ErrorCode = "AGGREGATION_FAILED"
	ErrCodeRenderFailed      ErrorCode = "RENDER_FAILED"

	// Collaborator errors
	ErrCodeEditorUnavailable ErrorCode = "EDITOR_UNAVAILABLE"
	ErrCodeWatchFailed       ErrorCode = "WATCH_FAILED"
	ErrCodeCommandFailed     ErrorCode = "COMMAND_FAILED"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// CoverlayError represents a structured error with context
type CoverlayError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *CoverlayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CoverlayError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *CoverlayError) WithDetail(key string, value interface{}) *CoverlayError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *CoverlayError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new CoverlayError
func New(code ErrorCode, message string) *CoverlayError {
	return &CoverlayError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a CoverlayError
func Wrap(err error, code ErrorCode, message string) *CoverlayError {
	return &CoverlayError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific CoverlayError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	covErr, ok := err.(*CoverlayError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return covErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	covErr, ok := err.(*CoverlayError)
	if !ok {
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return covErr.Code
}
