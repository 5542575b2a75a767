package errors

import (
	"fmt"
)

// ErrorCode identifies a failure class in the chat and document pipeline.
type ErrorCode string

const (
	// ErrCodeUnauthorized indicates authentication failure.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeRateLimitExceeded indicates rate limit has been exceeded.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeNotFound indicates the requested resource does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeLLMUnavailable indicates the model endpoint could not be reached.
	ErrCodeLLMUnavailable ErrorCode = "LLM_UNAVAILABLE"
	// ErrCodeStorageFailed indicates a database read or write failure.
	ErrCodeStorageFailed ErrorCode = "STORAGE_FAILED"
	// ErrCodeNotReady indicates the conversation has not reached the
	// readiness gate required for document generation.
	ErrCodeNotReady ErrorCode = "NOT_READY"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// PipelineError is a structured error carrying a code and optional context.
type PipelineError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// WithContext adds a context value to the error.
func (e *PipelineError) WithContext(key string, value interface{}) *PipelineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *PipelineError {
	return &PipelineError{Code: ErrCodeUnauthorized, Message: msg}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *PipelineError {
	return &PipelineError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *PipelineError {
	return &PipelineError{Code: ErrCodeInvalidArgument, Message: msg}
}

// NotFound creates a not found error.
func NotFound(resource string) *PipelineError {
	return &PipelineError{Code: ErrCodeNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// LLMUnavailable creates an LLM unavailable error.
func LLMUnavailable(msg string, cause error) *PipelineError {
	return &PipelineError{Code: ErrCodeLLMUnavailable, Message: msg, Cause: cause}
}

// StorageFailed creates a storage failure error.
func StorageFailed(msg string, cause error) *PipelineError {
	return &PipelineError{Code: ErrCodeStorageFailed, Message: msg, Cause: cause}
}

// NotReady creates a readiness gate error.
func NotReady(msg string) *PipelineError {
	return &PipelineError{Code: ErrCodeNotReady, Message: msg}
}

// Timeout creates a timeout error.
func Timeout(msg string) *PipelineError {
	return &PipelineError{Code: ErrCodeTimeout, Message: msg}
}

// Wrap wraps an existing error with a code and message.
func Wrap(cause error, code ErrorCode, msg string) *PipelineError {
	return &PipelineError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error carries a specific code.
func IsCode(err error, code ErrorCode) bool {
	if pErr, ok := err.(*PipelineError); ok {
		return pErr.Code == code
	}
	return false
}

// CodeOf extracts the code from any error, falling back to defaultCode.
func CodeOf(err error, defaultCode ErrorCode) ErrorCode {
	if pErr, ok := err.(*PipelineError); ok {
		return pErr.Code
	}
	return defaultCode
}
