// Package errors provides standardized error handling for the policy advisor API.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodePolicyValidationFailed ErrorCode = "POLICY_VALIDATION_FAILED"
	ErrCodeMalformedPayload       ErrorCode = "MALFORMED_PAYLOAD"

	ErrCodeAnalysisNotFound ErrorCode = "ANALYSIS_NOT_FOUND"

	ErrCodeStorageInsertFailed ErrorCode = "STORAGE_INSERT_FAILED"
	ErrCodeStorageQueryFailed  ErrorCode = "STORAGE_QUERY_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewPolicyValidationFailedError wraps one or more field violations.
func NewPolicyValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePolicyValidationFailed,
		Message:   "Policy data validation failed",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedPayloadError covers bodies that are not valid JSON objects.
func NewMalformedPayloadError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedPayload,
		Message:   "Request body is not a valid JSON object",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

// NewAnalysisNotFoundError marks a lookup by unknown id.
func NewAnalysisNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnalysisNotFound,
		Message:   "Policy analysis not found",
		Details:   fmt.Sprintf("analysisId: %s", id),
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageInsertFailedError wraps a store create failure.
func NewStorageInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageInsertFailed,
		Message:   "Storage insert operation failed",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageQueryFailedError wraps a store read failure.
func NewStorageQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageQueryFailed,
		Message:   "Storage query failed",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError is the catch-all for unexpected failures.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Internal error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

// HTTPStatusMapping maps internal error codes to HTTP status codes.
var HTTPStatusMapping = map[ErrorCode]int{
	ErrCodePolicyValidationFailed: http.StatusBadRequest,
	ErrCodeMalformedPayload:       http.StatusBadRequest,
	ErrCodeAnalysisNotFound:       http.StatusNotFound,
	ErrCodeStorageInsertFailed:    http.StatusInternalServerError,
	ErrCodeStorageQueryFailed:     http.StatusInternalServerError,
	ErrCodeInternal:               http.StatusInternalServerError,
}

// HTTPStatus returns the HTTP status for an error code.
func HTTPStatus(code ErrorCode) int {
	if status, exists := HTTPStatusMapping[code]; exists {
		return status
	}
	return http.StatusInternalServerError
}

// ==========================
// 4. Utility Functions
// ==========================

// AsStandardError extracts a *StandardError from an error chain, converting
// anything else into an internal error.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// IsClientError reports whether the code maps to a 4xx status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatus(code)
	return status >= 400 && status < 500
}
