// Package errors provides standardized error handling for the ROI Navigator API.
package errors

import (
	stderrors "errors"
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
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeProjectNotFound ErrorCode = "PROJECT_NOT_FOUND"
	ErrCodeStoreFailed     ErrorCode = "STORE_OPERATION_FAILED"

	ErrCodeConfigFetchFailed ErrorCode = "CONFIG_FETCH_FAILED"
	ErrCodeInvalidRateConfig ErrorCode = "INVALID_RATE_CONFIG"

	ErrCodeUserNotFound          ErrorCode = "USER_NOT_FOUND"
	ErrCodeIdentityProviderError ErrorCode = "IDENTITY_PROVIDER_ERROR"
	ErrCodeEmailSendFailed       ErrorCode = "EMAIL_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationError creates a non-retryable validation error. The message
// names the offending fields so the API can surface it verbatim as a 400.
func NewValidationError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProjectNotFoundError creates a non-retryable not-found error.
func NewProjectNotFoundError(projectID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProjectNotFound,
		Message:   "Project not found",
		Details:   fmt.Sprintf("projectId: %s", projectID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreError creates a retryable document-store error.
func NewStoreError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreFailed,
		Message:   "Document store operation failed",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigFetchError creates a retryable configuration-fetch error.
// Raised when the global rate document cannot be loaded; never served
// from a stale cache instead.
func NewConfigFetchError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigFetchFailed,
		Message:   "Failed to fetch global configuration",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRateConfigError creates a non-retryable error for a rate
// document that cannot produce a usable development cost.
func NewInvalidRateConfigError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRateConfig,
		Message:   "Global rate configuration is unusable",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUserNotFoundError creates a non-retryable identity error.
func NewUserNotFoundError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUserNotFound,
		Message:   "User not found",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewIdentityProviderError creates a retryable identity-provider error.
func NewIdentityProviderError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeIdentityProviderError,
		Message:   "Identity provider request failed",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmailSendFailedError creates a retryable email delivery error.
func NewEmailSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmailSendFailed,
		Message:   "Credential email delivery failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

// HTTPStatus maps an error to the status code the API layer must emit.
// Validation errors become 400, not-found errors 404, everything else a
// generic 500 (upstream/configuration/store failures are not detailed
// to the caller).
func HTTPStatus(err error) int {
	var stdErr *StandardError
	if !stderrors.As(err, &stdErr) {
		return http.StatusInternalServerError
	}

	switch stdErr.Code {
	case ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeProjectNotFound, ErrCodeUserNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// IsNotFound reports whether err is a not-found StandardError.
func IsNotFound(err error) bool {
	var stdErr *StandardError
	if !stderrors.As(err, &stdErr) {
		return false
	}
	return stdErr.Code == ErrCodeProjectNotFound || stdErr.Code == ErrCodeUserNotFound
}
