// Package errors provides standardized error handling for the
// submission pipeline.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeWebhookNotConfigured  ErrorCode = "WEBHOOK_NOT_CONFIGURED"
	ErrCodeInvalidSubmission     ErrorCode = "INVALID_SUBMISSION_FORMAT"
	ErrCodeValidationFailed      ErrorCode = "VALIDATION_FAILED"
	ErrCodeWebhookDeliveryFailed ErrorCode = "WEBHOOK_DELIVERY_FAILED"
	ErrCodeDuplicateSubmission   ErrorCode = "DUPLICATE_SUBMISSION"
	ErrCodeDedupeCheckFailed     ErrorCode = "DEDUPE_CHECK_FAILED"
	ErrCodeInternal              ErrorCode = "INTERNAL_ERROR"
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

// HTTPStatus maps an error code to the response status the API
// surfaces. Sink misconfiguration and delivery faults use two distinct
// 5xx codes; shape and validation problems are the caller's fault.
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeWebhookNotConfigured:
		return http.StatusInternalServerError
	case ErrCodeInvalidSubmission:
		return http.StatusBadRequest
	case ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeWebhookDeliveryFailed:
		return http.StatusBadGateway
	case ErrCodeDuplicateSubmission:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// NewWebhookNotConfiguredError creates a non-retryable configuration
// error: the sink address is absent, so no network call is attempted.
func NewWebhookNotConfiguredError() *StandardError {
	return &StandardError{
		Code:      ErrCodeWebhookNotConfigured,
		Message:   "Webhook URL not set",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidSubmissionError creates a non-retryable input-shape error.
func NewInvalidSubmissionError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidSubmission,
		Message:   "Invalid businesses format",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError creates a non-retryable schema validation
// error carrying the per-field violations in Metadata.
func NewValidationFailedError(fieldErrors map[string]interface{}) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Submission validation failed",
		Retryable: false,
		Metadata:  fieldErrors,
		Timestamp: time.Now().UTC(),
	}
}

// NewWebhookDeliveryFailedError creates a retryable delivery fault for
// the record at the given batch index.
func NewWebhookDeliveryFailedError(index int, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeWebhookDeliveryFailed,
		Message:   "Failed to forward a business record to webhook",
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"recordIndex": index},
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateSubmissionError creates a non-retryable duplicate error.
func NewDuplicateSubmissionError(fingerprint string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateSubmission,
		Message:   "Submission was already forwarded",
		Details:   fmt.Sprintf("fingerprint: %s", fingerprint),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDedupeCheckFailedError creates a retryable store error raised
// when the duplicate guard itself cannot be consulted.
func NewDedupeCheckFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDedupeCheckFailed,
		Message:   "Duplicate check failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Internal server error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// FromError normalizes any error into a StandardError.
func FromError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return NewInternalError(err)
}
