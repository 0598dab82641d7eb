// Package errors provides standardized error handling for the menu service.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeMenuFetchFailed   ErrorCode = "MENU_FETCH_FAILED"
	ErrCodeMenuFetchTimeout  ErrorCode = "MENU_FETCH_TIMEOUT"
	ErrCodeClientRequest     ErrorCode = "CLIENT_REQUEST_ERROR"
	ErrCodeInvalidPayload    ErrorCode = "INVALID_PAYLOAD"
	ErrCodeItemNotFound      ErrorCode = "ITEM_NOT_FOUND"
	ErrCodeDatabaseFailed    ErrorCode = "DATABASE_FAILED"
	ErrCodeSearchFailed      ErrorCode = "SEARCH_FAILED"
	ErrCodeAlertSendFailed   ErrorCode = "ALERT_SEND_FAILED"
	ErrCodeHealthUnavailable ErrorCode = "HEALTH_UNAVAILABLE"
)

// APIError represents a structured application error. For upstream HTTP
// failures it carries the last observed status and the parsed response body.
type APIError struct {
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    string      `json:"details,omitempty"`
	StatusCode int         `json:"statusCode,omitempty"`
	Body       interface{} `json:"body,omitempty"`
	Retryable  bool        `json:"retryable"`
	Timestamp  time.Time   `json:"timestamp"`
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("APIError[%s]: %s (status %d)", e.Code, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("APIError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewMenuFetchFailedError creates a retryable upstream fetch error carrying
// the last HTTP status and body observed before retries were exhausted.
func NewMenuFetchFailedError(statusCode int, body interface{}, err error) *APIError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &APIError{
		Code:       ErrCodeMenuFetchFailed,
		Message:    "Menu API request failed after retries",
		Details:    details,
		StatusCode: statusCode,
		Body:       body,
		Retryable:  true,
		Timestamp:  time.Now().UTC(),
	}
}

// NewMenuFetchTimeoutError creates a retryable timeout error.
func NewMenuFetchTimeoutError(err error) *APIError {
	return &APIError{
		Code:      ErrCodeMenuFetchTimeout,
		Message:   "Menu API request timed out",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewClientRequestError creates a non-retryable 4xx error. Client errors are
// surfaced immediately: the request is malformed, not transient.
func NewClientRequestError(statusCode int, body interface{}) *APIError {
	return &APIError{
		Code:       ErrCodeClientRequest,
		Message:    "Menu API rejected the request",
		StatusCode: statusCode,
		Body:       body,
		Retryable:  false,
		Timestamp:  time.Now().UTC(),
	}
}

// NewInvalidPayloadError creates a non-retryable validation error.
func NewInvalidPayloadError(details string) *APIError {
	return &APIError{
		Code:      ErrCodeInvalidPayload,
		Message:   "Menu record payload failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewItemNotFoundError creates a non-retryable lookup error.
func NewItemNotFoundError(itemID string) *APIError {
	return &APIError{
		Code:      ErrCodeItemNotFound,
		Message:   "Menu item not found",
		Details:   fmt.Sprintf("itemId: %s", itemID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseError creates a retryable storage error.
func NewDatabaseError(err error) *APIError {
	return &APIError{
		Code:      ErrCodeDatabaseFailed,
		Message:   "Menu storage operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchError creates a retryable search backend error.
func NewSearchError(err error) *APIError {
	return &APIError{
		Code:      ErrCodeSearchFailed,
		Message:   "Menu search query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAlertSendFailedError creates a retryable notification delivery error.
func NewAlertSendFailedError(channel string, err error) *APIError {
	return &APIError{
		Code:      ErrCodeAlertSendFailed,
		Message:   "Ops alert delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsRetryable reports whether err is an APIError marked retryable. Unknown
// error types count as retryable: network-level failures arrive as plain
// errors from the transport.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable
	}
	return true
}

// IsRetryableStatus reports whether an HTTP status warrants another attempt.
// 4xx statuses are the caller's fault and are never retried.
func IsRetryableStatus(statusCode int) bool {
	if statusCode >= 400 && statusCode < 500 {
		return false
	}
	return statusCode >= 500 || statusCode == 0
}

// AsAPIError unwraps err to an *APIError when possible.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
