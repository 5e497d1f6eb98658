// internal/common/errors/errors.go

// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInputParseFailed ErrorCode = "INPUT_PARSE_FAILED"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeItemNotFound  ErrorCode = "ITEM_NOT_FOUND"
	ErrCodeEntryNotFound ErrorCode = "CACHE_ENTRY_NOT_FOUND"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"

	ErrCodeCatalogUnavailable    ErrorCode = "CATALOG_UNAVAILABLE"
	ErrCodeCacheStoreFailed      ErrorCode = "CACHE_STORE_FAILED"
	ErrCodePreferenceStoreFailed ErrorCode = "PREFERENCE_STORE_FAILED"
	ErrCodeProviderRateLimited   ErrorCode = "PROVIDER_RATE_LIMITED"

	ErrCodeTimeout  ErrorCode = "TIMEOUT"
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
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

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewInputParseError creates a non-retryable error for job variables that cannot be decoded.
func NewInputParseError(err error) *StandardError {
	return newError(ErrCodeInputParseFailed, "Job variables could not be parsed", err.Error(), false)
}

// NewValidationError creates a non-retryable error for a missing or malformed request field.
func NewValidationError(details string) *StandardError {
	return newError(ErrCodeValidationFailed, "Request validation failed", details, false)
}

// NewItemNotFoundError creates a non-retryable error for an unknown catalog item.
func NewItemNotFoundError(itemID string) *StandardError {
	return newError(ErrCodeItemNotFound, "Catalog item not found", fmt.Sprintf("itemId: %s", itemID), false).
		WithMetadata("itemId", itemID)
}

// NewEntryNotFoundError creates a non-retryable error for an admin change on an item with no cache
// entry.
func NewEntryNotFoundError(itemID string) *StandardError {
	return newError(ErrCodeEntryNotFound, "Enrichment entry not found", fmt.Sprintf("itemId: %s", itemID), false).
		WithMetadata("itemId", itemID)
}

// NewForbiddenError creates a non-retryable error for a rejected admin secret.
func NewForbiddenError(details string) *StandardError {
	return newError(ErrCodeForbidden, "Operation not permitted", details, false)
}

// NewCatalogUnavailableError creates a retryable catalog read error.
func NewCatalogUnavailableError(err error) *StandardError {
	return newError(ErrCodeCatalogUnavailable, "Catalog store unavailable", err.Error(), true)
}

// NewCacheStoreError creates a retryable enrichment store error.
func NewCacheStoreError(err error) *StandardError {
	return newError(ErrCodeCacheStoreFailed, "Enrichment cache operation failed", err.Error(), true)
}

// NewPreferenceStoreError creates a retryable preference store error.
func NewPreferenceStoreError(err error) *StandardError {
	return newError(ErrCodePreferenceStoreFailed, "Preference store operation failed", err.Error(), true)
}

// NewTimeoutError creates a retryable timeout error.
func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
}

// NewInternalError creates a non-retryable generic failure.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCatalogUnavailable,
		ErrCodeCacheStoreFailed,
		ErrCodePreferenceStoreFailed:
		return 3
	case ErrCodeTimeout:
		return 2
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"timestamp": stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError unwraps err to a *StandardError when one is in the chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "PARSE"):
		return "VALIDATION"
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "NOT_FOUND"
	case strings.Contains(codeStr, "FORBIDDEN"):
		return "AUTH"
	case strings.Contains(codeStr, "STORE") || strings.Contains(codeStr, "CATALOG"):
		return "STORAGE"
	case strings.Contains(codeStr, "PROVIDER"):
		return "PROVIDER"
	default:
		return "OTHER"
	}
}
