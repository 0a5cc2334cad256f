// Package errors provides standardized error handling for the disposition
// engine and its BPMN workflow integration.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Scenario-level errors surface to the caller.
	ErrCodeInvalidScenario ErrorCode = "INVALID_SCENARIO"
	ErrCodeParseError      ErrorCode = "PARSE_ERROR"

	// Provider errors degrade the result set instead of failing the search.
	ErrCodeProviderTransient ErrorCode = "PROVIDER_TRANSIENT"
	ErrCodeProviderPermanent ErrorCode = "PROVIDER_PERMANENT"
	ErrCodeProviderExhausted ErrorCode = "PROVIDER_EXHAUSTED"

	// Guard code: the mandatory fallback policy entry makes this unreachable.
	ErrCodePolicyMatchImpossible ErrorCode = "POLICY_MATCH_IMPOSSIBLE"

	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeMatrixLoadFailed ErrorCode = "MATRIX_LOAD_FAILED"
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
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the workflow engine.
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

// ToErrorVariables returns a map suitable for setting job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewInvalidScenarioError creates a non-retryable client error for a
// malformed or incomplete scenario request.
func NewInvalidScenarioError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidScenario,
		Message:   "Scenario request failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewParseError creates a non-retryable error for undecodable job variables.
func NewParseError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeParseError,
		Message:   "Failed to parse job variables",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderExhaustedError records that every query template failed at
// every radius tier. Callers map this to an empty result, never a hard
// failure.
func NewProviderExhaustedError(provider string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderExhausted,
		Message:   "All provider queries failed at all radius tiers",
		Retryable: true,
		Metadata:  map[string]interface{}{"provider": provider},
		Timestamp: time.Now().UTC(),
	}
}

// NewMatrixLoadFailedError creates a retryable error for a bad matrix read.
func NewMatrixLoadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMatrixLoadFailed,
		Message:   "Failed to load disposition matrix",
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"path": path},
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Conversion Helpers
// ==========================

// ToBPMNError converts a StandardError into a BPMNError for job handlers.
// Non-retryable errors carry zero retries so the workflow routes them to an
// error boundary instead of re-queueing the job.
func ToBPMNError(err *StandardError, retries int) *BPMNError {
	if !err.Retryable {
		retries = 0
	}
	return &BPMNError{
		Code:           string(err.Code),
		Message:        err.Message,
		Details:        err.Details,
		Retryable:      err.Retryable,
		Retries:        retries,
		ErrorVariables: err.Metadata,
	}
}

// IsRetryable reports whether err is a retryable StandardError.
func IsRetryable(err error) bool {
	if se, ok := err.(*StandardError); ok {
		return se.Retryable
	}
	return false
}

// CodeOf extracts the ErrorCode from err, or empty when err is not a
// StandardError.
func CodeOf(err error) ErrorCode {
	if se, ok := err.(*StandardError); ok {
		return se.Code
	}
	return ""
}

// GetRetryCount returns how many workflow-level retries a code deserves.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeProviderTransient, ErrCodeCacheUnavailable, ErrCodeMatrixLoadFailed:
		return 3
	default:
		return 0
	}
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeInvalidScenario, ErrCodeParseError:
		return "client"
	case ErrCodeProviderTransient, ErrCodeProviderPermanent, ErrCodeProviderExhausted:
		return "provider"
	case ErrCodeCacheUnavailable:
		return "cache"
	case ErrCodeMatrixLoadFailed, ErrCodePolicyMatchImpossible:
		return "policy"
	default:
		return "internal"
	}
}
