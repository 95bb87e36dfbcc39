// Package errors provides the error taxonomy of the express-job workflow and
// its mapping to BPMN errors for the Zeebe workers.
package errors

import (
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
	// Client-side pre-flight checks. Never reach the network.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeForbidden        ErrorCode = "FORBIDDEN"

	// Primary-step failures of workflow operations.
	ErrCodeSubmissionFailed       ErrorCode = "SUBMISSION_FAILED"
	ErrCodeHireFailed             ErrorCode = "HIRE_FAILED"
	ErrCodeNotHired               ErrorCode = "NOT_HIRED"
	ErrCodeProfileBootstrapFailed ErrorCode = "PROFILE_BOOTSTRAP_FAILED"
	ErrCodeReviewFailed           ErrorCode = "REVIEW_FAILED"
	ErrCodeOperationFailed        ErrorCode = "OPERATION_FAILED"

	// Transport / remote API.
	ErrCodeAPIError      ErrorCode = "API_ERROR"
	ErrCodeAPITimeout    ErrorCode = "API_TIMEOUT"
	ErrCodeCatalogFailed ErrorCode = "CATALOG_LOAD_FAILED"

	// Workflow engine (Zeebe gateway) calls made by the worker host.
	ErrCodeEngine ErrorCode = "ENGINE_ERROR"

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

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches any StandardError carrying the same code, so callers can write
// errors.Is(err, ErrHire).
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMetadata attaches a metadata entry and returns the receiver.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// Sentinels for errors.Is.
var (
	ErrValidation       = &StandardError{Code: ErrCodeValidationFailed}
	ErrForbidden        = &StandardError{Code: ErrCodeForbidden}
	ErrSubmission       = &StandardError{Code: ErrCodeSubmissionFailed}
	ErrHire             = &StandardError{Code: ErrCodeHireFailed}
	ErrNotHired         = &StandardError{Code: ErrCodeNotHired}
	ErrProfileBootstrap = &StandardError{Code: ErrCodeProfileBootstrapFailed}
	ErrReview           = &StandardError{Code: ErrCodeReviewFailed}
	ErrOperation        = &StandardError{Code: ErrCodeOperationFailed}
	ErrAPI              = &StandardError{Code: ErrCodeAPIError}
)

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

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func causeDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// NewValidationError reports a failed client-side input check.
func NewValidationError(message, details string) *StandardError {
	return newError(ErrCodeValidationFailed, message, details, false, nil)
}

// NewForbiddenError reports an action attempted by the wrong actor.
func NewForbiddenError(message string) *StandardError {
	return newError(ErrCodeForbidden, message, "", false, nil)
}

// NewSubmissionError wraps a failed application create call. The message is
// the user-facing text already extracted from the API error.
func NewSubmissionError(message string, err error) *StandardError {
	return newError(ErrCodeSubmissionFailed, message, causeDetails(err), false, err)
}

// NewHireError reports a hire that was refused or whose primary steps failed.
func NewHireError(message string, err error) *StandardError {
	return newError(ErrCodeHireFailed, message, causeDetails(err), false, err)
}

// NewNotHiredError reports an operation that needs an accepted application.
func NewNotHiredError(jobID int64) *StandardError {
	return newError(ErrCodeNotHired, "Este trabajo aún no tiene un trabajador contratado",
		fmt.Sprintf("expressJobId: %d", jobID), false, nil)
}

// NewProfileBootstrapError reports a failed worker-profile creation.
func NewProfileBootstrapError(message string, err error) *StandardError {
	return newError(ErrCodeProfileBootstrapFailed, message, causeDetails(err), false, err)
}

// NewReviewError reports a failed review create call.
func NewReviewError(message string, err error) *StandardError {
	return newError(ErrCodeReviewFailed, message, causeDetails(err), false, err)
}

// NewOperationError is the generic primary-step failure (delete, edit, load).
func NewOperationError(operation, message string, err error) *StandardError {
	return newError(ErrCodeOperationFailed, message, causeDetails(err), false, err).
		WithMetadata("operation", operation)
}

// NewAPIError wraps a transport-level failure talking to the Outy API.
func NewAPIError(endpoint string, err error) *StandardError {
	return newError(ErrCodeAPIError, fmt.Sprintf("Outy API request to '%s' failed", endpoint),
		causeDetails(err), true, err)
}

// NewAPITimeoutError wraps a request that exceeded its deadline.
func NewAPITimeoutError(endpoint string, err error) *StandardError {
	return newError(ErrCodeAPITimeout, fmt.Sprintf("Outy API request to '%s' timed out", endpoint),
		causeDetails(err), true, err)
}

// NewCatalogLoadError reports a location catalog that could not be loaded.
func NewCatalogLoadError(err error) *StandardError {
	return newError(ErrCodeCatalogFailed, "No se pudo cargar el catálogo de ubicaciones",
		causeDetails(err), true, err)
}

// NewEngineError wraps a failed call to the Zeebe gateway.
func NewEngineError(operation string, retryable bool, err error) *StandardError {
	return newError(ErrCodeEngine, fmt.Sprintf("Zeebe operation '%s' failed", operation),
		causeDetails(err), retryable, err).
		WithMetadata("operation", operation)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the error codes caught by
// boundary events in the express-job process models.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeValidationFailed:       "OUTY_VALIDATION_FAILED",
	ErrCodeForbidden:              "OUTY_FORBIDDEN",
	ErrCodeSubmissionFailed:       "OUTY_SUBMISSION_FAILED",
	ErrCodeHireFailed:             "OUTY_HIRE_FAILED",
	ErrCodeNotHired:               "OUTY_NOT_HIRED",
	ErrCodeProfileBootstrapFailed: "OUTY_PROFILE_BOOTSTRAP_FAILED",
	ErrCodeReviewFailed:           "OUTY_REVIEW_FAILED",
	ErrCodeOperationFailed:        "OUTY_OPERATION_FAILED",
	ErrCodeAPIError:               "OUTY_API_ERROR",
	ErrCodeAPITimeout:             "OUTY_API_TIMEOUT",
	ErrCodeCatalogFailed:          "OUTY_CATALOG_LOAD_FAILED",
	ErrCodeEngine:                 "OUTY_ENGINE_ERROR",
}

// GetRetryCount returns the engine retry count for a code. Workflow
// operations are attempt-once, so only the read-only catalog load is
// retried by the engine.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCatalogFailed:
		return 2
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := 0
	if stdErr.Retryable && IsRetryableErrorCode(stdErr.Code) {
		retries = GetRetryCount(stdErr.Code)
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
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

// AsStandardError returns the StandardError in err's chain, or wraps err as
// an internal error.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if As(err, &stdErr) {
		return stdErr
	}
	return newError(ErrCodeInternal, "Unexpected error", causeDetails(err), false, err)
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "FORBIDDEN"):
		return "VALIDATION"
	case strings.Contains(codeStr, "API") || strings.Contains(codeStr, "ENGINE"):
		return "TRANSPORT"
	case strings.Contains(codeStr, "CATALOG"):
		return "REFERENCE_DATA"
	case strings.Contains(codeStr, "HIRE") || strings.Contains(codeStr, "SUBMISSION") ||
		strings.Contains(codeStr, "REVIEW") || strings.Contains(codeStr, "NOT_HIRED"):
		return "WORKFLOW"
	case strings.Contains(codeStr, "PROFILE"):
		return "PROFILE"
	default:
		return "OTHER"
	}
}
