package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardError_IsMatchesByCode(t *testing.T) {
	err := NewHireError("Este trabajo ya tiene una contratación", nil)
	wrapped := fmt.Errorf("hire job 7: %w", err)

	assert.True(t, Is(wrapped, ErrHire))
	assert.False(t, Is(wrapped, ErrValidation))
}

func TestStandardError_UnwrapsCause(t *testing.T) {
	cause := New("connection reset")
	err := NewSubmissionError("No se pudo enviar la solicitud", cause)

	assert.True(t, Is(err, cause))
	assert.Equal(t, "connection reset", err.Details)
}

func TestAsStandardError(t *testing.T) {
	stdErr := AsStandardError(fmt.Errorf("wrapped: %w", NewNotHiredError(3)))
	assert.Equal(t, ErrCodeNotHired, stdErr.Code)

	plain := AsStandardError(New("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
}

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantCode    string
		wantRetries int
	}{
		{
			name:        "hire failure is never retried",
			err:         NewHireError("fallo", New("500")),
			wantCode:    "OUTY_HIRE_FAILED",
			wantRetries: 0,
		},
		{
			name:        "catalog load is retried by the engine",
			err:         NewCatalogLoadError(New("timeout")),
			wantCode:    "OUTY_CATALOG_LOAD_FAILED",
			wantRetries: 2,
		},
		{
			name:        "retryable api timeout is still attempt-once",
			err:         NewAPITimeoutError("/express-jobs/1", New("deadline")),
			wantCode:    "OUTY_API_TIMEOUT",
			wantRetries: 0,
		},
		{
			name:        "catalog code without the retryable flag",
			err:         &StandardError{Code: ErrCodeCatalogFailed, Message: "x"},
			wantCode:    "OUTY_CATALOG_LOAD_FAILED",
			wantRetries: 0,
		},
		{
			name:        "unknown code falls back to itself",
			err:         &StandardError{Code: "SOMETHING_ELSE", Message: "x"},
			wantCode:    "SOMETHING_ELSE",
			wantRetries: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmnErr := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.wantCode, bpmnErr.Code)
			assert.Equal(t, tt.wantRetries, bpmnErr.Retries)
			assert.Equal(t, string(tt.err.Code), bpmnErr.ErrorVariables["originalErrorCode"])
		})
	}
}

func TestBPMNError_ToErrorVariables_IncludesMetadata(t *testing.T) {
	stdErr := NewOperationError("delete", "No se pudo eliminar", New("404"))
	vars := ConvertToBPMNError(stdErr).ToErrorVariables()

	require.Contains(t, vars, "operation")
	assert.Equal(t, "delete", vars["operation"])
	assert.Equal(t, "OUTY_OPERATION_FAILED", vars["errorCode"])
	assert.Equal(t, false, vars["retryable"])
}

func TestIsRetryableErrorCode(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodeCatalogFailed))
	for _, code := range []ErrorCode{ErrCodeHireFailed, ErrCodeSubmissionFailed, ErrCodeAPITimeout, ErrCodeValidationFailed} {
		assert.False(t, IsRetryableErrorCode(code), code)
	}
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeValidationFailed))
	assert.Equal(t, "WORKFLOW", GetErrorCategory(ErrCodeHireFailed))
	assert.Equal(t, "WORKFLOW", GetErrorCategory(ErrCodeNotHired))
	assert.Equal(t, "TRANSPORT", GetErrorCategory(ErrCodeAPITimeout))
	assert.Equal(t, "PROFILE", GetErrorCategory(ErrCodeProfileBootstrapFailed))
	assert.Equal(t, "REFERENCE_DATA", GetErrorCategory(ErrCodeCatalogFailed))
}
