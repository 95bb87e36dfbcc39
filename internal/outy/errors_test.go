package outy

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"outy-workers/internal/common/errors"
)

func TestErrorMessage(t *testing.T) {
	const fallback = "No se pudo enviar la solicitud"

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "array data wins",
			err:  &APIError{Status: 400, Message: "top", Data: json.RawMessage(`[{"message":"first"},{"message":"second"}]`)},
			want: "first",
		},
		{
			name: "data.error before data.message",
			err:  &APIError{Status: 400, Message: "top", Data: json.RawMessage(`{"error":"from error","message":"from message"}`)},
			want: "from error",
		},
		{
			name: "data.message",
			err:  &APIError{Status: 400, Message: "top", Data: json.RawMessage(`{"message":"from message"}`)},
			want: "from message",
		},
		{
			name: "top-level message",
			err:  &APIError{Status: 500, Message: "top"},
			want: "top",
		},
		{
			name: "empty array falls through to message",
			err:  &APIError{Status: 400, Message: "top", Data: json.RawMessage(`[]`)},
			want: "top",
		},
		{
			name: "nothing usable",
			err:  &APIError{Status: 502},
			want: fallback,
		},
		{
			name: "wrapped api error",
			err:  errors.NewSubmissionError("x", fmt.Errorf("create: %w", &APIError{Status: 409, Message: "conflict"})),
			want: "conflict",
		},
		{
			name: "non api error",
			err:  fmt.Errorf("dial tcp: refused"),
			want: fallback,
		},
		{
			name: "nil",
			err:  nil,
			want: fallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err, fallback))
		})
	}
}

func TestDecodeAPIError(t *testing.T) {
	apiErr := decodeAPIError("reports.create", 400, []byte(`{"error":"bad reason","errors":[{"message":"reason required"}]}`))
	assert.Equal(t, "bad reason", apiErr.Message)
	assert.Equal(t, "reason required", ErrorMessage(apiErr, "x"))

	plain := decodeAPIError("reports.create", 502, []byte("Bad Gateway\n"))
	assert.Equal(t, "Bad Gateway", plain.Message)
	assert.Contains(t, plain.Error(), "status 502")
}
