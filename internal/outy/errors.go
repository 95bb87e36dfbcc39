package outy

import (
	"encoding/json"
	"fmt"
	"strings"

	"outy-workers/internal/common/errors"
)

// APIError is a non-2xx response from the Outy API. Data carries the
// server's "data" (or "errors") member verbatim: either an array of
// {message} objects or a structured object.
type APIError struct {
	Status   int
	Message  string
	Data     json.RawMessage
	Endpoint string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("outy api %s: status %d: %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("outy api %s: status %d", e.Endpoint, e.Status)
}

// NotFound reports whether the response was a 404.
func (e *APIError) NotFound() bool { return e.Status == 404 }

func decodeAPIError(endpoint string, status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Endpoint: endpoint}

	var envelope struct {
		Message string          `json:"message"`
		Error   string          `json:"error"`
		Data    json.RawMessage `json:"data"`
		Errors  json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}

	apiErr.Message = envelope.Message
	if apiErr.Message == "" {
		apiErr.Message = envelope.Error
	}
	switch {
	case len(envelope.Data) > 0 && string(envelope.Data) != "null":
		apiErr.Data = envelope.Data
	case len(envelope.Errors) > 0 && string(envelope.Errors) != "null":
		apiErr.Data = envelope.Errors
	}
	return apiErr
}

// ErrorMessage extracts a user-facing message from err, trying in order
// data[0].message, data.error, data.message and the top-level message.
// Only *APIError responses are mined: transport failures (timeouts, DNS,
// refused connections) and any other error never surface their own text
// and always yield fallback.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return fallback
	}

	if msg := messageFromData(apiErr.Data); msg != "" {
		return msg
	}
	if strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return fallback
}

func messageFromData(data json.RawMessage) string {
	if len(data) == 0 {
		return ""
	}

	var list []struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &list); err == nil {
		if len(list) > 0 {
			return strings.TrimSpace(list[0].Message)
		}
		return ""
	}

	var obj struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		if s := strings.TrimSpace(obj.Error); s != "" {
			return s
		}
		return strings.TrimSpace(obj.Message)
	}
	return ""
}
