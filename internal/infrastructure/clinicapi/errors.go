package clinicapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// APIError is a non-2xx answer from the clinic API. Message is the server's
// "message" field when the body is a JSON object carrying one, empty otherwise.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("clinic api %s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("clinic api %s: status %d", e.Endpoint, e.StatusCode)
}

func newAPIError(endpoint string, status int, body []byte) *APIError {
	apiErr := &APIError{
		Endpoint:   endpoint,
		StatusCode: status,
		Body:       string(body),
	}

	var envelope struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Message) == 0 {
		return apiErr
	}
	var message string
	if err := json.Unmarshal(envelope.Message, &message); err == nil {
		apiErr.Message = strings.TrimSpace(message)
	}
	return apiErr
}

// TransportError wraps a failure to reach the clinic API or read its answer.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("clinic api %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerMessage extracts the server-provided message from err, if any.
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}

// StatusCode returns the upstream status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
