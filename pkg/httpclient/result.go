package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a failed call.
type ErrorKind string

const (
	// KindServer means the server answered with a status outside 2xx.
	KindServer ErrorKind = "server_error"
	// KindNetwork means the request was dispatched but no response arrived.
	KindNetwork ErrorKind = "network_error"
	// KindSetup means the request could not be dispatched.
	KindSetup ErrorKind = "setup_error"
)

// Fixed failure texts.
const (
	DetailNoResponse      = "No response received"
	DetailSetup           = "Request setup error"
	MessageRequestFailed  = "Request failed"
	MessageNetworkDefault = "Network error or server timeout"
)

// Result is the uniform outcome of one executed request. Exactly one of Body
// (Success == true) or ErrorDetail (Success == false) is populated.
type Result struct {
	Success     bool            `json:"success"`
	StatusCode  *int            `json:"status"`
	Body        json.RawMessage `json:"data,omitempty"`
	Kind        ErrorKind       `json:"kind,omitempty"`
	ErrorDetail any             `json:"error,omitempty"`
	Message     string          `json:"message,omitempty"`
	DurationMs  int64           `json:"durationMs"`

	sizeBytes int
}

// ErrNotSuccess is returned by Decode for failure results.
var ErrNotSuccess = errors.New("result is not successful")

// Decode unmarshals the success body into v.
func (r *Result) Decode(v any) error {
	if r == nil || !r.Success {
		return ErrNotSuccess
	}
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// Status returns the HTTP status code, or 0 when no response was received.
func (r *Result) Status() int {
	if r == nil || r.StatusCode == nil {
		return 0
	}
	return *r.StatusCode
}

func successResult(status int, body []byte, durationMs int64) *Result {
	return &Result{
		Success:    true,
		StatusCode: &status,
		Body:       payloadOf(body),
		DurationMs: durationMs,
		sizeBytes:  len(body),
	}
}

func serverFailure(status int, body []byte, durationMs int64) *Result {
	detail, message := describeErrorBody(body)
	return &Result{
		Success:     false,
		StatusCode:  &status,
		Kind:        KindServer,
		ErrorDetail: detail,
		Message:     message,
		DurationMs:  durationMs,
	}
}

func networkFailure(err error, durationMs int64) *Result {
	msg := ""
	if err != nil {
		msg = strings.TrimSpace(err.Error())
	}
	if msg == "" {
		msg = MessageNetworkDefault
	}
	return &Result{
		Success:     false,
		Kind:        KindNetwork,
		ErrorDetail: DetailNoResponse,
		Message:     msg,
		DurationMs:  durationMs,
	}
}

func setupFailure(err error, durationMs int64) *Result {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &Result{
		Success:     false,
		Kind:        KindSetup,
		ErrorDetail: DetailSetup,
		Message:     msg,
		DurationMs:  durationMs,
	}
}

// payloadOf keeps valid JSON as-is and wraps any other non-empty text as a JSON string.
func payloadOf(body []byte) json.RawMessage {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil
	}
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	quoted, _ := json.Marshal(trimmed)
	return json.RawMessage(quoted)
}

// describeErrorBody picks the error detail and message for a non-2xx response.
// JSON bodies are kept raw; anything else is returned as text.
func describeErrorBody(body []byte) (any, string) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "", MessageRequestFailed
	}
	if !json.Valid([]byte(trimmed)) {
		return trimmed, MessageRequestFailed
	}

	detail := json.RawMessage(trimmed)
	var fields map[string]any
	if err := json.Unmarshal(detail, &fields); err != nil {
		return detail, MessageRequestFailed
	}
	return detail, firstString(fields, "message", "error")
}

func firstString(fields map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := fields[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return MessageRequestFailed
}
