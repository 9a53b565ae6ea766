package httpclient

import (
	"context"
	"encoding/json"
	"time"
)

// EventKind names the three observable stages of a call.
type EventKind string

const (
	EventRequest  EventKind = "request"
	EventResponse EventKind = "response"
	EventError    EventKind = "error"
)

// Event is the structured record handed to observers. Request events carry
// Method/URL/Headers/Body; response events carry StatusCode/SizeBytes/Body;
// error events carry ErrorKind/Message/Detail.
type Event struct {
	Kind       EventKind         `json:"kind"`
	RequestID  string            `json:"requestId"`
	Timestamp  time.Time         `json:"timestamp"`
	Method     string            `json:"method,omitempty"`
	URL        string            `json:"url,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       json.RawMessage   `json:"body,omitempty"`
	DurationMs int64             `json:"durationMs"`
	StatusCode *int              `json:"statusCode,omitempty"`
	SizeBytes  int               `json:"sizeBytes,omitempty"`
	ErrorKind  ErrorKind         `json:"errorKind,omitempty"`
	Message    string            `json:"message,omitempty"`
	Detail     any               `json:"detail,omitempty"`
}

type noopObserver struct{}

func (noopObserver) Observe(context.Context, Event) {}

// emit hands evt to the observer. A panicking observer is contained so it can
// never change the call outcome.
func (e *Executor) emit(ctx context.Context, evt Event) {
	defer func() {
		_ = recover()
	}()
	e.observer.Observe(ctx, e.redact.event(evt))
}
