package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Executor issues one HTTP request per Execute call and normalizes every
// outcome into a Result. It holds no per-call state and is safe for concurrent use.
type Executor struct {
	client   *resty.Client
	observer Observer
	redact   redactor
	now      func() time.Time
}

// Option customizes an Executor.
type Option func(*Executor)

// WithObserver routes request/response/error events to o.
func WithObserver(o Observer) Option {
	return func(e *Executor) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithSecrets registers values that must never appear verbatim in emitted events.
func WithSecrets(secrets ...string) Option {
	return func(e *Executor) {
		e.redact = newRedactor(append(append([]string(nil), e.redact.secrets...), secrets...))
	}
}

// NewExecutor builds an Executor with the fixed DefaultTimeout.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		client:   NewBaseClient(DefaultTimeout),
		observer: noopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs spec and classifies the outcome. The returned error is non-nil
// only when spec fails validation, in which case nothing is sent and no event
// is emitted. Server, network and setup failures are reported through the
// Result with Success == false.
func (e *Executor) Execute(ctx context.Context, spec RequestSpec) (*Result, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	reqID := uuid.NewString()
	target := spec.ResolvedURL()
	payload, marshalErr := marshalBody(spec.Body)

	// The request event is delivered alongside the dispatch so observer latency
	// neither counts toward DurationMs nor spends the caller's deadline.
	// Delivery finishes before the resolution event, keeping events ordered.
	requestSeen := make(chan struct{})
	go func(evt Event) {
		defer close(requestSeen)
		e.emit(ctx, evt)
	}(Event{
		Kind:      EventRequest,
		RequestID: reqID,
		Timestamp: e.now().UTC(),
		Method:    string(spec.Method),
		URL:       target,
		Headers:   MaskHeaders(spec.Headers),
		Body:      payload,
	})

	start := e.now()
	var result *Result
	if marshalErr != nil {
		result = setupFailure(marshalErr, e.elapsedMs(start))
	} else {
		result = e.dispatch(ctx, spec, target, payload, start)
	}

	<-requestSeen
	e.emit(ctx, resolutionEvent(reqID, e.now().UTC(), result))
	return result, nil
}

func (e *Executor) dispatch(ctx context.Context, spec RequestSpec, target string, payload json.RawMessage, start time.Time) *Result {
	req := e.client.R().SetContext(ctx)
	if len(spec.Headers) > 0 {
		req.SetHeaders(spec.Headers)
	}
	if payload != nil {
		req.SetBody([]byte(payload))
	}

	resp, err := req.Execute(string(spec.Method), target)
	elapsed := e.elapsedMs(start)

	if resp != nil && resp.RawResponse != nil {
		status := resp.StatusCode()
		if err == nil && status >= 200 && status <= 299 {
			return successResult(status, resp.Body(), elapsed)
		}
		return serverFailure(status, resp.Body(), elapsed)
	}
	if err == nil {
		return setupFailure(errors.New("no response and no error from transport"), elapsed)
	}
	if isTransportError(err) {
		return networkFailure(err, elapsed)
	}
	return setupFailure(err, elapsed)
}

func (e *Executor) elapsedMs(start time.Time) int64 {
	ms := e.now().Sub(start).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}

func marshalBody(body any) (json.RawMessage, error) {
	if body == nil {
		return nil, nil
	}
	switch b := body.(type) {
	case json.RawMessage:
		if len(b) == 0 {
			return nil, nil
		}
		if !json.Valid(b) {
			return nil, errors.New("encode request body: raw message is not valid JSON")
		}
		return b, nil
	case []byte:
		if len(b) == 0 {
			return nil, nil
		}
		if !json.Valid(b) {
			return nil, errors.New("encode request body: bytes are not valid JSON")
		}
		return json.RawMessage(b), nil
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return raw, nil
}

// isTransportError reports whether err happened after the request was handed
// to the transport: dial/DNS/timeout failures and context expiry.
func isTransportError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Op != "parse"
	}
	return false
}

func resolutionEvent(reqID string, ts time.Time, r *Result) Event {
	if r.Success {
		return Event{
			Kind:       EventResponse,
			RequestID:  reqID,
			Timestamp:  ts,
			DurationMs: r.DurationMs,
			StatusCode: r.StatusCode,
			SizeBytes:  r.sizeBytes,
			Body:       r.Body,
		}
	}
	return Event{
		Kind:       EventError,
		RequestID:  reqID,
		Timestamp:  ts,
		DurationMs: r.DurationMs,
		StatusCode: r.StatusCode,
		ErrorKind:  r.Kind,
		Message:    r.Message,
		Detail:     r.ErrorDetail,
	}
}
