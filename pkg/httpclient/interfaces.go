package httpclient

import "context"

// Response is what a page fetch hands back.
type Response interface {
	Body() []byte
	StatusCode() int
	ContentType() string
}

// Client abstracts plain GET calls so callers can inject fakes or other transports.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

// Observer receives the request, response and error events emitted by an Executor.
// The request event is delivered while the request is in flight and is never
// timed; the response or error event is delivered after the Result is final,
// before Execute returns. Events of one call arrive in order.
type Observer interface {
	Observe(ctx context.Context, evt Event)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(ctx context.Context, evt Event)

// Observe calls f(ctx, evt).
func (f ObserverFunc) Observe(ctx context.Context, evt Event) { f(ctx, evt) }
