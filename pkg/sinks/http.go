package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samvad-hq/catalog-sdk/pkg/httpclient"
)

const webhookSnippetLimit = 512

// webhookSink posts each event as JSON to a configured endpoint.
type webhookSink struct {
	id     string
	method string
	target string
	client *resty.Client
}

func newHTTPSink(_ context.Context, cfg SinkConfig, _ Deps) (Sink, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("sink %q missing http configuration", cfg.ID)
	}

	client := httpclient.NewBaseClient(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second)
	client.SetHeader("Content-Type", "application/json")
	// Configured headers go on the client so per-event headers below always win.
	for k, v := range cfg.HTTP.Headers {
		client.SetHeader(k, v)
	}

	return &webhookSink{
		id:     cfg.ID,
		method: strings.ToUpper(cfg.HTTP.Method),
		target: cfg.HTTP.URL,
		client: client,
	}, nil
}

func (w *webhookSink) ID() string   { return w.id }
func (w *webhookSink) Type() string { return TypeHTTP }

func (w *webhookSink) Publish(ctx context.Context, evt httpclient.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("X-Catalog-Event", string(evt.Kind)).
		SetHeader("X-Request-Id", evt.RequestID).
		SetBody(payload).
		Execute(w.method, w.target)
	if err != nil {
		return fmt.Errorf("deliver to %s: %w", w.target, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("webhook answered %d: %s", resp.StatusCode(), snippet(resp.Body()))
	}
	return nil
}

func snippet(body []byte) string {
	if len(body) > webhookSnippetLimit {
		body = body[:webhookSnippetLimit]
	}
	return strings.TrimSpace(string(body))
}
