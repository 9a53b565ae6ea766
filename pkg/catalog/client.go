// Package catalog is a client for the product catalog REST API.
//
// Errors come in two tiers. Input problems (missing API key, missing required
// fields, empty identifiers) are returned as *ValidationError before anything
// is sent. Everything that happens on the wire (non-2xx responses, timeouts,
// connection failures, request setup failures) is reported through the
// returned *httpclient.Result with Success == false; callers branch on
// Result.Success rather than on the error.
package catalog

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/samvad-hq/catalog-sdk/pkg/httpclient"
)

// DefaultBaseURL is used when Config.BaseURL is empty.
const DefaultBaseURL = "https://api.catalog.samvad.dev/v1"

// HeaderAPIKey carries the credential on every request.
const HeaderAPIKey = "X-Api-Key"

// Config holds the immutable settings of a Client.
type Config struct {
	APIKey  string
	BaseURL string
}

// Executor is the subset of *httpclient.Executor the client relies on.
type Executor interface {
	Execute(ctx context.Context, spec httpclient.RequestSpec) (*httpclient.Result, error)
}

// Client calls the catalog API. It is safe for concurrent use.
type Client struct {
	apiKey  string
	baseURL string
	exec    Executor
}

type clientOptions struct {
	observer httpclient.Observer
	exec     Executor
}

// Option customizes a Client.
type Option func(*clientOptions)

// WithObserver receives request/response/error events for every call. The API
// key is masked before events reach the observer.
func WithObserver(o httpclient.Observer) Option {
	return func(c *clientOptions) { c.observer = o }
}

// WithExecutor replaces the HTTP executor, mainly for tests.
func WithExecutor(e Executor) Option {
	return func(c *clientOptions) { c.exec = e }
}

// New validates cfg and builds a Client. An empty API key is fatal.
func New(cfg Config, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, invalid("new client", errors.New("api key is required"))
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if u, err := url.Parse(baseURL); err != nil || !u.IsAbs() || u.Host == "" {
		return nil, invalid("new client", errors.New("base url must be absolute"))
	}

	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}
	exec := o.exec
	if exec == nil {
		exec = httpclient.NewExecutor(
			httpclient.WithObserver(o.observer),
			httpclient.WithSecrets(apiKey),
		)
	}

	return &Client{apiKey: apiKey, baseURL: baseURL, exec: exec}, nil
}

// BaseURL returns the endpoint root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) headers() map[string]string {
	return map[string]string{
		HeaderAPIKey:   c.apiKey,
		"Content-Type": "application/json",
	}
}

func (c *Client) do(ctx context.Context, method httpclient.Method, path string, body any, query map[string]string) (*httpclient.Result, error) {
	return c.exec.Execute(ctx, httpclient.RequestSpec{
		Method:  method,
		URL:     c.baseURL + path,
		Headers: c.headers(),
		Body:    body,
		Query:   query,
	})
}
