package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// maxPageRedirects bounds redirect chains when fetching web pages.
const maxPageRedirects = 5

// PageClient fetches arbitrary web pages (product pages, image hosts) over GET.
// It is separate from the Executor: no normalization, no events.
type PageClient struct {
	client *resty.Client
}

// PageOption customizes a PageClient.
type PageOption func(*resty.Client)

// WithUserAgent sets the User-Agent sent on every fetch.
func WithUserAgent(ua string) PageOption {
	return func(c *resty.Client) {
		if ua != "" {
			c.SetHeader("User-Agent", ua)
		}
	}
}

// NewPageClient builds a PageClient with the given timeout.
func NewPageClient(timeout time.Duration, opts ...PageOption) *PageClient {
	c := NewBaseClient(timeout)
	c.SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxPageRedirects))
	for _, opt := range opts {
		opt(c)
	}
	return &PageClient{client: c}
}

// NewBaseClient returns a resty.Client with the given timeout and retries disabled.
// The Executor and the webhook sink both start from it.
func NewBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	c.SetRetryCount(0)
	return c
}

// Get fetches url. Per-call headers override the client defaults.
func (p *PageClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := p.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return pageResponse{resp: resp}, nil
}

type pageResponse struct {
	resp *resty.Response
}

func (r pageResponse) Body() []byte        { return r.resp.Body() }
func (r pageResponse) StatusCode() int     { return r.resp.StatusCode() }
func (r pageResponse) ContentType() string { return r.resp.Header().Get("Content-Type") }
