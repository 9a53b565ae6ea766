// Package pageimage finds the primary product image on an HTML page so it can
// be uploaded by URL.
package pageimage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/catalog-sdk/pkg/httpclient"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
	defaultTimeout   = 15 * time.Second
	userAgent        = "catalogctl/1.0 (+image-resolver)"
)

// ErrNoImage is returned when the page carries no usable image reference.
var ErrNoImage = errors.New("no image found on page")

// Resolver fetches product pages and extracts their image URL.
type Resolver struct {
	client httpclient.Client
}

// NewResolver constructs a resolver with the provided HTTP client (or a default).
func NewResolver(client httpclient.Client) *Resolver {
	if client == nil {
		client = httpclient.NewPageClient(defaultTimeout, httpclient.WithUserAgent(userAgent))
	}
	return &Resolver{client: client}
}

// Resolve returns the absolute URL of the page's main image.
func (r *Resolver) Resolve(ctx context.Context, pageURL string) (string, error) {
	base, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil || !base.IsAbs() {
		return "", fmt.Errorf("page url %q must be absolute", pageURL)
	}

	resp, err := r.client.Get(ctx, base.String(), map[string]string{
		"Accept": "text/html,application/xhtml+xml",
	})
	if err != nil {
		return "", fmt.Errorf("http fetch: %w", err)
	}
	if resp.StatusCode() != 200 {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		return "", fmt.Errorf("status %d body: %s", resp.StatusCode(), snippet)
	}

	if ct := resp.ContentType(); ct != "" && !strings.Contains(strings.ToLower(ct), "html") {
		return "", fmt.Errorf("page is %s, not html", ct)
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	ref, err := extractImage(body)
	if err != nil {
		return "", err
	}
	return resolveURL(ref, base), nil
}

// extractImage prefers social metadata over inline markup.
func extractImage(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	attr := func(sel, name string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr(name); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	ref := firstNonEmpty(
		attr(`meta[property="og:image:secure_url"]`, "content"),
		attr(`meta[property="og:image"]`, "content"),
		attr(`meta[name="twitter:image"]`, "content"),
		attr(`link[rel="image_src"]`, "href"),
		attr(`img[src]`, "src"),
	)
	if ref == "" || strings.HasPrefix(ref, "data:") {
		return "", ErrNoImage
	}
	return ref, nil
}

func resolveURL(ref string, base *url.URL) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
