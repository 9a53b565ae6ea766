package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPageClientSendsUserAgentAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "catalogctl-test" {
			t.Errorf("user agent = %q", got)
		}
		if got := r.Header.Get("Accept"); got != "text/html" {
			t.Errorf("accept = %q", got)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	c := NewPageClient(time.Second, WithUserAgent("catalogctl-test"))
	resp, err := c.Get(context.Background(), srv.URL, map[string]string{"Accept": "text/html"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode() != http.StatusTeapot || string(resp.Body()) != "<html></html>" {
		t.Fatalf("unexpected response %d %q", resp.StatusCode(), resp.Body())
	}
	if resp.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("content type = %q", resp.ContentType())
	}
}

func TestPageClientStopsLongRedirectChains(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer srv.Close()

	if _, err := NewPageClient(time.Second).Get(context.Background(), srv.URL+"/", nil); err == nil {
		t.Fatal("expected redirect limit error")
	}
}
