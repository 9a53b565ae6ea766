package httpclient

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

// DefaultTimeout bounds every request issued by an Executor.
const DefaultTimeout = 30 * time.Second

// Method is an HTTP verb accepted by the Executor.
type Method string

// Supported verbs.
const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodPatch  Method = "PATCH"
	MethodDelete Method = "DELETE"
)

// Valid reports whether m is one of the supported verbs.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete:
		return true
	default:
		return false
	}
}

// RequestSpec describes a single outbound call. Build one per call; the executor
// never mutates it.
type RequestSpec struct {
	Method  Method
	URL     string
	Headers map[string]string
	Body    any
	Query   map[string]string
}

// SpecError reports a RequestSpec that cannot be executed at all. It is returned
// before any attempt is made and indicates a programming error in the caller.
type SpecError struct {
	Field  string
	Reason string
}

func (e *SpecError) Error() string {
	return fmt.Sprintf("invalid request spec: %s %s", e.Field, e.Reason)
}

func (s RequestSpec) validate() error {
	if !s.Method.Valid() {
		return &SpecError{Field: "method", Reason: fmt.Sprintf("%q is not supported", string(s.Method))}
	}
	if strings.TrimSpace(s.URL) == "" {
		return &SpecError{Field: "url", Reason: "is empty"}
	}
	u, err := url.Parse(s.URL)
	if err != nil {
		return &SpecError{Field: "url", Reason: err.Error()}
	}
	if !u.IsAbs() || u.Host == "" {
		return &SpecError{Field: "url", Reason: fmt.Sprintf("%q is not absolute", s.URL)}
	}
	return nil
}

// ResolvedURL returns the URL that will be dispatched, with the query string
// appended only when Query is non-empty. Keys are encoded in sorted order.
func (s RequestSpec) ResolvedURL() string {
	if len(s.Query) == 0 {
		return s.URL
	}

	keys := make([]string, 0, len(s.Query))
	for k := range s.Query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := url.Values{}
	for _, k := range keys {
		values.Set(k, s.Query[k])
	}

	sep := "?"
	if strings.Contains(s.URL, "?") {
		sep = "&"
	}
	return s.URL + sep + values.Encode()
}
