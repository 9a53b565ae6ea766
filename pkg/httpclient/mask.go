package httpclient

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
)

const (
	maskPrefixLen = 8
	maskSuffixLen = 4
	maskShort     = "***"
)

var sensitiveHeaders = map[string]struct{}{
	"X-Api-Key":     {},
	"Authorization": {},
}

// MaskSecret keeps the first 8 and last 4 characters of s. Values too short to
// keep anything hidden collapse to "***".
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= maskPrefixLen+maskSuffixLen {
		return maskShort
	}
	return s[:maskPrefixLen] + "..." + s[len(s)-maskSuffixLen:]
}

// MaskHeaders returns a copy of headers with sensitive values masked.
func MaskHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		if _, ok := sensitiveHeaders[http.CanonicalHeaderKey(k)]; ok {
			out[k] = MaskSecret(v)
			continue
		}
		out[k] = v
	}
	return out
}

// redactor replaces raw secrets with their masked form in every event field.
type redactor struct {
	secrets []string
}

func newRedactor(secrets []string) redactor {
	r := redactor{}
	for _, s := range secrets {
		if strings.TrimSpace(s) != "" {
			r.secrets = append(r.secrets, s)
		}
	}
	return r
}

func (r redactor) text(s string) string {
	for _, secret := range r.secrets {
		s = strings.ReplaceAll(s, secret, MaskSecret(secret))
	}
	return s
}

func (r redactor) raw(b json.RawMessage) json.RawMessage {
	if len(b) == 0 || len(r.secrets) == 0 {
		return b
	}
	out := []byte(b)
	for _, secret := range r.secrets {
		if bytes.Contains(out, []byte(secret)) {
			out = bytes.ReplaceAll(out, []byte(secret), []byte(MaskSecret(secret)))
		}
	}
	return json.RawMessage(out)
}

func (r redactor) event(evt Event) Event {
	if len(r.secrets) == 0 {
		return evt
	}
	evt.URL = r.text(evt.URL)
	evt.Message = r.text(evt.Message)
	evt.Body = r.raw(evt.Body)
	if len(evt.Headers) > 0 {
		headers := make(map[string]string, len(evt.Headers))
		for k, v := range evt.Headers {
			headers[k] = r.text(v)
		}
		evt.Headers = headers
	}
	switch d := evt.Detail.(type) {
	case string:
		evt.Detail = r.text(d)
	case json.RawMessage:
		evt.Detail = r.raw(d)
	}
	return evt
}
