package httpclient

import "testing"

func TestMaskSecret(t *testing.T) {
	cases := map[string]string{
		"sk_live_1234567890abcdef": "sk_live_...cdef",
		"abcdefghijklm":            "abcdefgh...jklm",
		"short":                    "***",
		"abcdefghijkl":             "***",
		"":                         "",
	}
	for in, want := range cases {
		if got := MaskSecret(in); got != want {
			t.Fatalf("MaskSecret(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMaskHeadersOnlyTouchesSensitiveKeys(t *testing.T) {
	in := map[string]string{
		"x-api-key":     "sk_live_1234567890abcdef",
		"Authorization": "Bearer abcdefghijklmnop",
		"Content-Type":  "application/json",
	}
	out := MaskHeaders(in)
	if out["x-api-key"] != "sk_live_...cdef" {
		t.Fatalf("x-api-key = %q", out["x-api-key"])
	}
	if out["Authorization"] != "Bearer a...mnop" {
		t.Fatalf("authorization = %q", out["Authorization"])
	}
	if out["Content-Type"] != "application/json" {
		t.Fatalf("content type changed: %q", out["Content-Type"])
	}
	if in["x-api-key"] != "sk_live_1234567890abcdef" {
		t.Fatalf("input map was mutated")
	}
}
