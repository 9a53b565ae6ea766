package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/samvad-hq/catalog-sdk/pkg/httpclient"
)

const testKey = "sk_live_1234567890abcdef"

// spyExecutor counts calls and records specs without touching the network.
type spyExecutor struct {
	mu     sync.Mutex
	calls  int
	specs  []httpclient.RequestSpec
	result *httpclient.Result
}

func (s *spyExecutor) Execute(_ context.Context, spec httpclient.RequestSpec) (*httpclient.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.specs = append(s.specs, spec)
	if s.result != nil {
		return s.result, nil
	}
	return &httpclient.Result{Success: true}, nil
}

func newSpyClient(t *testing.T) (*Client, *spyExecutor) {
	t.Helper()
	spy := &spyExecutor{}
	c, err := New(Config{APIKey: testKey, BaseURL: "https://catalog.test/v1/"}, WithExecutor(spy))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, spy
}

func validProduct() ProductInput {
	return ProductInput{
		CategoryName:    "Home",
		SubcategoryName: "Lighting",
		SourceProductID: "src-1",
		Name:            "Desk lamp",
		Subproducts: []Subproduct{
			{SourceProductID: "src-1-a", SourceName: "supplier", Price: Float(19.5), Stock: Int(3)},
		},
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	for _, key := range []string{"", "   "} {
		_, err := New(Config{APIKey: key})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("New(%q) error = %v, want validation error", key, err)
		}
	}

	c, err := New(Config{APIKey: testKey})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.BaseURL() != DefaultBaseURL {
		t.Fatalf("base url = %q", c.BaseURL())
	}
}

func TestNewRejectsRelativeBaseURL(t *testing.T) {
	if _, err := New(Config{APIKey: testKey, BaseURL: "catalog/v1"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddProductRejectsEmptySubproductsWithoutCalling(t *testing.T) {
	c, spy := newSpyClient(t)

	in := validProduct()
	in.Subproducts = []Subproduct{}

	res, err := c.AddProduct(context.Background(), in)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if res != nil {
		t.Fatalf("expected nil result, got %#v", res)
	}
	if _, ok := verr.Fields()["subproducts"]; !ok {
		t.Fatalf("expected subproducts field error, got %v", verr.Fields())
	}
	if spy.calls != 0 {
		t.Fatalf("transport called %d times", spy.calls)
	}
}

func TestAddProductRequiredFields(t *testing.T) {
	c, spy := newSpyClient(t)

	cases := map[string]func(*ProductInput){
		"categoryName":    func(p *ProductInput) { p.CategoryName = "" },
		"subcategoryName": func(p *ProductInput) { p.SubcategoryName = "  " },
		"sourceProductId": func(p *ProductInput) { p.SourceProductID = "" },
		"name":            func(p *ProductInput) { p.Name = "" },
		"subproducts":     func(p *ProductInput) { p.Subproducts = nil },
		"subproducts.0.sourceProductId": func(p *ProductInput) {
			p.Subproducts[0].SourceProductID = ""
		},
		"subproducts.0.sourceName": func(p *ProductInput) { p.Subproducts[0].SourceName = "" },
		"subproducts.0.price":      func(p *ProductInput) { p.Subproducts[0].Price = nil },
		"subproducts.0.stock":      func(p *ProductInput) { p.Subproducts[0].Stock = nil },
	}

	for field, mutate := range cases {
		in := validProduct()
		mutate(&in)
		_, err := c.AddProduct(context.Background(), in)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected validation error, got %v", field, err)
		}
		if _, ok := verr.Fields()[field]; !ok {
			t.Fatalf("%s: missing from field errors %v", field, verr.Fields())
		}
	}
	if spy.calls != 0 {
		t.Fatalf("transport called %d times", spy.calls)
	}
}

func TestAddProductAcceptsZeroPriceAndStock(t *testing.T) {
	c, spy := newSpyClient(t)

	in := validProduct()
	in.Subproducts[0].Price = Float(0)
	in.Subproducts[0].Stock = Int(0)

	if _, err := c.AddProduct(context.Background(), in); err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	if spy.calls != 1 {
		t.Fatalf("expected one call, got %d", spy.calls)
	}

	spec := spy.specs[0]
	if spec.Method != httpclient.MethodPost || spec.URL != "https://catalog.test/v1/products" {
		t.Fatalf("unexpected spec %s %s", spec.Method, spec.URL)
	}
	raw, _ := json.Marshal(spec.Body)
	if !strings.Contains(string(raw), `"price":0,"stock":0`) {
		t.Fatalf("zero values not serialized: %s", raw)
	}
	if strings.Contains(string(raw), `"image"`) {
		t.Fatalf("empty image must be omitted so the stored image is kept: %s", raw)
	}
}

func TestUploadImageValidation(t *testing.T) {
	c, spy := newSpyClient(t)

	bad := []UploadImageInput{
		{},
		{ImageURL: "   "},
		{ImageURL: "not a url"},
		{ImageBase64: "iVBORw0KGgo="},
	}
	for _, in := range bad {
		if _, err := c.UploadImage(context.Background(), in); !errors.Is(err, ErrValidation) {
			t.Fatalf("UploadImage(%#v) error = %v", in, err)
		}
	}
	if spy.calls != 0 {
		t.Fatalf("transport called %d times", spy.calls)
	}

	good := []UploadImageInput{
		{ImageURL: "https://cdn.example.com/lamp.png"},
		{ImageBase64: "data:image/png;base64,iVBORw0KGgo="},
	}
	for _, in := range good {
		if _, err := c.UploadImage(context.Background(), in); err != nil {
			t.Fatalf("UploadImage(%#v): %v", in, err)
		}
	}
	if spy.calls != 2 || spy.specs[0].URL != "https://catalog.test/v1/upload-image" {
		t.Fatalf("unexpected calls %d %#v", spy.calls, spy.specs)
	}
}

func TestDeleteProductRejectsEmptyID(t *testing.T) {
	c, spy := newSpyClient(t)
	for _, id := range []int64{0, -4} {
		if _, err := c.DeleteProduct(context.Background(), id); !errors.Is(err, ErrValidation) {
			t.Fatalf("DeleteProduct(%d) error = %v", id, err)
		}
	}
	if spy.calls != 0 {
		t.Fatalf("transport called %d times", spy.calls)
	}
}

func TestGetProductsRejectsNegativePaging(t *testing.T) {
	c, spy := newSpyClient(t)
	if _, err := c.GetProducts(context.Background(), ListProductsQuery{Offset: -1}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if spy.calls != 0 {
		t.Fatalf("transport called %d times", spy.calls)
	}
}

func TestGetProductsDefaultsOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/products" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get(HeaderAPIKey); got != testKey {
			t.Errorf("api key header = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("content type = %q", got)
		}
		q := r.URL.Query()
		want := map[string]string{"productType": "auto", "isActive": "true", "limit": "50", "offset": "0"}
		for k, v := range want {
			if q.Get(k) != v {
				t.Errorf("query %s = %q, want %q", k, q.Get(k), v)
			}
		}
		if len(q) != len(want) {
			t.Errorf("unexpected query keys %v", q)
		}
		_, _ = w.Write([]byte(`{"products":[{"friendlyId":7,"id":42,"sourceProductId":"src-7","name":"Lamp","isActive":true}],"count":1,"total":9}`))
	}))
	defer srv.Close()

	c, err := New(Config{APIKey: testKey, BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := c.GetProducts(context.Background(), ListProductsQuery{})
	if err != nil {
		t.Fatalf("GetProducts: %v", err)
	}
	var page ProductsPage
	if err := res.Decode(&page); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if page.Count != 1 || page.Total != 9 || len(page.Products) != 1 {
		t.Fatalf("unexpected page %#v", page)
	}
	if p := page.Products[0]; p.FriendlyID != 7 || p.ID != "42" || p.SourceProductID != "src-7" {
		t.Fatalf("unexpected product %#v", p)
	}
}

func TestGetProductsSerializesInactiveFlag(t *testing.T) {
	c, spy := newSpyClient(t)

	_, err := c.GetProducts(context.Background(), ListProductsQuery{
		ProductType: "manual",
		IsActive:    Bool(false),
		Limit:       10,
		Offset:      20,
	})
	if err != nil {
		t.Fatalf("GetProducts: %v", err)
	}
	q := spy.specs[0].Query
	if q["isActive"] != "false" || q["productType"] != "manual" || q["limit"] != "10" || q["offset"] != "20" {
		t.Fatalf("unexpected query %v", q)
	}
}

func TestDeleteProductRoundTripsBody(t *testing.T) {
	const body = `{"success":true,"message":"Product deleted","friendlyId":1001,"productId":"65f0c0ffee"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/products/1001" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if data, _ := io.ReadAll(r.Body); len(data) != 0 {
			t.Errorf("delete should not send a body, got %s", data)
		}
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c, err := New(Config{APIKey: testKey, BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := c.DeleteProduct(context.Background(), 1001)
	if err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if !res.Success || string(res.Body) != body {
		t.Fatalf("body not returned unchanged: %#v", res)
	}

	var out DeleteProductResponse
	if err := res.Decode(&out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !out.Success || out.FriendlyID != 1001 || out.ProductID != "65f0c0ffee" {
		t.Fatalf("unexpected decoded body %#v", out)
	}
}

func TestServerFailureIsReturnedNotRaised(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"duplicate sourceProductId"}`))
	}))
	defer srv.Close()

	var events []httpclient.Event
	c, err := New(Config{APIKey: testKey, BaseURL: srv.URL}, WithObserver(httpclient.ObserverFunc(func(_ context.Context, evt httpclient.Event) {
		events = append(events, evt)
	})))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := c.AddProduct(context.Background(), validProduct())
	if err != nil {
		t.Fatalf("AddProduct returned error for a remote failure: %v", err)
	}
	if res.Success || res.Status() != http.StatusConflict || res.Message != "duplicate sourceProductId" {
		t.Fatalf("unexpected result %#v", res)
	}
	if len(events) != 2 {
		t.Fatalf("expected request and error events, got %d", len(events))
	}
	if got := events[0].Headers[HeaderAPIKey]; got != "sk_live_...cdef" {
		t.Fatalf("api key not masked in event: %q", got)
	}
}
