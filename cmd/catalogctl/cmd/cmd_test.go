package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samvad-hq/catalog-sdk/pkg/catalog"
	"github.com/samvad-hq/catalog-sdk/pkg/httpclient"
)

func TestPrintResultFailsOnUnsuccessfulCall(t *testing.T) {
	status := 404
	res := &httpclient.Result{
		Success:     false,
		StatusCode:  &status,
		Kind:        httpclient.KindServer,
		ErrorDetail: map[string]any{"message": "Product not found"},
		Message:     "Product not found",
	}

	var buf bytes.Buffer
	err := printResult(&buf, res)
	if !errors.Is(err, errCallFailed) {
		t.Fatalf("expected errCallFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("expected status in error, got %q", err.Error())
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if decoded["success"] != false || decoded["kind"] != "server_error" {
		t.Fatalf("unexpected output: %v", decoded)
	}
}

func TestPrintResultPassesOnSuccess(t *testing.T) {
	status := 200
	res := &httpclient.Result{Success: true, StatusCode: &status, Body: json.RawMessage(`{"imagePath":"/img/1.png"}`)}

	var buf bytes.Buffer
	if err := printResult(&buf, res); err != nil {
		t.Fatalf("printResult: %v", err)
	}
	if !strings.Contains(buf.String(), "/img/1.png") {
		t.Fatalf("expected body in output, got %s", buf.String())
	}
}

func TestPrintProductsTable(t *testing.T) {
	page := &catalog.ProductsPage{
		Products: []catalog.Product{
			{FriendlyID: 7, SourceProductID: "sku-7", Name: "Trail Runner", ProductType: "simple", IsActive: true,
				Subproducts: []catalog.Subproduct{{SourceProductID: "sku-7-42"}}},
		},
		Count: 1,
		Total: 12,
	}

	var buf bytes.Buffer
	if err := printProductsTable(&buf, page); err != nil {
		t.Fatalf("printProductsTable: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Showing 1 of 12 products", "FRIENDLY ID", "sku-7", "Trail Runner"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestReadProduct(t *testing.T) {
	path := filepath.Join(t.TempDir(), "product.json")
	body := `{"categoryName":"Shoes","subcategoryName":"Running","sourceProductId":"sku-1","name":"Runner",
"subproducts":[{"sourceProductId":"sku-1-40","sourceName":"shop","price":0,"stock":3}]}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	in, err := readProduct(path)
	if err != nil {
		t.Fatalf("readProduct: %v", err)
	}
	if len(in.Subproducts) != 1 || in.Subproducts[0].Price == nil || *in.Subproducts[0].Price != 0 {
		t.Fatalf("unexpected subproducts: %+v", in.Subproducts)
	}

	if _, err := readProduct(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := truncate("a much longer product name", 10); got != "a much ..." {
		t.Fatalf("got %q", got)
	}
}
