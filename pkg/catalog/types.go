package catalog

import (
	"bytes"
	"encoding/json"
)

// RecordID is an internal database identifier. The API emits it either as a
// string or as a number; both decode to the same textual form.
type RecordID string

// UnmarshalJSON accepts JSON strings and numbers.
func (id *RecordID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = RecordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = RecordID(n.String())
	return nil
}

// UploadImageInput carries either a remote image URL or an inline data URL.
// At least one must be set.
type UploadImageInput struct {
	ImageURL    string `json:"imageUrl,omitempty"`
	ImageBase64 string `json:"imageBase64,omitempty"`
}

// UploadImageResponse is the success body of POST /upload-image.
type UploadImageResponse struct {
	ImagePath string `json:"imagePath"`
}

// ProductInput is the add/update payload for POST /products. The server
// deduplicates on SourceProductID; leaving Image empty keeps the stored image.
type ProductInput struct {
	CategoryName    string            `json:"categoryName"`
	SubcategoryName string            `json:"subcategoryName"`
	SourceProductID string            `json:"sourceProductId"`
	Name            string            `json:"name"`
	Description     string            `json:"description,omitempty"`
	Brand           string            `json:"brand,omitempty"`
	Image           string            `json:"image,omitempty"`
	ProductType     string            `json:"productType,omitempty"`
	Attributes      map[string]string `json:"attributes,omitempty"`
	Subproducts     []Subproduct      `json:"subproducts"`
}

// Subproduct is a priced, stocked variant of a product. Price and Stock are
// pointers so that an explicit zero is distinguishable from a missing value.
type Subproduct struct {
	SourceProductID string            `json:"sourceProductId"`
	SourceName      string            `json:"sourceName"`
	Price           *float64          `json:"price"`
	Stock           *int              `json:"stock"`
	Name            string            `json:"name,omitempty"`
	Barcode         string            `json:"barcode,omitempty"`
	Attributes      map[string]string `json:"attributes,omitempty"`
}

// ListProductsQuery filters GET /products. Zero values fall back to the
// defaults: ProductType "auto", IsActive true, Limit 50, Offset 0.
type ListProductsQuery struct {
	ProductType string `json:"productType,omitempty"`
	IsActive    *bool  `json:"isActive,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Offset      int    `json:"offset,omitempty"`
}

// Product is a catalog entry as returned by GET /products.
type Product struct {
	FriendlyID      int64        `json:"friendlyId"`
	ID              RecordID     `json:"id,omitempty"`
	SourceProductID string       `json:"sourceProductId"`
	Name            string       `json:"name"`
	CategoryName    string       `json:"categoryName,omitempty"`
	SubcategoryName string       `json:"subcategoryName,omitempty"`
	ProductType     string       `json:"productType,omitempty"`
	IsActive        bool         `json:"isActive"`
	Image           string       `json:"image,omitempty"`
	Subproducts     []Subproduct `json:"subproducts,omitempty"`
}

// ProductsPage is the success body of GET /products.
type ProductsPage struct {
	Products []Product `json:"products"`
	Count    int       `json:"count"`
	Total    int       `json:"total"`
}

// DeleteProductResponse is the success body of DELETE /products/{friendlyId}.
type DeleteProductResponse struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message"`
	FriendlyID int64    `json:"friendlyId"`
	ProductID  RecordID `json:"productId"`
}

// Float returns a pointer to v, for Subproduct.Price.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for Subproduct.Stock.
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for ListProductsQuery.IsActive.
func Bool(v bool) *bool { return &v }
