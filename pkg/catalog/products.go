package catalog

import (
	"context"
	"strconv"
	"strings"

	"github.com/samvad-hq/catalog-sdk/pkg/httpclient"
)

// List defaults.
const (
	DefaultProductType = "auto"
	DefaultLimit       = 50
)

// AddProduct creates the product or, when SourceProductID is already known to
// the server, updates it.
func (c *Client) AddProduct(ctx context.Context, in ProductInput) (*httpclient.Result, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid("add product", err)
	}
	return c.do(ctx, httpclient.MethodPost, "/products", in, nil)
}

// GetProducts lists products. On success the body decodes into ProductsPage.
func (c *Client) GetProducts(ctx context.Context, q ListProductsQuery) (*httpclient.Result, error) {
	if err := q.Validate(); err != nil {
		return nil, invalid("get products", err)
	}
	return c.do(ctx, httpclient.MethodGet, "/products", nil, q.params())
}

// DeleteProduct removes the product with the given friendly id. On success the
// body decodes into DeleteProductResponse.
func (c *Client) DeleteProduct(ctx context.Context, friendlyID int64) (*httpclient.Result, error) {
	if err := validateFriendlyID(friendlyID); err != nil {
		return nil, invalid("delete product", err)
	}
	return c.do(ctx, httpclient.MethodDelete, "/products/"+strconv.FormatInt(friendlyID, 10), nil, nil)
}

// params applies defaults and renders the query with isActive as "true"/"false".
func (q ListProductsQuery) params() map[string]string {
	productType := strings.TrimSpace(q.ProductType)
	if productType == "" {
		productType = DefaultProductType
	}
	active := true
	if q.IsActive != nil {
		active = *q.IsActive
	}
	limit := q.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	return map[string]string{
		"productType": productType,
		"isActive":    strconv.FormatBool(active),
		"limit":       strconv.Itoa(limit),
		"offset":      strconv.Itoa(q.Offset),
	}
}
