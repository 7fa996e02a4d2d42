package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yashpandey06/E-Commerce-Application/internal/domain"
)

// ListProductsQuery holds the catalog paging and filter parameters.
type ListProductsQuery struct {
	Skip     int
	Limit    int
	Category string
	Search   string
}

// ListProducts fetches one page of the product catalog.
func (c *Client) ListProducts(ctx context.Context, q ListProductsQuery) (*domain.ProductPage, error) {
	params := url.Values{}
	params.Set("skip", strconv.Itoa(q.Skip))
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}

	var page domain.ProductPage
	if err := c.call(ctx, "catalog.list", http.MethodGet, "/products?"+params.Encode(), nil, &page, false); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetProduct fetches a single product by ID.
func (c *Client) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	var product domain.Product
	if err := c.call(ctx, "catalog.get", http.MethodGet, fmt.Sprintf("/products/%d", productID), nil, &product, false); err != nil {
		return nil, err
	}
	return &product, nil
}
