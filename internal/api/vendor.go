package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/yashpandey06/E-Commerce-Application/internal/domain"
)

// VendorProductInput holds the fields for creating or updating a catalog
// entry through the vendor dashboard. Pointers distinguish "unset" from zero
// on update.
type VendorProductInput struct {
	Name        string   `json:"name,omitempty" validate:"omitempty,min=1"`
	Description string   `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Category    string   `json:"category,omitempty"`
	ImageURL    string   `json:"image_url,omitempty" validate:"omitempty,url"`
}

// CreateProduct creates a catalog entry owned by the authenticated vendor.
func (c *Client) CreateProduct(ctx context.Context, input VendorProductInput) (*domain.Product, error) {
	var product domain.Product
	if err := c.call(ctx, "vendor.create_product", http.MethodPost, "/vendor/products", input, &product, true); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct updates a vendor-owned catalog entry.
func (c *Client) UpdateProduct(ctx context.Context, productID int64, input VendorProductInput) (*domain.Product, error) {
	var product domain.Product
	if err := c.call(ctx, "vendor.update_product", http.MethodPut, fmt.Sprintf("/vendor/products/%d", productID), input, &product, true); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct deactivates a vendor-owned catalog entry.
func (c *Client) DeleteProduct(ctx context.Context, productID int64) error {
	return c.call(ctx, "vendor.delete_product", http.MethodDelete, fmt.Sprintf("/vendor/products/%d", productID), nil, nil, true)
}
