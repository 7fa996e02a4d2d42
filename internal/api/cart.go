package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/yashpandey06/E-Commerce-Application/internal/domain"
)

// cartPayload tolerates both wire shapes the backend has used for the cart:
// an {"items": [...]} envelope and a bare line-item array.
type cartPayload struct {
	Items []domain.CartItem
}

func (p *cartPayload) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Items []domain.CartItem `json:"items"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Items != nil {
		p.Items = envelope.Items
		return nil
	}

	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err == nil {
		p.Items = items
		return nil
	}

	// An envelope with no items key is an empty cart.
	if json.Valid(data) {
		p.Items = []domain.CartItem{}
		return nil
	}
	return fmt.Errorf("unrecognized cart payload")
}

// GetCart fetches the authenticated user's full cart. The 404-means-no-cart
// normalization is the cart store's concern, not this client's.
func (c *Client) GetCart(ctx context.Context) ([]domain.CartItem, error) {
	var payload cartPayload
	if err := c.call(ctx, "cart.get", http.MethodGet, "/cart", nil, &payload, true); err != nil {
		return nil, err
	}
	if payload.Items == nil {
		return []domain.CartItem{}, nil
	}
	return payload.Items, nil
}

// AddCartItem POSTs a new line item.
func (c *Client) AddCartItem(ctx context.Context, productID int64, quantity int) error {
	body := struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	}{ProductID: productID, Quantity: quantity}

	return c.call(ctx, "cart.add_item", http.MethodPost, "/cart/items", body, nil, true)
}

// UpdateCartItem PUTs a new quantity for an existing line item.
func (c *Client) UpdateCartItem(ctx context.Context, itemID int64, quantity int) error {
	body := struct {
		Quantity int `json:"quantity"`
	}{Quantity: quantity}

	return c.call(ctx, "cart.update_item", http.MethodPut, fmt.Sprintf("/cart/items/%d", itemID), body, nil, true)
}

// RemoveCartItem DELETEs a line item.
func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) error {
	return c.call(ctx, "cart.remove_item", http.MethodDelete, fmt.Sprintf("/cart/items/%d", itemID), nil, nil, true)
}
