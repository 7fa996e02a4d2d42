package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yashpandey06/E-Commerce-Application/internal/domain"
)

// ListOrders fetches the authenticated user's order history, newest first.
func (c *Client) ListOrders(ctx context.Context, skip, limit int) ([]domain.Order, error) {
	params := url.Values{}
	params.Set("skip", strconv.Itoa(skip))
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var orders []domain.Order
	if err := c.call(ctx, "orders.list", http.MethodGet, "/orders?"+params.Encode(), nil, &orders, true); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches one order with its line items.
func (c *Client) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	var order domain.Order
	if err := c.call(ctx, "orders.get", http.MethodGet, fmt.Sprintf("/orders/%d", orderID), nil, &order, true); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder cancels an order that is still in a cancellable state.
func (c *Client) CancelOrder(ctx context.Context, orderID int64) error {
	return c.call(ctx, "orders.cancel", http.MethodPut, fmt.Sprintf("/orders/%d/cancel", orderID), nil, nil, true)
}
