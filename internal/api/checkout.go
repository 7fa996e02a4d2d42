package api

import (
	"context"
	"net/http"
)

// CheckoutRequest is the order intent posted to the backend.
type CheckoutRequest struct {
	PaymentMethod string  `json:"payment_method" validate:"required"`
	ReturnURL     string  `json:"return_url" validate:"required,url"`
	CancelURL     string  `json:"cancel_url" validate:"required,url"`
	CouponCode    string  `json:"coupon_code,omitempty"`
	Total         float64 `json:"total" validate:"gte=0"`
}

// CheckoutResponse is the backend's answer to an order intent. Exactly one of
// ApprovalURL (out-of-band payment approval) or a synchronous completion
// (OrderID with no ApprovalURL) applies.
type CheckoutResponse struct {
	OrderID     int64   `json:"order_id"`
	PaymentID   string  `json:"payment_id,omitempty"`
	ApprovalURL string  `json:"approval_url,omitempty"`
	TotalAmount float64 `json:"total_amount"`
	Status      string  `json:"status,omitempty"`
}

// CreateCheckout posts the order intent.
func (c *Client) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	var resp CheckoutResponse
	if err := c.call(ctx, "checkout.create", http.MethodPost, "/checkout", req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExecutePaymentResponse is the backend's answer to the post-approval
// payment execution leg.
type ExecutePaymentResponse struct {
	Status    string `json:"status"`
	PaymentID string `json:"payment_id"`
	OrderID   int64  `json:"order_id"`
	Message   string `json:"message,omitempty"`
}

// ExecutePayment completes an out-of-band payment after the provider
// redirected the user back with a payer ID.
func (c *Client) ExecutePayment(ctx context.Context, paymentID, payerID string) (*ExecutePaymentResponse, error) {
	body := struct {
		PaymentID string `json:"payment_id"`
		PayerID   string `json:"payer_id"`
	}{PaymentID: paymentID, PayerID: payerID}

	var resp ExecutePaymentResponse
	if err := c.call(ctx, "payment.execute", http.MethodPost, "/payment/execute", body, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}
