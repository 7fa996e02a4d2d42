// Package checkout places orders from the current cart. Finalization of
// out-of-band payments happens later on the provider's callback leg; the
// orchestrator's contract ends at handing back the approval location.
package checkout

import (
	"context"
	"log/slog"

	"github.com/yashpandey06/E-Commerce-Application/internal/api"
	apperrors "github.com/yashpandey06/E-Commerce-Application/internal/errors"
	"github.com/yashpandey06/E-Commerce-Application/internal/validator"
)

// CheckoutAPI is the slice of the backend client the orchestrator depends on.
type CheckoutAPI interface {
	CreateCheckout(ctx context.Context, req api.CheckoutRequest) (*api.CheckoutResponse, error)
	ExecutePayment(ctx context.Context, paymentID, payerID string) (*api.ExecutePaymentResponse, error)
}

// CartTotals is the slice of the cart store the orchestrator depends on.
type CartTotals interface {
	Total() float64
	ItemCount() int
	Refresh(ctx context.Context) error
}

// SessionGate applies the cross-cutting 401 rule.
type SessionGate interface {
	IsAuthenticated() bool
	InvalidateOn(err error) bool
}

// Input holds the caller-supplied checkout parameters. Shipping, tax and
// discount adjustments are business rules owned by the view layer and
// backend; they arrive here as already-computed amounts.
type Input struct {
	PaymentMethod string  `validate:"required"`
	CouponCode    string  `validate:"omitempty"`
	ReturnURL     string  `validate:"required,url"`
	CancelURL     string  `validate:"required,url"`
	Shipping      float64 `validate:"gte=0"`
	Tax           float64 `validate:"gte=0"`
	Discount      float64 `validate:"gte=0"`
}

// Result is the outcome of a checkout. When ApprovalURL is non-empty the
// caller must redirect the browser there and the order completes later
// out-of-process; otherwise the order completed synchronously and the cart
// has been resynchronized (now empty).
type Result struct {
	OrderID     int64
	PaymentID   string
	ApprovalURL string
	Total       float64
}

// Orchestrator consumes the cart store and session manager to place orders.
type Orchestrator struct {
	api    CheckoutAPI
	cart   CartTotals
	sess   SessionGate
	logger *slog.Logger
}

// New creates a checkout orchestrator.
func New(checkoutAPI CheckoutAPI, cart CartTotals, sess SessionGate, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		api:    checkoutAPI,
		cart:   cart,
		sess:   sess,
		logger: logger,
	}
}

// Checkout posts the order intent for the current cart. The payable total is
// the cart total plus adjustments; the backend's confirmation is trusted as
// final. Any failure carries the server-provided message; a 401 triggers the
// cross-cutting logout rule.
func (o *Orchestrator) Checkout(ctx context.Context, input Input) (*Result, error) {
	if !o.sess.IsAuthenticated() {
		return nil, apperrors.Unauthenticated("login required to check out")
	}
	if err := validator.Validate(input); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if o.cart.ItemCount() == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	total := o.cart.Total() + input.Shipping + input.Tax - input.Discount
	if total < 0 {
		total = 0
	}

	resp, err := o.api.CreateCheckout(ctx, api.CheckoutRequest{
		PaymentMethod: input.PaymentMethod,
		ReturnURL:     input.ReturnURL,
		CancelURL:     input.CancelURL,
		CouponCode:    input.CouponCode,
		Total:         total,
	})
	if err != nil {
		o.sess.InvalidateOn(err)
		return nil, err
	}

	result := &Result{
		OrderID:     resp.OrderID,
		PaymentID:   resp.PaymentID,
		ApprovalURL: resp.ApprovalURL,
		Total:       resp.TotalAmount,
	}

	if resp.ApprovalURL != "" {
		// Out-of-band approval: the cart stays as-is until the payment
		// callback completes the order.
		o.logger.InfoContext(ctx, "checkout pending payment approval",
			slog.Int64("order_id", resp.OrderID),
		)
		return result, nil
	}

	o.logger.InfoContext(ctx, "checkout completed",
		slog.Int64("order_id", resp.OrderID),
		slog.Float64("total", resp.TotalAmount),
	)

	// Synchronous completion: observe the now-emptied cart.
	_ = o.cart.Refresh(ctx)
	return result, nil
}

// CompletePayment executes the post-approval payment leg after the provider
// redirected the user back, then resynchronizes the cart.
func (o *Orchestrator) CompletePayment(ctx context.Context, paymentID, payerID string) (*Result, error) {
	if paymentID == "" || payerID == "" {
		return nil, apperrors.InvalidInput("payment id and payer id are required")
	}

	resp, err := o.api.ExecutePayment(ctx, paymentID, payerID)
	if err != nil {
		o.sess.InvalidateOn(err)
		return nil, err
	}

	o.logger.InfoContext(ctx, "payment executed",
		slog.String("payment_id", resp.PaymentID),
		slog.Int64("order_id", resp.OrderID),
	)

	_ = o.cart.Refresh(ctx)
	return &Result{OrderID: resp.OrderID, PaymentID: resp.PaymentID}, nil
}
