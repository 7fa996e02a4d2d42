package domain

import "time"

// Order statuses as used by the backend.
const (
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusCreated        = "created"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusShipped        = "shipped"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

// OrderItem is a purchased line item within an order.
type OrderItem struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"product_id"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	ProductName string  `json:"product_name,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// Order is a placed order as returned by the backend.
type Order struct {
	ID              int64       `json:"id"`
	TotalAmount     float64     `json:"total_amount"`
	Status          string      `json:"status"`
	PaymentIntentID string      `json:"payment_intent_id,omitempty"`
	ItemCount       int         `json:"item_count,omitempty"`
	Items           []OrderItem `json:"items,omitempty"`
	CreatedAt       time.Time   `json:"created_at,omitempty"`
}

// IsCancellable reports whether the order may still be cancelled.
func (o *Order) IsCancellable() bool {
	return o.Status == OrderStatusCreated || o.Status == OrderStatusPendingPayment
}
