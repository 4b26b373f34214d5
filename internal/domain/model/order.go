package model

import "time"

// OrderStatus describes the purchase order lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Terminal reports whether no further transition is permitted from the status.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusPaid || s == OrderStatusCancelled
}

// Order describes a VIP upgrade purchase. Code is the numeric identifier
// shared with the payment gateway and used as the sole correlation key for
// settlement callbacks. Amount is in the smallest currency unit. Amount and
// Description are fixed at creation.
type Order struct {
	ID            string
	AccountID     int64
	Code          int64
	Amount        int64
	Description   string
	Status        OrderStatus
	PaymentLinkID string
	CheckoutURL   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
