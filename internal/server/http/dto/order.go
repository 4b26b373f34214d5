package dto

import "time"

// OrderCreateRequest describes the payload for starting a VIP purchase.
type OrderCreateRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

// OrderResponse is the wire representation of a VIP order.
type OrderResponse struct {
	ID          string    `json:"id"`
	Code        int64     `json:"code"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CheckoutURL string    `json:"checkout_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// EntitlementResponse reports the caller's VIP state.
type EntitlementResponse struct {
	Active   bool       `json:"active"`
	ExpireAt *time.Time `json:"expire_at,omitempty"`
}
