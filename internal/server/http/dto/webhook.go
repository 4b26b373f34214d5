package dto

// WebhookRequest mirrors the gateway payment result notification.
// The gateway sends string identifiers and an explicit cancel flag.
type WebhookRequest struct {
	OrderCode int64  `json:"orderCode"`
	LinkID    string `json:"paymentLinkId"`
	Status    string `json:"status"`
	Cancel    bool   `json:"cancel"`
}
