package handlers

import (
	"context"

	"github.com/melodix/vipgate/internal/domain/model"
	"github.com/melodix/vipgate/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// OrderFacade encapsulates VIP order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, accountID int64, amount int64, description string) (*model.Order, error)
	Orders(ctx context.Context, accountID int64) ([]model.Order, error)
	CancelOrder(ctx context.Context, accountID int64, code int64) error
	Entitlement(ctx context.Context, accountID int64) (*usecase.Entitlement, error)
}

// WebhookFacade settles orders from payment gateway notifications.
type WebhookFacade interface {
	SettlePayment(ctx context.Context, input usecase.SettleInput) error
}

// VIPFacade aggregates the full set of operations used across handlers.
type VIPFacade interface {
	AuthFacade
	OrderFacade
	WebhookFacade
}
