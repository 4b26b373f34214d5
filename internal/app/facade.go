package app

import (
	"context"
	"time"

	"github.com/melodix/vipgate/internal/domain/model"
	"github.com/melodix/vipgate/internal/usecase"
)

// VIPFacade aggregates application use cases behind a single surface
// consumed by the HTTP layer and the background worker.
type VIPFacade struct {
	auth   *usecase.AuthUseCase
	orders *usecase.OrderUseCase
}

func NewVIPFacade(auth *usecase.AuthUseCase, orders *usecase.OrderUseCase) *VIPFacade {
	return &VIPFacade{auth: auth, orders: orders}
}

func (f *VIPFacade) Register(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password)
	return token, err
}

func (f *VIPFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *VIPFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *VIPFacade) CreateOrder(ctx context.Context, accountID int64, amount int64, description string) (*model.Order, error) {
	return f.orders.Create(ctx, accountID, amount, description)
}

func (f *VIPFacade) Orders(ctx context.Context, accountID int64) ([]model.Order, error) {
	return f.orders.ListByAccount(ctx, accountID)
}

func (f *VIPFacade) CancelOrder(ctx context.Context, accountID int64, code int64) error {
	return f.orders.Cancel(ctx, accountID, code)
}

func (f *VIPFacade) Entitlement(ctx context.Context, accountID int64) (*usecase.Entitlement, error) {
	return f.orders.Entitlement(ctx, accountID)
}

func (f *VIPFacade) SettlePayment(ctx context.Context, input usecase.SettleInput) error {
	return f.orders.Settle(ctx, input)
}

func (f *VIPFacade) ExpireStale(ctx context.Context, olderThan time.Time, limit int) ([]int64, error) {
	return f.orders.CancelStale(ctx, olderThan, limit)
}
