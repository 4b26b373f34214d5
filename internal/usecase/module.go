package usecase

import (
	"go.uber.org/fx"

	"github.com/melodix/vipgate/internal/adapter/gateway"
	"github.com/melodix/vipgate/internal/config"
	"github.com/melodix/vipgate/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	newOrderUseCase,
)

type orderParams struct {
	fx.In

	Accounts repository.AccountRepository
	Orders   repository.OrderRepository
	Gateway  gateway.Client
	Config   *config.Config
}

func newOrderUseCase(p orderParams) *OrderUseCase {
	return NewOrderUseCase(p.Accounts, p.Orders, p.Gateway, OrderOptions{
		VIPDuration:  p.Config.VIPDuration,
		CodeAttempts: p.Config.OrderCodeAttempts,
		ReturnURL:    p.Config.ReturnURL,
		CancelURL:    p.Config.CancelURL,
	})
}
