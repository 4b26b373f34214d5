package di

import (
	"github.com/melodix/vipgate/internal/adapter/gateway"
	"github.com/melodix/vipgate/internal/app"
	"github.com/melodix/vipgate/internal/config"
	"github.com/melodix/vipgate/internal/logger"
	"github.com/melodix/vipgate/internal/pkg/auth"
	"github.com/melodix/vipgate/internal/server/http/handlers"
	"github.com/melodix/vipgate/internal/server/http/router"
	"github.com/melodix/vipgate/internal/storage/postgres"
	"github.com/melodix/vipgate/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		gateway.Module,
		usecase.Module,
		fx.Provide(func(f *app.VIPFacade) handlers.VIPFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
