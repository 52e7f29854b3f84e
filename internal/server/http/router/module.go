package router

import (
	"go.uber.org/fx"

	"github.com/patisserie-shop/storefront/internal/app"
	"github.com/patisserie-shop/storefront/internal/server/http/handlers"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Options(
	fx.Provide(func(facade *app.DashboardFacade) handlers.DashboardFacade { return facade }),
	fx.Provide(Setup),
)
