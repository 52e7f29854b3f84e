package di

import (
	"github.com/patisserie-shop/storefront/internal/adapter/orderapi"
	"github.com/patisserie-shop/storefront/internal/app"
	"github.com/patisserie-shop/storefront/internal/config"
	"github.com/patisserie-shop/storefront/internal/logger"
	"github.com/patisserie-shop/storefront/internal/pkg/auth"
	"github.com/patisserie-shop/storefront/internal/realtime"
	"github.com/patisserie-shop/storefront/internal/server/http/router"
	"github.com/patisserie-shop/storefront/internal/store"
	"github.com/patisserie-shop/storefront/internal/sync"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		store.Module,
		realtime.Module,
		orderapi.Module,
		sync.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
