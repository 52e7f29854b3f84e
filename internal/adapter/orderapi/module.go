package orderapi

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/patisserie-shop/storefront/internal/config"
	"github.com/patisserie-shop/storefront/internal/pkg/auth"
)

// Module exposes the order API client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Tokens auth.Provider
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.OrderAPIAddress, p.Tokens, p.Logger)
}
