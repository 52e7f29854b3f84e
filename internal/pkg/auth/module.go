package auth

import (
	"go.uber.org/fx"

	"github.com/patisserie-shop/storefront/internal/config"
)

// Module wires the token-backed identity provider.
var Module = fx.Provide(newProvider)

func newProvider(cfg *config.Config) Provider {
	return NewTokenProvider(cfg.BearerToken)
}
