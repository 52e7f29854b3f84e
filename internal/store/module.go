package store

import "go.uber.org/fx"

// Module exposes the order store to fx graphs.
var Module = fx.Provide(NewOrderStore)
