package realtime

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/patisserie-shop/storefront/internal/config"
)

// Module wires the AMQP transport and the process-wide channel.
var Module = fx.Provide(newTransport, newChannel)

type transportParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newTransport(p transportParams) Transport {
	return NewAMQPTransport(p.Config.BrokerURL, p.Config.BrokerExchange, p.Logger)
}

type channelParams struct {
	fx.In

	Transport Transport
	Config    *config.Config
	Logger    *slog.Logger
}

func newChannel(p channelParams) *Channel {
	return NewChannel(p.Transport, p.Config.ReconnectDelay, p.Logger)
}
