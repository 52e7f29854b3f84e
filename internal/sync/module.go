package sync

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/patisserie-shop/storefront/internal/adapter/orderapi"
	"github.com/patisserie-shop/storefront/internal/config"
	"github.com/patisserie-shop/storefront/internal/pkg/auth"
	"github.com/patisserie-shop/storefront/internal/realtime"
	"github.com/patisserie-shop/storefront/internal/store"
)

// Module wires the notice board and the synchronizer.
var Module = fx.Provide(newNoticeBoard, newSynchronizer)

func newNoticeBoard(cfg *config.Config) *NoticeBoard {
	return NewNoticeBoard(cfg.NoticeTTL)
}

type synchronizerParams struct {
	fx.In

	Client  orderapi.Client
	Channel *realtime.Channel
	Store   *store.OrderStore
	Tokens  auth.Provider
	Notices *NoticeBoard
	Logger  *slog.Logger
}

func newSynchronizer(p synchronizerParams) *Synchronizer {
	return NewSynchronizer(p.Client, p.Channel, p.Store, p.Tokens, p.Notices, p.Logger)
}
