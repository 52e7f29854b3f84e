package app

import (
	"context"

	"github.com/patisserie-shop/storefront/internal/config"
	"github.com/patisserie-shop/storefront/internal/domain/model"
	"github.com/patisserie-shop/storefront/internal/realtime"
	"github.com/patisserie-shop/storefront/internal/store"
	"github.com/patisserie-shop/storefront/internal/sync"
)

// DashboardFacade is the single entry point the HTTP layer talks to. It
// reads from the local store and funnels every mutation through the
// synchronizer.
type DashboardFacade struct {
	store    *store.OrderStore
	syncer   *sync.Synchronizer
	channel  *realtime.Channel
	notices  *sync.NoticeBoard
	pageSize int
}

func NewDashboardFacade(
	orderStore *store.OrderStore,
	syncer *sync.Synchronizer,
	channel *realtime.Channel,
	notices *sync.NoticeBoard,
	cfg *config.Config,
) *DashboardFacade {
	return &DashboardFacade{
		store:    orderStore,
		syncer:   syncer,
		channel:  channel,
		notices:  notices,
		pageSize: cfg.PageSize,
	}
}

// Orders returns one page of the filtered local collection. A missing page
// size falls back to the configured default.
func (f *DashboardFacade) Orders(q store.Query) store.Page {
	if q.PageSize <= 0 {
		q.PageSize = f.pageSize
	}
	return f.store.Filter(q)
}

// Order returns one order from the local collection.
func (f *DashboardFacade) Order(id int64) (model.Order, bool) {
	return f.store.Get(id)
}

// Timeline fetches the status audit trail for one order from the backend.
func (f *DashboardFacade) Timeline(ctx context.Context, id int64) ([]model.StatusUpdate, error) {
	return f.syncer.StatusHistory(ctx, id)
}

// Stats aggregates the local collection.
func (f *DashboardFacade) Stats() store.Stats {
	return f.store.Aggregate()
}

// ChangeStatus submits a status transition for server confirmation.
func (f *DashboardFacade) ChangeStatus(ctx context.Context, id int64, status model.OrderStatus, comment string) (*model.Order, error) {
	return f.syncer.RequestStatusChange(ctx, id, status, comment)
}

// Reload schedules a fresh snapshot fetch.
func (f *DashboardFacade) Reload() {
	f.syncer.Reload()
}

// Health reports connectivity and active notices.
func (f *DashboardFacade) Health() sync.Health {
	return sync.Health{
		Connection: f.channel.State(),
		Orders:     f.store.Len(),
		Notices:    f.notices.Active(),
	}
}
