package handlers

import (
	"context"

	"github.com/patisserie-shop/storefront/internal/domain/model"
	"github.com/patisserie-shop/storefront/internal/store"
	"github.com/patisserie-shop/storefront/internal/sync"
)

// DashboardFacade aggregates the operations the HTTP layer exposes.
type DashboardFacade interface {
	Orders(q store.Query) store.Page
	Order(id int64) (model.Order, bool)
	Timeline(ctx context.Context, id int64) ([]model.StatusUpdate, error)
	Stats() store.Stats
	ChangeStatus(ctx context.Context, id int64, status model.OrderStatus, comment string) (*model.Order, error)
	Reload()
	Health() sync.Health
}
