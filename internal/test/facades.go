package test

import (
	"context"
	"sync"

	"github.com/patisserie-shop/storefront/internal/domain/model"
	"github.com/patisserie-shop/storefront/internal/store"
	syncpkg "github.com/patisserie-shop/storefront/internal/sync"
)

// StatusWriteCall records one WriteOrderStatus invocation.
type StatusWriteCall struct {
	OrderID int64
	Status  model.OrderStatus
	Comment string
}

// OrderAPIStub provides controllable behaviour for the REST order client.
type OrderAPIStub struct {
	FetchAllFn    func(context.Context) ([]model.Order, error)
	FetchUserFn   func(context.Context) ([]model.Order, error)
	WriteStatusFn func(context.Context, int64, model.OrderStatus, string) (*model.Order, error)
	HistoryFn     func(context.Context, int64) ([]model.StatusUpdate, error)

	mu     sync.Mutex
	Writes []StatusWriteCall
}

// FetchAllOrders delegates to the override or returns an empty snapshot.
func (s *OrderAPIStub) FetchAllOrders(ctx context.Context) ([]model.Order, error) {
	if s.FetchAllFn != nil {
		return s.FetchAllFn(ctx)
	}
	return nil, nil
}

// FetchUserOrders delegates to the override or returns an empty snapshot.
func (s *OrderAPIStub) FetchUserOrders(ctx context.Context) ([]model.Order, error) {
	if s.FetchUserFn != nil {
		return s.FetchUserFn(ctx)
	}
	return nil, nil
}

// WriteOrderStatus records the call and delegates to the override or echoes
// the requested transition back as a confirmed order.
func (s *OrderAPIStub) WriteOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus, comment string) (*model.Order, error) {
	s.mu.Lock()
	s.Writes = append(s.Writes, StatusWriteCall{OrderID: orderID, Status: status, Comment: comment})
	s.mu.Unlock()

	if s.WriteStatusFn != nil {
		return s.WriteStatusFn(ctx, orderID, status, comment)
	}
	return &model.Order{ID: orderID, Status: status}, nil
}

// FetchStatusHistory delegates to the override or returns an empty trail.
func (s *OrderAPIStub) FetchStatusHistory(ctx context.Context, orderID int64) ([]model.StatusUpdate, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, orderID)
	}
	return nil, nil
}

// DashboardFacadeStub provides controllable behaviour for HTTP layer tests.
type DashboardFacadeStub struct {
	OrdersFn       func(store.Query) store.Page
	OrderFn        func(int64) (model.Order, bool)
	TimelineFn     func(context.Context, int64) ([]model.StatusUpdate, error)
	StatsFn        func() store.Stats
	ChangeStatusFn func(context.Context, int64, model.OrderStatus, string) (*model.Order, error)
	ReloadFn       func()
	HealthFn       func() syncpkg.Health

	mu      sync.Mutex
	Reloads int
}

// Orders returns the configured page or an empty one.
func (s *DashboardFacadeStub) Orders(q store.Query) store.Page {
	if s.OrdersFn != nil {
		return s.OrdersFn(q)
	}
	return store.Page{Page: 1, Pages: 1}
}

// Order returns the configured order.
func (s *DashboardFacadeStub) Order(id int64) (model.Order, bool) {
	if s.OrderFn != nil {
		return s.OrderFn(id)
	}
	return model.Order{}, false
}

// Timeline returns the configured history.
func (s *DashboardFacadeStub) Timeline(ctx context.Context, id int64) ([]model.StatusUpdate, error) {
	if s.TimelineFn != nil {
		return s.TimelineFn(ctx, id)
	}
	return nil, nil
}

// Stats returns the configured aggregate.
func (s *DashboardFacadeStub) Stats() store.Stats {
	if s.StatsFn != nil {
		return s.StatsFn()
	}
	return store.Stats{}
}

// ChangeStatus delegates to the override or echoes the transition.
func (s *DashboardFacadeStub) ChangeStatus(ctx context.Context, id int64, status model.OrderStatus, comment string) (*model.Order, error) {
	if s.ChangeStatusFn != nil {
		return s.ChangeStatusFn(ctx, id, status, comment)
	}
	return &model.Order{ID: id, Status: status}, nil
}

// Reload counts reload requests.
func (s *DashboardFacadeStub) Reload() {
	s.mu.Lock()
	s.Reloads++
	s.mu.Unlock()
	if s.ReloadFn != nil {
		s.ReloadFn()
	}
}

// ReloadCount reports how many reloads were requested.
func (s *DashboardFacadeStub) ReloadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Reloads
}

// Health returns the configured health snapshot.
func (s *DashboardFacadeStub) Health() syncpkg.Health {
	if s.HealthFn != nil {
		return s.HealthFn()
	}
	return syncpkg.Health{}
}
