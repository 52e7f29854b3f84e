package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	gosync "sync"

	domainErrors "github.com/patisserie-shop/storefront/internal/domain/errors"
	"github.com/patisserie-shop/storefront/internal/domain/model"
	"github.com/patisserie-shop/storefront/internal/pkg/auth"
	"github.com/patisserie-shop/storefront/internal/realtime"
	"github.com/patisserie-shop/storefront/internal/store"
)

// Broker topics. Status events carry order transitions; the test topic is a
// liveness loop every session pings after (re)connecting.
const (
	TopicOrderStatus = "orders.status"
	TopicBrokerTest  = "broker.test"
)

var pingPayload = []byte("ping")

// Health is the dashboard's own wellbeing: broker connectivity, how much
// data is loaded and what the viewer should currently be told.
type Health struct {
	Connection realtime.ConnState
	Orders     int
	Notices    []Notice
}

// OrderAPI is the subset of the REST client the synchronizer needs.
type OrderAPI interface {
	FetchAllOrders(ctx context.Context) ([]model.Order, error)
	FetchUserOrders(ctx context.Context) ([]model.Order, error)
	WriteOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus, comment string) (*model.Order, error)
	FetchStatusHistory(ctx context.Context, orderID int64) ([]model.StatusUpdate, error)
}

// Synchronizer reconciles the in-memory order store with the backend: full
// REST snapshots establish the baseline, realtime status deltas mutate it in
// place, and every local write is confirmed by the server before it lands.
type Synchronizer struct {
	client  OrderAPI
	channel *realtime.Channel
	store   *store.OrderStore
	tokens  auth.Provider
	notices *NoticeBoard
	logger  *slog.Logger

	resync chan struct{}

	mu     gosync.Mutex
	cancel context.CancelFunc
	wg     gosync.WaitGroup
}

// NewSynchronizer wires the synchronizer; Start must be called before it
// does anything.
func NewSynchronizer(
	client OrderAPI,
	channel *realtime.Channel,
	orderStore *store.OrderStore,
	tokens auth.Provider,
	notices *NoticeBoard,
	logger *slog.Logger,
) *Synchronizer {
	return &Synchronizer{
		client:  client,
		channel: channel,
		store:   orderStore,
		tokens:  tokens,
		notices: notices,
		logger:  logger,
		resync:  make(chan struct{}, 1),
	}
}

// Start subscribes to the broker topics and launches the reconcile loop.
// Subscriptions are registered before the channel ever connects, so the
// channel applies them as soon as a session is up. Calling Start twice is a
// no-op.
func (s *Synchronizer) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	deltas := s.channel.Subscribe(TopicOrderStatus)
	liveness := s.channel.Subscribe(TopicBrokerTest)
	flips := s.channel.ConnectionChanges()

	s.wg.Add(1)
	go s.run(runCtx, deltas, liveness, flips)
}

// Stop cancels the reconcile loop and waits for it to drain.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// Reload requests a fresh snapshot. Coalesced: a reload already queued
// covers this one too.
func (s *Synchronizer) Reload() {
	select {
	case s.resync <- struct{}{}:
	default:
	}
}

// RequestStatusChange submits a transition to the server. The local graph is
// consulted first so obviously invalid requests never leave the process, but
// the store is only mutated with the server's confirmed view of the order.
func (s *Synchronizer) RequestStatusChange(ctx context.Context, orderID int64, status model.OrderStatus, comment string) (*model.Order, error) {
	if !model.IsKnownStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", domainErrors.ErrInvalidTransition, status)
	}

	current, ok := s.store.Get(orderID)
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if !model.CanTransition(current.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", domainErrors.ErrInvalidTransition, current.Status, status)
	}

	order, err := s.client.WriteOrderStatus(ctx, orderID, status, comment)
	if err != nil {
		if errors.Is(err, domainErrors.ErrUnavailable) {
			s.notices.Post("status change failed: order service unavailable")
		}
		return nil, err
	}

	s.store.Put(*order)
	s.Reload()
	return order, nil
}

// StatusHistory fetches the audit trail for one order on demand.
func (s *Synchronizer) StatusHistory(ctx context.Context, orderID int64) ([]model.StatusUpdate, error) {
	return s.client.FetchStatusHistory(ctx, orderID)
}

func (s *Synchronizer) run(ctx context.Context, deltas, liveness *realtime.Subscription, flips <-chan bool) {
	defer s.wg.Done()
	defer deltas.Cancel()
	defer liveness.Cancel()

	s.load(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case frame := <-deltas.C:
			s.applyDelta(frame)
		case <-liveness.C:
			// pings from other sessions, nothing to do
		case connected := <-flips:
			if connected {
				s.channel.Publish(ctx, TopicBrokerTest, pingPayload)
				s.load(ctx)
			}
		case <-s.resync:
			s.load(ctx)
		}
	}
}

// load replaces the store with a fresh role-appropriate snapshot. An
// authorization failure empties the store and tells the viewer why in a
// calm, cause-specific message rather than an error banner. Any other
// failure keeps the previous data and posts a sticky notice until a later
// load succeeds.
func (s *Synchronizer) load(ctx context.Context) {
	orders, err := s.fetchSnapshot(ctx)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrUnauthenticated):
			s.store.Clear()
			s.notices.PostSticky("session expired, please sign in again")
			s.logger.Warn("snapshot requires a valid session", slog.String("error", err.Error()))
		case errors.Is(err, domainErrors.ErrUnauthorized):
			s.store.Clear()
			s.notices.PostSticky("you do not have access to these orders")
			s.logger.Warn("snapshot not permitted for this session", slog.String("error", err.Error()))
		default:
			s.notices.PostSticky("orders could not be loaded")
			s.logger.Error("snapshot fetch failed", slog.String("error", err.Error()))
		}
		return
	}

	s.store.ReplaceAll(orders)
	s.notices.ClearSticky()
	s.logger.Info("snapshot applied", slog.Int("orders", len(orders)))
}

func (s *Synchronizer) fetchSnapshot(ctx context.Context) ([]model.Order, error) {
	identity, err := s.tokens.Identity()
	if err != nil {
		return nil, domainErrors.ErrUnauthenticated
	}
	if identity.Role == model.RoleAdmin {
		return s.client.FetchAllOrders(ctx)
	}
	return s.client.FetchUserOrders(ctx)
}

// applyDelta decodes a status event and mutates the store in place. Only a
// frame that fails to decode is dropped; a status outside the known set is
// applied as-is and rendered through the metadata fallback.
func (s *Synchronizer) applyDelta(frame []byte) {
	var evt model.StatusEvent
	if err := json.Unmarshal(frame, &evt); err != nil {
		s.logger.Warn("malformed status event dropped", slog.String("error", err.Error()))
		return
	}
	if !model.IsKnownStatus(evt.NewStatus) {
		s.logger.Warn("status event carries an unfamiliar status", slog.String("status", string(evt.NewStatus)))
	}

	if s.store.ApplyStatusDelta(evt) {
		s.logger.Debug("status delta applied",
			slog.Int64("order", evt.OrderID),
			slog.String("status", string(evt.NewStatus)),
		)
		return
	}
	s.logger.Debug("status delta queued until next snapshot", slog.Int64("order", evt.OrderID))
}
