package store

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/patisserie-shop/storefront/internal/domain/model"
)

// maxPendingDeltas bounds the buffer of status events that arrived before
// the initial snapshot. Anything beyond it is dropped oldest-first.
const maxPendingDeltas = 128

// Query selects a derived view of the collection.
type Query struct {
	Status   model.OrderStatus
	Search   string
	Page     int
	PageSize int
}

// Page is one page of the filtered view.
type Page struct {
	Orders  []model.Order
	Page    int
	Pages   int
	Matched int
}

// Stats aggregates the whole collection.
type Stats struct {
	Total    int
	ByStatus map[model.OrderStatus]int
	Revenue  decimal.Decimal
	Average  decimal.Decimal
}

// OrderStore is the in-memory, session-scoped collection of orders known to
// the current viewer. It is populated by full snapshots and mutated in place
// by realtime deltas; both the synchronizer goroutine and HTTP handlers
// touch it, hence the lock.
type OrderStore struct {
	mu      sync.RWMutex
	orders  []model.Order
	index   map[int64]int
	pending []model.StatusEvent
}

// NewOrderStore creates an empty store.
func NewOrderStore() *OrderStore {
	return &OrderStore{index: make(map[int64]int)}
}

// ReplaceAll atomically swaps the collection for a fresh snapshot, newest
// order first, and replays any status deltas that raced ahead of the fetch.
// Deltas still unmatched after the replay refer to orders outside this
// viewer's scope and are discarded.
func (s *OrderStore) ReplaceAll(orders []model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = make([]model.Order, len(orders))
	copy(s.orders, orders)
	sort.SliceStable(s.orders, func(i, j int) bool {
		return s.orders[i].OrderDate.After(s.orders[j].OrderDate)
	})

	s.index = make(map[int64]int, len(s.orders))
	for i, order := range s.orders {
		s.index[order.ID] = i
	}

	pending := s.pending
	s.pending = nil
	for _, evt := range pending {
		s.applyLocked(evt)
	}
}

// ApplyStatusDelta locates the order and applies the status change in place,
// appending a synthesized audit entry. A delta for an order not yet present
// is queued and replayed after the next snapshot instead of failing.
// Reports whether the delta was applied immediately.
func (s *OrderStore) ApplyStatusDelta(evt model.StatusEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.applyLocked(evt) {
		return true
	}

	s.pending = append(s.pending, evt)
	if len(s.pending) > maxPendingDeltas {
		s.pending = s.pending[len(s.pending)-maxPendingDeltas:]
	}
	return false
}

func (s *OrderStore) applyLocked(evt model.StatusEvent) bool {
	i, ok := s.index[evt.OrderID]
	if !ok {
		return false
	}
	s.orders[i].ApplyStatus(model.StatusUpdate{
		Status:    evt.NewStatus,
		Timestamp: evt.At,
		UpdatedBy: evt.UpdatedBy,
	})
	return true
}

// Put writes a server-confirmed order into the store, replacing the existing
// entry in place (stable position for id-keyed rendering) or appending it.
func (s *OrderStore) Put(order model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[order.ID]; ok {
		s.orders[i] = order
		return
	}
	s.index[order.ID] = len(s.orders)
	s.orders = append(s.orders, order)
}

// Get returns a copy of the order with the given id. The copy's slices are
// detached from the store, so later in-place deltas never share memory with
// a caller that holds on to the result.
func (s *OrderStore) Get(id int64) (model.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return model.Order{}, false
	}
	return s.orders[i].Clone(), true
}

// All returns a copy of the full collection, each order cloned the same way
// Get clones.
func (s *OrderStore) All() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Order, len(s.orders))
	for i, order := range s.orders {
		out[i] = order.Clone()
	}
	return out
}

// Len reports the number of known orders.
func (s *OrderStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

// Clear empties the store, including queued deltas. Used when an
// authorization failure invalidates everything the viewer had.
func (s *OrderStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = nil
	s.index = make(map[int64]int)
	s.pending = nil
}

// Filter produces a paginated view. Search matches case-insensitively
// against buyer name, surname and the order id rendered as a string.
// The page index is clamped into range rather than rejected.
func (s *OrderStore) Filter(q Query) Page {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]model.Order, 0, len(s.orders))
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	for _, order := range s.orders {
		if q.Status != "" && order.Status != q.Status {
			continue
		}
		if needle != "" && !matchesSearch(order, needle) {
			continue
		}
		matched = append(matched, order)
	}

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = len(matched)
		if pageSize == 0 {
			pageSize = 1
		}
	}

	pages := (len(matched) + pageSize - 1) / pageSize
	if pages == 0 {
		pages = 1
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	return Page{Orders: matched[start:end], Page: page, Pages: pages, Matched: len(matched)}
}

func matchesSearch(order model.Order, needle string) bool {
	if order.BuyerDetails != nil {
		if strings.Contains(strings.ToLower(order.BuyerDetails.Name), needle) {
			return true
		}
		if strings.Contains(strings.ToLower(order.BuyerDetails.Surname), needle) {
			return true
		}
	}
	return strings.Contains(strconv.FormatInt(order.ID, 10), needle)
}

// Aggregate computes collection-wide stats. The average guards against an
// empty collection.
func (s *OrderStore) Aggregate() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		Total:    len(s.orders),
		ByStatus: make(map[model.OrderStatus]int),
		Revenue:  decimal.Zero,
		Average:  decimal.Zero,
	}

	for _, order := range s.orders {
		stats.ByStatus[order.Status]++
		stats.Revenue = stats.Revenue.Add(order.Total)
	}

	if stats.Total > 0 {
		stats.Average = stats.Revenue.Div(decimal.NewFromInt(int64(stats.Total)))
	}
	return stats
}
