package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domainErrors "github.com/patisserie-shop/storefront/internal/domain/errors"
	"github.com/patisserie-shop/storefront/internal/domain/model"
	"github.com/patisserie-shop/storefront/internal/realtime"
	"github.com/patisserie-shop/storefront/internal/server/http/dto"
	"github.com/patisserie-shop/storefront/internal/store"
	"github.com/patisserie-shop/storefront/internal/sync"
	testhelpers "github.com/patisserie-shop/storefront/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(facade DashboardFacade) *gin.Engine {
	handler := NewDashboardHandler(facade)
	engine := gin.New()
	engine.GET("/orders", handler.List)
	engine.GET("/orders/:id", handler.Get)
	engine.GET("/orders/:id/timeline", handler.Timeline)
	engine.GET("/stats", handler.Stats)
	engine.GET("/health", handler.Health)
	engine.POST("/reload", handler.Reload)
	engine.POST("/orders/:id/status", handler.ChangeStatus)
	return engine
}

func TestListReturnsPage(t *testing.T) {
	var gotQuery store.Query
	facade := &testhelpers.DashboardFacadeStub{
		OrdersFn: func(q store.Query) store.Page {
			gotQuery = q
			return store.Page{
				Orders: []model.Order{{
					ID:        7,
					Status:    model.OrderStatusPending,
					Total:     decimal.NewFromInt(30),
					OrderDate: time.Unix(0, 0),
					BuyerDetails: &model.BuyerDetails{
						Name:    "Marie",
						Surname: "Dubois",
					},
				}},
				Page:    2,
				Pages:   3,
				Matched: 21,
			}
		},
	}

	engine := newTestRouter(facade)
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/orders?status=pending&search=marie&page=2&pageSize=10", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if gotQuery.Status != model.OrderStatusPending || gotQuery.Search != "marie" || gotQuery.Page != 2 || gotQuery.PageSize != 10 {
		t.Fatalf("unexpected query: %+v", gotQuery)
	}

	var page dto.OrdersPageResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if page.Matched != 21 || page.Pages != 3 || len(page.Orders) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Orders[0].Buyer != "Marie Dubois" {
		t.Fatalf("expected buyer name, got %q", page.Orders[0].Buyer)
	}
	if page.Orders[0].StatusMeta.Color == "" {
		t.Fatal("expected status meta to be populated")
	}
	if len(page.Orders[0].NextStatuses) == 0 {
		t.Fatal("expected next statuses for pending order")
	}
}

func TestListRejectsUnknownStatusFilter(t *testing.T) {
	engine := newTestRouter(&testhelpers.DashboardFacadeStub{})
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/orders?status=SHIPPED", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGetOrder(t *testing.T) {
	facade := &testhelpers.DashboardFacadeStub{
		OrderFn: func(id int64) (model.Order, bool) {
			if id == 7 {
				return model.Order{ID: 7, Status: model.OrderStatusDelivered}, true
			}
			return model.Order{}, false
		},
	}
	engine := newTestRouter(facade)

	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/orders/7", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/orders/8", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/orders/abc", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", resp.Code)
	}
}

func TestTimeline(t *testing.T) {
	facade := &testhelpers.DashboardFacadeStub{
		TimelineFn: func(_ context.Context, id int64) ([]model.StatusUpdate, error) {
			return []model.StatusUpdate{
				{Status: model.OrderStatusPending, Timestamp: time.Unix(0, 0)},
				{Status: model.OrderStatusAccepted, Timestamp: time.Unix(60, 0), UpdatedBy: "admin1", Comment: "confirmed"},
			}, nil
		},
	}
	engine := newTestRouter(facade)

	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/orders/7/timeline", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var entries []dto.TimelineEntryResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(entries) != 2 || entries[1].UpdatedBy != "admin1" || entries[1].Comment != "confirmed" {
		t.Fatalf("unexpected timeline: %+v", entries)
	}
}

func TestTimelineMapsNotFound(t *testing.T) {
	facade := &testhelpers.DashboardFacadeStub{
		TimelineFn: func(context.Context, int64) ([]model.StatusUpdate, error) {
			return nil, domainErrors.ErrNotFound
		},
	}
	engine := newTestRouter(facade)

	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/orders/7/timeline", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestStats(t *testing.T) {
	facade := &testhelpers.DashboardFacadeStub{
		StatsFn: func() store.Stats {
			return store.Stats{
				Total:    4,
				ByStatus: map[model.OrderStatus]int{model.OrderStatusPending: 3, model.OrderStatusDelivered: 1},
				Revenue:  decimal.NewFromInt(100),
				Average:  decimal.NewFromInt(25),
			}
		},
	}
	engine := newTestRouter(facade)

	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/stats", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var stats dto.StatsResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if stats.Total != 4 || stats.ByStatus["PENDING"] != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestChangeStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"confirmed", nil, http.StatusOK},
		{"not found", domainErrors.ErrNotFound, http.StatusNotFound},
		{"invalid transition", fmt.Errorf("%w: DELIVERED to PENDING", domainErrors.ErrInvalidTransition), http.StatusUnprocessableEntity},
		{"rejected by server", &domainErrors.RejectedError{Reason: "already delivered"}, http.StatusConflict},
		{"backend down", domainErrors.ErrUnavailable, http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			facade := &testhelpers.DashboardFacadeStub{
				ChangeStatusFn: func(_ context.Context, id int64, status model.OrderStatus, comment string) (*model.Order, error) {
					if tc.err != nil {
						return nil, tc.err
					}
					return &model.Order{ID: id, Status: status}, nil
				},
			}
			engine := newTestRouter(facade)

			body, _ := json.Marshal(dto.ChangeStatusRequest{Status: "ACCEPTED", Comment: "ok"})
			req := httptest.NewRequest(http.MethodPost, "/orders/7/status", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			engine.ServeHTTP(resp, req)
			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.Code)
			}
		})
	}
}

func TestChangeStatusRejectionWithoutReasonGetsGenericMessage(t *testing.T) {
	facade := &testhelpers.DashboardFacadeStub{
		ChangeStatusFn: func(context.Context, int64, model.OrderStatus, string) (*model.Order, error) {
			return nil, &domainErrors.RejectedError{}
		},
	}
	engine := newTestRouter(facade)

	body, _ := json.Marshal(dto.ChangeStatusRequest{Status: "ACCEPTED"})
	req := httptest.NewRequest(http.MethodPost, "/orders/7/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
	var payload map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["message"] != "transition rejected" {
		t.Fatalf("expected generic rejection message, got %q", payload["message"])
	}
}

func TestChangeStatusRejectsMalformedBody(t *testing.T) {
	engine := newTestRouter(&testhelpers.DashboardFacadeStub{})

	req := httptest.NewRequest(http.MethodPost, "/orders/7/status", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestReload(t *testing.T) {
	facade := &testhelpers.DashboardFacadeStub{}
	engine := newTestRouter(facade)

	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/reload", nil))
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.Code)
	}
	if facade.ReloadCount() != 1 {
		t.Fatalf("expected one reload, got %d", facade.ReloadCount())
	}
}

func TestHealth(t *testing.T) {
	facade := &testhelpers.DashboardFacadeStub{
		HealthFn: func() sync.Health {
			return sync.Health{
				Connection: realtime.StateConnected,
				Orders:     12,
				Notices:    []sync.Notice{{Text: "orders could not be loaded", Sticky: true}},
			}
		},
	}
	engine := newTestRouter(facade)

	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var health dto.HealthResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if health.Connection != string(realtime.StateConnected) || health.Orders != 12 {
		t.Fatalf("unexpected health: %+v", health)
	}
	if len(health.Notices) != 1 || !health.Notices[0].Sticky {
		t.Fatalf("unexpected notices: %+v", health.Notices)
	}
}
