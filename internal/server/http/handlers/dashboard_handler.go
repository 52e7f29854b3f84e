package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/patisserie-shop/storefront/internal/domain/model"
	"github.com/patisserie-shop/storefront/internal/server/http/dto"
	"github.com/patisserie-shop/storefront/internal/store"
)

// DashboardHandler serves the order dashboard endpoints.
type DashboardHandler struct {
	facade DashboardFacade
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(facade DashboardFacade) *DashboardHandler {
	return &DashboardHandler{facade: facade}
}

// List handles GET /api/dashboard/orders.
func (h *DashboardHandler) List(c *gin.Context) {
	q := store.Query{
		Status: model.OrderStatus(strings.ToUpper(c.Query("status"))),
		Search: c.Query("search"),
	}
	if q.Status != "" && !model.IsKnownStatus(q.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "unknown status filter"})
		return
	}
	q.Page, _ = strconv.Atoi(c.Query("page"))
	q.PageSize, _ = strconv.Atoi(c.Query("pageSize"))

	page := h.facade.Orders(q)

	response := dto.OrdersPageResponse{
		Orders:  make([]dto.OrderResponse, 0, len(page.Orders)),
		Page:    page.Page,
		Pages:   page.Pages,
		Matched: page.Matched,
	}
	for _, order := range page.Orders {
		response.Orders = append(response.Orders, toOrderResponse(order))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/dashboard/orders/:id.
func (h *DashboardHandler) Get(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	order, found := h.facade.Order(id)
	if !found {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Timeline handles GET /api/dashboard/orders/:id/timeline.
func (h *DashboardHandler) Timeline(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	history, err := h.facade.Timeline(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	response := make([]dto.TimelineEntryResponse, 0, len(history))
	for _, update := range history {
		response = append(response, dto.TimelineEntryResponse{
			Status:     string(update.Status),
			StatusMeta: toStatusMeta(update.Status),
			Timestamp:  update.Timestamp,
			UpdatedBy:  update.UpdatedBy,
			Comment:    update.Comment,
		})
	}
	c.JSON(http.StatusOK, response)
}

// Stats handles GET /api/dashboard/stats.
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats := h.facade.Stats()

	response := dto.StatsResponse{
		Total:    stats.Total,
		ByStatus: make(map[string]int, len(stats.ByStatus)),
		Revenue:  stats.Revenue,
		Average:  stats.Average,
	}
	for status, count := range stats.ByStatus {
		response.ByStatus[string(status)] = count
	}
	c.JSON(http.StatusOK, response)
}

// ChangeStatus handles POST /api/dashboard/orders/:id/status.
func (h *DashboardHandler) ChangeStatus(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.ChangeStatus(c.Request.Context(), id, model.OrderStatus(strings.ToUpper(req.Status)), req.Comment)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Reload handles POST /api/dashboard/reload.
func (h *DashboardHandler) Reload(c *gin.Context) {
	h.facade.Reload()
	c.Status(http.StatusAccepted)
}

// Health handles GET /api/dashboard/health.
func (h *DashboardHandler) Health(c *gin.Context) {
	health := h.facade.Health()

	response := dto.HealthResponse{
		Connection: string(health.Connection),
		Orders:     health.Orders,
		Notices:    make([]dto.NoticeResponse, 0, len(health.Notices)),
	}
	for _, notice := range health.Notices {
		response.Notices = append(response.Notices, dto.NoticeResponse{Text: notice.Text, Sticky: notice.Sticky})
	}
	c.JSON(http.StatusOK, response)
}

func orderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.Status(http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	next := model.NextStatuses(order.Status)
	nextStrs := make([]string, 0, len(next))
	for _, status := range next {
		nextStrs = append(nextStrs, string(status))
	}

	return dto.OrderResponse{
		ID:           order.ID,
		Status:       string(order.Status),
		StatusMeta:   toStatusMeta(order.Status),
		NextStatuses: nextStrs,
		Total:        order.Total,
		OrderDate:    order.OrderDate,
		Buyer:        buyerName(order),
	}
}

func toStatusMeta(status model.OrderStatus) dto.StatusMetaResponse {
	meta := model.MetaFor(status)
	return dto.StatusMetaResponse{Label: meta.Label, Color: meta.Color, Icon: meta.Icon}
}

func buyerName(order model.Order) string {
	if order.BuyerDetails == nil {
		return ""
	}
	return strings.TrimSpace(order.BuyerDetails.Name + " " + order.BuyerDetails.Surname)
}
