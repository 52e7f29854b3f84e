package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatusMetaResponse carries the presentation hints for one status badge.
type StatusMetaResponse struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// OrderResponse is one row of the dashboard order list.
type OrderResponse struct {
	ID           int64              `json:"id"`
	Status       string             `json:"status"`
	StatusMeta   StatusMetaResponse `json:"statusMeta"`
	NextStatuses []string           `json:"nextStatuses"`
	Total        decimal.Decimal    `json:"total"`
	OrderDate    time.Time          `json:"orderDate"`
	Buyer        string             `json:"buyer,omitempty"`
}

// OrdersPageResponse is one page of the filtered order list.
type OrdersPageResponse struct {
	Orders  []OrderResponse `json:"orders"`
	Page    int             `json:"page"`
	Pages   int             `json:"pages"`
	Matched int             `json:"matched"`
}

// ChangeStatusRequest is the payload of a status transition request.
type ChangeStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Comment string `json:"comment"`
}

// TimelineEntryResponse is one entry of an order's status audit trail.
type TimelineEntryResponse struct {
	Status     string             `json:"status"`
	StatusMeta StatusMetaResponse `json:"statusMeta"`
	Timestamp  time.Time          `json:"timestamp"`
	UpdatedBy  string             `json:"updatedBy,omitempty"`
	Comment    string             `json:"comment,omitempty"`
}
