package model

import "time"

// StatusEvent is the wire payload of an order-status broadcast. The status
// fields stay untyped-string-compatible: an unknown NewStatus is applied
// as-is and rendered through the metadata fallback.
type StatusEvent struct {
	OrderID        int64       `json:"orderId"`
	NewStatus      OrderStatus `json:"newStatus"`
	PreviousStatus OrderStatus `json:"previousStatus"`
	UpdatedBy      string      `json:"updatedBy"`
	At             time.Time   `json:"at"`
}
