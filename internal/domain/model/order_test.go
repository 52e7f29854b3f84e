package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestApplyStatusKeepsHistoryInvariant(t *testing.T) {
	order := Order{ID: 42, Status: OrderStatusPending}

	order.ApplyStatus(StatusUpdate{Status: OrderStatusAccepted, Timestamp: time.Unix(100, 0), UpdatedBy: "admin1"})
	order.ApplyStatus(StatusUpdate{Status: OrderStatusInDelivery, Timestamp: time.Unix(200, 0)})

	if order.Status != OrderStatusInDelivery {
		t.Fatalf("unexpected status %s", order.Status)
	}
	if len(order.StatusHistory) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(order.StatusHistory))
	}
	if last := order.StatusHistory[len(order.StatusHistory)-1]; last.Status != order.Status {
		t.Fatalf("trailing history entry %s differs from current status %s", last.Status, order.Status)
	}
}

func TestOwnerIDHandlesBothUserForms(t *testing.T) {
	bare := Order{User: &UserRef{ID: 7}}
	full := Order{User: &UserRef{ID: 7, Username: "marie", Email: "marie@example.com"}}
	missing := Order{}

	if id, ok := bare.OwnerID(); !ok || id != 7 {
		t.Fatalf("bare reference: got (%d, %v)", id, ok)
	}
	if id, ok := full.OwnerID(); !ok || id != 7 {
		t.Fatalf("full reference: got (%d, %v)", id, ok)
	}
	if _, ok := missing.OwnerID(); ok {
		t.Fatal("order without user must report no owner")
	}

	if bare.User.Complete() {
		t.Fatal("bare reference must not be treated as complete profile")
	}
	if !full.User.Complete() {
		t.Fatal("full reference should be complete")
	}
}

func TestOrderDecodesBareUserReference(t *testing.T) {
	payload := []byte(`{"id":42,"status":"PENDING","total":35.0,"user":{"id":9}}`)

	var order Order
	if err := json.Unmarshal(payload, &order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.User == nil || order.User.ID != 9 {
		t.Fatalf("unexpected user reference: %+v", order.User)
	}
	if !order.Total.Equal(decimal.NewFromFloat(35.0)) {
		t.Fatalf("unexpected total %s", order.Total)
	}
}

func TestStatusEventDecoding(t *testing.T) {
	payload := []byte(`{"orderId":42,"newStatus":"ACCEPTED","previousStatus":"PENDING","updatedBy":"admin1","at":"2025-03-01T10:00:00Z"}`)

	var evt StatusEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if evt.OrderID != 42 || evt.NewStatus != OrderStatusAccepted || evt.PreviousStatus != OrderStatusPending {
		t.Fatalf("unexpected event: %+v", evt)
	}
}
