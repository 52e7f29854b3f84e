package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order describes one placed purchase as the server reports it. Everything
// except Status and StatusHistory is immutable once the order exists.
type Order struct {
	ID            int64           `json:"id"`
	User          *UserRef        `json:"user,omitempty"`
	Total         decimal.Decimal `json:"total"`
	Status        OrderStatus     `json:"status"`
	OrderDate     time.Time       `json:"orderDate"`
	Products      []OrderItem     `json:"products,omitempty"`
	BuyerDetails  *BuyerDetails   `json:"buyerDetails,omitempty"`
	StatusHistory []StatusUpdate  `json:"statusHistory,omitempty"`
}

// OrderItem is one purchased line item.
type OrderItem struct {
	ID          int64           `json:"id,omitempty"`
	ProductID   int64           `json:"productId"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	ProductName string          `json:"productName,omitempty"`
}

// BuyerDetails is the contact/delivery snapshot captured at checkout.
type BuyerDetails struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Email   string `json:"email,omitempty"`
}

// StatusUpdate is one entry of an order's audit trail.
type StatusUpdate struct {
	Status    OrderStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	UpdatedBy string      `json:"updatedBy,omitempty"`
	Comment   string      `json:"comment,omitempty"`
}

// Clone returns a copy whose Products and StatusHistory slices are detached
// from the receiver's backing arrays, so appends on either side stay local.
func (o Order) Clone() Order {
	out := o
	if o.Products != nil {
		out.Products = append([]OrderItem(nil), o.Products...)
	}
	if o.StatusHistory != nil {
		out.StatusHistory = append([]StatusUpdate(nil), o.StatusHistory...)
	}
	return out
}

// ApplyStatus sets the current status and appends the matching audit entry,
// keeping the invariant that the trailing history entry equals Status.
func (o *Order) ApplyStatus(update StatusUpdate) {
	o.Status = update.Status
	o.StatusHistory = append(o.StatusHistory, update)
}

// OwnerID extracts the owning user's identifier if the order carries one.
func (o *Order) OwnerID() (int64, bool) {
	if o.User == nil || o.User.ID == 0 {
		return 0, false
	}
	return o.User.ID, true
}
