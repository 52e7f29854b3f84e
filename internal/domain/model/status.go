package model

// OrderStatus identifies a stage in the order lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusAccepted   OrderStatus = "ACCEPTED"
	OrderStatusInDelivery OrderStatus = "IN_DELIVERY"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCanceled   OrderStatus = "CANCELED"
)

// StatusMeta carries presentation attributes for a status.
type StatusMeta struct {
	Label       string
	Color       string
	Icon        string
	Description string
}

var statusMeta = map[OrderStatus]StatusMeta{
	OrderStatusPending:    {Label: "PENDING", Color: "#ff9800", Icon: "schedule", Description: "Order received, awaiting confirmation"},
	OrderStatusAccepted:   {Label: "ACCEPTED", Color: "#2196f3", Icon: "check_circle", Description: "Order confirmed"},
	OrderStatusInDelivery: {Label: "IN_DELIVERY", Color: "#ff5722", Icon: "local_shipping", Description: "Order is on its way"},
	OrderStatusDelivered:  {Label: "DELIVERED", Color: "#4caf50", Icon: "done_all", Description: "Order delivered"},
	OrderStatusCanceled:   {Label: "CANCELED", Color: "#f44336", Icon: "cancel", Description: "Order canceled"},
}

// statusTransitions mirrors the server-side transition rules. DELIVERED is
// terminal; CANCELED may be reactivated back to PENDING.
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusAccepted, OrderStatusCanceled},
	OrderStatusAccepted:   {OrderStatusInDelivery, OrderStatusCanceled},
	OrderStatusInDelivery: {OrderStatusDelivered, OrderStatusCanceled},
	OrderStatusCanceled:   {OrderStatusPending},
	OrderStatusDelivered:  {},
}

// knownStatuses lists the enumerated statuses in lifecycle order.
var knownStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusAccepted,
	OrderStatusInDelivery,
	OrderStatusDelivered,
	OrderStatusCanceled,
}

// IsKnownStatus reports whether the status belongs to the enumerated set.
func IsKnownStatus(s OrderStatus) bool {
	_, ok := statusMeta[s]
	return ok
}

// MetaFor returns display metadata for a status. Unrecognized values from the
// wire get a generic descriptor instead of failing, so rendering never breaks
// on a status this client doesn't know yet.
func MetaFor(s OrderStatus) StatusMeta {
	if meta, ok := statusMeta[s]; ok {
		return meta
	}
	return StatusMeta{Label: string(s), Color: "#666", Icon: "help"}
}

// KnownStatuses returns the enumerated statuses.
func KnownStatuses() []OrderStatus {
	out := make([]OrderStatus, len(knownStatuses))
	copy(out, knownStatuses)
	return out
}

// NextStatuses returns the statuses directly reachable from the given one.
// Unknown statuses have no outgoing edges.
func NextStatuses(from OrderStatus) []OrderStatus {
	next, ok := statusTransitions[from]
	if !ok {
		return nil
	}
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether from→to is an edge of the transition graph.
func CanTransition(from, to OrderStatus) bool {
	for _, candidate := range statusTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}
