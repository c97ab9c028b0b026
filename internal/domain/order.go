package domain

import "time"

// OrderStatus is the closed set of order lifecycle states. Transitions go
// through CanTransition; handlers and repositories never compare raw strings.
type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// statusTransitions is the full transition table. Cancellation is allowed
// only before shipping; completed and cancelled are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPlaced:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusCompleted},
	OrderStatusCompleted: nil,
	OrderStatusCancelled: nil,
}

// ParseOrderStatus maps a raw string to a known status.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	s := OrderStatus(raw)
	_, ok := statusTransitions[s]
	return s, ok
}

// CanTransition reports whether moving from one status to another is a
// legal step of the lifecycle.
func (s OrderStatus) CanTransition(target OrderStatus) bool {
	for _, next := range statusTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s OrderStatus) Terminal() bool {
	next, ok := statusTransitions[s]
	return ok && len(next) == 0
}

func (s OrderStatus) String() string { return string(s) }

type Order struct {
	ID            string             `json:"id"`
	OrderNumber   string             `json:"orderNumber"`
	Contact       ContactInfo        `json:"contact"`
	Pickup        PickupPoint        `json:"pickup"`
	PaymentMethod string             `json:"paymentMethod,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	TotalCents    int64              `json:"totalCents"`
	Status        OrderStatus        `json:"status"`
	Version       int                `json:"version"`
	CreatedAt     time.Time          `json:"createdAt"`
	Lines         []OrderLine        `json:"lineItems,omitempty"`
	StatusHistory []OrderStatusEvent `json:"statusHistory,omitempty"`
}

// OrderLine carries the name and unit price frozen at order time; later
// catalog edits never reach back into an order.
type OrderLine struct {
	ID             string `json:"id"`
	OrderID        string `json:"orderId"`
	ProductID      string `json:"productId"`
	ProductName    string `json:"productName"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	TotalCents     int64  `json:"totalCents"`
}

// OrderStatusEvent is one entry of the append-only status audit trail.
// From is nil for the creation event.
type OrderStatusEvent struct {
	ID        string       `json:"id"`
	OrderID   string       `json:"orderId"`
	From      *OrderStatus `json:"from,omitempty"`
	To        OrderStatus  `json:"to"`
	Actor     string       `json:"actor"`
	CreatedAt time.Time    `json:"createdAt"`
}
