package order

import (
	"context"
	"time"

	"cvs-storefront/internal/domain"
)

// PlaceInput carries the validated checkout data for atomic placement.
// Line items, prices and stock are read inside the placement transaction,
// never from here.
type PlaceInput struct {
	SessionID     string
	OrderNumber   string
	Contact       domain.ContactInfo
	Pickup        domain.PickupPoint
	PaymentMethod string
	Notes         string
	Actor         string
}

// Filter narrows order listings and searches.
type Filter struct {
	Status *domain.OrderStatus
	From   *time.Time
	To     *time.Time
	// Query free-text matches order number, contact name and email.
	Query  string
	Limit  int
	Offset int
}

type Repository interface {
	// Place converts the session's cart into an order in one transaction:
	// the cart row is locked, every line is re-validated against the live
	// catalog, prices are frozen, stock is decremented, the first status
	// event is appended and the cart is cleared. All or nothing.
	Place(ctx context.Context, in PlaceInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByNumber(ctx context.Context, number string) (*domain.Order, error)
	// List returns matching orders (newest first) plus the unpaginated
	// total. Lines and history are loaded only by the Get methods.
	List(ctx context.Context, f Filter) ([]domain.Order, int, error)
	// ListWithLines is List without pagination, lines included; feeds the
	// export.
	ListWithLines(ctx context.Context, f Filter) ([]domain.Order, error)
	// UpdateStatus applies a transition with an optimistic version check
	// and appends the status event. ErrConcurrentModification when the
	// expected version lost the race.
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, expectedVersion int, actor string) error
}
