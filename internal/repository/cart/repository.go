package cart

import (
	"context"
	"time"

	"cvs-storefront/internal/domain"
)

type Repository interface {
	// GetBySession returns the session's cart with lines priced from the
	// current catalog. ErrNotFound when the session never added anything.
	GetBySession(ctx context.Context, sessionID string) (*domain.Cart, error)
	// AddLine creates the cart on first use and merges quantity into an
	// existing line for the same product.
	AddLine(ctx context.Context, sessionID string, product domain.Product, quantity int) error
	// SetLineQuantity replaces a line's quantity; zero removes the line,
	// and removing an absent line is a no-op success.
	SetLineQuantity(ctx context.Context, sessionID, productID string, quantity int) error
	// Clear drops all lines; idempotent.
	Clear(ctx context.Context, sessionID string) error
	// DeleteIdle removes carts untouched since before cutoff.
	DeleteIdle(ctx context.Context, cutoff time.Time) (int64, error)
}
