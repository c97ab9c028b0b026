package checkout

import (
	"context"
	"time"

	"cvs-storefront/internal/domain"
)

type Repository interface {
	// Save upserts the draft's contact fields keyed by draft id. State,
	// token and pickup are untouched on update so a form edit never
	// clobbers an in-flight selection. Saving against a draft owned by
	// another session returns ErrNotFound and leaves the row unmodified.
	Save(ctx context.Context, d domain.CheckoutDraft) (*domain.CheckoutDraft, error)
	GetByID(ctx context.Context, id string) (*domain.CheckoutDraft, error)
	GetByToken(ctx context.Context, token string) (*domain.CheckoutDraft, error)
	// MarkAwaiting arms the selection round trip with a fresh callback
	// token and deadline.
	MarkAwaiting(ctx context.Context, id, token string, expiresAt time.Time) error
	// AttachPickup stores the pickup point and moves the draft to
	// selected. The callback token stays valid, so a re-delivered
	// callback overwrites in place; last write wins per draft.
	AttachPickup(ctx context.Context, id string, p domain.PickupPoint) error
	// Revert clears the pending-selection marker, keeping all typed
	// fields and any previously captured pickup point.
	Revert(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
