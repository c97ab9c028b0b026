package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidQuantity rejects non-positive line quantities.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrProductUnavailable marks a line whose product is missing, inactive
	// or out of stock. Callers wrap it with the offending product name so
	// the customer can fix that line instead of retrying blindly.
	ErrProductUnavailable = errors.New("product unavailable")
	// ErrEmptyCart rejects order placement against a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrMissingPickupPoint rejects placement before a store was selected.
	ErrMissingPickupPoint = errors.New("pickup point not selected")
	// ErrInvalidContactInfo rejects malformed or incomplete contact fields.
	ErrInvalidContactInfo = errors.New("invalid contact info")
	// ErrInvalidPartnerPayload rejects a structurally invalid store-locator
	// callback. The checkout draft stays intact.
	ErrInvalidPartnerPayload = errors.New("invalid partner payload")
	// ErrInvalidTransition rejects an order status change not allowed by
	// the transition table.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrConcurrentModification is returned to the losing writer when two
	// actors race a status change on the same order.
	ErrConcurrentModification = errors.New("order modified concurrently")
)
