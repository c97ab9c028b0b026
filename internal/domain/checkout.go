package domain

import "time"

// DraftState tracks the pickup-point selection round trip for one
// checkout attempt.
type DraftState string

const (
	// DraftNoSelection means no store search is in flight.
	DraftNoSelection DraftState = "no_selection"
	// DraftAwaitingCallback means the customer was sent to the partner
	// locator and the callback has not arrived yet.
	DraftAwaitingCallback DraftState = "awaiting_callback"
	// DraftSelected means a pickup point is attached to the draft.
	DraftSelected DraftState = "selected"
)

// ContactInfo is the customer-entered checkout form data. It is preserved
// on the draft across the partner redirect so nothing has to be re-typed.
type ContactInfo struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

// PickupPoint is the store captured from the partner locator callback.
// Raw keeps the full partner payload for audit.
type PickupPoint struct {
	StoreID   string            `json:"storeId"`
	StoreName string            `json:"storeName"`
	Address   string            `json:"address"`
	Raw       map[string]string `json:"raw,omitempty"`
}

// CheckoutDraft is the persisted suspend/resume point of the checkout
// flow. The process serving the partner callback may not be the one that
// started the selection, so nothing lives in memory.
type CheckoutDraft struct {
	ID               string       `json:"id"`
	SessionID        string       `json:"-"`
	Contact          ContactInfo  `json:"contact"`
	PaymentMethod    string       `json:"paymentMethod,omitempty"`
	Notes            string       `json:"notes,omitempty"`
	State            DraftState   `json:"state"`
	CallbackToken    string       `json:"-"`
	PendingExpiresAt *time.Time   `json:"-"`
	Pickup           *PickupPoint `json:"pickup,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// PendingExpired reports whether an in-flight selection has outlived its
// callback window at the given instant.
func (d CheckoutDraft) PendingExpired(now time.Time) bool {
	return d.State == DraftAwaitingCallback &&
		d.PendingExpiresAt != nil && now.After(*d.PendingExpiresAt)
}
