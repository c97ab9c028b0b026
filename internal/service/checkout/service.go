package checkout

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"log"
	"net/url"
	"strings"
	"time"

	"cvs-storefront/internal/domain"
	checkoutrepo "cvs-storefront/internal/repository/checkout"
	orderrepo "cvs-storefront/internal/repository/order"
	"github.com/google/uuid"
)

// Service drives the two-phase checkout: the pickup-point round trip to
// the partner store locator and the final cart-to-order conversion.
type Service struct {
	drafts draftRepo
	orders ordersRepo

	partnerMapURL  string
	publicBaseURL  string
	callbackWindow time.Duration
	logger         *log.Logger
	now            func() time.Time
}

type draftRepo interface {
	Save(ctx context.Context, d domain.CheckoutDraft) (*domain.CheckoutDraft, error)
	GetByID(ctx context.Context, id string) (*domain.CheckoutDraft, error)
	GetByToken(ctx context.Context, token string) (*domain.CheckoutDraft, error)
	MarkAwaiting(ctx context.Context, id, token string, expiresAt time.Time) error
	AttachPickup(ctx context.Context, id string, p domain.PickupPoint) error
	Revert(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type ordersRepo interface {
	Place(ctx context.Context, in orderrepo.PlaceInput) (*domain.Order, error)
}

type Options struct {
	PartnerMapURL  string
	PublicBaseURL  string
	CallbackWindow time.Duration
}

func New(drafts checkoutrepo.Repository, orders orderrepo.Repository, opts Options, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		drafts:         drafts,
		orders:         orders,
		partnerMapURL:  opts.PartnerMapURL,
		publicBaseURL:  opts.PublicBaseURL,
		callbackWindow: opts.CallbackWindow,
		logger:         logger,
		now:            time.Now,
	}
}

// BeginInput is the checkout form at the moment the customer leaves for
// the store locator. Everything is persisted so the round trip loses
// nothing.
type BeginInput struct {
	DraftID       string             `json:"draftId"`
	Contact       domain.ContactInfo `json:"contact"`
	PaymentMethod string             `json:"paymentMethod"`
	Notes         string             `json:"notes"`
}

// BeginSelection saves the draft and arms the partner round trip. The
// returned URL is where the customer's browser goes; the partner will
// post the chosen store back to the callback carrying the token.
func (s *Service) BeginSelection(ctx context.Context, sessionID string, in BeginInput) (*domain.CheckoutDraft, string, error) {
	draftID := strings.TrimSpace(in.DraftID)
	if draftID == "" {
		draftID = uuid.NewString()
	}

	// Save enforces ownership: a draft id belonging to another session
	// comes back as ErrNotFound with the row untouched.
	draft, err := s.drafts.Save(ctx, domain.CheckoutDraft{
		ID:            draftID,
		SessionID:     sessionID,
		Contact:       in.Contact,
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := randomToken()
	if err != nil {
		return nil, "", err
	}
	expiresAt := s.now().Add(s.callbackWindow)
	if err := s.drafts.MarkAwaiting(ctx, draft.ID, token, expiresAt); err != nil {
		return nil, "", err
	}
	draft.State = domain.DraftAwaitingCallback
	draft.CallbackToken = token
	draft.PendingExpiresAt = &expiresAt

	s.logger.Printf("checkout: selection started draft=%s window=%s", draft.ID, s.callbackWindow)
	return draft, s.redirectURL(token), nil
}

// redirectURL builds the partner-bound target: the locator page plus our
// callback address and the correlation token it must echo back.
func (s *Service) redirectURL(token string) string {
	callback := strings.TrimRight(s.publicBaseURL, "/") + "/cvs/callback"
	q := url.Values{}
	q.Set("url", callback)
	q.Set("servicetype", "1")
	q.Set("tempvar", token)
	return s.partnerMapURL + "?" + q.Encode()
}

// CompleteSelection handles the partner callback. The payload is partner-
// defined; only the structural contract (store id, name, address present)
// is enforced. Re-delivery of the same payload overwrites in place, so a
// draft never holds more than one pickup point.
func (s *Service) CompleteSelection(ctx context.Context, token string, payload map[string]string) (*domain.CheckoutDraft, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrNotFound
	}
	draft, err := s.drafts.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if draft.PendingExpired(s.now()) {
		if err := s.drafts.Revert(ctx, draft.ID); err != nil {
			return nil, err
		}
		return nil, domain.ErrNotFound
	}

	storeID := strings.TrimSpace(payload["storeid"])
	storeName := strings.TrimSpace(payload["storename"])
	address := strings.TrimSpace(payload["storeaddress"])
	if storeID == "" || storeName == "" || address == "" {
		// Malformed callback: back to no-selection, typed fields intact.
		if err := s.drafts.Revert(ctx, draft.ID); err != nil {
			return nil, err
		}
		return nil, domain.ErrInvalidPartnerPayload
	}

	pickup := domain.PickupPoint{
		StoreID:   storeID,
		StoreName: storeName,
		Address:   address,
		Raw:       payload,
	}
	if err := s.drafts.AttachPickup(ctx, draft.ID, pickup); err != nil {
		return nil, err
	}
	draft.State = domain.DraftSelected
	draft.Pickup = &pickup
	draft.PendingExpiresAt = nil

	s.logger.Printf("checkout: store selected draft=%s store=%s", draft.ID, storeID)
	return draft, nil
}

// GetDraft returns the session's draft, lazily expiring an overdue
// pending selection back to no-selection. Typed fields always survive.
func (s *Service) GetDraft(ctx context.Context, sessionID, draftID string) (*domain.CheckoutDraft, error) {
	draft, err := s.drafts.GetByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.SessionID != sessionID {
		return nil, domain.ErrNotFound
	}
	if draft.PendingExpired(s.now()) {
		if err := s.drafts.Revert(ctx, draft.ID); err != nil {
			return nil, err
		}
		draft.State = domain.DraftNoSelection
		draft.CallbackToken = ""
		draft.PendingExpiresAt = nil
	}
	return draft, nil
}

// PlaceOrder runs the assembler: validate the draft, then hand the atomic
// cart-to-order conversion to the order repository. On success the draft
// is gone and the cart is empty.
func (s *Service) PlaceOrder(ctx context.Context, sessionID, draftID string) (*domain.Order, error) {
	draft, err := s.GetDraft(ctx, sessionID, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Pickup == nil {
		return nil, domain.ErrMissingPickupPoint
	}
	if err := validateContact(draft.Contact); err != nil {
		return nil, err
	}

	order, err := s.orders.Place(ctx, orderrepo.PlaceInput{
		SessionID:     sessionID,
		OrderNumber:   uuid.NewString(),
		Contact:       draft.Contact,
		Pickup:        *draft.Pickup,
		PaymentMethod: draft.PaymentMethod,
		Notes:         draft.Notes,
		Actor:         "customer",
	})
	if err != nil {
		return nil, err
	}

	if err := s.drafts.Delete(ctx, draft.ID); err != nil {
		// The order exists; a stale draft is harmless.
		s.logger.Printf("checkout: delete draft %s after order %s: %v", draft.ID, order.ID, err)
	}
	s.logger.Printf("checkout: order placed number=%s total_cents=%d", order.OrderNumber, order.TotalCents)
	return order, nil
}

func validateContact(c domain.ContactInfo) error {
	if strings.TrimSpace(c.FirstName) == "" ||
		strings.TrimSpace(c.LastName) == "" ||
		strings.TrimSpace(c.Phone) == "" {
		return domain.ErrInvalidContactInfo
	}
	email := strings.TrimSpace(c.Email)
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return domain.ErrInvalidContactInfo
	}
	return nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
