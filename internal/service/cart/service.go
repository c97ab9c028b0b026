package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"cvs-storefront/internal/domain"
	cartrepo "cvs-storefront/internal/repository/cart"
)

type Service struct {
	repo     cartRepo
	products productRepo
	ttl      time.Duration
	logger   *log.Logger
}

type cartRepo interface {
	GetBySession(ctx context.Context, sessionID string) (*domain.Cart, error)
	AddLine(ctx context.Context, sessionID string, product domain.Product, quantity int) error
	SetLineQuantity(ctx context.Context, sessionID, productID string, quantity int) error
	Clear(ctx context.Context, sessionID string) error
	DeleteIdle(ctx context.Context, cutoff time.Time) (int64, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartrepo.Repository, products productRepo, ttl time.Duration, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, products: products, ttl: ttl, logger: logger}
}

// AddItem merges quantity into an existing line for the product or starts
// a new one. The product must currently be sellable.
func (s *Service) AddItem(ctx context.Context, sessionID, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductUnavailable, productID)
		}
		return nil, err
	}
	if !product.Sellable() {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductUnavailable, product.Name)
	}
	if err := s.repo.AddLine(ctx, sessionID, *product, quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, sessionID)
}

// UpdateItem replaces the line's quantity; zero removes the line.
func (s *Service) UpdateItem(ctx context.Context, sessionID, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if err := s.repo.SetLineQuantity(ctx, sessionID, productID, quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, sessionID)
}

// Get returns the session's cart. Totals reflect current catalog prices;
// nothing is frozen until order placement. A session with no cart yet gets
// an empty one.
func (s *Service) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.repo.GetBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.Cart{SessionID: sessionID, Lines: []domain.CartLine{}}, nil
		}
		return nil, err
	}
	if cart.Lines == nil {
		cart.Lines = []domain.CartLine{}
	}
	return cart, nil
}

// Clear empties the cart; calling it again is a no-op.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.repo.Clear(ctx, sessionID)
}

// Sweep removes carts idle longer than the configured TTL. Expiry is a
// documented policy (see config), not incidental data loss.
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.ttl)
	n, err := s.repo.DeleteIdle(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Printf("cart sweep: removed %d idle carts (cutoff %s)", n, cutoff.UTC().Format(time.RFC3339))
	}
	return n, nil
}
