package product

import (
	"context"

	"cvs-storefront/internal/domain"
)

// ListFilter narrows product listings. CategoryID empty means all
// categories; IncludeInactive is reserved for the admin console.
type ListFilter struct {
	CategoryID      string
	IncludeInactive bool
}

type Repository interface {
	List(ctx context.Context, f ListFilter) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, id string) error
	CountByCategory(ctx context.Context, categoryID string) (int, error)
}
