package store

import (
	"context"

	"cvs-storefront/internal/domain"
)

type Repository interface {
	// List returns active partner stores ordered by city, district, name.
	List(ctx context.Context) ([]domain.PartnerStore, error)
	GetByID(ctx context.Context, id string) (*domain.PartnerStore, error)
}
