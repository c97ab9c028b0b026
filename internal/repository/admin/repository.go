package admin

import (
	"context"

	"cvs-storefront/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, a domain.Admin) (*domain.Admin, error)
	GetByUsername(ctx context.Context, username string) (*domain.Admin, error)
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
}
