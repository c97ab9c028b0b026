package store

import (
	"context"
	"errors"

	"cvs-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.PartnerStore, error) {
	const q = `
SELECT id::text, store_code, store_name, address, city, district, phone, active
FROM partner_stores
WHERE active
ORDER BY city, district, store_name
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PartnerStore
	for rows.Next() {
		var s domain.PartnerStore
		if err := rows.Scan(&s.ID, &s.StoreCode, &s.StoreName, &s.Address, &s.City, &s.District, &s.Phone, &s.Active); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.PartnerStore, error) {
	const q = `
SELECT id::text, store_code, store_name, address, city, district, phone, active
FROM partner_stores
WHERE id = $1
`
	var s domain.PartnerStore
	err := r.pool.QueryRow(ctx, q, id).Scan(&s.ID, &s.StoreCode, &s.StoreName, &s.Address, &s.City, &s.District, &s.Phone, &s.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
