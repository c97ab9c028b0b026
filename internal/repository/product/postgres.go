package product

import (
	"context"
	"errors"
	"io"
	"log"

	"cvs-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const productColumns = `id::text, category_id::text, name, description, price_cents, stock, active, image_url, created_at, updated_at`

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []interface{}{}
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		q += ` AND category_id = $1`
	}
	if !f.IncludeInactive {
		q += ` AND active`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: list category=%s error=%v", f.CategoryID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (category_id, name, description, price_cents, stock, active, image_url)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id::text, created_at, updated_at
`
	if err := r.pool.QueryRow(ctx, q, p.CategoryID, p.Name, p.Description, p.PriceCents, p.Stock, p.Active, p.ImageURL).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product) error {
	const q = `
UPDATE products
SET category_id = $2, name = $3, description = $4, price_cents = $5,
    stock = $6, active = $7, image_url = $8, updated_at = now()
WHERE id = $1
`
	cmd, err := r.pool.Exec(ctx, q, p.ID, p.CategoryID, p.Name, p.Description, p.PriceCents, p.Stock, p.Active, p.ImageURL)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_id = $1`, categoryID).Scan(&count)
	return count, err
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.Active, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
