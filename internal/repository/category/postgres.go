package category

import (
	"context"
	"errors"

	"cvs-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Category, error) {
	const q = `
SELECT c.id::text, c.name, c.description, c.image_url, c.created_at,
       (SELECT COUNT(*) FROM products p WHERE p.category_id = c.id AND p.active) AS item_count
FROM categories c
ORDER BY c.name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.CreatedAt, &c.ItemCount); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	const q = `
SELECT c.id::text, c.name, c.description, c.image_url, c.created_at,
       (SELECT COUNT(*) FROM products p WHERE p.category_id = c.id AND p.active) AS item_count
FROM categories c
WHERE c.id = $1
`
	var c domain.Category
	err := r.pool.QueryRow(ctx, q, id).Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.CreatedAt, &c.ItemCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO categories (name, description, image_url)
VALUES ($1, $2, $3)
RETURNING id::text, created_at
`
	if err := r.pool.QueryRow(ctx, q, c.Name, c.Description, c.ImageURL).Scan(&c.ID, &c.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) Update(ctx context.Context, c domain.Category) error {
	const q = `
UPDATE categories
SET name = $2, description = $3, image_url = $4
WHERE id = $1
`
	cmd, err := r.pool.Exec(ctx, q, c.ID, c.Name, c.Description, c.ImageURL)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
