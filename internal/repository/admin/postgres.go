package admin

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

func (r *postgresRepo) Create(ctx context.Context, a domain.Admin) (*domain.Admin, error) {
	const q = `
INSERT INTO admins (username, email, password_hash)
VALUES ($1, $2, $3)
RETURNING id::text, created_at
`
	if err := r.pool.QueryRow(ctx, q, a.Username, a.Email, a.PasswordHash).Scan(&a.ID, &a.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return &a, nil
}

func (r *postgresRepo) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	return r.get(ctx, `SELECT id::text, username, email, password_hash, created_at FROM admins WHERE username = $1`, username)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	return r.get(ctx, `SELECT id::text, username, email, password_hash, created_at FROM admins WHERE id = $1`, id)
}

func (r *postgresRepo) get(ctx context.Context, q, arg string) (*domain.Admin, error) {
	var a domain.Admin
	err := r.pool.QueryRow(ctx, q, arg).Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
