package cart

import (
	"context"
	"errors"
	"time"

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

func (r *postgresRepo) GetBySession(ctx context.Context, sessionID string) (*domain.Cart, error) {
	const cartQuery = `
SELECT id::text, session_id, last_touched, created_at
FROM carts
WHERE session_id = $1
`
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, cartQuery, sessionID).Scan(&cart.ID, &cart.SessionID, &cart.LastTouched, &cart.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	// Display prices follow the live catalog until placement; the stored
	// snapshot only matters as the add-time record.
	const linesQuery = `
SELECT l.id::text, l.cart_id::text, l.product_id::text, p.name, l.quantity, p.price_cents, l.added_at
FROM cart_lines l
JOIN products p ON p.id = l.product_id
WHERE l.cart_id = $1
ORDER BY l.added_at ASC
`
	rows, err := r.pool.Query(ctx, linesQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(&line.ID, &line.CartID, &line.ProductID, &line.ProductName, &line.Quantity, &line.UnitPriceCents, &line.AddedAt); err != nil {
			return nil, err
		}
		line.TotalCents = line.UnitPriceCents * int64(line.Quantity)
		cart.TotalCents += line.TotalCents
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *postgresRepo) AddLine(ctx context.Context, sessionID string, product domain.Product, quantity int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var cartID string
	err = tx.QueryRow(ctx, `
INSERT INTO carts (session_id)
VALUES ($1)
ON CONFLICT (session_id) DO UPDATE SET last_touched = now()
RETURNING id::text
`, sessionID).Scan(&cartID)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO cart_lines (cart_id, product_id, quantity, unit_price_cents)
VALUES ($1, $2, $3, $4)
ON CONFLICT (cart_id, product_id) DO UPDATE
SET quantity = cart_lines.quantity + EXCLUDED.quantity
`, cartID, product.ID, quantity, product.PriceCents); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) SetLineQuantity(ctx context.Context, sessionID, productID string, quantity int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var cartID string
	err = tx.QueryRow(ctx, `
UPDATE carts SET last_touched = now()
WHERE session_id = $1
RETURNING id::text
`, sessionID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	var cmd pgconn.CommandTag
	if quantity == 0 {
		// Removing a line that is already gone is a success, not an
		// error; removal by zero is idempotent.
		if _, err = tx.Exec(ctx, `
DELETE FROM cart_lines
WHERE cart_id = $1 AND product_id = $2
`, cartID, productID); err != nil {
			return err
		}
	} else {
		cmd, err = tx.Exec(ctx, `
UPDATE cart_lines SET quantity = $3
WHERE cart_id = $1 AND product_id = $2
`, cartID, productID, quantity)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) Clear(ctx context.Context, sessionID string) error {
	_, err := r.pool.Exec(ctx, `
DELETE FROM cart_lines
WHERE cart_id IN (SELECT id FROM carts WHERE session_id = $1)
`, sessionID)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `UPDATE carts SET last_touched = now() WHERE session_id = $1`, sessionID)
	return err
}

func (r *postgresRepo) DeleteIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE last_touched < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
