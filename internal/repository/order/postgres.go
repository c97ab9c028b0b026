package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"

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

func (r *postgresRepo) Place(ctx context.Context, in PlaceInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock the cart row so a concurrent placement for the same session
	// queues here and then observes the emptied cart.
	var cartID string
	err = tx.QueryRow(ctx, `
SELECT id::text FROM carts WHERE session_id = $1 FOR UPDATE
`, in.SessionID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEmptyCart
		}
		return nil, err
	}

	type pendingLine struct {
		productID string
		name      string
		quantity  int
		price     int64
	}
	var pending []pendingLine

	// Products are locked too: the stock decrement below must not race a
	// catalog edit or another checkout.
	rows, err := tx.Query(ctx, `
SELECT l.product_id::text, l.quantity, p.name, p.price_cents, p.stock, p.active
FROM cart_lines l
JOIN products p ON p.id = l.product_id
WHERE l.cart_id = $1
ORDER BY l.added_at ASC
FOR UPDATE OF p
`, cartID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var pl pendingLine
		var stock int
		var active bool
		if err := rows.Scan(&pl.productID, &pl.quantity, &pl.name, &pl.price, &stock, &active); err != nil {
			rows.Close()
			return nil, err
		}
		if pl.quantity < 1 {
			rows.Close()
			return nil, domain.ErrInvalidQuantity
		}
		if !active || stock < pl.quantity {
			rows.Close()
			return nil, fmt.Errorf("%w: %s", domain.ErrProductUnavailable, pl.name)
		}
		pending = append(pending, pl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if len(pending) == 0 {
		return nil, domain.ErrEmptyCart
	}

	var total int64
	for _, pl := range pending {
		total += pl.price * int64(pl.quantity)
	}

	order := domain.Order{
		OrderNumber:   in.OrderNumber,
		Contact:       in.Contact,
		Pickup:        in.Pickup,
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
		TotalCents:    total,
		Status:        domain.OrderStatusPlaced,
		Version:       1,
	}
	err = tx.QueryRow(ctx, `
INSERT INTO orders (order_number, first_name, last_name, email, phone, address, city, postal_code, pickup, payment_method, notes, total_cents, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id::text, created_at
`, in.OrderNumber,
		in.Contact.FirstName, in.Contact.LastName, in.Contact.Email, in.Contact.Phone,
		in.Contact.Address, in.Contact.City, in.Contact.PostalCode,
		in.Pickup, in.PaymentMethod, in.Notes, total, domain.OrderStatusPlaced.String(),
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return nil, err
	}

	for _, pl := range pending {
		var line domain.OrderLine
		err = tx.QueryRow(ctx, `
INSERT INTO order_lines (order_id, product_id, product_name, quantity, unit_price_cents)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text
`, order.ID, pl.productID, pl.name, pl.quantity, pl.price).Scan(&line.ID)
		if err != nil {
			return nil, err
		}
		line.OrderID = order.ID
		line.ProductID = pl.productID
		line.ProductName = pl.name
		line.Quantity = pl.quantity
		line.UnitPriceCents = pl.price
		line.TotalCents = pl.price * int64(pl.quantity)
		order.Lines = append(order.Lines, line)

		cmd, err := tx.Exec(ctx, `
UPDATE products SET stock = stock - $2, updated_at = now()
WHERE id = $1 AND stock >= $2
`, pl.productID, pl.quantity)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductUnavailable, pl.name)
		}
	}

	var event domain.OrderStatusEvent
	event.OrderID = order.ID
	event.To = domain.OrderStatusPlaced
	event.Actor = in.Actor
	err = tx.QueryRow(ctx, `
INSERT INTO order_status_events (order_id, from_status, to_status, actor)
VALUES ($1, NULL, $2, $3)
RETURNING id::text, created_at
`, order.ID, domain.OrderStatusPlaced.String(), in.Actor).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return nil, err
	}
	order.StatusHistory = append(order.StatusHistory, event)

	if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `UPDATE carts SET last_touched = now() WHERE id = $1`, cartID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: placed order=%s number=%s total_cents=%d lines=%d", order.ID, order.OrderNumber, total, len(order.Lines))
	return &order, nil
}

const orderColumns = `id::text, order_number, first_name, last_name, email, phone, address, city, postal_code,
	pickup, payment_method, notes, total_cents, status, version, created_at`

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	return r.fetchOrder(ctx, row)
}

func (r *postgresRepo) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_number = $1`, number)
	return r.fetchOrder(ctx, row)
}

func (r *postgresRepo) fetchOrder(ctx context.Context, row pgx.Row) (*domain.Order, error) {
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	lines, err := r.loadLines(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines

	const eventsQuery = `
SELECT id::text, order_id::text, from_status, to_status, actor, created_at
FROM order_status_events
WHERE order_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, eventsQuery, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var e domain.OrderStatusEvent
		var from *string
		if err := rows.Scan(&e.ID, &e.OrderID, &from, &e.To, &e.Actor, &e.CreatedAt); err != nil {
			return nil, err
		}
		if from != nil {
			s := domain.OrderStatus(*from)
			e.From = &s
		}
		o.StatusHistory = append(o.StatusHistory, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) List(ctx context.Context, f Filter) ([]domain.Order, int, error) {
	where, args := buildWhere(f)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + orderColumns + ` FROM orders` + where + ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		q += ` LIMIT ` + strconv.Itoa(f.Limit) + ` OFFSET ` + strconv.Itoa(f.Offset)
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *postgresRepo) ListWithLines(ctx context.Context, f Filter) ([]domain.Order, error) {
	f.Limit = 0
	orders, _, err := r.List(ctx, f)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		lines, err := r.loadLines(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Lines = lines
	}
	return orders, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, expectedVersion int, actor string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
UPDATE orders SET status = $2, version = version + 1
WHERE id = $1 AND version = $3
`, id, to.String(), expectedVersion)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrConcurrentModification
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO order_status_events (order_id, from_status, to_status, actor)
VALUES ($1, $2, $3, $4)
`, id, from.String(), to.String(), actor); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	r.logger.Printf("order repo: transition order=%s %s->%s actor=%s", id, from, to, actor)
	return nil
}

func (r *postgresRepo) loadLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	const q = `
SELECT id::text, order_id::text, product_id::text, product_name, quantity, unit_price_cents
FROM order_lines
WHERE order_id = $1
ORDER BY id
`
	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPriceCents); err != nil {
			return nil, err
		}
		l.TotalCents = l.UnitPriceCents * int64(l.Quantity)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func buildWhere(f Filter) (string, []interface{}) {
	where := ""
	var args []interface{}
	add := func(cond string) {
		if where == "" {
			where = " WHERE " + cond
		} else {
			where += " AND " + cond
		}
	}
	if f.Status != nil {
		args = append(args, f.Status.String())
		add("status = $" + strconv.Itoa(len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		add("created_at >= $" + strconv.Itoa(len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		add("created_at <= $" + strconv.Itoa(len(args)))
	}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		n := strconv.Itoa(len(args))
		add("(order_number ILIKE $" + n + " OR first_name ILIKE $" + n + " OR last_name ILIKE $" + n + " OR email ILIKE $" + n + ")")
	}
	return where, args
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber,
		&o.Contact.FirstName, &o.Contact.LastName, &o.Contact.Email, &o.Contact.Phone,
		&o.Contact.Address, &o.Contact.City, &o.Contact.PostalCode,
		&o.Pickup, &o.PaymentMethod, &o.Notes,
		&o.TotalCents, &o.Status, &o.Version, &o.CreatedAt,
	)
	return o, err
}
