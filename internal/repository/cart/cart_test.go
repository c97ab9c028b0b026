package cart

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"cvs-storefront/internal/domain"
	"cvs-storefront/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgres_AddAndGet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	product := insertProduct(ctx, t, pool, "Oolong", 45000, 10)
	repo := NewPostgres(pool)

	if err := repo.AddLine(ctx, "session-1", product, 2); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	// Same product again merges into the existing line.
	if err := repo.AddLine(ctx, "session-1", product, 1); err != nil {
		t.Fatalf("AddLine again: %v", err)
	}

	cart, err := repo.GetBySession(ctx, "session-1")
	if err != nil {
		t.Fatalf("GetBySession: %v", err)
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("expected 1 merged line, got %d", len(cart.Lines))
	}
	if cart.Lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", cart.Lines[0].Quantity)
	}
	if cart.TotalCents != 3*45000 {
		t.Fatalf("expected total %d, got %d", 3*45000, cart.TotalCents)
	}
}

func TestPostgres_DisplayPriceFollowsCatalog(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	product := insertProduct(ctx, t, pool, "Oolong", 45000, 10)
	repo := NewPostgres(pool)
	if err := repo.AddLine(ctx, "session-1", product, 1); err != nil {
		t.Fatalf("AddLine: %v", err)
	}

	if _, err := pool.Exec(ctx, `UPDATE products SET price_cents = 39000 WHERE id = $1`, product.ID); err != nil {
		t.Fatalf("update price: %v", err)
	}

	cart, err := repo.GetBySession(ctx, "session-1")
	if err != nil {
		t.Fatalf("GetBySession: %v", err)
	}
	if cart.Lines[0].UnitPriceCents != 39000 {
		t.Fatalf("expected live price 39000, got %d", cart.Lines[0].UnitPriceCents)
	}
}

func TestPostgres_SetLineQuantityZeroRemoves(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	product := insertProduct(ctx, t, pool, "Oolong", 45000, 10)
	repo := NewPostgres(pool)
	if err := repo.AddLine(ctx, "session-1", product, 2); err != nil {
		t.Fatalf("AddLine: %v", err)
	}

	if err := repo.SetLineQuantity(ctx, "session-1", product.ID, 0); err != nil {
		t.Fatalf("SetLineQuantity: %v", err)
	}

	cart, err := repo.GetBySession(ctx, "session-1")
	if err != nil {
		t.Fatalf("GetBySession: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("expected no lines, got %d", len(cart.Lines))
	}
}

func TestPostgres_SetLineQuantityZeroOnAbsentLine(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	product := insertProduct(ctx, t, pool, "Oolong", 45000, 10)
	other := insertProduct(ctx, t, pool, "Nougat", 18000, 10)
	repo := NewPostgres(pool)
	if err := repo.AddLine(ctx, "session-1", product, 1); err != nil {
		t.Fatalf("AddLine: %v", err)
	}

	// Removing a line the cart never held succeeds; removal by zero is
	// idempotent.
	if err := repo.SetLineQuantity(ctx, "session-1", other.ID, 0); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// Repeating an actual removal is also a no-op.
	if err := repo.SetLineQuantity(ctx, "session-1", product.ID, 0); err != nil {
		t.Fatalf("SetLineQuantity: %v", err)
	}
	if err := repo.SetLineQuantity(ctx, "session-1", product.ID, 0); err != nil {
		t.Fatalf("expected repeat removal to succeed, got %v", err)
	}
}

func TestPostgres_GetBySession_Missing(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool)
	if _, err := repo.GetBySession(ctx, "never-used"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgres_DeleteIdle(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	product := insertProduct(ctx, t, pool, "Oolong", 45000, 10)
	repo := NewPostgres(pool)
	if err := repo.AddLine(ctx, "stale-session", product, 1); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if err := repo.AddLine(ctx, "fresh-session", product, 1); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if _, err := pool.Exec(ctx, `UPDATE carts SET last_touched = now() - interval '10 days' WHERE session_id = 'stale-session'`); err != nil {
		t.Fatalf("backdate cart: %v", err)
	}

	removed, err := repo.DeleteIdle(ctx, time.Now().Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteIdle: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 cart removed, got %d", removed)
	}
	if _, err := repo.GetBySession(ctx, "fresh-session"); err != nil {
		t.Fatalf("fresh cart should survive: %v", err)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE order_status_events, order_lines, orders, checkout_drafts, cart_lines, carts, products, categories, partner_stores, admins RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func insertProduct(ctx context.Context, t *testing.T, pool *pgxpool.Pool, name string, priceCents int64, stock int) domain.Product {
	t.Helper()
	var categoryID string
	err := pool.QueryRow(ctx, `INSERT INTO categories (name) VALUES ('Tea-'||gen_random_uuid()::text) RETURNING id::text`).Scan(&categoryID)
	if err != nil {
		t.Fatalf("insert category: %v", err)
	}
	var p domain.Product
	err = pool.QueryRow(ctx,
		`INSERT INTO products (category_id, name, price_cents, stock) VALUES ($1, $2, $3, $4) RETURNING id::text`,
		categoryID, name, priceCents, stock).Scan(&p.ID)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	p.CategoryID = categoryID
	p.Name = name
	p.PriceCents = priceCents
	p.Stock = stock
	p.Active = true
	return p
}
