package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	Category    string
	Name        string
	Description string
	PriceCents  int64
	Stock       int
}

type storeSeed struct {
	Code     string
	Name     string
	Address  string
	City     string
	District string
	Phone    string
}

// Apply inserts basic seed data for manual testing. It is idempotent via
// ON CONFLICT and existence checks.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	categories := map[string]string{
		"Tea":    "Loose leaf and bagged teas",
		"Snacks": "Sweet and savoury snacks",
	}
	categoryIDs := make(map[string]string, len(categories))
	for name, description := range categories {
		id, err := ensureCategory(ctx, pool, name, description)
		if err != nil {
			return fmt.Errorf("ensure category %s: %w", name, err)
		}
		categoryIDs[name] = id
	}

	products := []productSeed{
		{Category: "Tea", Name: "Alishan Oolong", Description: "High mountain oolong, 150g", PriceCents: 45000, Stock: 40},
		{Category: "Tea", Name: "Sun Moon Lake Black Tea", Description: "Ruby 18, 75g", PriceCents: 32000, Stock: 25},
		{Category: "Snacks", Name: "Pineapple Cake Box", Description: "Box of ten", PriceCents: 28000, Stock: 60},
		{Category: "Snacks", Name: "Nougat", Description: "Milk nougat, 250g", PriceCents: 18000, Stock: 80},
	}
	for _, p := range products {
		if err := ensureProduct(ctx, pool, categoryIDs[p.Category], p); err != nil {
			return fmt.Errorf("ensure product %s: %w", p.Name, err)
		}
	}

	stores := []storeSeed{
		{Code: "991182", Name: "Xinyi Store", Address: "No. 7, Sec. 5, Xinyi Rd", City: "Taipei", District: "Xinyi", Phone: "02-2345-6789"},
		{Code: "150599", Name: "Daan Park Store", Address: "No. 12, Sec. 2, Jianguo S Rd", City: "Taipei", District: "Daan", Phone: "02-2700-1234"},
		{Code: "238761", Name: "Banqiao Station Store", Address: "No. 7, Xianmin Blvd", City: "New Taipei", District: "Banqiao"},
	}
	for _, st := range stores {
		if err := upsertStore(ctx, pool, st); err != nil {
			return fmt.Errorf("upsert store %s: %w", st.Code, err)
		}
	}

	if err := ensureAdmin(ctx, pool, "admin", "admin@example.com", "changeme123"); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	return nil
}

func ensureCategory(ctx context.Context, pool *pgxpool.Pool, name, description string) (string, error) {
	const q = `
INSERT INTO categories (name, description)
VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, name, description).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func ensureProduct(ctx context.Context, pool *pgxpool.Pool, categoryID string, p productSeed) error {
	// Products have no natural key, so guard on (category, name).
	const q = `
INSERT INTO products (category_id, name, description, price_cents, stock)
SELECT $1, $2, $3, $4, $5
WHERE NOT EXISTS (
    SELECT 1 FROM products WHERE category_id = $1 AND name = $2
)
`
	_, err := pool.Exec(ctx, q, categoryID, p.Name, p.Description, p.PriceCents, p.Stock)
	return err
}

func upsertStore(ctx context.Context, pool *pgxpool.Pool, st storeSeed) error {
	const q = `
INSERT INTO partner_stores (store_code, store_name, address, city, district, phone)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (store_code) DO UPDATE
SET store_name = EXCLUDED.store_name,
    address = EXCLUDED.address,
    city = EXCLUDED.city,
    district = EXCLUDED.district,
    phone = EXCLUDED.phone
`
	_, err := pool.Exec(ctx, q, st.Code, st.Name, st.Address, st.City, st.District, st.Phone)
	return err
}

func ensureAdmin(ctx context.Context, pool *pgxpool.Pool, username, email, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO admins (username, email, password_hash)
VALUES ($1, $2, $3)
ON CONFLICT (username) DO NOTHING
`
	_, err = pool.Exec(ctx, q, username, email, string(hashed))
	return err
}
