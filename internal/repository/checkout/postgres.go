package checkout

import (
	"context"
	"errors"
	"time"

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

const draftColumns = `id::text, session_id, first_name, last_name, email, phone, address, city, postal_code,
	payment_method, notes, state, callback_token, pending_expires_at, pickup, created_at, updated_at`

func (r *postgresRepo) Save(ctx context.Context, d domain.CheckoutDraft) (*domain.CheckoutDraft, error) {
	// The conflict update is predicated on the owning session, so a save
	// against someone else's draft id updates zero rows and surfaces as
	// ErrNotFound without ever touching the row.
	const q = `
INSERT INTO checkout_drafts (id, session_id, first_name, last_name, email, phone, address, city, postal_code, payment_method, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO UPDATE
SET first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    email = EXCLUDED.email,
    phone = EXCLUDED.phone,
    address = EXCLUDED.address,
    city = EXCLUDED.city,
    postal_code = EXCLUDED.postal_code,
    payment_method = EXCLUDED.payment_method,
    notes = EXCLUDED.notes,
    updated_at = now()
WHERE checkout_drafts.session_id = EXCLUDED.session_id
RETURNING ` + draftColumns + `
`
	row := r.pool.QueryRow(ctx, q,
		d.ID, d.SessionID,
		d.Contact.FirstName, d.Contact.LastName, d.Contact.Email, d.Contact.Phone,
		d.Contact.Address, d.Contact.City, d.Contact.PostalCode,
		d.PaymentMethod, d.Notes,
	)
	return scanDraft(row)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.CheckoutDraft, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+draftColumns+` FROM checkout_drafts WHERE id = $1`, id)
	return scanDraft(row)
}

func (r *postgresRepo) GetByToken(ctx context.Context, token string) (*domain.CheckoutDraft, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+draftColumns+` FROM checkout_drafts WHERE callback_token = $1`, token)
	return scanDraft(row)
}

func (r *postgresRepo) MarkAwaiting(ctx context.Context, id, token string, expiresAt time.Time) error {
	const q = `
UPDATE checkout_drafts
SET state = 'awaiting_callback', callback_token = $2, pending_expires_at = $3, updated_at = now()
WHERE id = $1
`
	cmd, err := r.pool.Exec(ctx, q, id, token, expiresAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) AttachPickup(ctx context.Context, id string, p domain.PickupPoint) error {
	// The callback token survives the attach so a re-delivered callback
	// still resolves the draft and overwrites the same pickup.
	const q = `
UPDATE checkout_drafts
SET state = 'selected', pickup = $2, pending_expires_at = NULL, updated_at = now()
WHERE id = $1
`
	cmd, err := r.pool.Exec(ctx, q, id, p)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Revert(ctx context.Context, id string) error {
	const q = `
UPDATE checkout_drafts
SET state = 'no_selection', callback_token = NULL, pending_expires_at = NULL, updated_at = now()
WHERE id = $1
`
	cmd, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM checkout_drafts WHERE id = $1`, id)
	return err
}

func scanDraft(row pgx.Row) (*domain.CheckoutDraft, error) {
	var d domain.CheckoutDraft
	var token *string
	var pickup *domain.PickupPoint
	err := row.Scan(
		&d.ID, &d.SessionID,
		&d.Contact.FirstName, &d.Contact.LastName, &d.Contact.Email, &d.Contact.Phone,
		&d.Contact.Address, &d.Contact.City, &d.Contact.PostalCode,
		&d.PaymentMethod, &d.Notes,
		&d.State, &token, &d.PendingExpiresAt, &pickup,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if token != nil {
		d.CallbackToken = *token
	}
	d.Pickup = pickup
	return &d, nil
}
