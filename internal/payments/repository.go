package payments

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chiplogic-academy/backend/internal/models"
)

// Repository is the pgx-backed grant store. The unique constraint on
// transaction_id is the sole idempotency anchor: inserts and the
// pending -> success transition both serialize on it.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a payments repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const grantColumns = `id, transaction_id, email, name, phone, offering, domain_interest,
	whatsapp_opt_in, status, access_token, expires_at, meeting_url, amount_cents,
	provider_order_id, failure_reason, created_at, updated_at`

func scanGrant(row pgx.Row) (*models.AccessGrant, error) {
	var g models.AccessGrant
	err := row.Scan(&g.ID, &g.TransactionID, &g.Email, &g.Name, &g.Phone, &g.Offering,
		&g.DomainInterest, &g.WhatsappOptIn, &g.Status, &g.AccessToken, &g.ExpiresAt,
		&g.MeetingURL, &g.AmountCents, &g.ProviderOrderID, &g.FailureReason,
		&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// InsertPending inserts a pending grant. On a transaction id collision the
// stored grant is returned unchanged with created=false.
func (r *Repository) InsertPending(ctx context.Context, g *models.AccessGrant) (*models.AccessGrant, bool, error) {
	const q = `INSERT INTO access_grants
		(id, transaction_id, email, name, phone, offering, domain_interest, whatsapp_opt_in, status, amount_cents)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, 'pending', $8)
		ON CONFLICT (transaction_id) DO NOTHING
		RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, q, g.TransactionID, g.Email, g.Name, g.Phone, g.Offering,
		g.DomainInterest, g.WhatsappOptIn, g.AmountCents).
		Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		existing, gErr := r.GetByTransactionID(ctx, g.TransactionID)
		if gErr != nil {
			return nil, false, gErr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return g, true, nil
}

// MarkSuccess transitions pending -> success, guarded by status so only one
// writer issues a token per transaction.
func (r *Repository) MarkSuccess(ctx context.Context, transactionID, accessToken string, expiresAt time.Time, meetingURL *string, orderID string) (bool, error) {
	const q = `UPDATE access_grants
		SET status = 'success', access_token = $2, expires_at = $3, meeting_url = $4,
		    provider_order_id = $5, updated_at = NOW()
		WHERE transaction_id = $1 AND status = 'pending'`
	tag, err := r.pool.Exec(ctx, q, transactionID, accessToken, expiresAt, meetingURL, orderID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// MarkFailed transitions pending -> failed (terminal).
func (r *Repository) MarkFailed(ctx context.Context, transactionID, reason string) error {
	const q = `UPDATE access_grants
		SET status = 'failed', failure_reason = $2, updated_at = NOW()
		WHERE transaction_id = $1 AND status = 'pending'`
	_, err := r.pool.Exec(ctx, q, transactionID, reason)
	return err
}

// GetByTransactionID returns a grant by transaction id, or nil when none exists.
func (r *Repository) GetByTransactionID(ctx context.Context, transactionID string) (*models.AccessGrant, error) {
	g, err := scanGrant(r.pool.QueryRow(ctx,
		`SELECT `+grantColumns+` FROM access_grants WHERE transaction_id = $1`, transactionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return g, err
}

// ListSuccessfulByEmail returns all successful grants for an email, newest
// first. Expiry is not filtered here; the resource gate evaluates it lazily.
func (r *Repository) ListSuccessfulByEmail(ctx context.Context, email string) ([]models.AccessGrant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+grantColumns+` FROM access_grants
		 WHERE LOWER(email) = LOWER($1) AND status = 'success'
		 ORDER BY created_at DESC`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.AccessGrant
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *g)
	}
	return list, rows.Err()
}

// List returns recent grants for the admin reconciliation view.
func (r *Repository) List(ctx context.Context, limit int) ([]models.AccessGrant, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+grantColumns+` FROM access_grants ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.AccessGrant
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *g)
	}
	return list, rows.Err()
}
