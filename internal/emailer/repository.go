package emailer

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chiplogic-academy/backend/internal/models"
)

// Repository records outbound email attempts for reconciliation.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an email log repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Log inserts one send attempt.
func (r *Repository) Log(ctx context.Context, l *models.EmailLog) error {
	const q = `INSERT INTO email_logs (id, recipient, email_type, subject, status, error)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, l.Recipient, l.EmailType, l.Subject, l.Status, l.Error).
		Scan(&l.ID, &l.CreatedAt)
}

// List returns recent email logs, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]models.EmailLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, recipient, email_type, subject, status, error, created_at
		 FROM email_logs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.EmailLog
	for rows.Next() {
		var l models.EmailLog
		if err := rows.Scan(&l.ID, &l.Recipient, &l.EmailType, &l.Subject, &l.Status, &l.Error, &l.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
