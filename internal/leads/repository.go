package leads

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chiplogic-academy/backend/internal/models"
)

// Repository handles lead persistence. Leads are append-only.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a leads repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a lead.
func (r *Repository) Create(ctx context.Context, l *models.Lead) error {
	const q = `INSERT INTO leads (id, form_type, name, email, phone, message, domain_interest, whatsapp_opt_in)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, l.FormType, l.Name, l.Email, l.Phone, l.Message,
		l.DomainInterest, l.WhatsappOptIn).Scan(&l.ID, &l.CreatedAt)
}

// List returns recent leads, optionally filtered by form type.
func (r *Repository) List(ctx context.Context, formType string, limit int) ([]models.Lead, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const base = `SELECT id, form_type, name, email, phone, message, domain_interest, whatsapp_opt_in, created_at FROM leads`
	var (
		rows pgx.Rows
		err  error
	)
	if formType != "" {
		rows, err = r.pool.Query(ctx, base+` WHERE form_type = $1 ORDER BY created_at DESC LIMIT $2`, formType, limit)
	} else {
		rows, err = r.pool.Query(ctx, base+` ORDER BY created_at DESC LIMIT $1`, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Lead
	for rows.Next() {
		var l models.Lead
		if err := rows.Scan(&l.ID, &l.FormType, &l.Name, &l.Email, &l.Phone, &l.Message,
			&l.DomainInterest, &l.WhatsappOptIn, &l.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
