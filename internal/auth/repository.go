package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chiplogic-academy/backend/internal/models"
)

// Repository handles staff account persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an auth repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByEmail returns an admin by email, or nil when none exists.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	const q = `SELECT id, email, password_hash, role, created_at FROM admins WHERE email = $1`
	var a models.Admin
	err := r.pool.QueryRow(ctx, q, email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a staff account. No-op when the email already exists.
func (r *Repository) Create(ctx context.Context, email, passwordHash, role string) (*models.Admin, error) {
	const q = `INSERT INTO admins (id, email, password_hash, role)
		VALUES (gen_random_uuid(), $1, $2, $3)
		ON CONFLICT (email) DO NOTHING
		RETURNING id, email, password_hash, role, created_at`
	var a models.Admin
	err := r.pool.QueryRow(ctx, q, email, passwordHash, role).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return r.GetByEmail(ctx, email)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
