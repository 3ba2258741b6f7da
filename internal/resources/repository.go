package resources

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chiplogic-academy/backend/internal/models"
)

// Repository handles gated resource catalog persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a resources repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByOffering returns the resource catalog for an offering in display order.
func (r *Repository) ListByOffering(ctx context.Context, offering string) ([]models.Resource, error) {
	const q = `SELECT id, offering, title, type, url, object_key, expires_at, sort_order, created_at
		FROM resources WHERE offering = $1 ORDER BY sort_order, title`
	rows, err := r.pool.Query(ctx, q, offering)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Resource
	for rows.Next() {
		var res models.Resource
		if err := rows.Scan(&res.ID, &res.Offering, &res.Title, &res.Type, &res.URL,
			&res.ObjectKey, &res.ExpiresAt, &res.SortOrder, &res.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, res)
	}
	return list, rows.Err()
}

// Create inserts a resource; an existing (offering, title) pair is replaced.
func (r *Repository) Create(ctx context.Context, res *models.Resource) error {
	const q = `INSERT INTO resources (id, offering, title, type, url, object_key, expires_at, sort_order)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (offering, title) DO UPDATE SET
			type = EXCLUDED.type, url = EXCLUDED.url, object_key = EXCLUDED.object_key,
			expires_at = EXCLUDED.expires_at, sort_order = EXCLUDED.sort_order
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, res.Offering, res.Title, res.Type, res.URL,
		res.ObjectKey, res.ExpiresAt, res.SortOrder).Scan(&res.ID, &res.CreatedAt)
}
