package dashboard

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/chiplogic-academy/backend/internal/models"
)

// ErrAccessDenied is returned for unknown email, wrong token and expired
// grant alike; callers must render the exact same response for all three so
// the endpoint cannot be used for account enumeration.
var ErrAccessDenied = errors.New("access denied")

// GrantStore looks up successful grants by email.
type GrantStore interface {
	ListSuccessfulByEmail(ctx context.Context, email string) ([]models.AccessGrant, error)
}

// CatalogStore lists the resource catalog per offering.
type CatalogStore interface {
	ListByOffering(ctx context.Context, offering string) ([]models.Resource, error)
}

// Presigner turns an object key into a time-limited download URL.
type Presigner interface {
	PresignDownloadURL(ctx context.Context, key string) (string, error)
}

// ResourceView is one gated asset as returned to the dashboard.
type ResourceView struct {
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	Type      string     `json:"type"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// ResourcesResponse is the dashboard payload for a valid credential pair.
type ResourcesResponse struct {
	Resources  []ResourceView `json:"resources"`
	UpsellLink string         `json:"upsellLink,omitempty"`
	ExpiresAt  time.Time      `json:"expiresAt"`
}

// Gate decides whether an (email, token) pair unlocks the gated resources.
type Gate struct {
	grants    GrantStore
	catalog   CatalogStore
	presigner Presigner // nil = serve stored URLs only
	upsell    map[string]string
	logger    *zap.Logger
	now       func() time.Time
}

// NewGate creates a resource gate. upsell maps offering -> next-tier link.
func NewGate(grants GrantStore, catalog CatalogStore, presigner Presigner, upsell map[string]string, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{
		grants:    grants,
		catalog:   catalog,
		presigner: presigner,
		upsell:    upsell,
		logger:    logger,
		now:       time.Now,
	}
}

// Resources returns the gated resource list for the credential pair, or
// ErrAccessDenied. The token comparison is exact and constant-time, and every
// stored grant is checked so timing does not reveal how far the lookup got.
func (g *Gate) Resources(ctx context.Context, email, token string) (*ResourcesResponse, error) {
	if email == "" || token == "" {
		return nil, ErrAccessDenied
	}
	grants, err := g.grants.ListSuccessfulByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	var matched *models.AccessGrant
	for i := range grants {
		grant := &grants[i]
		if grant.AccessToken == nil {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(*grant.AccessToken), []byte(token)) == 1 && matched == nil {
			matched = grant
		}
	}
	now := g.now()
	if matched == nil || !matched.Active(now) {
		return nil, ErrAccessDenied
	}

	catalog, err := g.catalog.ListByOffering(ctx, matched.Offering)
	if err != nil {
		return nil, err
	}

	resp := &ResourcesResponse{
		Resources: make([]ResourceView, 0, len(catalog)),
		ExpiresAt: *matched.ExpiresAt,
	}
	for _, res := range catalog {
		// A resource whose own expiry has lapsed is no longer grantable.
		if res.ExpiresAt != nil && !now.Before(*res.ExpiresAt) {
			continue
		}
		view := ResourceView{Title: res.Title, URL: res.URL, Type: res.Type}
		if res.ExpiresAt != nil && res.ExpiresAt.Before(*matched.ExpiresAt) {
			view.ExpiresAt = res.ExpiresAt
		}
		if models.FileBackedResource(res.Type) && res.ObjectKey != "" && g.presigner != nil {
			signed, err := g.presigner.PresignDownloadURL(ctx, res.ObjectKey)
			if err != nil {
				g.logger.Warn("presign failed", zap.String("key", res.ObjectKey), zap.Error(err))
			} else {
				view.URL = signed
			}
		}
		resp.Resources = append(resp.Resources, view)
	}
	if link, ok := g.upsell[matched.Offering]; ok && link != "" {
		resp.UpsellLink = link
	}
	return resp, nil
}
