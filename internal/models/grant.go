package models

import (
	"time"

	"github.com/google/uuid"
)

// Offering identifies a purchasable unit.
const (
	OfferingWorkshop = "workshop"
	OfferingCohort   = "cohort"
)

// ValidOffering reports whether s names a known offering.
func ValidOffering(s string) bool {
	return s == OfferingWorkshop || s == OfferingCohort
}

// Grant status. A successful grant becomes inert once ExpiresAt has passed;
// expiry is evaluated lazily at read time, there is no background sweep.
const (
	GrantStatusPending = "pending"
	GrantStatusSuccess = "success"
	GrantStatusFailed  = "failed"
)

// AccessGrant is one payment attempt and, on success, the time-bounded
// access it grants. The access token is present iff status is success.
type AccessGrant struct {
	ID              uuid.UUID  `json:"id"`
	TransactionID   string     `json:"transaction_id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	Phone           string     `json:"phone,omitempty"`
	Offering        string     `json:"offering"`
	DomainInterest  string     `json:"domain_interest,omitempty"`
	WhatsappOptIn   bool       `json:"whatsapp_opt_in"`
	Status          string     `json:"status"`
	AccessToken     *string    `json:"-"` // never serialized on admin listings
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	MeetingURL      *string    `json:"meeting_url,omitempty"`
	AmountCents     int        `json:"amount_cents"`
	ProviderOrderID string     `json:"provider_order_id,omitempty"`
	FailureReason   string     `json:"failure_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Active reports whether the grant currently unlocks resources.
func (g *AccessGrant) Active(now time.Time) bool {
	return g.Status == GrantStatusSuccess && g.ExpiresAt != nil && now.Before(*g.ExpiresAt)
}
