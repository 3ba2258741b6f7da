package models

import (
	"time"

	"github.com/google/uuid"
)

// Lead form types.
const (
	FormContact  = "contact"
	FormBrochure = "brochure"
	FormWorkshop = "workshop_interest"
)

// Lead is one captured form submission. Leads are append-only; the
// spreadsheet mirror and acknowledgement email happen asynchronously.
type Lead struct {
	ID             uuid.UUID `json:"id"`
	FormType       string    `json:"form_type"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	Message        string    `json:"message,omitempty"`
	DomainInterest string    `json:"domain_interest,omitempty"`
	WhatsappOptIn  bool      `json:"whatsapp_opt_in"`
	CreatedAt      time.Time `json:"created_at"`
}
