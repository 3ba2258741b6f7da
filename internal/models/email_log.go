package models

import (
	"time"

	"github.com/google/uuid"
)

// Email log statuses.
const (
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// EmailLog records one outbound email attempt for reconciliation.
type EmailLog struct {
	ID        uuid.UUID `json:"id"`
	Recipient string    `json:"recipient"`
	EmailType string    `json:"email_type"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
