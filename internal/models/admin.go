package models

import (
	"time"

	"github.com/google/uuid"
)

// Admin is a staff account for the back-office endpoints.
type Admin struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
