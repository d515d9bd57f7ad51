package dto

import (
	"time"

	"github.com/google/uuid"
)

type ContactRequest struct {
	OrgType   string    `json:"org_type"`
	OrgID     uuid.UUID `json:"org_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Title     *string   `json:"title"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Notes     *string   `json:"notes"`
}

type InteractionRequest struct {
	Type       string     `json:"type"`
	OccurredAt *time.Time `json:"occurred_at"`
	Summary    string     `json:"summary"`
}
