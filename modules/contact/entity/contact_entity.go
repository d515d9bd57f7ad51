package entity

import (
	"time"

	"venue-crm/core/entity"

	"github.com/google/uuid"
)

const (
	InteractionTypeCall    = "call"
	InteractionTypeEmail   = "email"
	InteractionTypeMeeting = "meeting"
	InteractionTypeNote    = "note"
)

// Contact is a person at a venue, operator or concessionaire. OrgType and
// OrgID form a polymorphic reference into the directory tables.
type Contact struct {
	entity.BaseEntity
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	OrgType   string    `json:"org_type" db:"org_type"`
	OrgID     uuid.UUID `json:"org_id" db:"org_id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Title     *string   `json:"title" db:"title"`
	Email     *string   `json:"email" db:"email"`
	Phone     *string   `json:"phone" db:"phone"`
	Notes     *string   `json:"notes" db:"notes"`
}

// Interaction is a logged touchpoint with a contact. Removed together with
// its contact.
type Interaction struct {
	entity.BaseEntity
	ContactID  uuid.UUID `json:"contact_id" db:"contact_id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	Type       string    `json:"type" db:"type"`
	OccurredAt time.Time `json:"occurred_at" db:"occurred_at"`
	Summary    string    `json:"summary" db:"summary"`
}
