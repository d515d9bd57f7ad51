package entity

import (
	"time"
	"venue-crm/core/entity"

	"github.com/google/uuid"
)

// OAuthState is a one-time CSRF token for the Google consent flow, bound to
// the user who initiated it and swept on read once expired.
type OAuthState struct {
	State     string    `db:"state"`
	UserID    uuid.UUID `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	entity.BaseEntity
}
