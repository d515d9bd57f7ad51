package entity

import (
	"time"
	"venue-crm/core/entity"

	"github.com/google/uuid"
)

// APIKey stores only the sha256 hash of the secret; the plaintext is shown
// once at creation and never persisted.
type APIKey struct {
	entity.BaseEntity
	UserID     uuid.UUID  `db:"user_id" json:"user_id"`
	Name       string     `db:"name" json:"name"`
	KeyID      string     `db:"key_id" json:"key_id"`
	KeyHash    string     `db:"key_hash" json:"-"`
	LastUsedAt *time.Time `db:"last_used_at" json:"last_used_at,omitempty"`
	ExpiresAt  *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	RevokedAt  *time.Time `db:"revoked_at" json:"revoked_at,omitempty"`
}

func (APIKey) TableName() string {
	return "api_keys"
}
