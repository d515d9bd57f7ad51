package entity

import (
	"time"

	"venue-crm/core/entity"

	"github.com/google/uuid"
)

// GoogleCredential stores the OAuth tokens for a user's Google account.
// AccessToken and RefreshToken are encrypted at rest (iv:authTag:ciphertext,
// hex-encoded) and must never leave the service layer in plaintext.
type GoogleCredential struct {
	entity.BaseEntity
	UserID             uuid.UUID  `json:"user_id" db:"user_id"`
	GoogleEmail        string     `json:"google_email" db:"google_email"`
	GoogleAccountID    string     `json:"-" db:"google_account_id"`
	AccessToken        string     `json:"-" db:"access_token"`
	RefreshToken       string     `json:"-" db:"refresh_token"`
	Scope              string     `json:"scope" db:"scope"`
	TokenExpiresAt     time.Time  `json:"token_expires_at" db:"token_expires_at"`
	CalendarSyncToken  *string    `json:"-" db:"calendar_sync_token"`
	LastCalendarSyncAt *time.Time `json:"last_calendar_sync_at" db:"last_calendar_sync_at"`
}
