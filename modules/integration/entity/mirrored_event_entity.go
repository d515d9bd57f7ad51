package entity

import (
	"time"

	"venue-crm/core/entity"

	"github.com/google/uuid"
)

// MirroredEvent links a Google calendar event to the local scheduled event
// created from it. GoogleEventID is unique: it is the reconciliation key, so
// an event moved between calendars still maps to the same local record.
type MirroredEvent struct {
	entity.BaseEntity
	UserID           uuid.UUID  `json:"user_id" db:"user_id"`
	GoogleEventID    string     `json:"google_event_id" db:"google_event_id"`
	ScheduledEventID uuid.UUID  `json:"scheduled_event_id" db:"scheduled_event_id"`
	GoogleUpdatedAt  *time.Time `json:"google_updated_at" db:"google_updated_at"`
	LastSyncedAt     time.Time  `json:"last_synced_at" db:"last_synced_at"`
}
