package entity

import (
	"time"

	"venue-crm/core/entity"

	"github.com/google/uuid"
)

const (
	EventTypeMeeting = "meeting"
	EventTypeCall    = "call"
	EventTypeVideo   = "video"

	EventSourceManual = "manual"
	EventSourceGoogle = "google"
)

// ScheduledEvent is a calendar entry on a rep's schedule, either created
// manually or imported from Google.
type ScheduledEvent struct {
	entity.BaseEntity
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	Type        string     `json:"type" db:"type"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Location    *string    `json:"location" db:"location"`
	MeetingLink *string    `json:"meeting_link" db:"meeting_link"`
	StartTime   time.Time  `json:"start_time" db:"start_time"`
	EndTime     time.Time  `json:"end_time" db:"end_time"`
	Source      string     `json:"source" db:"source"`
	ContactID   *uuid.UUID `json:"contact_id" db:"contact_id"`
	VenueID     *uuid.UUID `json:"venue_id" db:"venue_id"`
}
