package entity

import (
	"time"

	"venue-crm/core/entity"

	"github.com/google/uuid"
)

const (
	SyncStatusIdle    = "idle"
	SyncStatusSyncing = "syncing"
	SyncStatusError   = "error"
)

// SyncState tracks per-user background sync progress. One row per connected
// user, created on connect and removed on disconnect.
type SyncState struct {
	entity.BaseEntity
	UserID             uuid.UUID  `json:"user_id" db:"user_id"`
	CalendarSyncStatus string     `json:"calendar_sync_status" db:"calendar_sync_status"`
	LastCalendarError  *string    `json:"last_calendar_error" db:"last_calendar_error"`
	GmailSyncStatus    string     `json:"gmail_sync_status" db:"gmail_sync_status"`
	LastGmailError     *string    `json:"last_gmail_error" db:"last_gmail_error"`
	LastGmailSyncAt    *time.Time `json:"last_gmail_sync_at" db:"last_gmail_sync_at"`
}
