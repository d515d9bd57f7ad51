package dto

import "time"

type ConnectURLResponse struct {
	AuthURL string `json:"auth_url"`
}

type SyncRequest struct {
	FullSync bool `json:"full_sync"`
}

// SyncResponse reports what a completed sync run changed locally.
type SyncResponse struct {
	Imported int  `json:"imported"`
	Updated  int  `json:"updated"`
	Deleted  int  `json:"deleted"`
	FullSync bool `json:"full_sync"`
}

type CalendarSyncStatus struct {
	Status     string     `json:"status"`
	LastSyncAt *time.Time `json:"last_sync_at"`
	LastError  *string    `json:"last_error"`
}

type GmailSyncStatus struct {
	Status     string     `json:"status"`
	LastSyncAt *time.Time `json:"last_sync_at"`
	LastError  *string    `json:"last_error"`
}

// StatusResponse is the integration status payload. Connected is false when
// the user has no stored Google credential; the nested statuses are only
// populated for connected users.
type StatusResponse struct {
	Connected   bool                `json:"connected"`
	GoogleEmail string              `json:"google_email,omitempty"`
	ConnectedAt *time.Time          `json:"connected_at,omitempty"`
	Calendar    *CalendarSyncStatus `json:"calendar,omitempty"`
	Gmail       *GmailSyncStatus    `json:"gmail,omitempty"`
}

type DisconnectResponse struct {
	Disconnected bool `json:"disconnected"`
}
