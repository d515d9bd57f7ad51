package entity

import (
	"venue-crm/core/entity"

	"github.com/google/uuid"
)

const (
	JobKindImport = "import"
	JobKindExport = "export"

	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"

	ResourceContacts = "contacts"
	ResourceVenues   = "venues"
)

// ImportExportJob tracks one asynchronous CSV job. Imports keep the raw CSV
// in Payload until processed; exports record the S3 key of the produced
// file. RowErrors is a JSON array of per-row failures.
type ImportExportJob struct {
	entity.BaseEntity
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	Kind          string    `json:"kind" db:"kind"`
	Resource      string    `json:"resource" db:"resource"`
	Status        string    `json:"status" db:"status"`
	TotalRows     int       `json:"total_rows" db:"total_rows"`
	ProcessedRows int       `json:"processed_rows" db:"processed_rows"`
	FailedRows    int       `json:"failed_rows" db:"failed_rows"`
	RowErrors     *string   `json:"row_errors" db:"row_errors"`
	Payload       *string   `json:"-" db:"payload"`
	FileKey       *string   `json:"-" db:"file_key"`
	FailureReason *string   `json:"failure_reason" db:"failure_reason"`
}
