package dto

import "venue-crm/modules/dataio/entity"

type ImportRequest struct {
	// CSV is the raw file content including the header row.
	CSV string `json:"csv"`
}

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// JobResponse is the job record plus a presigned download URL for completed
// exports.
type JobResponse struct {
	entity.ImportExportJob
	DownloadURL *string `json:"download_url,omitempty"`
}
