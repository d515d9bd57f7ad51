package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"venue-crm/core/errors"
	"venue-crm/core/jobs"
	"venue-crm/core/logger"
	"venue-crm/core/storage"
	contactrepository "venue-crm/modules/contact/repository"
	"venue-crm/modules/dataio/dto"
	"venue-crm/modules/dataio/entity"
	"venue-crm/modules/dataio/repository"
	directorydto "venue-crm/modules/directory/dto"
	directoryentity "venue-crm/modules/directory/entity"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const downloadURLTTL = 15 * time.Minute

type taskPayload struct {
	JobID uuid.UUID `json:"job_id"`
}

// VenueImporter creates venues on behalf of the import worker so imported
// rows go through the same slugging and validation as the API.
type VenueImporter interface {
	CreateVenue(ctx context.Context, req *directorydto.VenueRequest) (*directoryentity.Venue, *errors.AppError)
}

type DataIOService struct {
	repo     repository.DataIORepositoryInterface
	contacts contactrepository.ContactRepositoryInterface
	venues   VenueImporter
	storage  storage.Storage
	client   *asynq.Client
}

func NewDataIOService(repo repository.DataIORepositoryInterface, contacts contactrepository.ContactRepositoryInterface, venues VenueImporter, storage storage.Storage, client *asynq.Client) *DataIOService {
	return &DataIOService{
		repo:     repo,
		contacts: contacts,
		venues:   venues,
		storage:  storage,
		client:   client,
	}
}

// StartImport stores the raw CSV and queues the parse.
func (s *DataIOService) StartImport(ctx context.Context, userID uuid.UUID, resource string, csvData string) (*entity.ImportExportJob, *errors.AppError) {
	if resource != entity.ResourceContacts && resource != entity.ResourceVenues {
		return nil, &errors.AppError{Code: errors.ErrInvalidInput, Message: "resource must be contacts or venues"}
	}
	if csvData == "" {
		return nil, &errors.AppError{Code: errors.ErrInvalidInput, Message: "csv is required"}
	}

	job := &entity.ImportExportJob{
		UserID:   userID,
		Kind:     entity.JobKindImport,
		Resource: resource,
		Status:   entity.JobStatusPending,
		Payload:  &csvData,
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to create import job", Err: err}
	}
	if appErr := s.enqueue(ctx, jobs.TypeCSVImport, job.ID); appErr != nil {
		return nil, appErr
	}
	return job, nil
}

func (s *DataIOService) StartExport(ctx context.Context, userID uuid.UUID, resource string) (*entity.ImportExportJob, *errors.AppError) {
	if resource != entity.ResourceContacts && resource != entity.ResourceVenues {
		return nil, &errors.AppError{Code: errors.ErrInvalidInput, Message: "resource must be contacts or venues"}
	}

	job := &entity.ImportExportJob{
		UserID:   userID,
		Kind:     entity.JobKindExport,
		Resource: resource,
		Status:   entity.JobStatusPending,
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to create export job", Err: err}
	}
	if appErr := s.enqueue(ctx, jobs.TypeCSVExport, job.ID); appErr != nil {
		return nil, appErr
	}
	return job, nil
}

// GetJob returns a job with a presigned download link when a completed
// export has a file.
func (s *DataIOService) GetJob(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*dto.JobResponse, *errors.AppError) {
	job, err := s.repo.GetJob(ctx, id)
	if err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to load job", Err: err}
	}
	if job == nil {
		return nil, &errors.AppError{Code: errors.ErrNotFound, Message: "Job not found"}
	}
	if job.UserID != userID {
		return nil, &errors.AppError{Code: errors.ErrForbidden, Message: "You do not own this job"}
	}

	resp := &dto.JobResponse{ImportExportJob: *job}
	if job.Status == entity.JobStatusCompleted && job.FileKey != nil {
		url, signErr := s.storage.PresignDownload(ctx, *job.FileKey, downloadURLTTL)
		if signErr != nil {
			logger.Warn("DataIOService:GetJob:PresignFailed", "error", signErr, "job_id", id)
		} else {
			resp.DownloadURL = &url
		}
	}
	return resp, nil
}

func (s *DataIOService) ListJobs(ctx context.Context, userID uuid.UUID) ([]entity.ImportExportJob, *errors.AppError) {
	jobList, err := s.repo.ListJobsByUser(ctx, userID)
	if err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to list jobs", Err: err}
	}
	if jobList == nil {
		jobList = []entity.ImportExportJob{}
	}
	return jobList, nil
}

func (s *DataIOService) enqueue(ctx context.Context, taskType string, jobID uuid.UUID) *errors.AppError {
	payload, err := json.Marshal(taskPayload{JobID: jobID})
	if err != nil {
		return &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to encode task payload", Err: err}
	}
	if _, err := s.client.EnqueueContext(ctx, asynq.NewTask(taskType, payload)); err != nil {
		if markErr := s.repo.MarkFailed(ctx, jobID, "failed to enqueue task"); markErr != nil {
			logger.Error("DataIOService:enqueue:MarkFailedError", "error", markErr, "job_id", jobID)
		}
		return &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to queue job", Err: err}
	}
	return nil
}

// HandleCSVImport is the asynq worker for queued imports.
func (s *DataIOService) HandleCSVImport(ctx context.Context, t *asynq.Task) error {
	var payload taskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode import payload: %w", err)
	}

	job, err := s.repo.GetJob(ctx, payload.JobID)
	if err != nil {
		return err
	}
	if job == nil || job.Payload == nil {
		logger.Warn("DataIOService:HandleCSVImport:MissingJob", "job_id", payload.JobID)
		return nil
	}
	if err := s.repo.MarkRunning(ctx, job.ID); err != nil {
		return err
	}

	var (
		rowErrors []dto.RowError
		parseErr  error
	)
	switch job.Resource {
	case entity.ResourceContacts:
		rowErrors, parseErr = s.importContacts(ctx, job)
	case entity.ResourceVenues:
		rowErrors, parseErr = s.importVenues(ctx, job)
	default:
		parseErr = fmt.Errorf("unknown resource %q", job.Resource)
	}
	if parseErr != nil {
		if markErr := s.repo.MarkFailed(ctx, job.ID, parseErr.Error()); markErr != nil {
			return markErr
		}
		return nil
	}
	job.FailedRows = len(rowErrors)
	if len(rowErrors) > 0 {
		encoded, encErr := json.Marshal(rowErrors)
		if encErr == nil {
			text := string(encoded)
			job.RowErrors = &text
		}
	}

	if err := s.repo.MarkCompleted(ctx, job); err != nil {
		return err
	}
	logger.Info("CSV import completed",
		"job_id", job.ID,
		"resource", job.Resource,
		"total", job.TotalRows,
		"processed", job.ProcessedRows,
		"failed", job.FailedRows,
	)
	return nil
}

func (s *DataIOService) importContacts(ctx context.Context, job *entity.ImportExportJob) ([]dto.RowError, error) {
	contacts, rowErrors, parseErr := parseContactsCSV(*job.Payload)
	if parseErr != nil {
		return nil, parseErr
	}

	job.TotalRows = len(contacts) + len(rowErrors)
	for i := range contacts {
		contacts[i].UserID = job.UserID
		if err := s.contacts.Create(ctx, &contacts[i]); err != nil {
			rowErrors = append(rowErrors, dto.RowError{Row: 0, Message: fmt.Sprintf("insert %s %s: %v", contacts[i].FirstName, contacts[i].LastName, err)})
			continue
		}
		job.ProcessedRows++
	}
	return rowErrors, nil
}

func (s *DataIOService) importVenues(ctx context.Context, job *entity.ImportExportJob) ([]dto.RowError, error) {
	venues, rowErrors, parseErr := parseVenuesCSV(*job.Payload)
	if parseErr != nil {
		return nil, parseErr
	}

	job.TotalRows = len(venues) + len(rowErrors)
	for i := range venues {
		if _, appErr := s.venues.CreateVenue(ctx, &venues[i]); appErr != nil {
			rowErrors = append(rowErrors, dto.RowError{Row: 0, Message: fmt.Sprintf("insert %s: %s", venues[i].Name, appErr.Message)})
			continue
		}
		job.ProcessedRows++
	}
	return rowErrors, nil
}

// HandleCSVExport is the asynq worker for queued exports.
func (s *DataIOService) HandleCSVExport(ctx context.Context, t *asynq.Task) error {
	var payload taskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode export payload: %w", err)
	}

	job, err := s.repo.GetJob(ctx, payload.JobID)
	if err != nil {
		return err
	}
	if job == nil {
		logger.Warn("DataIOService:HandleCSVExport:MissingJob", "job_id", payload.JobID)
		return nil
	}
	if err := s.repo.MarkRunning(ctx, job.ID); err != nil {
		return err
	}

	var (
		data []byte
		rows int
	)
	switch job.Resource {
	case entity.ResourceContacts:
		contacts, listErr := s.repo.ListContactsForExport(ctx)
		if listErr != nil {
			return s.failExport(ctx, job.ID, listErr)
		}
		rows = len(contacts)
		data, err = writeContactsCSV(contacts)
	case entity.ResourceVenues:
		venues, listErr := s.repo.ListVenuesForExport(ctx)
		if listErr != nil {
			return s.failExport(ctx, job.ID, listErr)
		}
		rows = len(venues)
		data, err = writeVenuesCSV(venues)
	default:
		return s.failExport(ctx, job.ID, fmt.Errorf("unknown resource %q", job.Resource))
	}
	if err != nil {
		return s.failExport(ctx, job.ID, err)
	}

	key := fmt.Sprintf("exports/%s/%s.csv", job.Resource, job.ID)
	if err := s.storage.Upload(ctx, key, "text/csv", bytes.NewReader(data)); err != nil {
		return s.failExport(ctx, job.ID, err)
	}

	job.TotalRows = rows
	job.ProcessedRows = rows
	job.FileKey = &key
	if err := s.repo.MarkCompleted(ctx, job); err != nil {
		return err
	}
	logger.Info("CSV export completed", "job_id", job.ID, "resource", job.Resource, "rows", rows)
	return nil
}

func (s *DataIOService) failExport(ctx context.Context, jobID uuid.UUID, cause error) error {
	logger.Error("DataIOService:HandleCSVExport:Error", "error", cause, "job_id", jobID)
	return s.repo.MarkFailed(ctx, jobID, cause.Error())
}
