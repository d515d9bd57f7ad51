package repository

import (
	"context"
	"database/sql"
	"venue-crm/core/database"
	"venue-crm/core/logger"
	contactentity "venue-crm/modules/contact/entity"
	"venue-crm/modules/dataio/entity"
	directoryentity "venue-crm/modules/directory/entity"

	"github.com/google/uuid"
)

type DataIORepositoryInterface interface {
	CreateJob(ctx context.Context, job *entity.ImportExportJob) error
	GetJob(ctx context.Context, id uuid.UUID) (*entity.ImportExportJob, error)
	ListJobsByUser(ctx context.Context, userID uuid.UUID) ([]entity.ImportExportJob, error)
	MarkRunning(ctx context.Context, id uuid.UUID) error
	MarkCompleted(ctx context.Context, job *entity.ImportExportJob) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error

	ListContactsForExport(ctx context.Context) ([]contactentity.Contact, error)
	ListVenuesForExport(ctx context.Context) ([]directoryentity.Venue, error)
}

type DataIORepository struct {
	DB database.Database
}

func NewDataIORepository(db database.Database) *DataIORepository {
	return &DataIORepository{DB: db}
}

func (r *DataIORepository) CreateJob(ctx context.Context, job *entity.ImportExportJob) error {
	query := `
		INSERT INTO import_export_jobs (user_id, kind, resource, status, payload)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		job.UserID, job.Kind, job.Resource, job.Status, job.Payload,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		logger.Error("DataIORepository:CreateJob:Error", "error", err)
	}
	return err
}

func (r *DataIORepository) GetJob(ctx context.Context, id uuid.UUID) (*entity.ImportExportJob, error) {
	var job entity.ImportExportJob
	if err := r.DB.GetContext(ctx, &job, `SELECT * FROM import_export_jobs WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("DataIORepository:GetJob:Error", "error", err, "id", id)
		return nil, err
	}
	return &job, nil
}

func (r *DataIORepository) ListJobsByUser(ctx context.Context, userID uuid.UUID) ([]entity.ImportExportJob, error) {
	var jobs []entity.ImportExportJob
	query := `SELECT * FROM import_export_jobs WHERE user_id = $1 ORDER BY created_at DESC LIMIT 50`
	if err := r.DB.SelectContext(ctx, &jobs, query, userID); err != nil {
		logger.Error("DataIORepository:ListJobsByUser:Error", "error", err, "user_id", userID)
		return nil, err
	}
	return jobs, nil
}

func (r *DataIORepository) MarkRunning(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE import_export_jobs SET status = 'running', updated_at = NOW() WHERE id = $1`
	return r.DB.ExecContext(ctx, query, id)
}

// MarkCompleted writes the final counters and clears the import payload; the
// raw CSV has no value once processed.
func (r *DataIORepository) MarkCompleted(ctx context.Context, job *entity.ImportExportJob) error {
	query := `
		UPDATE import_export_jobs
		SET status = 'completed', total_rows = $1, processed_rows = $2, failed_rows = $3,
		    row_errors = $4, file_key = $5, payload = NULL, updated_at = NOW()
		WHERE id = $6
	`
	err := r.DB.ExecContext(ctx, query,
		job.TotalRows, job.ProcessedRows, job.FailedRows, job.RowErrors, job.FileKey, job.ID)
	if err != nil {
		logger.Error("DataIORepository:MarkCompleted:Error", "error", err, "id", job.ID)
	}
	return err
}

func (r *DataIORepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	query := `
		UPDATE import_export_jobs
		SET status = 'failed', failure_reason = $1, payload = NULL, updated_at = NOW()
		WHERE id = $2
	`
	err := r.DB.ExecContext(ctx, query, reason, id)
	if err != nil {
		logger.Error("DataIORepository:MarkFailed:Error", "error", err, "id", id)
	}
	return err
}

func (r *DataIORepository) ListContactsForExport(ctx context.Context) ([]contactentity.Contact, error) {
	var contacts []contactentity.Contact
	query := `SELECT * FROM contacts ORDER BY created_at ASC`
	if err := r.DB.SelectContext(ctx, &contacts, query); err != nil {
		logger.Error("DataIORepository:ListContactsForExport:Error", "error", err)
		return nil, err
	}
	return contacts, nil
}

func (r *DataIORepository) ListVenuesForExport(ctx context.Context) ([]directoryentity.Venue, error) {
	var venues []directoryentity.Venue
	query := `SELECT * FROM venues ORDER BY created_at ASC`
	if err := r.DB.SelectContext(ctx, &venues, query); err != nil {
		logger.Error("DataIORepository:ListVenuesForExport:Error", "error", err)
		return nil, err
	}
	return venues, nil
}
