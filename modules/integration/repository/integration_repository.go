package repository

import (
	"context"
	"database/sql"
	"time"
	"venue-crm/core/database"
	"venue-crm/core/logger"
	"venue-crm/modules/integration/entity"

	"github.com/google/uuid"
)

type IntegrationRepositoryInterface interface {
	GetCredentialByUserID(ctx context.Context, userID uuid.UUID) (*entity.GoogleCredential, error)
	UpsertCredential(ctx context.Context, cred *entity.GoogleCredential) error
	UpdateCredentialTokens(ctx context.Context, userID uuid.UUID, accessToken string, refreshToken string, expiresAt time.Time) error
	UpdateSyncCursor(ctx context.Context, userID uuid.UUID, syncToken *string, syncedAt time.Time) error
	DeleteCredential(ctx context.Context, userID uuid.UUID) error

	GetSyncState(ctx context.Context, userID uuid.UUID) (*entity.SyncState, error)
	UpsertSyncState(ctx context.Context, state *entity.SyncState) error
	SetCalendarSyncStatus(ctx context.Context, userID uuid.UUID, status string, lastError *string) error
	DeleteSyncState(ctx context.Context, userID uuid.UUID) error

	GetMirroredEventByGoogleID(ctx context.Context, userID uuid.UUID, googleEventID string) (*entity.MirroredEvent, error)
	CreateMirroredEvent(ctx context.Context, m *entity.MirroredEvent) error
	TouchMirroredEvent(ctx context.Context, id uuid.UUID, googleUpdatedAt *time.Time) error
	DeleteMirroredEvent(ctx context.Context, id uuid.UUID) error
	DeleteGoogleDataByUserID(ctx context.Context, userID uuid.UUID) error

	CreateScheduledEvent(ctx context.Context, ev *entity.ScheduledEvent) error
	UpdateScheduledEvent(ctx context.Context, ev *entity.ScheduledEvent) error
	DeleteScheduledEvent(ctx context.Context, id uuid.UUID) error
	GetScheduledEventsByUserID(ctx context.Context, userID uuid.UUID, from time.Time, to time.Time) ([]entity.ScheduledEvent, error)
}

type IntegrationRepository struct {
	DB database.Database
}

func NewIntegrationRepository(db database.Database) *IntegrationRepository {
	return &IntegrationRepository{DB: db}
}

func (r *IntegrationRepository) GetCredentialByUserID(ctx context.Context, userID uuid.UUID) (*entity.GoogleCredential, error) {
	var cred entity.GoogleCredential
	query := `
		SELECT id, user_id, google_email, google_account_id, access_token, refresh_token,
		       scope, token_expires_at, calendar_sync_token, last_calendar_sync_at, created_at, updated_at
		FROM google_credentials
		WHERE user_id = $1
	`
	err := r.DB.GetContext(ctx, &cred, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("IntegrationRepository:GetCredentialByUserID:Error", "error", err, "user_id", userID)
		return nil, err
	}
	return &cred, nil
}

// UpsertCredential replaces the whole credential row on reconnect, including
// the sync cursor: a fresh grant invalidates any incremental state.
func (r *IntegrationRepository) UpsertCredential(ctx context.Context, cred *entity.GoogleCredential) error {
	query := `
		INSERT INTO google_credentials
			(user_id, google_email, google_account_id, access_token, refresh_token, scope, token_expires_at)
		VALUES
			(:user_id, :google_email, :google_account_id, :access_token, :refresh_token, :scope, :token_expires_at)
		ON CONFLICT (user_id) DO UPDATE SET
			google_email = EXCLUDED.google_email,
			google_account_id = EXCLUDED.google_account_id,
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			scope = EXCLUDED.scope,
			token_expires_at = EXCLUDED.token_expires_at,
			calendar_sync_token = NULL,
			updated_at = NOW()
	`
	_, err := r.DB.NamedExecContext(ctx, query, cred)
	if err != nil {
		logger.Error("IntegrationRepository:UpsertCredential:Error", "error", err, "user_id", cred.UserID)
		return err
	}
	return nil
}

func (r *IntegrationRepository) UpdateCredentialTokens(ctx context.Context, userID uuid.UUID, accessToken string, refreshToken string, expiresAt time.Time) error {
	query := `
		UPDATE google_credentials
		SET access_token = $1, refresh_token = $2, token_expires_at = $3, updated_at = NOW()
		WHERE user_id = $4
	`
	err := r.DB.ExecContext(ctx, query, accessToken, refreshToken, expiresAt, userID)
	if err != nil {
		logger.Error("IntegrationRepository:UpdateCredentialTokens:Error", "error", err, "user_id", userID)
	}
	return err
}

func (r *IntegrationRepository) UpdateSyncCursor(ctx context.Context, userID uuid.UUID, syncToken *string, syncedAt time.Time) error {
	query := `
		UPDATE google_credentials
		SET calendar_sync_token = $1, last_calendar_sync_at = $2, updated_at = NOW()
		WHERE user_id = $3
	`
	err := r.DB.ExecContext(ctx, query, syncToken, syncedAt, userID)
	if err != nil {
		logger.Error("IntegrationRepository:UpdateSyncCursor:Error", "error", err, "user_id", userID)
	}
	return err
}

func (r *IntegrationRepository) DeleteCredential(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM google_credentials WHERE user_id = $1`
	err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		logger.Error("IntegrationRepository:DeleteCredential:Error", "error", err, "user_id", userID)
	}
	return err
}

func (r *IntegrationRepository) GetSyncState(ctx context.Context, userID uuid.UUID) (*entity.SyncState, error) {
	var state entity.SyncState
	query := `
		SELECT id, user_id, calendar_sync_status, last_calendar_error,
		       gmail_sync_status, last_gmail_error, last_gmail_sync_at, created_at, updated_at
		FROM sync_states
		WHERE user_id = $1
	`
	err := r.DB.GetContext(ctx, &state, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("IntegrationRepository:GetSyncState:Error", "error", err, "user_id", userID)
		return nil, err
	}
	return &state, nil
}

func (r *IntegrationRepository) UpsertSyncState(ctx context.Context, state *entity.SyncState) error {
	query := `
		INSERT INTO sync_states (user_id, calendar_sync_status, gmail_sync_status)
		VALUES (:user_id, :calendar_sync_status, :gmail_sync_status)
		ON CONFLICT (user_id) DO UPDATE SET
			calendar_sync_status = EXCLUDED.calendar_sync_status,
			gmail_sync_status = EXCLUDED.gmail_sync_status,
			last_calendar_error = NULL,
			last_gmail_error = NULL,
			updated_at = NOW()
	`
	_, err := r.DB.NamedExecContext(ctx, query, state)
	if err != nil {
		logger.Error("IntegrationRepository:UpsertSyncState:Error", "error", err, "user_id", state.UserID)
	}
	return err
}

func (r *IntegrationRepository) SetCalendarSyncStatus(ctx context.Context, userID uuid.UUID, status string, lastError *string) error {
	query := `
		UPDATE sync_states
		SET calendar_sync_status = $1, last_calendar_error = $2, updated_at = NOW()
		WHERE user_id = $3
	`
	err := r.DB.ExecContext(ctx, query, status, lastError, userID)
	if err != nil {
		logger.Error("IntegrationRepository:SetCalendarSyncStatus:Error", "error", err, "user_id", userID, "status", status)
	}
	return err
}

func (r *IntegrationRepository) DeleteSyncState(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM sync_states WHERE user_id = $1`
	err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		logger.Error("IntegrationRepository:DeleteSyncState:Error", "error", err, "user_id", userID)
	}
	return err
}

func (r *IntegrationRepository) GetMirroredEventByGoogleID(ctx context.Context, userID uuid.UUID, googleEventID string) (*entity.MirroredEvent, error) {
	var m entity.MirroredEvent
	query := `
		SELECT id, user_id, google_event_id, scheduled_event_id, google_updated_at, last_synced_at, created_at, updated_at
		FROM mirrored_events
		WHERE user_id = $1 AND google_event_id = $2
	`
	err := r.DB.GetContext(ctx, &m, query, userID, googleEventID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("IntegrationRepository:GetMirroredEventByGoogleID:Error", "error", err, "google_event_id", googleEventID)
		return nil, err
	}
	return &m, nil
}

func (r *IntegrationRepository) CreateMirroredEvent(ctx context.Context, m *entity.MirroredEvent) error {
	query := `
		INSERT INTO mirrored_events (user_id, google_event_id, scheduled_event_id, google_updated_at, last_synced_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		m.UserID, m.GoogleEventID, m.ScheduledEventID, m.GoogleUpdatedAt, m.LastSyncedAt,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		logger.Error("IntegrationRepository:CreateMirroredEvent:Error", "error", err, "google_event_id", m.GoogleEventID)
		return err
	}
	return nil
}

func (r *IntegrationRepository) TouchMirroredEvent(ctx context.Context, id uuid.UUID, googleUpdatedAt *time.Time) error {
	query := `
		UPDATE mirrored_events
		SET google_updated_at = $1, last_synced_at = NOW(), updated_at = NOW()
		WHERE id = $2
	`
	err := r.DB.ExecContext(ctx, query, googleUpdatedAt, id)
	if err != nil {
		logger.Error("IntegrationRepository:TouchMirroredEvent:Error", "error", err, "id", id)
	}
	return err
}

func (r *IntegrationRepository) DeleteMirroredEvent(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM mirrored_events WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("IntegrationRepository:DeleteMirroredEvent:Error", "error", err, "id", id)
	}
	return err
}

// DeleteGoogleDataByUserID removes mirror links for a user on disconnect.
// The scheduled events themselves stay: disconnecting should not wipe the
// rep's calendar, it only stops future reconciliation.
func (r *IntegrationRepository) DeleteGoogleDataByUserID(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM mirrored_events WHERE user_id = $1`
	err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		logger.Error("IntegrationRepository:DeleteGoogleDataByUserID:Error", "error", err, "user_id", userID)
	}
	return err
}

func (r *IntegrationRepository) CreateScheduledEvent(ctx context.Context, ev *entity.ScheduledEvent) error {
	query := `
		INSERT INTO scheduled_events
			(user_id, type, title, description, location, meeting_link, start_time, end_time, source, contact_id, venue_id)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		ev.UserID, ev.Type, ev.Title, ev.Description, ev.Location, ev.MeetingLink,
		ev.StartTime, ev.EndTime, ev.Source, ev.ContactID, ev.VenueID,
	).Scan(&ev.ID, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		logger.Error("IntegrationRepository:CreateScheduledEvent:Error", "error", err)
		return err
	}
	return nil
}

func (r *IntegrationRepository) UpdateScheduledEvent(ctx context.Context, ev *entity.ScheduledEvent) error {
	query := `
		UPDATE scheduled_events
		SET type = :type, title = :title, description = :description, location = :location,
		    meeting_link = :meeting_link, start_time = :start_time, end_time = :end_time, updated_at = NOW()
		WHERE id = :id
	`
	_, err := r.DB.NamedExecContext(ctx, query, ev)
	if err != nil {
		logger.Error("IntegrationRepository:UpdateScheduledEvent:Error", "error", err, "id", ev.ID)
	}
	return err
}

func (r *IntegrationRepository) DeleteScheduledEvent(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM scheduled_events WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("IntegrationRepository:DeleteScheduledEvent:Error", "error", err, "id", id)
	}
	return err
}

func (r *IntegrationRepository) GetScheduledEventsByUserID(ctx context.Context, userID uuid.UUID, from time.Time, to time.Time) ([]entity.ScheduledEvent, error) {
	var events []entity.ScheduledEvent
	query := `
		SELECT id, user_id, type, title, description, location, meeting_link,
		       start_time, end_time, source, contact_id, venue_id, created_at, updated_at
		FROM scheduled_events
		WHERE user_id = $1 AND start_time >= $2 AND start_time < $3
		ORDER BY start_time ASC
	`
	err := r.DB.SelectContext(ctx, &events, query, userID, from, to)
	if err != nil {
		logger.Error("IntegrationRepository:GetScheduledEventsByUserID:Error", "error", err, "user_id", userID)
		return nil, err
	}
	return events, nil
}
