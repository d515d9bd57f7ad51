package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"venue-crm/core/constants"
	"venue-crm/core/errors"
	"venue-crm/core/logger"
	"venue-crm/modules/integration/dto"
	"venue-crm/modules/integration/entity"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"golang.org/x/oauth2"
)

type calendarSyncPayload struct {
	UserID   uuid.UUID `json:"user_id"`
	FullSync bool      `json:"full_sync"`
}

// HandleCalendarSync runs a queued sync for one user. A sync already holding
// the lock means someone else is doing the work; the task is dropped, not
// retried.
func (s *IntegrationService) HandleCalendarSync(ctx context.Context, t *asynq.Task) error {
	var payload calendarSyncPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode calendar sync payload: %w", err)
	}

	if _, appErr := s.SyncCalendar(ctx, payload.UserID, payload.FullSync); appErr != nil {
		if appErr.Code == errors.ErrSyncInProgress || appErr.Code == errors.ErrNotConnected {
			logger.Info("Queued calendar sync skipped", "user_id", payload.UserID, "reason", appErr.Message)
			return nil
		}
		if appErr.Err != nil {
			return appErr.Err
		}
		return fmt.Errorf("%s", appErr.Message)
	}
	return nil
}

// SyncCalendar runs one calendar sync for the user. Incremental when a sync
// cursor is stored, windowed otherwise or when fullSync forces it. Only one
// sync per user runs at a time; a second request gets ErrSyncInProgress.
func (s *IntegrationService) SyncCalendar(ctx context.Context, userID uuid.UUID, fullSync bool) (*dto.SyncResponse, *errors.AppError) {
	acquired, err := s.cache.AcquireSyncLock(ctx, userID.String())
	if err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to acquire sync lock", Err: err}
	}
	if !acquired {
		return nil, &errors.AppError{Code: errors.ErrSyncInProgress, Message: "A calendar sync is already running"}
	}
	defer func() {
		if relErr := s.cache.ReleaseSyncLock(ctx, userID.String()); relErr != nil {
			logger.Warn("IntegrationService:SyncCalendar:UnlockFailed", "error", relErr, "user_id", userID)
		}
	}()

	uts, appErr := s.loadTokenSource(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	if err := s.repo.SetCalendarSyncStatus(ctx, userID, entity.SyncStatusSyncing, nil); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to update sync state", Err: err}
	}

	result, nextSyncToken, runErr := s.runCalendarSync(ctx, userID, uts, fullSync)

	// The oauth2 transport may have refreshed the access token during the
	// run, regardless of whether the run itself succeeded.
	s.persistRefreshedTokens(ctx, uts)

	if runErr != nil {
		logger.Error("IntegrationService:SyncCalendar:Error", "error", runErr, "user_id", userID)
		msg := runErr.Error()
		if stErr := s.repo.SetCalendarSyncStatus(ctx, userID, entity.SyncStatusError, &msg); stErr != nil {
			logger.Error("IntegrationService:SyncCalendar:StatusError", "error", stErr, "user_id", userID)
		}
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Calendar sync failed", Err: runErr}
	}

	if err := s.repo.UpdateSyncCursor(ctx, userID, nextSyncToken, time.Now()); err != nil {
		msg := err.Error()
		_ = s.repo.SetCalendarSyncStatus(ctx, userID, entity.SyncStatusError, &msg)
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to persist sync cursor", Err: err}
	}
	if err := s.repo.SetCalendarSyncStatus(ctx, userID, entity.SyncStatusIdle, nil); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to update sync state", Err: err}
	}

	logger.Info("Calendar sync completed",
		"user_id", userID,
		"imported", result.Imported,
		"updated", result.Updated,
		"deleted", result.Deleted,
		"full_sync", result.FullSync,
	)
	return result, nil
}

func (s *IntegrationService) runCalendarSync(ctx context.Context, userID uuid.UUID, uts *userTokenSource, fullSync bool) (*dto.SyncResponse, *string, error) {
	syncToken := ""
	if !fullSync && uts.cred.CalendarSyncToken != nil {
		syncToken = *uts.cred.CalendarSyncToken
	}

	items, nextToken, err := s.fetchAllEvents(ctx, uts.ts, syncToken)
	if err == ErrSyncTokenExpired && syncToken != "" {
		// Stale cursor. Start over with a windowed full fetch; reconciliation
		// is idempotent so re-seeing known events is harmless.
		logger.Warn("Calendar sync token expired, falling back to full sync", "user_id", userID)
		syncToken = ""
		items, nextToken, err = s.fetchAllEvents(ctx, uts.ts, "")
	}
	if err != nil {
		return nil, nil, err
	}

	result := &dto.SyncResponse{FullSync: syncToken == ""}
	for i := range items {
		if err := s.reconcileEvent(ctx, userID, &items[i], result); err != nil {
			return nil, nil, err
		}
	}
	return result, nextToken, nil
}

// fetchAllEvents walks every page of the events list before any local write
// happens, so a pagination failure never leaves a half-applied sync.
func (s *IntegrationService) fetchAllEvents(ctx context.Context, ts oauth2.TokenSource, syncToken string) ([]GoogleEvent, *string, error) {
	params := EventListParams{SyncToken: syncToken}
	if syncToken == "" {
		now := time.Now()
		params.TimeMin = now.AddDate(0, 0, -constants.SyncWindowPastDays)
		params.TimeMax = now.AddDate(0, 0, constants.SyncWindowFutureDays)
	}

	var items []GoogleEvent
	for {
		page, err := s.api.ListEvents(ctx, ts, params)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, page.Items...)
		if page.NextPageToken == "" {
			var next *string
			if page.NextSyncToken != "" {
				token := page.NextSyncToken
				next = &token
			}
			return items, next, nil
		}
		params.PageToken = page.NextPageToken
	}
}

// reconcileEvent applies one remote event to the local mirror. The Google
// event id is the only matching key; titles and times are never used to
// match, only to fill fields.
func (s *IntegrationService) reconcileEvent(ctx context.Context, userID uuid.UUID, ev *GoogleEvent, result *dto.SyncResponse) error {
	mirror, err := s.repo.GetMirroredEventByGoogleID(ctx, userID, ev.ID)
	if err != nil {
		return err
	}

	if ev.Status == "cancelled" {
		if mirror == nil {
			return nil
		}
		if err := s.repo.DeleteScheduledEvent(ctx, mirror.ScheduledEventID); err != nil {
			return err
		}
		if err := s.repo.DeleteMirroredEvent(ctx, mirror.ID); err != nil {
			return err
		}
		result.Deleted++
		return nil
	}

	start, ok := parseEventTime(ev.Start)
	if !ok {
		// All-day (date only) or missing start: not a schedulable slot.
		return nil
	}
	end, ok := parseEventTime(ev.End)
	if !ok {
		end = start.Add(time.Hour)
	}

	var googleUpdated *time.Time
	if parsed, parseErr := time.Parse(time.RFC3339, ev.Updated); parseErr == nil {
		googleUpdated = &parsed
	}

	title := ev.Summary
	if title == "" {
		title = "(no title)"
	}

	if mirror != nil {
		updated := &entity.ScheduledEvent{
			Type:        ClassifyEventType(title),
			Title:       title,
			Description: strPtr(ev.Description),
			Location:    strPtr(ev.Location),
			MeetingLink: ExtractMeetingLink(ev),
			StartTime:   start,
			EndTime:     end,
		}
		updated.ID = mirror.ScheduledEventID
		if err := s.repo.UpdateScheduledEvent(ctx, updated); err != nil {
			return err
		}
		if err := s.repo.TouchMirroredEvent(ctx, mirror.ID, googleUpdated); err != nil {
			return err
		}
		result.Updated++
		return nil
	}

	scheduled := &entity.ScheduledEvent{
		UserID:      userID,
		Type:        ClassifyEventType(title),
		Title:       title,
		Description: strPtr(ev.Description),
		Location:    strPtr(ev.Location),
		MeetingLink: ExtractMeetingLink(ev),
		StartTime:   start,
		EndTime:     end,
		Source:      entity.EventSourceGoogle,
	}
	if err := s.repo.CreateScheduledEvent(ctx, scheduled); err != nil {
		return err
	}

	mirrorRow := &entity.MirroredEvent{
		UserID:           userID,
		GoogleEventID:    ev.ID,
		ScheduledEventID: scheduled.ID,
		GoogleUpdatedAt:  googleUpdated,
		LastSyncedAt:     time.Now(),
	}
	if err := s.repo.CreateMirroredEvent(ctx, mirrorRow); err != nil {
		return err
	}
	result.Imported++
	return nil
}

func parseEventTime(t *GoogleEventTime) (time.Time, bool) {
	if t == nil || t.DateTime == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse(time.RFC3339, t.DateTime)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
