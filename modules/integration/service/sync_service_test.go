package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"venue-crm/core/config"
	coreerrors "venue-crm/core/errors"
	"venue-crm/core/utils"
	authentity "venue-crm/modules/auth/entity"
	"venue-crm/modules/integration/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func init() {
	config.SetForTesting(&config.Config{
		JWT: config.JWTConfig{Secret: "test-secret"},
		GoogleAPI: config.GoogleAPIConfig{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURI:  "http://localhost:7070/api/v1/public/integrations/google/callback",
		},
		Encryption: config.EncryptionConfig{
			TokenKey: strings.Repeat("ab", 32),
		},
	})
}

// fakeCalendarAPI serves canned pages. Sync-token requests and windowed
// requests consume separate page lists so the 410 fallback can be observed.
type fakeCalendarAPI struct {
	syncPages   []*EventListPage
	windowPages []*EventListPage
	syncErr     error
	calls       []EventListParams
	syncIdx     int
	windowIdx   int
}

func (f *fakeCalendarAPI) ListEvents(_ context.Context, _ oauth2.TokenSource, params EventListParams) (*EventListPage, error) {
	f.calls = append(f.calls, params)
	if params.SyncToken != "" {
		if f.syncErr != nil {
			return nil, f.syncErr
		}
		page := f.syncPages[f.syncIdx]
		f.syncIdx++
		return page, nil
	}
	page := f.windowPages[f.windowIdx]
	f.windowIdx++
	return page, nil
}

func (f *fakeCalendarAPI) Userinfo(_ context.Context, _ oauth2.TokenSource) (*GoogleUserinfo, error) {
	return &GoogleUserinfo{ID: "google-account-1", Email: "rep@example.com"}, nil
}

func (f *fakeCalendarAPI) RevokeToken(_ context.Context, _ string) error {
	return nil
}

type fakeRepo struct {
	cred      *entity.GoogleCredential
	state     *entity.SyncState
	mirrors   map[string]*entity.MirroredEvent
	scheduled map[uuid.UUID]*entity.ScheduledEvent
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		mirrors:   map[string]*entity.MirroredEvent{},
		scheduled: map[uuid.UUID]*entity.ScheduledEvent{},
	}
}

func (r *fakeRepo) GetCredentialByUserID(_ context.Context, _ uuid.UUID) (*entity.GoogleCredential, error) {
	return r.cred, nil
}

func (r *fakeRepo) UpsertCredential(_ context.Context, cred *entity.GoogleCredential) error {
	r.cred = cred
	return nil
}

func (r *fakeRepo) UpdateCredentialTokens(_ context.Context, _ uuid.UUID, accessToken string, refreshToken string, expiresAt time.Time) error {
	r.cred.AccessToken = accessToken
	r.cred.RefreshToken = refreshToken
	r.cred.TokenExpiresAt = expiresAt
	return nil
}

func (r *fakeRepo) UpdateSyncCursor(_ context.Context, _ uuid.UUID, syncToken *string, syncedAt time.Time) error {
	r.cred.CalendarSyncToken = syncToken
	r.cred.LastCalendarSyncAt = &syncedAt
	return nil
}

func (r *fakeRepo) DeleteCredential(_ context.Context, _ uuid.UUID) error {
	r.cred = nil
	return nil
}

func (r *fakeRepo) GetSyncState(_ context.Context, _ uuid.UUID) (*entity.SyncState, error) {
	return r.state, nil
}

func (r *fakeRepo) UpsertSyncState(_ context.Context, state *entity.SyncState) error {
	r.state = state
	return nil
}

func (r *fakeRepo) SetCalendarSyncStatus(_ context.Context, _ uuid.UUID, status string, lastError *string) error {
	if r.state == nil {
		r.state = &entity.SyncState{}
	}
	r.state.CalendarSyncStatus = status
	r.state.LastCalendarError = lastError
	return nil
}

func (r *fakeRepo) DeleteSyncState(_ context.Context, _ uuid.UUID) error {
	r.state = nil
	return nil
}

func (r *fakeRepo) GetMirroredEventByGoogleID(_ context.Context, _ uuid.UUID, googleEventID string) (*entity.MirroredEvent, error) {
	return r.mirrors[googleEventID], nil
}

func (r *fakeRepo) CreateMirroredEvent(_ context.Context, m *entity.MirroredEvent) error {
	m.ID = uuid.New()
	r.mirrors[m.GoogleEventID] = m
	return nil
}

func (r *fakeRepo) TouchMirroredEvent(_ context.Context, id uuid.UUID, googleUpdatedAt *time.Time) error {
	for _, m := range r.mirrors {
		if m.ID == id {
			m.GoogleUpdatedAt = googleUpdatedAt
			m.LastSyncedAt = time.Now()
		}
	}
	return nil
}

func (r *fakeRepo) DeleteMirroredEvent(_ context.Context, id uuid.UUID) error {
	for key, m := range r.mirrors {
		if m.ID == id {
			delete(r.mirrors, key)
		}
	}
	return nil
}

func (r *fakeRepo) DeleteGoogleDataByUserID(_ context.Context, _ uuid.UUID) error {
	r.mirrors = map[string]*entity.MirroredEvent{}
	return nil
}

func (r *fakeRepo) CreateScheduledEvent(_ context.Context, ev *entity.ScheduledEvent) error {
	ev.ID = uuid.New()
	ev.CreatedAt = time.Now()
	ev.UpdatedAt = time.Now()
	r.scheduled[ev.ID] = ev
	return nil
}

func (r *fakeRepo) UpdateScheduledEvent(_ context.Context, ev *entity.ScheduledEvent) error {
	existing, ok := r.scheduled[ev.ID]
	if !ok {
		return nil
	}
	existing.Type = ev.Type
	existing.Title = ev.Title
	existing.Description = ev.Description
	existing.Location = ev.Location
	existing.MeetingLink = ev.MeetingLink
	existing.StartTime = ev.StartTime
	existing.EndTime = ev.EndTime
	return nil
}

func (r *fakeRepo) DeleteScheduledEvent(_ context.Context, id uuid.UUID) error {
	delete(r.scheduled, id)
	return nil
}

func (r *fakeRepo) GetScheduledEventsByUserID(_ context.Context, _ uuid.UUID, _ time.Time, _ time.Time) ([]entity.ScheduledEvent, error) {
	var out []entity.ScheduledEvent
	for _, ev := range r.scheduled {
		out = append(out, *ev)
	}
	return out, nil
}

type fakeCache struct {
	locked bool
}

func (c *fakeCache) AddToTokenBlacklist(_ context.Context, _ string) error        { return nil }
func (c *fakeCache) IsTokenBlacklisted(_ context.Context, _ string) (bool, error) { return false, nil }
func (c *fakeCache) IncrementLoginAttempt(_ context.Context, _ string) error      { return nil }
func (c *fakeCache) IsLoginBlocked(_ context.Context, _ string) (bool, error)     { return false, nil }
func (c *fakeCache) Expire(_ context.Context, _ string, _ time.Duration) error    { return nil }
func (c *fakeCache) Del(_ context.Context, _ string) error                        { return nil }

func (c *fakeCache) AcquireSyncLock(_ context.Context, _ string) (bool, error) {
	if c.locked {
		return false, nil
	}
	c.locked = true
	return true, nil
}

func (c *fakeCache) ReleaseSyncLock(_ context.Context, _ string) error {
	c.locked = false
	return nil
}

type fakeStateStore struct {
	states map[string]*authentity.OAuthState
}

func (s *fakeStateStore) SaveOAuthState(_ context.Context, state string, userID uuid.UUID, expiresAt time.Time) error {
	if s.states == nil {
		s.states = map[string]*authentity.OAuthState{}
	}
	s.states[state] = &authentity.OAuthState{State: state, UserID: userID, ExpiresAt: expiresAt}
	return nil
}

func (s *fakeStateStore) GetOAuthState(_ context.Context, state string) (*authentity.OAuthState, error) {
	return s.states[state], nil
}

func (s *fakeStateStore) DeleteOAuthState(_ context.Context, state string) error {
	delete(s.states, state)
	return nil
}

func encryptedOrFail(t *testing.T, plaintext string) string {
	t.Helper()
	enc, err := utils.EncryptToken(plaintext)
	require.NoError(t, err)
	return enc
}

func connectedCredential(t *testing.T, userID uuid.UUID) *entity.GoogleCredential {
	t.Helper()
	return &entity.GoogleCredential{
		UserID:         userID,
		GoogleEmail:    "rep@example.com",
		AccessToken:    encryptedOrFail(t, "plain-access-token"),
		RefreshToken:   encryptedOrFail(t, "plain-refresh-token"),
		TokenExpiresAt: time.Now().Add(time.Hour),
	}
}

func newSyncFixture(t *testing.T, api *fakeCalendarAPI) (*IntegrationService, *fakeRepo, *fakeCache, uuid.UUID) {
	t.Helper()
	repo := newFakeRepo()
	cache := &fakeCache{}
	userID := uuid.New()
	repo.cred = connectedCredential(t, userID)
	repo.state = &entity.SyncState{
		UserID:             userID,
		CalendarSyncStatus: entity.SyncStatusIdle,
		GmailSyncStatus:    entity.SyncStatusIdle,
	}
	svc := NewIntegrationService(repo, &fakeStateStore{}, cache, api)
	return svc, repo, cache, userID
}

func timedEvent(id, title string, start time.Time) GoogleEvent {
	return GoogleEvent{
		ID:      id,
		Status:  "confirmed",
		Summary: title,
		Updated: start.UTC().Format(time.RFC3339),
		Start:   &GoogleEventTime{DateTime: start.Format(time.RFC3339)},
		End:     &GoogleEventTime{DateTime: start.Add(30 * time.Minute).Format(time.RFC3339)},
	}
}

func TestSyncCalendarImportsNewEvents(t *testing.T) {
	start := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	zoomCall := timedEvent("evt-1", "Zoom call with Acme Concessions", start)
	zoomCall.HangoutLink = "https://meet.google.com/abc-defg-hij"
	lunch := timedEvent("evt-2", "Lunch with stadium operator", start.Add(2*time.Hour))

	api := &fakeCalendarAPI{
		windowPages: []*EventListPage{
			{Items: []GoogleEvent{zoomCall, lunch}, NextSyncToken: "sync-token-1"},
		},
	}
	svc, repo, _, userID := newSyncFixture(t, api)

	result, appErr := svc.SyncCalendar(context.Background(), userID, false)
	require.Nil(t, appErr)

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, result.Deleted)
	assert.True(t, result.FullSync)

	require.NotNil(t, repo.cred.CalendarSyncToken)
	assert.Equal(t, "sync-token-1", *repo.cred.CalendarSyncToken)
	assert.NotNil(t, repo.cred.LastCalendarSyncAt)
	assert.Equal(t, entity.SyncStatusIdle, repo.state.CalendarSyncStatus)

	require.Len(t, repo.scheduled, 2)
	imported := repo.scheduled[repo.mirrors["evt-1"].ScheduledEventID]
	require.NotNil(t, imported)
	assert.Equal(t, entity.EventTypeVideo, imported.Type)
	assert.Equal(t, entity.EventSourceGoogle, imported.Source)
	require.NotNil(t, imported.MeetingLink)
	assert.Equal(t, "https://meet.google.com/abc-defg-hij", *imported.MeetingLink)

	other := repo.scheduled[repo.mirrors["evt-2"].ScheduledEventID]
	require.NotNil(t, other)
	assert.Equal(t, entity.EventTypeMeeting, other.Type)

	// Windowed fetch, not incremental.
	require.Len(t, api.calls, 1)
	assert.Empty(t, api.calls[0].SyncToken)
	assert.False(t, api.calls[0].TimeMin.IsZero())
	assert.False(t, api.calls[0].TimeMax.IsZero())
}

func TestSyncCalendarWalksAllPages(t *testing.T) {
	start := time.Now().Add(time.Hour)
	api := &fakeCalendarAPI{
		windowPages: []*EventListPage{
			{Items: []GoogleEvent{timedEvent("evt-1", "Venue tour", start)}, NextPageToken: "page-2"},
			{Items: []GoogleEvent{timedEvent("evt-2", "Menu tasting", start.Add(time.Hour))}, NextPageToken: "page-3"},
			{Items: []GoogleEvent{timedEvent("evt-3", "Contract review", start.Add(2 * time.Hour))}, NextSyncToken: "sync-token-final"},
		},
	}
	svc, repo, _, userID := newSyncFixture(t, api)

	result, appErr := svc.SyncCalendar(context.Background(), userID, false)
	require.Nil(t, appErr)

	assert.Equal(t, 3, result.Imported)
	require.Len(t, api.calls, 3)
	assert.Equal(t, "page-2", api.calls[1].PageToken)
	assert.Equal(t, "page-3", api.calls[2].PageToken)

	// Only the last page carries the cursor.
	require.NotNil(t, repo.cred.CalendarSyncToken)
	assert.Equal(t, "sync-token-final", *repo.cred.CalendarSyncToken)
}

func TestSyncCalendarIncrementalUpdatesExisting(t *testing.T) {
	svcStart := time.Now().Add(time.Hour).Truncate(time.Second)
	api := &fakeCalendarAPI{
		syncPages: []*EventListPage{
			{Items: []GoogleEvent{timedEvent("evt-1", "Rescheduled phone call", svcStart.Add(2 * time.Hour))}, NextSyncToken: "sync-token-2"},
		},
	}
	svc, repo, _, userID := newSyncFixture(t, api)

	cursor := "sync-token-1"
	repo.cred.CalendarSyncToken = &cursor

	existing := &entity.ScheduledEvent{
		UserID:    userID,
		Type:      entity.EventTypeMeeting,
		Title:     "Phone call",
		StartTime: svcStart,
		EndTime:   svcStart.Add(30 * time.Minute),
		Source:    entity.EventSourceGoogle,
	}
	require.NoError(t, repo.CreateScheduledEvent(context.Background(), existing))
	require.NoError(t, repo.CreateMirroredEvent(context.Background(), &entity.MirroredEvent{
		UserID:           userID,
		GoogleEventID:    "evt-1",
		ScheduledEventID: existing.ID,
		LastSyncedAt:     time.Now().Add(-time.Hour),
	}))

	result, appErr := svc.SyncCalendar(context.Background(), userID, false)
	require.Nil(t, appErr)

	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 1, result.Updated)
	assert.False(t, result.FullSync)

	// Matched on the remote id, so the row was updated in place.
	require.Len(t, repo.scheduled, 1)
	assert.Equal(t, "Rescheduled phone call", existing.Title)
	assert.Equal(t, entity.EventTypeCall, existing.Type)
	assert.Equal(t, svcStart.Add(2*time.Hour).Unix(), existing.StartTime.Unix())
	assert.NotNil(t, repo.mirrors["evt-1"].GoogleUpdatedAt)

	require.Len(t, api.calls, 1)
	assert.Equal(t, "sync-token-1", api.calls[0].SyncToken)
	require.NotNil(t, repo.cred.CalendarSyncToken)
	assert.Equal(t, "sync-token-2", *repo.cred.CalendarSyncToken)
}

func TestSyncCalendarCancelledUnknownEventIsNoop(t *testing.T) {
	api := &fakeCalendarAPI{
		windowPages: []*EventListPage{
			{Items: []GoogleEvent{{ID: "evt-gone", Status: "cancelled"}}, NextSyncToken: "sync-token-1"},
		},
	}
	svc, repo, _, userID := newSyncFixture(t, api)

	result, appErr := svc.SyncCalendar(context.Background(), userID, false)
	require.Nil(t, appErr)

	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, result.Deleted)
	assert.Empty(t, repo.scheduled)
}

func TestSyncCalendarCancelledDeletesMirroredEvent(t *testing.T) {
	api := &fakeCalendarAPI{
		windowPages: []*EventListPage{
			{Items: []GoogleEvent{{ID: "evt-1", Status: "cancelled"}}, NextSyncToken: "sync-token-1"},
		},
	}
	svc, repo, _, userID := newSyncFixture(t, api)

	existing := &entity.ScheduledEvent{UserID: userID, Title: "Doomed meeting", Source: entity.EventSourceGoogle}
	require.NoError(t, repo.CreateScheduledEvent(context.Background(), existing))
	require.NoError(t, repo.CreateMirroredEvent(context.Background(), &entity.MirroredEvent{
		UserID:           userID,
		GoogleEventID:    "evt-1",
		ScheduledEventID: existing.ID,
		LastSyncedAt:     time.Now(),
	}))

	result, appErr := svc.SyncCalendar(context.Background(), userID, false)
	require.Nil(t, appErr)

	assert.Equal(t, 1, result.Deleted)
	assert.Empty(t, repo.scheduled)
	assert.Empty(t, repo.mirrors)
}

func TestSyncCalendarSkipsAllDayEvents(t *testing.T) {
	api := &fakeCalendarAPI{
		windowPages: []*EventListPage{
			{Items: []GoogleEvent{
				{ID: "evt-allday", Status: "confirmed", Summary: "Trade show", Start: &GoogleEventTime{Date: "2026-09-15"}, End: &GoogleEventTime{Date: "2026-09-16"}},
				{ID: "evt-nostart", Status: "confirmed", Summary: "Broken event"},
			}, NextSyncToken: "sync-token-1"},
		},
	}
	svc, repo, _, userID := newSyncFixture(t, api)

	result, appErr := svc.SyncCalendar(context.Background(), userID, false)
	require.Nil(t, appErr)

	assert.Equal(t, 0, result.Imported)
	assert.Empty(t, repo.scheduled)
	assert.Empty(t, repo.mirrors)
}

func TestSyncCalendarSecondRunIsIdempotent(t *testing.T) {
	start := time.Now().Add(time.Hour)
	makePages := func() []*EventListPage {
		return []*EventListPage{
			{Items: []GoogleEvent{timedEvent("evt-1", "Venue walkthrough", start)}},
		}
	}
	api := &fakeCalendarAPI{windowPages: append(makePages(), makePages()...)}
	svc, repo, _, userID := newSyncFixture(t, api)

	first, appErr := svc.SyncCalendar(context.Background(), userID, false)
	require.Nil(t, appErr)
	assert.Equal(t, 1, first.Imported)

	// No sync token came back, so the second run repeats the window fetch.
	second, appErr := svc.SyncCalendar(context.Background(), userID, false)
	require.Nil(t, appErr)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 1, second.Updated)
	assert.Len(t, repo.scheduled, 1)
	assert.Len(t, repo.mirrors, 1)
}

func TestSyncCalendarStaleCursorFallsBackToWindow(t *testing.T) {
	start := time.Now().Add(time.Hour)
	api := &fakeCalendarAPI{
		syncErr: ErrSyncTokenExpired,
		windowPages: []*EventListPage{
			{Items: []GoogleEvent{timedEvent("evt-1", "Recovered event", start)}, NextSyncToken: "sync-token-fresh"},
		},
	}
	svc, repo, _, userID := newSyncFixture(t, api)

	cursor := "stale-token"
	repo.cred.CalendarSyncToken = &cursor

	result, appErr := svc.SyncCalendar(context.Background(), userID, false)
	require.Nil(t, appErr)

	assert.True(t, result.FullSync)
	assert.Equal(t, 1, result.Imported)

	require.Len(t, api.calls, 2)
	assert.Equal(t, "stale-token", api.calls[0].SyncToken)
	assert.Empty(t, api.calls[1].SyncToken)
	assert.False(t, api.calls[1].TimeMin.IsZero())

	require.NotNil(t, repo.cred.CalendarSyncToken)
	assert.Equal(t, "sync-token-fresh", *repo.cred.CalendarSyncToken)
	assert.Equal(t, entity.SyncStatusIdle, repo.state.CalendarSyncStatus)
}

func TestSyncCalendarRejectedWhileLockHeld(t *testing.T) {
	api := &fakeCalendarAPI{}
	svc, _, cache, userID := newSyncFixture(t, api)
	cache.locked = true

	result, appErr := svc.SyncCalendar(context.Background(), userID, false)
	assert.Nil(t, result)
	require.NotNil(t, appErr)
	assert.Equal(t, coreerrors.ErrSyncInProgress, appErr.Code)
	assert.Empty(t, api.calls)
}

func TestSyncCalendarNotConnected(t *testing.T) {
	api := &fakeCalendarAPI{}
	svc, repo, _, userID := newSyncFixture(t, api)
	repo.cred = nil

	result, appErr := svc.SyncCalendar(context.Background(), userID, false)
	assert.Nil(t, result)
	require.NotNil(t, appErr)
	assert.Equal(t, coreerrors.ErrNotConnected, appErr.Code)
}

func TestSyncCalendarAPIErrorSetsErrorStatus(t *testing.T) {
	api := &fakeCalendarAPI{syncErr: errors.New("googleapi: backend error")}
	svc, repo, cache, userID := newSyncFixture(t, api)

	cursor := "sync-token-1"
	repo.cred.CalendarSyncToken = &cursor

	result, appErr := svc.SyncCalendar(context.Background(), userID, false)
	assert.Nil(t, result)
	require.NotNil(t, appErr)
	assert.Equal(t, coreerrors.ErrInternalServer, appErr.Code)

	assert.Equal(t, entity.SyncStatusError, repo.state.CalendarSyncStatus)
	require.NotNil(t, repo.state.LastCalendarError)
	assert.Contains(t, *repo.state.LastCalendarError, "backend error")

	// Cursor untouched so the next run can retry incrementally.
	require.NotNil(t, repo.cred.CalendarSyncToken)
	assert.Equal(t, "sync-token-1", *repo.cred.CalendarSyncToken)

	// Lock released even on failure.
	assert.False(t, cache.locked)
}

func TestSyncCalendarFullSyncIgnoresStoredCursor(t *testing.T) {
	start := time.Now().Add(time.Hour)
	api := &fakeCalendarAPI{
		windowPages: []*EventListPage{
			{Items: []GoogleEvent{timedEvent("evt-1", "Season kickoff", start)}, NextSyncToken: "sync-token-new"},
		},
	}
	svc, repo, _, userID := newSyncFixture(t, api)

	cursor := "sync-token-old"
	repo.cred.CalendarSyncToken = &cursor

	result, appErr := svc.SyncCalendar(context.Background(), userID, true)
	require.Nil(t, appErr)

	assert.True(t, result.FullSync)
	require.Len(t, api.calls, 1)
	assert.Empty(t, api.calls[0].SyncToken)
	assert.Equal(t, "sync-token-new", *repo.cred.CalendarSyncToken)
}
