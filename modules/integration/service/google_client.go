package service

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"venue-crm/core/config"
	"venue-crm/core/constants"
	"venue-crm/core/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrSyncTokenExpired signals a 410 from the events list endpoint: the stored
// incremental cursor is no longer valid and the caller must fall back to a
// windowed fetch.
var ErrSyncTokenExpired = goerrors.New("calendar sync token expired")

const (
	calendarEventsURL = "https://www.googleapis.com/calendar/v3/calendars/primary/events"
	userinfoURL       = "https://www.googleapis.com/oauth2/v2/userinfo"
	revokeURL         = "https://oauth2.googleapis.com/revoke"
)

type EventListParams struct {
	SyncToken string
	TimeMin   time.Time
	TimeMax   time.Time
	PageToken string
}

type GoogleEventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

type GoogleConferenceEntryPoint struct {
	EntryPointType string `json:"entryPointType"`
	URI            string `json:"uri"`
}

type GoogleConferenceData struct {
	EntryPoints []GoogleConferenceEntryPoint `json:"entryPoints"`
}

type GoogleEvent struct {
	ID             string                `json:"id"`
	Status         string                `json:"status"`
	Summary        string                `json:"summary"`
	Description    string                `json:"description"`
	Location       string                `json:"location"`
	HangoutLink    string                `json:"hangoutLink"`
	Updated        string                `json:"updated"`
	Start          *GoogleEventTime      `json:"start"`
	End            *GoogleEventTime      `json:"end"`
	ConferenceData *GoogleConferenceData `json:"conferenceData"`
}

type EventListPage struct {
	Items         []GoogleEvent `json:"items"`
	NextPageToken string        `json:"nextPageToken"`
	NextSyncToken string        `json:"nextSyncToken"`
}

type GoogleUserinfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// CalendarAPI is the surface of the Google Calendar REST API the sync engine
// needs. Kept small so tests can substitute a fake.
type CalendarAPI interface {
	ListEvents(ctx context.Context, ts oauth2.TokenSource, params EventListParams) (*EventListPage, error)
	Userinfo(ctx context.Context, ts oauth2.TokenSource) (*GoogleUserinfo, error)
	RevokeToken(ctx context.Context, token string) error
}

type googleCalendarClient struct {
	httpClient *http.Client
}

func NewGoogleCalendarClient() CalendarAPI {
	return &googleCalendarClient{
		httpClient: &http.Client{Timeout: constants.GoogleAPITimeout},
	}
}

// OAuthConfig builds the oauth2 config from app configuration. The calendar
// scope is read-only: nothing is ever written back to Google.
func OAuthConfig() *oauth2.Config {
	cfg := config.Get()
	return &oauth2.Config{
		ClientID:     cfg.GoogleAPI.ClientID,
		ClientSecret: cfg.GoogleAPI.ClientSecret,
		RedirectURL:  cfg.GoogleAPI.RedirectURI,
		Scopes: []string{
			"https://www.googleapis.com/auth/calendar.readonly",
			"https://www.googleapis.com/auth/userinfo.email",
		},
		Endpoint: google.Endpoint,
	}
}

func (c *googleCalendarClient) ListEvents(ctx context.Context, ts oauth2.TokenSource, params EventListParams) (*EventListPage, error) {
	q := url.Values{}
	q.Set("singleEvents", "true")
	q.Set("maxResults", strconv.Itoa(constants.SyncPageSize))
	if params.SyncToken != "" {
		q.Set("syncToken", params.SyncToken)
	} else {
		q.Set("timeMin", params.TimeMin.UTC().Format(time.RFC3339))
		q.Set("timeMax", params.TimeMax.UTC().Format(time.RFC3339))
	}
	if params.PageToken != "" {
		q.Set("pageToken", params.PageToken)
	}

	body, status, err := c.get(ctx, ts, calendarEventsURL+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	if status == http.StatusGone {
		return nil, ErrSyncTokenExpired
	}
	if status != http.StatusOK {
		logger.Error("GoogleCalendarClient:ListEvents:Error", "status", status, "body", string(body))
		return nil, fmt.Errorf("calendar events list returned %d", status)
	}

	var page EventListPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decode events page: %w", err)
	}
	return &page, nil
}

func (c *googleCalendarClient) Userinfo(ctx context.Context, ts oauth2.TokenSource) (*GoogleUserinfo, error) {
	body, status, err := c.get(ctx, ts, userinfoURL)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned %d", status)
	}
	var info GoogleUserinfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	return &info, nil
}

// RevokeToken invalidates the grant on Google's side. Best effort: Google
// returns 400 for already-revoked tokens, which callers may ignore.
func (c *googleCalendarClient) RevokeToken(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, revokeURL+"?token="+url.QueryEscape(token), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token revoke returned %d", resp.StatusCode)
	}
	return nil
}

func (c *googleCalendarClient) get(ctx context.Context, ts oauth2.TokenSource, rawURL string) ([]byte, int, error) {
	token, err := ts.Token()
	if err != nil {
		return nil, 0, fmt.Errorf("obtain access token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	token.SetAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}
