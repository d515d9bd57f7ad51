package service

import (
	"context"
	"time"

	"venue-crm/core/cache"
	"venue-crm/core/constants"
	"venue-crm/core/errors"
	"venue-crm/core/logger"
	"venue-crm/core/utils"
	authentity "venue-crm/modules/auth/entity"
	"venue-crm/modules/integration/dto"
	"venue-crm/modules/integration/entity"
	"venue-crm/modules/integration/repository"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// OAuthStateStore persists one-time OAuth state tokens bound to the user who
// initiated the connect flow.
type OAuthStateStore interface {
	SaveOAuthState(ctx context.Context, state string, userID uuid.UUID, expiresAt time.Time) error
	GetOAuthState(ctx context.Context, state string) (*authentity.OAuthState, error)
	DeleteOAuthState(ctx context.Context, state string) error
}

type IntegrationService struct {
	repo   repository.IntegrationRepositoryInterface
	states OAuthStateStore
	cache  cache.Cache
	api    CalendarAPI
}

func NewIntegrationService(repo repository.IntegrationRepositoryInterface, states OAuthStateStore, cache cache.Cache, api CalendarAPI) *IntegrationService {
	return &IntegrationService{
		repo:   repo,
		states: states,
		cache:  cache,
		api:    api,
	}
}

// GetGoogleAuthURL starts the connect flow. The state token is bound to the
// calling user so the callback cannot attach someone else's grant.
func (s *IntegrationService) GetGoogleAuthURL(ctx context.Context, userID uuid.UUID) (*dto.ConnectURLResponse, *errors.AppError) {
	state := utils.GenerateRandomID(32)
	if state == "" {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to generate state token"}
	}

	if err := s.states.SaveOAuthState(ctx, state, userID, time.Now().Add(constants.OAuthStateLifetime)); err != nil {
		logger.Error("IntegrationService:GetGoogleAuthURL:Error", "error", err, "user_id", userID)
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to start Google connect flow", Err: err}
	}

	authURL := OAuthConfig().AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	return &dto.ConnectURLResponse{AuthURL: authURL}, nil
}

// HandleGoogleCallback exchanges the authorization code and stores the
// encrypted tokens for the user the state token was issued to.
func (s *IntegrationService) HandleGoogleCallback(ctx context.Context, state string, code string) (*dto.StatusResponse, *errors.AppError) {
	saved, err := s.states.GetOAuthState(ctx, state)
	if err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to validate state token", Err: err}
	}
	if saved == nil {
		return nil, &errors.AppError{Code: errors.ErrInvalidInput, Message: "Invalid or expired state token"}
	}
	if err := s.states.DeleteOAuthState(ctx, state); err != nil {
		logger.Warn("IntegrationService:HandleGoogleCallback:StateDeleteFailed", "error", err)
	}
	userID := saved.UserID

	token, err := OAuthConfig().Exchange(ctx, code)
	if err != nil {
		logger.Error("IntegrationService:HandleGoogleCallback:ExchangeError", "error", err, "user_id", userID)
		return nil, &errors.AppError{Code: errors.ErrUnauthorized, Message: "Failed to exchange authorization code", Err: err}
	}

	refreshToken := token.RefreshToken
	if refreshToken == "" {
		// Google omits the refresh token on re-consent; keep the stored one.
		existing, getErr := s.repo.GetCredentialByUserID(ctx, userID)
		if getErr == nil && existing != nil {
			if decrypted, decErr := utils.DecryptToken(existing.RefreshToken); decErr == nil {
				refreshToken = decrypted
			}
		}
	}
	if refreshToken == "" {
		return nil, &errors.AppError{Code: errors.ErrInvalidInput, Message: "Google did not return a refresh token; revoke access and reconnect"}
	}

	info, err := s.api.Userinfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		logger.Error("IntegrationService:HandleGoogleCallback:UserinfoError", "error", err, "user_id", userID)
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to fetch Google account info", Err: err}
	}

	encAccess, err := utils.EncryptToken(token.AccessToken)
	if err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to encrypt tokens", Err: err}
	}
	encRefresh, err := utils.EncryptToken(refreshToken)
	if err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to encrypt tokens", Err: err}
	}

	cred := &entity.GoogleCredential{
		UserID:          userID,
		GoogleEmail:     info.Email,
		GoogleAccountID: info.ID,
		AccessToken:     encAccess,
		RefreshToken:    encRefresh,
		Scope:           "calendar.readonly userinfo.email",
		TokenExpiresAt:  token.Expiry,
	}
	if err := s.repo.UpsertCredential(ctx, cred); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to store Google credential", Err: err}
	}

	syncState := &entity.SyncState{
		UserID:             userID,
		CalendarSyncStatus: entity.SyncStatusIdle,
		GmailSyncStatus:    entity.SyncStatusIdle,
	}
	if err := s.repo.UpsertSyncState(ctx, syncState); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to initialize sync state", Err: err}
	}

	logger.Info("Google account connected", "user_id", userID, "google_email", info.Email)
	return s.Status(ctx, userID)
}

// Status reports whether the user has a connected Google account and the
// state of each background sync.
func (s *IntegrationService) Status(ctx context.Context, userID uuid.UUID) (*dto.StatusResponse, *errors.AppError) {
	cred, err := s.repo.GetCredentialByUserID(ctx, userID)
	if err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to load integration status", Err: err}
	}
	if cred == nil {
		return &dto.StatusResponse{Connected: false}, nil
	}

	state, err := s.repo.GetSyncState(ctx, userID)
	if err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to load sync state", Err: err}
	}

	resp := &dto.StatusResponse{
		Connected:   true,
		GoogleEmail: cred.GoogleEmail,
		ConnectedAt: &cred.CreatedAt,
		Calendar: &dto.CalendarSyncStatus{
			Status:     entity.SyncStatusIdle,
			LastSyncAt: cred.LastCalendarSyncAt,
		},
		Gmail: &dto.GmailSyncStatus{
			Status: entity.SyncStatusIdle,
		},
	}
	if state != nil {
		resp.Calendar.Status = state.CalendarSyncStatus
		resp.Calendar.LastError = state.LastCalendarError
		resp.Gmail.Status = state.GmailSyncStatus
		resp.Gmail.LastError = state.LastGmailError
		resp.Gmail.LastSyncAt = state.LastGmailSyncAt
	}
	return resp, nil
}

// Disconnect revokes the Google grant and removes stored credentials, sync
// state and mirror links. Imported scheduled events are kept.
func (s *IntegrationService) Disconnect(ctx context.Context, userID uuid.UUID) (*dto.DisconnectResponse, *errors.AppError) {
	cred, err := s.repo.GetCredentialByUserID(ctx, userID)
	if err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to load Google credential", Err: err}
	}
	if cred == nil {
		return nil, &errors.AppError{Code: errors.ErrNotConnected, Message: "No Google account connected"}
	}

	if refresh, decErr := utils.DecryptToken(cred.RefreshToken); decErr == nil {
		if revErr := s.api.RevokeToken(ctx, refresh); revErr != nil {
			logger.Warn("IntegrationService:Disconnect:RevokeFailed", "error", revErr, "user_id", userID)
		}
	} else {
		logger.Warn("IntegrationService:Disconnect:DecryptFailed", "error", decErr, "user_id", userID)
	}

	if err := s.repo.DeleteGoogleDataByUserID(ctx, userID); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to remove mirrored events", Err: err}
	}
	if err := s.repo.DeleteSyncState(ctx, userID); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to remove sync state", Err: err}
	}
	if err := s.repo.DeleteCredential(ctx, userID); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to remove Google credential", Err: err}
	}

	logger.Info("Google account disconnected", "user_id", userID)
	return &dto.DisconnectResponse{Disconnected: true}, nil
}

// ListSchedule returns the user's scheduled events inside [from, to).
func (s *IntegrationService) ListSchedule(ctx context.Context, userID uuid.UUID, from time.Time, to time.Time) ([]entity.ScheduledEvent, *errors.AppError) {
	events, err := s.repo.GetScheduledEventsByUserID(ctx, userID, from, to)
	if err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to load schedule", Err: err}
	}
	if events == nil {
		events = []entity.ScheduledEvent{}
	}
	return events, nil
}

// userTokenSource bundles an oauth2 token source with the plaintext tokens it
// was seeded from, so refreshed tokens can be detected and written back.
type userTokenSource struct {
	ts           oauth2.TokenSource
	cred         *entity.GoogleCredential
	accessToken  string
	refreshToken string
}

func (s *IntegrationService) loadTokenSource(ctx context.Context, userID uuid.UUID) (*userTokenSource, *errors.AppError) {
	cred, err := s.repo.GetCredentialByUserID(ctx, userID)
	if err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to load Google credential", Err: err}
	}
	if cred == nil {
		return nil, &errors.AppError{Code: errors.ErrNotConnected, Message: "No Google account connected"}
	}

	access, err := utils.DecryptToken(cred.AccessToken)
	if err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to decrypt access token", Err: err}
	}
	refresh, err := utils.DecryptToken(cred.RefreshToken)
	if err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to decrypt refresh token", Err: err}
	}

	token := &oauth2.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		Expiry:       cred.TokenExpiresAt,
	}
	return &userTokenSource{
		ts:           OAuthConfig().TokenSource(ctx, token),
		cred:         cred,
		accessToken:  access,
		refreshToken: refresh,
	}, nil
}

// persistRefreshedTokens writes back tokens the oauth2 transport refreshed
// during API calls. Persistence failures are logged, not surfaced: the sync
// already succeeded with a valid token, the next run just refreshes again.
func (s *IntegrationService) persistRefreshedTokens(ctx context.Context, uts *userTokenSource) {
	token, err := uts.ts.Token()
	if err != nil {
		return
	}
	if token.AccessToken == uts.accessToken {
		return
	}

	refresh := token.RefreshToken
	if refresh == "" {
		refresh = uts.refreshToken
	}

	encAccess, err := utils.EncryptToken(token.AccessToken)
	if err != nil {
		logger.Error("IntegrationService:persistRefreshedTokens:EncryptError", "error", err, "user_id", uts.cred.UserID)
		return
	}
	encRefresh, err := utils.EncryptToken(refresh)
	if err != nil {
		logger.Error("IntegrationService:persistRefreshedTokens:EncryptError", "error", err, "user_id", uts.cred.UserID)
		return
	}

	if err := s.repo.UpdateCredentialTokens(ctx, uts.cred.UserID, encAccess, encRefresh, token.Expiry); err != nil {
		logger.Error("IntegrationService:persistRefreshedTokens:PersistError", "error", err, "user_id", uts.cred.UserID)
	}
}
