package repository

import (
	"context"
	"database/sql"
	"time"
	"venue-crm/core/logger"
	"venue-crm/modules/auth/entity"

	"github.com/google/uuid"
)

// SaveOAuthState saves a Google OAuth state token bound to its owner.
func (r *AuthRepository) SaveOAuthState(ctx context.Context, state string, userID uuid.UUID, expiresAt time.Time) error {
	query := `
		INSERT INTO oauth_states (id, state, user_id, expires_at, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, NOW(), NOW())
		ON CONFLICT (state)
		DO UPDATE SET user_id = $2, expires_at = $3, updated_at = NOW()
	`
	err := r.DB.ExecContext(ctx, query, state, userID, expiresAt)
	if err != nil {
		logger.Error("AuthRepository:SaveOAuthState:Error", "error", err, "state", state)
		return err
	}
	return nil
}

// GetOAuthState retrieves a non-expired OAuth state token; expired rows are
// swept opportunistically on read.
func (r *AuthRepository) GetOAuthState(ctx context.Context, state string) (*entity.OAuthState, error) {
	if err := r.CleanupExpiredOAuthStates(ctx); err != nil {
		logger.Warn("AuthRepository:GetOAuthState:CleanupFailed", "error", err)
	}

	var oauthState entity.OAuthState
	query := `
		SELECT id, state, user_id, expires_at, created_at, updated_at
		FROM oauth_states
		WHERE state = $1 AND expires_at > NOW()
	`
	err := r.DB.GetContext(ctx, &oauthState, query, state)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetOAuthState:Error", "error", err, "state", state)
		return nil, err
	}
	return &oauthState, nil
}

// DeleteOAuthState removes a state token after use (one-time use).
func (r *AuthRepository) DeleteOAuthState(ctx context.Context, state string) error {
	query := `DELETE FROM oauth_states WHERE state = $1`
	err := r.DB.ExecContext(ctx, query, state)
	if err != nil {
		logger.Error("AuthRepository:DeleteOAuthState:Error", "error", err, "state", state)
		return err
	}
	return nil
}

// CleanupExpiredOAuthStates removes expired OAuth state tokens.
func (r *AuthRepository) CleanupExpiredOAuthStates(ctx context.Context) error {
	query := `DELETE FROM oauth_states WHERE expires_at < NOW()`
	err := r.DB.ExecContext(ctx, query)
	if err != nil {
		logger.Error("AuthRepository:CleanupExpiredOAuthStates:Error", "error", err)
		return err
	}
	return nil
}
