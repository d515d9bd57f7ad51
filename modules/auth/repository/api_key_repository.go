package repository

import (
	"context"
	"database/sql"
	"venue-crm/core/database"
	"venue-crm/core/logger"
	"venue-crm/modules/auth/entity"

	"github.com/google/uuid"
)

type APIKeyRepositoryInterface interface {
	Create(ctx context.Context, key *entity.APIKey) (*entity.APIKey, error)
	GetByKeyID(ctx context.Context, keyID string) (*entity.APIKey, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]entity.APIKey, error)
	Revoke(ctx context.Context, userID uuid.UUID, id uuid.UUID) (bool, error)
	TouchLastUsed(ctx context.Context, id uuid.UUID) error
}

type APIKeyRepository struct {
	DB database.Database
}

func NewAPIKeyRepository(db database.Database) *APIKeyRepository {
	return &APIKeyRepository{DB: db}
}

func (r *APIKeyRepository) Create(ctx context.Context, key *entity.APIKey) (*entity.APIKey, error) {
	query := `
		INSERT INTO api_keys (user_id, name, key_id, key_hash, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		key.UserID, key.Name, key.KeyID, key.KeyHash, key.ExpiresAt,
	).Scan(&key.ID, &key.CreatedAt, &key.UpdatedAt)
	if err != nil {
		logger.Error("APIKeyRepository:Create:Error", "error", err)
		return nil, err
	}
	return key, nil
}

func (r *APIKeyRepository) GetByKeyID(ctx context.Context, keyID string) (*entity.APIKey, error) {
	var key entity.APIKey
	query := `
		SELECT id, user_id, name, key_id, key_hash, last_used_at, expires_at, revoked_at, created_at, updated_at
		FROM api_keys
		WHERE key_id = $1
	`
	err := r.DB.GetContext(ctx, &key, query, keyID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("APIKeyRepository:GetByKeyID:Error", "error", err)
		return nil, err
	}
	return &key, nil
}

func (r *APIKeyRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]entity.APIKey, error) {
	var keys []entity.APIKey
	query := `
		SELECT id, user_id, name, key_id, key_hash, last_used_at, expires_at, revoked_at, created_at, updated_at
		FROM api_keys
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	err := r.DB.SelectContext(ctx, &keys, query, userID)
	if err != nil {
		logger.Error("APIKeyRepository:GetByUserID:Error", "error", err, "user_id", userID)
		return nil, err
	}
	return keys, nil
}

// Revoke marks a key revoked. Returns false when no row matched.
func (r *APIKeyRepository) Revoke(ctx context.Context, userID uuid.UUID, id uuid.UUID) (bool, error) {
	query := `
		UPDATE api_keys
		SET revoked_at = NOW(), updated_at = NOW()
		WHERE id = :id AND user_id = :user_id AND revoked_at IS NULL
	`
	result, err := r.DB.NamedExecContext(ctx, query, map[string]any{"id": id, "user_id": userID})
	if err != nil {
		logger.Error("APIKeyRepository:Revoke:Error", "error", err, "key_id", id)
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *APIKeyRepository) TouchLastUsed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE api_keys SET last_used_at = NOW() WHERE id = $1`
	return r.DB.ExecContext(ctx, query, id)
}
