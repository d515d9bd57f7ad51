package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"venue-crm/core/constants"
	"venue-crm/core/errors"
	"venue-crm/core/logger"
	"venue-crm/core/utils"
	"venue-crm/modules/auth/dto"
	"venue-crm/modules/auth/entity"
	"venue-crm/modules/auth/repository"

	"github.com/google/uuid"
)

// APIKeyService issues and verifies API keys of the form
// crm_<key_id>_<secret>. Only sha256(secret) is stored.
type APIKeyService struct {
	repo repository.APIKeyRepositoryInterface
}

func NewAPIKeyService(repo repository.APIKeyRepositoryInterface) *APIKeyService {
	return &APIKeyService{repo: repo}
}

func (service *APIKeyService) Create(ctx context.Context, userID uuid.UUID, requestData *dto.CreateAPIKeyRequest) (*dto.CreatedAPIKeyResponse, *errors.AppError) {
	if strings.TrimSpace(requestData.Name) == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "api key name is required", nil)
	}

	keyID := utils.GenerateRandomID(constants.APIKeyIDLen)
	secret := utils.GenerateRandomID(constants.APIKeySecretLen)
	if keyID == "" || secret == "" {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate api key", nil)
	}

	var expiresAt *time.Time
	if requestData.ExpiresInDays > 0 {
		t := time.Now().Add(time.Duration(requestData.ExpiresInDays) * 24 * time.Hour)
		expiresAt = &t
	}

	key := &entity.APIKey{
		UserID:    userID,
		Name:      requestData.Name,
		KeyID:     keyID,
		KeyHash:   hashSecret(secret),
		ExpiresAt: expiresAt,
	}

	created, err := service.repo.Create(ctx, key)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create api key", err)
	}

	return &dto.CreatedAPIKeyResponse{
		APIKeyResponse: toAPIKeyDTO(created),
		Key:            fmt.Sprintf("%s_%s_%s", constants.APIKeyPrefix, keyID, secret),
	}, nil
}

func (service *APIKeyService) List(ctx context.Context, userID uuid.UUID) ([]dto.APIKeyResponse, *errors.AppError) {
	keys, err := service.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list api keys", err)
	}

	result := make([]dto.APIKeyResponse, 0, len(keys))
	for i := range keys {
		result = append(result, toAPIKeyDTO(&keys[i]))
	}
	return result, nil
}

func (service *APIKeyService) Revoke(ctx context.Context, userID uuid.UUID, id uuid.UUID) *errors.AppError {
	revoked, err := service.repo.Revoke(ctx, userID, id)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to revoke api key", err)
	}
	if !revoked {
		return errors.NewAppError(errors.ErrNotFound, "api key not found or already revoked", nil)
	}
	return nil
}

// VerifyAPIKey resolves a raw bearer key to its owning user. Implements
// middleware.APIKeyVerifier.
func (service *APIKeyService) VerifyAPIKey(ctx context.Context, rawKey string) (uuid.UUID, *errors.AppError) {
	keyID, secret, err := splitRawKey(rawKey)
	if err != nil {
		return uuid.Nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "malformed api key", err)
	}

	key, errGet := service.repo.GetByKeyID(ctx, keyID)
	if errGet != nil {
		return uuid.Nil, errors.NewAppError(errors.ErrInternalServer, "failed to look up api key", errGet)
	}
	if key == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "unknown api key", nil)
	}

	if key.RevokedAt != nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "api key has been revoked", nil)
	}
	if key.ExpiresAt != nil && time.Now().After(*key.ExpiresAt) {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "api key has expired", nil)
	}

	if subtle.ConstantTimeCompare([]byte(key.KeyHash), []byte(hashSecret(secret))) != 1 {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "invalid api key", nil)
	}

	if errTouch := service.repo.TouchLastUsed(ctx, key.ID); errTouch != nil {
		logger.Error("APIKeyService:VerifyAPIKey:TouchLastUsed:Error", "error", errTouch)
	}

	return key.UserID, nil
}

func splitRawKey(rawKey string) (keyID string, secret string, err error) {
	parts := strings.Split(rawKey, "_")
	if len(parts) != 3 || parts[0] != constants.APIKeyPrefix || parts[1] == "" || parts[2] == "" {
		return "", "", fmt.Errorf("expected %s_<id>_<secret>", constants.APIKeyPrefix)
	}
	return parts[1], parts[2], nil
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func toAPIKeyDTO(key *entity.APIKey) dto.APIKeyResponse {
	return dto.APIKeyResponse{
		ID:         key.ID,
		Name:       key.Name,
		KeyID:      key.KeyID,
		LastUsedAt: key.LastUsedAt,
		ExpiresAt:  key.ExpiresAt,
		RevokedAt:  key.RevokedAt,
		CreatedAt:  key.CreatedAt,
	}
}
