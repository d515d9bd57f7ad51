package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"venue-crm/core/errors"
	"venue-crm/modules/auth/dto"
	"venue-crm/modules/auth/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPIKeyRepo struct {
	byKeyID map[string]*entity.APIKey
	touched []uuid.UUID
}

func newFakeAPIKeyRepo() *fakeAPIKeyRepo {
	return &fakeAPIKeyRepo{byKeyID: make(map[string]*entity.APIKey)}
}

func (r *fakeAPIKeyRepo) Create(_ context.Context, key *entity.APIKey) (*entity.APIKey, error) {
	key.ID = uuid.New()
	key.CreatedAt = time.Now()
	key.UpdatedAt = key.CreatedAt
	r.byKeyID[key.KeyID] = key
	return key, nil
}

func (r *fakeAPIKeyRepo) GetByKeyID(_ context.Context, keyID string) (*entity.APIKey, error) {
	return r.byKeyID[keyID], nil
}

func (r *fakeAPIKeyRepo) GetByUserID(_ context.Context, userID uuid.UUID) ([]entity.APIKey, error) {
	var out []entity.APIKey
	for _, k := range r.byKeyID {
		if k.UserID == userID {
			out = append(out, *k)
		}
	}
	return out, nil
}

func (r *fakeAPIKeyRepo) Revoke(_ context.Context, userID uuid.UUID, id uuid.UUID) (bool, error) {
	for _, k := range r.byKeyID {
		if k.ID == id && k.UserID == userID && k.RevokedAt == nil {
			now := time.Now()
			k.RevokedAt = &now
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAPIKeyRepo) TouchLastUsed(_ context.Context, id uuid.UUID) error {
	r.touched = append(r.touched, id)
	return nil
}

func TestAPIKeyCreateAndVerifyRoundTrip(t *testing.T) {
	repo := newFakeAPIKeyRepo()
	service := NewAPIKeyService(repo)
	userID := uuid.New()

	created, appErr := service.Create(context.Background(), userID, &dto.CreateAPIKeyRequest{Name: "ci"})
	require.Nil(t, appErr)
	require.True(t, strings.HasPrefix(created.Key, "crm_"))
	assert.Len(t, strings.Split(created.Key, "_"), 3)

	// the plaintext secret is never stored
	stored := repo.byKeyID[created.KeyID]
	require.NotNil(t, stored)
	assert.NotContains(t, created.Key, stored.KeyHash)

	gotUser, appErr := service.VerifyAPIKey(context.Background(), created.Key)
	require.Nil(t, appErr)
	assert.Equal(t, userID, gotUser)
	assert.Len(t, repo.touched, 1)
}

func TestVerifyAPIKeyRejectsWrongSecret(t *testing.T) {
	repo := newFakeAPIKeyRepo()
	service := NewAPIKeyService(repo)

	created, appErr := service.Create(context.Background(), uuid.New(), &dto.CreateAPIKeyRequest{Name: "ci"})
	require.Nil(t, appErr)

	_, appErr = service.VerifyAPIKey(context.Background(), "crm_"+created.KeyID+"_notthesecret")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
}

func TestVerifyAPIKeyRejectsMalformedKey(t *testing.T) {
	service := NewAPIKeyService(newFakeAPIKeyRepo())

	for _, raw := range []string{"", "crm_onlyid", "tok_abc_def", "crm__secret", "crm_id_"} {
		_, appErr := service.VerifyAPIKey(context.Background(), raw)
		require.NotNil(t, appErr, "raw key %q", raw)
		assert.Equal(t, errors.ErrInvalidTokenFormat, appErr.Code)
	}
}

func TestVerifyAPIKeyRejectsRevokedAndExpired(t *testing.T) {
	repo := newFakeAPIKeyRepo()
	service := NewAPIKeyService(repo)
	userID := uuid.New()

	revoked, appErr := service.Create(context.Background(), userID, &dto.CreateAPIKeyRequest{Name: "old"})
	require.Nil(t, appErr)
	ok, err := repo.Revoke(context.Background(), userID, revoked.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, appErr = service.VerifyAPIKey(context.Background(), revoked.Key)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)

	expired, appErr := service.Create(context.Background(), userID, &dto.CreateAPIKeyRequest{Name: "short", ExpiresInDays: 1})
	require.Nil(t, appErr)
	past := time.Now().Add(-time.Hour)
	repo.byKeyID[expired.KeyID].ExpiresAt = &past

	_, appErr = service.VerifyAPIKey(context.Background(), expired.Key)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
}

func TestCreateAPIKeyRequiresName(t *testing.T) {
	service := NewAPIKeyService(newFakeAPIKeyRepo())

	_, appErr := service.Create(context.Background(), uuid.New(), &dto.CreateAPIKeyRequest{Name: "  "})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}
