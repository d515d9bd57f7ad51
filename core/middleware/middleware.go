package middleware

import (
	"context"
	"strings"
	"venue-crm/core/cache"
	"venue-crm/core/constants"
	"venue-crm/core/controller"
	"venue-crm/core/errors"
	"venue-crm/core/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKeyUserID is where AuthMiddleware stores the authenticated user id.
const ContextKeyUserID = "user_id"

// APIKeyVerifier resolves a raw API key to its owning user.
type APIKeyVerifier interface {
	VerifyAPIKey(ctx context.Context, rawKey string) (uuid.UUID, *errors.AppError)
}

type Middleware struct {
	cache   cache.Cache
	apiKeys APIKeyVerifier
}

func NewMiddleware(cache cache.Cache, apiKeys APIKeyVerifier) *Middleware {
	return &Middleware{cache: cache, apiKeys: apiKeys}
}

// AuthMiddleware authenticates a request with either a JWT access token or
// an API key (both sent as Bearer tokens; API keys start with "crm_").
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return controller.NewErrorResponse(401, errors.ErrMissingAuthorizationHeader, "missing Authorization header")
			}

			token := strings.TrimPrefix(header, "Bearer ")
			if token == header {
				return controller.NewErrorResponse(401, errors.ErrInvalidTokenFormat, "expected Bearer token")
			}

			if strings.HasPrefix(token, constants.APIKeyPrefix+"_") {
				return m.authenticateAPIKey(c, next, token)
			}
			return m.authenticateJWT(c, next, token)
		}
	}
}

func (m *Middleware) authenticateJWT(c echo.Context, next echo.HandlerFunc, token string) error {
	ctx := c.Request().Context()

	blacklisted, err := m.cache.IsTokenBlacklisted(ctx, token)
	if err != nil {
		return controller.NewErrorResponse(500, errors.ErrInternalServer, "failed to check token blacklist")
	}
	if blacklisted {
		return controller.NewErrorResponse(401, errors.ErrUnauthorized, "token is blacklisted")
	}

	tokenData, err := utils.ValidateAndParseToken(token)
	if err != nil {
		return controller.NewErrorResponse(401, errors.ErrUnauthorized, "invalid or expired token")
	}
	if tokenData.Scope != constants.ScopeTokenAccess {
		return controller.NewErrorResponse(401, errors.ErrUnauthorized, "token scope is not valid for API access")
	}

	c.Set(ContextKeyUserID, tokenData.UserID)
	return next(c)
}

func (m *Middleware) authenticateAPIKey(c echo.Context, next echo.HandlerFunc, rawKey string) error {
	userID, appErr := m.apiKeys.VerifyAPIKey(c.Request().Context(), rawKey)
	if appErr != nil {
		return controller.NewErrorResponse(401, appErr.Code, appErr.Message)
	}

	c.Set(ContextKeyUserID, userID)
	return next(c)
}

// GetUserID returns the authenticated user id set by AuthMiddleware.
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(ContextKeyUserID).(uuid.UUID)
	return id, ok
}
