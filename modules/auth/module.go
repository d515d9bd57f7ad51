package auth

import (
	"venue-crm/core/cache"
	"venue-crm/core/database"
	"venue-crm/core/middleware"
	"venue-crm/modules/auth/controller"
	"venue-crm/modules/auth/repository"
	"venue-crm/modules/auth/router"
	"venue-crm/modules/auth/service"

	"github.com/labstack/echo/v4"
)

func Init(public *echo.Group, private *echo.Group, db database.Database, cache cache.Cache, mw *middleware.Middleware) *service.AuthService {
	repo := repository.NewAuthRepository(db)
	apiKeyRepo := repository.NewAPIKeyRepository(db)

	authService := service.NewAuthService(repo, cache)
	apiKeyService := service.NewAPIKeyService(apiKeyRepo)

	authController := controller.NewAuthController(authService)
	apiKeyController := controller.NewAPIKeyController(apiKeyService)

	router.NewAuthRouter(authController, apiKeyController).Register(public, private, mw)

	return authService
}

// NewAPIKeyVerifier builds the verifier the auth middleware uses to resolve
// API keys. Constructed before the router wiring because the middleware
// itself depends on it.
func NewAPIKeyVerifier(db database.Database) middleware.APIKeyVerifier {
	return service.NewAPIKeyService(repository.NewAPIKeyRepository(db))
}
