package integration

import (
	"venue-crm/core/cache"
	"venue-crm/core/database"
	"venue-crm/core/jobs"
	"venue-crm/core/middleware"
	authrepository "venue-crm/modules/auth/repository"
	"venue-crm/modules/integration/controller"
	"venue-crm/modules/integration/repository"
	"venue-crm/modules/integration/router"
	"venue-crm/modules/integration/service"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

func Init(public *echo.Group, private *echo.Group, db database.Database, cache cache.Cache, mux *asynq.ServeMux, mw *middleware.Middleware) *service.IntegrationService {
	repo := repository.NewIntegrationRepository(db)
	states := authrepository.NewAuthRepository(db)
	api := service.NewGoogleCalendarClient()

	integrationService := service.NewIntegrationService(repo, states, cache, api)
	integrationController := controller.NewIntegrationController(integrationService)

	router.NewIntegrationRouter(integrationController).Register(public, private, mw)

	mux.HandleFunc(jobs.TypeCalendarSync, integrationService.HandleCalendarSync)

	return integrationService
}
