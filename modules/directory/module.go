package directory

import (
	"venue-crm/core/database"
	"venue-crm/core/middleware"
	"venue-crm/modules/directory/controller"
	"venue-crm/modules/directory/repository"
	"venue-crm/modules/directory/router"
	"venue-crm/modules/directory/service"

	"github.com/labstack/echo/v4"
)

func Init(private *echo.Group, db database.Database, mw *middleware.Middleware) *service.DirectoryService {
	repo := repository.NewDirectoryRepository(db)
	directoryService := service.NewDirectoryService(repo)
	directoryController := controller.NewDirectoryController(directoryService)

	router.NewDirectoryRouter(directoryController).Register(private, mw)

	return directoryService
}
