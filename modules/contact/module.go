package contact

import (
	"venue-crm/core/database"
	"venue-crm/core/middleware"
	"venue-crm/modules/contact/controller"
	"venue-crm/modules/contact/repository"
	"venue-crm/modules/contact/router"
	"venue-crm/modules/contact/service"
	directoryservice "venue-crm/modules/directory/service"

	"github.com/labstack/echo/v4"
)

func Init(private *echo.Group, db database.Database, directory *directoryservice.DirectoryService, mw *middleware.Middleware) *service.ContactService {
	repo := repository.NewContactRepository(db)
	contactService := service.NewContactService(repo, directory)
	contactController := controller.NewContactController(contactService)

	router.NewContactRouter(contactController).Register(private, mw)

	return contactService
}
