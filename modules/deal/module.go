package deal

import (
	"venue-crm/core/database"
	"venue-crm/core/middleware"
	"venue-crm/modules/deal/controller"
	"venue-crm/modules/deal/repository"
	"venue-crm/modules/deal/router"
	"venue-crm/modules/deal/service"
	directoryservice "venue-crm/modules/directory/service"

	"github.com/labstack/echo/v4"
)

func Init(private *echo.Group, db database.Database, directory *directoryservice.DirectoryService, mw *middleware.Middleware) *service.DealService {
	repo := repository.NewDealRepository(db)
	dealService := service.NewDealService(repo, directory)
	dealController := controller.NewDealController(dealService)

	router.NewDealRouter(dealController).Register(private, mw)

	return dealService
}
