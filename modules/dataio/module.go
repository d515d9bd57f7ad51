package dataio

import (
	"venue-crm/core/database"
	"venue-crm/core/jobs"
	"venue-crm/core/middleware"
	"venue-crm/core/storage"
	contactrepository "venue-crm/modules/contact/repository"
	"venue-crm/modules/dataio/controller"
	"venue-crm/modules/dataio/repository"
	"venue-crm/modules/dataio/router"
	"venue-crm/modules/dataio/service"
	directoryservice "venue-crm/modules/directory/service"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

func Init(private *echo.Group, db database.Database, directory *directoryservice.DirectoryService, store storage.Storage, client *asynq.Client, mux *asynq.ServeMux, mw *middleware.Middleware) *service.DataIOService {
	repo := repository.NewDataIORepository(db)
	contactRepo := contactrepository.NewContactRepository(db)

	dataioService := service.NewDataIOService(repo, contactRepo, directory, store, client)
	dataioController := controller.NewDataIOController(dataioService)

	router.NewDataIORouter(dataioController).Register(private, mw)

	mux.HandleFunc(jobs.TypeCSVImport, dataioService.HandleCSVImport)
	mux.HandleFunc(jobs.TypeCSVExport, dataioService.HandleCSVExport)

	return dataioService
}
