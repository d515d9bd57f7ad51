package router

import (
	"venue-crm/core/middleware"
	"venue-crm/modules/dataio/controller"

	"github.com/labstack/echo/v4"
)

type DataIORouter struct {
	controller *controller.DataIOController
}

func NewDataIORouter(controller *controller.DataIOController) *DataIORouter {
	return &DataIORouter{controller: controller}
}

func (r *DataIORouter) Register(private *echo.Group, mw *middleware.Middleware) {
	dataio := private.Group("/dataio", mw.AuthMiddleware())
	dataio.POST("/imports/:resource", r.controller.Import)
	dataio.POST("/exports/:resource", r.controller.Export)
	dataio.GET("/jobs", r.controller.ListJobs)
	dataio.GET("/jobs/:id", r.controller.GetJob)
}
