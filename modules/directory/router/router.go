package router

import (
	"venue-crm/core/middleware"
	"venue-crm/modules/directory/controller"

	"github.com/labstack/echo/v4"
)

type DirectoryRouter struct {
	controller *controller.DirectoryController
}

func NewDirectoryRouter(controller *controller.DirectoryController) *DirectoryRouter {
	return &DirectoryRouter{controller: controller}
}

func (r *DirectoryRouter) Register(private *echo.Group, mw *middleware.Middleware) {
	venues := private.Group("/venues", mw.AuthMiddleware())
	venues.POST("", r.controller.CreateVenue)
	venues.GET("", r.controller.ListVenues)
	venues.GET("/:id", r.controller.GetVenue)
	venues.PUT("/:id", r.controller.UpdateVenue)
	venues.DELETE("/:id", r.controller.DeleteVenue)
	venues.POST("/:id/concessionaires", r.controller.LinkConcessionaire)
	venues.GET("/:id/concessionaires", r.controller.ListVenueConcessionaires)
	venues.DELETE("/:id/concessionaires/:concessionaireId", r.controller.UnlinkConcessionaire)

	operators := private.Group("/operators", mw.AuthMiddleware())
	operators.POST("", r.controller.CreateOperator)
	operators.GET("", r.controller.ListOperators)
	operators.GET("/:id", r.controller.GetOperator)
	operators.PUT("/:id", r.controller.UpdateOperator)
	operators.DELETE("/:id", r.controller.DeleteOperator)

	concessionaires := private.Group("/concessionaires", mw.AuthMiddleware())
	concessionaires.POST("", r.controller.CreateConcessionaire)
	concessionaires.GET("", r.controller.ListConcessionaires)
	concessionaires.GET("/:id", r.controller.GetConcessionaire)
	concessionaires.PUT("/:id", r.controller.UpdateConcessionaire)
	concessionaires.DELETE("/:id", r.controller.DeleteConcessionaire)
}
