package router

import (
	"venue-crm/core/middleware"
	"venue-crm/modules/deal/controller"

	"github.com/labstack/echo/v4"
)

type DealRouter struct {
	controller *controller.DealController
}

func NewDealRouter(controller *controller.DealController) *DealRouter {
	return &DealRouter{controller: controller}
}

func (r *DealRouter) Register(private *echo.Group, mw *middleware.Middleware) {
	deals := private.Group("/deals", mw.AuthMiddleware())
	// The forecast route must sit above /:id so echo does not treat
	// "forecast" as a deal id.
	deals.GET("/forecast", r.controller.Forecast)
	deals.POST("", r.controller.Create)
	deals.GET("", r.controller.List)
	deals.GET("/:id", r.controller.Get)
	deals.PUT("/:id", r.controller.Update)
	deals.POST("/:id/stage", r.controller.ChangeStage)
	deals.GET("/:id/history", r.controller.History)
	deals.DELETE("/:id", r.controller.Delete)
}
