package router

import (
	"venue-crm/core/middleware"
	"venue-crm/modules/integration/controller"

	"github.com/labstack/echo/v4"
)

type IntegrationRouter struct {
	controller *controller.IntegrationController
}

func NewIntegrationRouter(controller *controller.IntegrationController) *IntegrationRouter {
	return &IntegrationRouter{controller: controller}
}

func (r *IntegrationRouter) Register(public *echo.Group, private *echo.Group, mw *middleware.Middleware) {
	// The callback is public: Google redirects the browser here and the
	// state token identifies the owning user.
	public.GET("/integrations/google/callback", r.controller.Callback)

	google := private.Group("/integrations/google", mw.AuthMiddleware())
	google.GET("/connect", r.controller.Connect)
	google.GET("/status", r.controller.Status)
	google.POST("/sync", r.controller.Sync)
	google.DELETE("", r.controller.Disconnect)

	private.GET("/schedule", r.controller.Schedule, mw.AuthMiddleware())
}
