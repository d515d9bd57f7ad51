package router

import (
	"venue-crm/core/middleware"
	"venue-crm/modules/contact/controller"

	"github.com/labstack/echo/v4"
)

type ContactRouter struct {
	controller *controller.ContactController
}

func NewContactRouter(controller *controller.ContactController) *ContactRouter {
	return &ContactRouter{controller: controller}
}

func (r *ContactRouter) Register(private *echo.Group, mw *middleware.Middleware) {
	contacts := private.Group("/contacts", mw.AuthMiddleware())
	contacts.POST("", r.controller.Create)
	contacts.GET("", r.controller.List)
	contacts.GET("/:id", r.controller.Get)
	contacts.PUT("/:id", r.controller.Update)
	contacts.DELETE("/:id", r.controller.Delete)
	contacts.POST("/:id/interactions", r.controller.LogInteraction)
	contacts.GET("/:id/interactions", r.controller.ListInteractions)
}
