package router

import (
	"venue-crm/core/middleware"
	"venue-crm/modules/task/controller"

	"github.com/labstack/echo/v4"
)

type TaskRouter struct {
	controller *controller.TaskController
}

func NewTaskRouter(controller *controller.TaskController) *TaskRouter {
	return &TaskRouter{controller: controller}
}

func (r *TaskRouter) Register(private *echo.Group, mw *middleware.Middleware) {
	tasks := private.Group("/tasks", mw.AuthMiddleware())
	tasks.POST("", r.controller.Create)
	tasks.GET("", r.controller.List)
	tasks.GET("/:id", r.controller.Get)
	tasks.PUT("/:id", r.controller.Update)
	tasks.POST("/:id/complete", r.controller.Complete)
	tasks.POST("/:id/reopen", r.controller.Reopen)
	tasks.DELETE("/:id", r.controller.Delete)
}
