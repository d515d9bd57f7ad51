package task

import (
	"venue-crm/core/database"
	"venue-crm/core/middleware"
	"venue-crm/modules/task/controller"
	"venue-crm/modules/task/repository"
	"venue-crm/modules/task/router"
	"venue-crm/modules/task/service"

	"github.com/labstack/echo/v4"
)

func Init(private *echo.Group, db database.Database, mw *middleware.Middleware) *service.TaskService {
	repo := repository.NewTaskRepository(db)
	taskService := service.NewTaskService(repo)
	taskController := controller.NewTaskController(taskService)

	router.NewTaskRouter(taskController).Register(private, mw)

	return taskService
}
