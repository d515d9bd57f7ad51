package controller

import (
	"venue-crm/core/controller"
	"venue-crm/core/errors"
	"venue-crm/core/middleware"
	"venue-crm/core/params"
	"venue-crm/modules/task/dto"
	"venue-crm/modules/task/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type TaskController struct {
	service *service.TaskService
	controller.BaseController
}

func NewTaskController(service *service.TaskService) *TaskController {
	return &TaskController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// @Summary Create task
// @Tags Task
// @Router /private/tasks [post]
func (c *TaskController) Create(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	req := new(dto.TaskRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}
	result, appErr := c.service.Create(ctx.Request().Context(), userID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Task created successfully")
}

// @Summary Get task
// @Tags Task
// @Router /private/tasks/{id} [get]
func (c *TaskController) Get(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid task id", nil)
	}
	result, appErr := c.service.Get(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Task retrieved successfully")
}

// List supports status, assignee_id, overdue and mine filters
// @Summary List tasks
// @Tags Task
// @Router /private/tasks [get]
func (c *TaskController) List(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	qp := params.NewQueryParams(ctx)

	filter := &dto.TaskListFilter{
		Status:      ctx.QueryParam("status"),
		OverdueOnly: ctx.QueryParam("overdue") == "true",
	}
	if raw := ctx.QueryParam("assignee_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "invalid assignee_id", nil)
		}
		filter.AssigneeID = &parsed
	}
	if ctx.QueryParam("mine") == "true" {
		filter.AssigneeID = &userID
	}

	tasks, total, appErr := c.service.List(ctx.Request().Context(), qp, filter)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.PaginatedResponse(ctx, tasks, total, qp, "Tasks retrieved successfully")
}

// @Summary Update task
// @Tags Task
// @Router /private/tasks/{id} [put]
func (c *TaskController) Update(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid task id", nil)
	}
	req := new(dto.TaskRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}
	result, appErr := c.service.Update(ctx.Request().Context(), userID, id, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Task updated successfully")
}

// @Summary Complete task
// @Tags Task
// @Router /private/tasks/{id}/complete [post]
func (c *TaskController) Complete(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid task id", nil)
	}
	result, appErr := c.service.Complete(ctx.Request().Context(), userID, id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Task completed successfully")
}

// @Summary Reopen task
// @Tags Task
// @Router /private/tasks/{id}/reopen [post]
func (c *TaskController) Reopen(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid task id", nil)
	}
	result, appErr := c.service.Reopen(ctx.Request().Context(), userID, id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Task reopened successfully")
}

// @Summary Delete task
// @Tags Task
// @Router /private/tasks/{id} [delete]
func (c *TaskController) Delete(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid task id", nil)
	}
	if appErr := c.service.Delete(ctx.Request().Context(), userID, id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Task deleted successfully")
}
