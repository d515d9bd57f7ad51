package controller

import (
	"venue-crm/core/controller"
	"venue-crm/core/errors"
	"venue-crm/core/middleware"
	"venue-crm/core/params"
	"venue-crm/modules/deal/dto"
	"venue-crm/modules/deal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type DealController struct {
	service *service.DealService
	controller.BaseController
}

func NewDealController(service *service.DealService) *DealController {
	return &DealController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// @Summary Create deal
// @Tags Deal
// @Router /private/deals [post]
func (c *DealController) Create(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	req := new(dto.DealRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}
	result, appErr := c.service.Create(ctx.Request().Context(), userID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Deal created successfully")
}

// @Summary Get deal
// @Tags Deal
// @Router /private/deals/{id} [get]
func (c *DealController) Get(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid deal id", nil)
	}
	result, appErr := c.service.Get(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Deal retrieved successfully")
}

// @Summary List deals
// @Tags Deal
// @Router /private/deals [get]
func (c *DealController) List(ctx echo.Context) error {
	qp := params.NewQueryParams(ctx)
	deals, total, appErr := c.service.List(ctx.Request().Context(), qp, ctx.QueryParam("stage"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.PaginatedResponse(ctx, deals, total, qp, "Deals retrieved successfully")
}

// @Summary Update deal
// @Tags Deal
// @Router /private/deals/{id} [put]
func (c *DealController) Update(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid deal id", nil)
	}
	req := new(dto.DealRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}
	result, appErr := c.service.Update(ctx.Request().Context(), userID, id, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Deal updated successfully")
}

// @Summary Change deal stage
// @Tags Deal
// @Failure 409 {object} errors.AppError
// @Router /private/deals/{id}/stage [post]
func (c *DealController) ChangeStage(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid deal id", nil)
	}
	req := new(dto.ChangeStageRequest)
	if err := ctx.Bind(req); err != nil || req.Stage == "" {
		return c.BadRequest(errors.ErrInvalidRequestData, "stage is required", nil)
	}
	result, appErr := c.service.ChangeStage(ctx.Request().Context(), userID, id, req.Stage)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Deal stage changed successfully")
}

// @Summary Deal stage history
// @Tags Deal
// @Router /private/deals/{id}/history [get]
func (c *DealController) History(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid deal id", nil)
	}
	result, appErr := c.service.History(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Stage history retrieved successfully")
}

// @Summary Delete deal
// @Tags Deal
// @Router /private/deals/{id} [delete]
func (c *DealController) Delete(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid deal id", nil)
	}
	if appErr := c.service.Delete(ctx.Request().Context(), userID, id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Deal deleted successfully")
}

// @Summary Weighted revenue forecast
// @Tags Deal
// @Produce json
// @Success 200 {object} dto.ForecastResponse
// @Router /private/deals/forecast [get]
func (c *DealController) Forecast(ctx echo.Context) error {
	result, appErr := c.service.Forecast(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Forecast computed successfully")
}
