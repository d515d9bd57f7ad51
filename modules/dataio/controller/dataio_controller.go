package controller

import (
	"venue-crm/core/controller"
	"venue-crm/core/errors"
	"venue-crm/core/middleware"
	"venue-crm/modules/dataio/dto"
	"venue-crm/modules/dataio/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type DataIOController struct {
	service *service.DataIOService
	controller.BaseController
}

func NewDataIOController(service *service.DataIOService) *DataIOController {
	return &DataIOController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// Import queues a CSV import; progress is polled via the job endpoint
// @Summary Import records from CSV
// @Tags DataIO
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ImportRequest true "Raw CSV content"
// @Success 200 {object} entity.ImportExportJob
// @Router /private/dataio/imports/{resource} [post]
func (c *DataIOController) Import(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	req := new(dto.ImportRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}
	result, appErr := c.service.StartImport(ctx.Request().Context(), userID, ctx.Param("resource"), req.CSV)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Import queued successfully")
}

// @Summary Export resource to CSV
// @Tags DataIO
// @Security BearerAuth
// @Produce json
// @Success 200 {object} entity.ImportExportJob
// @Router /private/dataio/exports/{resource} [post]
func (c *DataIOController) Export(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	result, appErr := c.service.StartExport(ctx.Request().Context(), userID, ctx.Param("resource"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Export queued successfully")
}

// @Summary Get job status
// @Tags DataIO
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.JobResponse
// @Router /private/dataio/jobs/{id} [get]
func (c *DataIOController) GetJob(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid job id", nil)
	}
	result, appErr := c.service.GetJob(ctx.Request().Context(), userID, id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Job retrieved successfully")
}

// @Summary List my jobs
// @Tags DataIO
// @Security BearerAuth
// @Produce json
// @Success 200 {array} entity.ImportExportJob
// @Router /private/dataio/jobs [get]
func (c *DataIOController) ListJobs(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	result, appErr := c.service.ListJobs(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Jobs retrieved successfully")
}
