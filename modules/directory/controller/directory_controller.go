package controller

import (
	"venue-crm/core/controller"
	"venue-crm/core/errors"
	"venue-crm/core/params"
	"venue-crm/modules/directory/dto"
	"venue-crm/modules/directory/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type DirectoryController struct {
	service *service.DirectoryService
	controller.BaseController
}

func NewDirectoryController(service *service.DirectoryService) *DirectoryController {
	return &DirectoryController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

func pathID(ctx echo.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(ctx.Param(name))
}

// @Summary Create venue
// @Tags Directory
// @Router /private/venues [post]
func (c *DirectoryController) CreateVenue(ctx echo.Context) error {
	req := new(dto.VenueRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}
	result, appErr := c.service.CreateVenue(ctx.Request().Context(), req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Venue created successfully")
}

// @Summary Get venue
// @Tags Directory
// @Router /private/venues/{id} [get]
func (c *DirectoryController) GetVenue(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid venue id", nil)
	}
	result, appErr := c.service.GetVenue(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Venue retrieved successfully")
}

// @Summary List venues
// @Tags Directory
// @Router /private/venues [get]
func (c *DirectoryController) ListVenues(ctx echo.Context) error {
	qp := params.NewQueryParams(ctx)
	venues, total, appErr := c.service.ListVenues(ctx.Request().Context(), qp)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.PaginatedResponse(ctx, venues, total, qp, "Venues retrieved successfully")
}

// @Summary Update venue
// @Tags Directory
// @Router /private/venues/{id} [put]
func (c *DirectoryController) UpdateVenue(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid venue id", nil)
	}
	req := new(dto.VenueRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}
	result, appErr := c.service.UpdateVenue(ctx.Request().Context(), id, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Venue updated successfully")
}

// @Summary Delete venue
// @Tags Directory
// @Router /private/venues/{id} [delete]
func (c *DirectoryController) DeleteVenue(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid venue id", nil)
	}
	if appErr := c.service.DeleteVenue(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Venue deleted successfully")
}

// @Summary Create operator
// @Tags Directory
// @Router /private/operators [post]
func (c *DirectoryController) CreateOperator(ctx echo.Context) error {
	req := new(dto.OperatorRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}
	result, appErr := c.service.CreateOperator(ctx.Request().Context(), req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Operator created successfully")
}

// @Summary Get operator
// @Tags Directory
// @Router /private/operators/{id} [get]
func (c *DirectoryController) GetOperator(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid operator id", nil)
	}
	result, appErr := c.service.GetOperator(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Operator retrieved successfully")
}

// @Summary List operators
// @Tags Directory
// @Router /private/operators [get]
func (c *DirectoryController) ListOperators(ctx echo.Context) error {
	qp := params.NewQueryParams(ctx)
	operators, total, appErr := c.service.ListOperators(ctx.Request().Context(), qp)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.PaginatedResponse(ctx, operators, total, qp, "Operators retrieved successfully")
}

// @Summary Update operator
// @Tags Directory
// @Router /private/operators/{id} [put]
func (c *DirectoryController) UpdateOperator(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid operator id", nil)
	}
	req := new(dto.OperatorRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}
	result, appErr := c.service.UpdateOperator(ctx.Request().Context(), id, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Operator updated successfully")
}

// @Summary Delete operator
// @Tags Directory
// @Router /private/operators/{id} [delete]
func (c *DirectoryController) DeleteOperator(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid operator id", nil)
	}
	if appErr := c.service.DeleteOperator(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Operator deleted successfully")
}

// @Summary Create concessionaire
// @Tags Directory
// @Router /private/concessionaires [post]
func (c *DirectoryController) CreateConcessionaire(ctx echo.Context) error {
	req := new(dto.ConcessionaireRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}
	result, appErr := c.service.CreateConcessionaire(ctx.Request().Context(), req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Concessionaire created successfully")
}

// @Summary Get concessionaire
// @Tags Directory
// @Router /private/concessionaires/{id} [get]
func (c *DirectoryController) GetConcessionaire(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid concessionaire id", nil)
	}
	result, appErr := c.service.GetConcessionaire(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Concessionaire retrieved successfully")
}

// @Summary List concessionaires
// @Tags Directory
// @Router /private/concessionaires [get]
func (c *DirectoryController) ListConcessionaires(ctx echo.Context) error {
	qp := params.NewQueryParams(ctx)
	items, total, appErr := c.service.ListConcessionaires(ctx.Request().Context(), qp)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.PaginatedResponse(ctx, items, total, qp, "Concessionaires retrieved successfully")
}

// @Summary Update concessionaire
// @Tags Directory
// @Router /private/concessionaires/{id} [put]
func (c *DirectoryController) UpdateConcessionaire(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid concessionaire id", nil)
	}
	req := new(dto.ConcessionaireRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}
	result, appErr := c.service.UpdateConcessionaire(ctx.Request().Context(), id, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Concessionaire updated successfully")
}

// @Summary Delete concessionaire
// @Tags Directory
// @Router /private/concessionaires/{id} [delete]
func (c *DirectoryController) DeleteConcessionaire(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid concessionaire id", nil)
	}
	if appErr := c.service.DeleteConcessionaire(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Concessionaire deleted successfully")
}

// @Summary Link concessionaire to venue
// @Tags Directory
// @Failure 409 {object} errors.AppError
// @Router /private/venues/{id}/concessionaires [post]
func (c *DirectoryController) LinkConcessionaire(ctx echo.Context) error {
	venueID, err := pathID(ctx, "id")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid venue id", nil)
	}
	req := new(dto.LinkConcessionaireRequest)
	if err := ctx.Bind(req); err != nil || req.ConcessionaireID == uuid.Nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "concessionaire_id is required", nil)
	}
	result, appErr := c.service.LinkConcessionaire(ctx.Request().Context(), venueID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Concessionaire linked successfully")
}

// @Summary List venue concessionaire links
// @Tags Directory
// @Router /private/venues/{id}/concessionaires [get]
func (c *DirectoryController) ListVenueConcessionaires(ctx echo.Context) error {
	venueID, err := pathID(ctx, "id")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid venue id", nil)
	}
	result, appErr := c.service.ListVenueConcessionaires(ctx.Request().Context(), venueID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Venue concessionaires retrieved successfully")
}

// @Summary Unlink concessionaire from venue
// @Tags Directory
// @Router /private/venues/{id}/concessionaires/{concessionaireId} [delete]
func (c *DirectoryController) UnlinkConcessionaire(ctx echo.Context) error {
	venueID, err := pathID(ctx, "id")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid venue id", nil)
	}
	concessionaireID, err := pathID(ctx, "concessionaireId")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid concessionaire id", nil)
	}
	if appErr := c.service.UnlinkConcessionaire(ctx.Request().Context(), venueID, concessionaireID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Concessionaire unlinked successfully")
}
