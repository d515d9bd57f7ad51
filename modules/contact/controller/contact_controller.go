package controller

import (
	"venue-crm/core/controller"
	"venue-crm/core/errors"
	"venue-crm/core/middleware"
	"venue-crm/core/params"
	"venue-crm/modules/contact/dto"
	"venue-crm/modules/contact/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ContactController struct {
	service *service.ContactService
	controller.BaseController
}

func NewContactController(service *service.ContactService) *ContactController {
	return &ContactController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// @Summary Create contact
// @Tags Contact
// @Router /private/contacts [post]
func (c *ContactController) Create(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	req := new(dto.ContactRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}
	result, appErr := c.service.Create(ctx.Request().Context(), userID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Contact created successfully")
}

// @Summary Get contact
// @Tags Contact
// @Router /private/contacts/{id} [get]
func (c *ContactController) Get(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid contact id", nil)
	}
	result, appErr := c.service.Get(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Contact retrieved successfully")
}

// List supports search plus org_type/org_id filters
// @Summary List contacts
// @Tags Contact
// @Router /private/contacts [get]
func (c *ContactController) List(ctx echo.Context) error {
	qp := params.NewQueryParams(ctx)
	orgType := ctx.QueryParam("org_type")

	var orgID *uuid.UUID
	if raw := ctx.QueryParam("org_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "invalid org_id", nil)
		}
		orgID = &parsed
	}

	contacts, total, appErr := c.service.List(ctx.Request().Context(), qp, orgType, orgID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.PaginatedResponse(ctx, contacts, total, qp, "Contacts retrieved successfully")
}

// @Summary Update contact
// @Tags Contact
// @Failure 403 {object} errors.AppError
// @Router /private/contacts/{id} [put]
func (c *ContactController) Update(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid contact id", nil)
	}
	req := new(dto.ContactRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}
	result, appErr := c.service.Update(ctx.Request().Context(), userID, id, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Contact updated successfully")
}

// @Summary Delete contact and its interactions
// @Tags Contact
// @Router /private/contacts/{id} [delete]
func (c *ContactController) Delete(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid contact id", nil)
	}
	if appErr := c.service.Delete(ctx.Request().Context(), userID, id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Contact deleted successfully")
}

// @Summary Log interaction with contact
// @Tags Contact
// @Router /private/contacts/{id}/interactions [post]
func (c *ContactController) LogInteraction(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}
	contactID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid contact id", nil)
	}
	req := new(dto.InteractionRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}
	result, appErr := c.service.LogInteraction(ctx.Request().Context(), userID, contactID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Interaction logged successfully")
}

// @Summary List contact interactions
// @Tags Contact
// @Router /private/contacts/{id}/interactions [get]
func (c *ContactController) ListInteractions(ctx echo.Context) error {
	contactID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid contact id", nil)
	}
	result, appErr := c.service.ListInteractions(ctx.Request().Context(), contactID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Interactions retrieved successfully")
}
