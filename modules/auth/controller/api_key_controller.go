package controller

import (
	"venue-crm/core/controller"
	"venue-crm/core/errors"
	"venue-crm/core/middleware"
	"venue-crm/modules/auth/dto"
	"venue-crm/modules/auth/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type APIKeyController struct {
	service *service.APIKeyService
	controller.BaseController
}

func NewAPIKeyController(service *service.APIKeyService) *APIKeyController {
	return &APIKeyController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// Create issues a new API key; the plaintext key is returned once
// @Summary Create API key
// @Tags APIKey
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateAPIKeyRequest true "Key name and optional expiry"
// @Success 200 {object} dto.CreatedAPIKeyResponse
// @Router /private/api-keys [post]
func (c *APIKeyController) Create(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	req := new(dto.CreateAPIKeyRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	result, appErr := c.service.Create(ctx.Request().Context(), userID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "API key created; store it now, it will not be shown again")
}

// List returns the caller's API keys (hashes omitted)
// @Summary List API keys
// @Tags APIKey
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.APIKeyResponse
// @Router /private/api-keys [get]
func (c *APIKeyController) List(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	result, appErr := c.service.List(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "API keys retrieved successfully")
}

// Revoke permanently disables an API key
// @Summary Revoke API key
// @Tags APIKey
// @Security BearerAuth
// @Produce json
// @Param id path string true "API key id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.AppError
// @Router /private/api-keys/{id} [delete]
func (c *APIKeyController) Revoke(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid api key id", nil)
	}

	if appErr := c.service.Revoke(ctx.Request().Context(), userID, id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "API key revoked successfully")
}
