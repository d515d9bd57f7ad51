package controller

import (
	"time"

	"venue-crm/core/controller"
	"venue-crm/core/errors"
	"venue-crm/core/middleware"
	"venue-crm/modules/integration/dto"
	"venue-crm/modules/integration/service"

	"github.com/labstack/echo/v4"
)

type IntegrationController struct {
	service *service.IntegrationService
	controller.BaseController
}

func NewIntegrationController(service *service.IntegrationService) *IntegrationController {
	return &IntegrationController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// Connect returns the Google consent URL for the calling user
// @Summary Start Google account connect flow
// @Tags Integration
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ConnectURLResponse
// @Router /private/integrations/google/connect [get]
func (c *IntegrationController) Connect(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	result, appErr := c.service.GetGoogleAuthURL(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Authorization URL generated")
}

// Callback completes the OAuth flow; the state token identifies the user
// @Summary Google OAuth callback
// @Tags Integration
// @Produce json
// @Param state query string true "State token"
// @Param code query string true "Authorization code"
// @Success 200 {object} dto.StatusResponse
// @Router /public/integrations/google/callback [get]
func (c *IntegrationController) Callback(ctx echo.Context) error {
	state := ctx.QueryParam("state")
	code := ctx.QueryParam("code")
	if state == "" || code == "" {
		return c.BadRequest(errors.ErrInvalidInput, "state and code are required", nil)
	}

	result, appErr := c.service.HandleGoogleCallback(ctx.Request().Context(), state, code)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Google account connected successfully")
}

// Status reports the connection and sync state
// @Summary Google integration status
// @Tags Integration
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.StatusResponse
// @Router /private/integrations/google/status [get]
func (c *IntegrationController) Status(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	result, appErr := c.service.Status(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Integration status retrieved successfully")
}

// Sync runs a calendar sync now
// @Summary Sync Google calendar
// @Tags Integration
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SyncRequest false "Set full_sync to ignore the stored cursor"
// @Success 200 {object} dto.SyncResponse
// @Failure 409 {object} errors.AppError
// @Router /private/integrations/google/sync [post]
func (c *IntegrationController) Sync(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	req := new(dto.SyncRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	result, appErr := c.service.SyncCalendar(ctx.Request().Context(), userID, req.FullSync)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Calendar synced successfully")
}

// Disconnect revokes the grant and removes stored credentials
// @Summary Disconnect Google account
// @Tags Integration
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.DisconnectResponse
// @Failure 401 {object} errors.AppError
// @Router /private/integrations/google [delete]
func (c *IntegrationController) Disconnect(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	result, appErr := c.service.Disconnect(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Google account disconnected successfully")
}

// Schedule lists the user's scheduled events in a time window
// @Summary List scheduled events
// @Tags Integration
// @Security BearerAuth
// @Produce json
// @Param from query string false "Window start (RFC3339), default now-7d"
// @Param to query string false "Window end (RFC3339), default now+30d"
// @Success 200 {array} entity.ScheduledEvent
// @Router /private/schedule [get]
func (c *IntegrationController) Schedule(ctx echo.Context) error {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	now := time.Now()
	from := now.AddDate(0, 0, -7)
	to := now.AddDate(0, 0, 30)
	if raw := ctx.QueryParam("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "from must be RFC3339", nil)
		}
		from = parsed
	}
	if raw := ctx.QueryParam("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "to must be RFC3339", nil)
		}
		to = parsed
	}

	result, appErr := c.service.ListSchedule(ctx.Request().Context(), userID, from, to)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Schedule retrieved successfully")
}
