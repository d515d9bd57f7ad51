package router

import (
	"venue-crm/core/middleware"
	"venue-crm/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

type AuthRouter struct {
	authController   *controller.AuthController
	apiKeyController *controller.APIKeyController
}

func NewAuthRouter(authController *controller.AuthController, apiKeyController *controller.APIKeyController) *AuthRouter {
	return &AuthRouter{
		authController:   authController,
		apiKeyController: apiKeyController,
	}
}

func (r *AuthRouter) Register(public *echo.Group, private *echo.Group, mw *middleware.Middleware) {
	auth := public.Group("/auth")
	auth.POST("/register", r.authController.Register)
	auth.POST("/login", r.authController.Login)
	auth.POST("/refresh", r.authController.Refresh)

	privAuth := private.Group("/auth", mw.AuthMiddleware())
	privAuth.POST("/logout", r.authController.Logout)
	privAuth.GET("/me", r.authController.Me)

	keys := private.Group("/api-keys", mw.AuthMiddleware())
	keys.POST("", r.apiKeyController.Create)
	keys.GET("", r.apiKeyController.List)
	keys.DELETE("/:id", r.apiKeyController.Revoke)
}
