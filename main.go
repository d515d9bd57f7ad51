package main

import (
	"venue-crm/core/logger"
	"venue-crm/core/server"

	_ "venue-crm/docs" // Swagger docs
)

// @title Venue CRM API
// @version 1.0
// @description CRM backend for venue, operator and concessionaire sales teams.

// @contact.name API Support
// @contact.email support@venue-crm.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token or API key. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", "error", err)
	}
}
