package server

import (
	"github.com/trailhead-ai/trailhead/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Reasoning routes
	apiRoutes.POST("/evidence", routes.CreateEvidenceHandler)
	apiRoutes.POST("/answer", routes.CreateAnswerHandler)
}
