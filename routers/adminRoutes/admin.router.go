package adminRoutes

import (
	adminController "eskuul/controllers/admin"
	"eskuul/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up the admin dashboard routes
func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/api/admin")

	adminGroup.Get("/overview", middleware.JWTMiddleware, adminController.GetOverview)
}
