package authRoutes

import (
	authController "eskuul/controllers/auth"
	"eskuul/middleware"
	authValidator "eskuul/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes sets up registration and session routes
func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/api/auth")

	authGroup.Post("/register", authValidator.Signup(), authController.Signup)
	authGroup.Post("/login", authController.Login)
	authGroup.Get("/me", middleware.JWTMiddleware, authController.Me)
	authGroup.Post("/logout", middleware.JWTMiddleware, authController.Logout)
}
