package main

import (
	"eskuul/config"
	"eskuul/database"
	adminRoutes "eskuul/routers/adminRoutes"
	authRoutes "eskuul/routers/authRoutes"
	pdfRoutes "eskuul/routers/pdfRoutes"
	quizRoutes "eskuul/routers/quizRoutes"
	"eskuul/utils"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New(fiber.Config{
		BodyLimit: (config.AppConfig.MaxUploadSizeMB + 1) * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	quizRoutes.SetupQuizRoutes(app)
	pdfRoutes.SetupPDFRoutes(app)
	adminRoutes.SetupAdminRoutes(app)

	utils.StartCleanupScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
