package pdfRoutes

import (
	pdfController "eskuul/controllers/pdf"
	"eskuul/middleware"
	pdfValidator "eskuul/validators/pdf"

	"github.com/gofiber/fiber/v2"
)

// SetupPDFRoutes sets up all PDF summary routes
func SetupPDFRoutes(app *fiber.App) {
	pdfGroup := app.Group("/api/pdfs")

	// Teacher
	pdfGroup.Post("/upload", middleware.JWTMiddleware, pdfValidator.Upload(), pdfController.UploadPDF)
	pdfGroup.Get("/my-pdfs", middleware.JWTMiddleware, pdfController.GetMyPDFs)

	// Student
	pdfGroup.Get("/approved", pdfController.GetApprovedPDFs)
	pdfGroup.Get("/download/:id", pdfValidator.PDFID(), pdfController.DownloadPDF)

	// Admin moderation
	pdfGroup.Get("/pending", middleware.JWTMiddleware, pdfController.GetPendingPDFs)
	pdfGroup.Put("/approve/:id", middleware.JWTMiddleware, pdfValidator.PDFID(), pdfController.ApprovePDF)
	pdfGroup.Put("/reject/:id", middleware.JWTMiddleware, pdfValidator.PDFID(), pdfController.RejectPDF)

	// Shared
	pdfGroup.Delete("/:id", middleware.JWTMiddleware, pdfValidator.PDFID(), pdfController.DeletePDF)
}
