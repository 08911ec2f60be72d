package pdfValidator

import (
	"strconv"
	"strings"

	"eskuul/middleware"

	"github.com/gofiber/fiber/v2"
)

// Upload validates the multipart form fields of a PDF upload. The file
// itself is checked by the upload handler.
func Upload() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)

		if strings.TrimSpace(c.FormValue("subject")) == "" {
			errors["subject"] = "Subject is required!"
		}
		if strings.TrimSpace(c.FormValue("topic")) == "" {
			errors["topic"] = "Topic is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}

// PDFID parses and validates the :id route parameter.
func PDFID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil || id < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid PDF id!", nil)
		}

		c.Locals("pdfID", uint(id))
		return c.Next()
	}
}
