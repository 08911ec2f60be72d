package adminController

import (
	"errors"

	"eskuul/database"
	"eskuul/middleware"
	"eskuul/models"
	"eskuul/models/content"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

// GetOverview returns the moderation dashboard numbers: pending queues,
// user counts per role, and submissions since the start of the current week.
func GetOverview(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if user.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	db := database.Database.Db

	var pendingQuizzes, pendingPDFs int64
	db.Model(&content.Quiz{}).Where("status = ?", content.StatusPending).Count(&pendingQuizzes)
	db.Model(&content.PDFSummary{}).Where("status = ?", content.StatusPending).Count(&pendingPDFs)

	var approvedQuizzes, approvedPDFs int64
	db.Model(&content.Quiz{}).Where("status = ?", content.StatusApproved).Count(&approvedQuizzes)
	db.Model(&content.PDFSummary{}).Where("status = ?", content.StatusApproved).Count(&approvedPDFs)

	roleCounts := make(map[string]int64)
	for _, role := range []string{models.RoleStudent, models.RoleTeacher, models.RoleAdmin} {
		var count int64
		db.Model(&models.User{}).Where("role = ?", role).Count(&count)
		roleCounts[role] = count
	}

	weekStart := now.BeginningOfWeek()

	var quizzesThisWeek, pdfsThisWeek, attemptsThisWeek int64
	db.Model(&content.Quiz{}).Where("created_at >= ?", weekStart).Count(&quizzesThisWeek)
	db.Model(&content.PDFSummary{}).Where("created_at >= ?", weekStart).Count(&pdfsThisWeek)
	db.Model(&content.QuizAttempt{}).Where("completed_at >= ?", weekStart).Count(&attemptsThisWeek)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Overview fetched successfully.", fiber.Map{
		"pending": fiber.Map{
			"quizzes": pendingQuizzes,
			"pdfs":    pendingPDFs,
		},
		"approved": fiber.Map{
			"quizzes": approvedQuizzes,
			"pdfs":    approvedPDFs,
		},
		"users": roleCounts,
		"this_week": fiber.Map{
			"quizzes":  quizzesThisWeek,
			"pdfs":     pdfsThisWeek,
			"attempts": attemptsThisWeek,
		},
	})
}

func requireUser(c *fiber.Ctx) (*models.User, error) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, errors.New("missing user id")
	}

	var user models.User
	if err := database.Database.Db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}
