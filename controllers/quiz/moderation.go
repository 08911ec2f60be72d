package quizController

import (
	"errors"
	"log"

	"eskuul/database"
	"eskuul/middleware"
	"eskuul/models"
	"eskuul/models/content"
	"eskuul/services/moderation"
	"eskuul/utils"

	"github.com/gofiber/fiber/v2"
)

// GetPendingQuizzes lists quizzes awaiting review, oldest first (admin only).
func GetPendingQuizzes(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if user.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	var quizzes []content.Quiz
	if err := database.Database.Db.Where("status = ?", content.StatusPending).Order("created_at asc").Find(&quizzes).Error; err != nil {
		log.Printf("Error fetching pending quizzes: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch pending quizzes!", nil)
	}

	type pendingQuiz struct {
		content.Quiz
		QuestionCount int64  `json:"question_count"`
		TeacherName   string `json:"teacher_name"`
		TeacherEmail  string `json:"teacher_email"`
	}

	rows := make([]pendingQuiz, len(quizzes))
	for i, quiz := range quizzes {
		var count int64
		database.Database.Db.Model(&content.Question{}).Where("quiz_id = ?", quiz.ID).Count(&count)

		var teacher models.User
		database.Database.Db.Select("name, email").Where("id = ?", quiz.CreatedBy).First(&teacher)

		rows[i] = pendingQuiz{Quiz: quiz, QuestionCount: count, TeacherName: teacher.Name, TeacherEmail: teacher.Email}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending quizzes fetched successfully.", fiber.Map{
		"quizzes": rows,
	})
}

// ApproveQuiz transitions a pending quiz to approved (admin only).
func ApproveQuiz(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if user.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only admins can approve quizzes!", nil)
	}

	quizID := c.Locals("quizID").(uint)

	quiz, err := moderation.ApproveQuiz(database.Database.Db, quizID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, moderation.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
		case errors.Is(err, moderation.ErrAlreadyRejected):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Quiz has already been rejected!", nil)
		default:
			log.Printf("Error approving quiz %d: %v", quizID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to approve quiz!", nil)
		}
	}

	notifyTeacher(quiz.CreatedBy, func(teacher models.User) {
		utils.SendContentApprovedEmail(teacher.Email, teacher.Name, "quiz", quiz.Title)
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz approved successfully.", fiber.Map{
		"quiz": quiz,
	})
}

// RejectQuiz transitions a pending quiz to rejected with a reason that is
// later shown to the submitting teacher (admin only).
func RejectQuiz(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if user.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only admins can reject quizzes!", nil)
	}

	quizID := c.Locals("quizID").(uint)

	reqData := new(struct {
		RejectionReason string `json:"rejection_reason"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	quiz, err := moderation.RejectQuiz(database.Database.Db, quizID, reqData.RejectionReason)
	if err != nil {
		switch {
		case errors.Is(err, moderation.ErrEmptyReason):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Rejection reason is required!", nil)
		case errors.Is(err, moderation.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
		case errors.Is(err, moderation.ErrNotPending):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Quiz is not pending review!", nil)
		default:
			log.Printf("Error rejecting quiz %d: %v", quizID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reject quiz!", nil)
		}
	}

	notifyTeacher(quiz.CreatedBy, func(teacher models.User) {
		utils.SendContentRejectedEmail(teacher.Email, teacher.Name, "quiz", quiz.Title, quiz.RejectionReason)
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz rejected.", fiber.Map{
		"quiz": quiz,
	})
}

// DeleteQuiz removes a quiz with its questions, attempts and attempt
// answers. Teachers may delete their own quizzes; admins may delete any.
func DeleteQuiz(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID := c.Locals("quizID").(uint)

	if err := moderation.DeleteQuiz(database.Database.Db, quizID, user.ID, user.Role); err != nil {
		switch {
		case errors.Is(err, moderation.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
		case errors.Is(err, moderation.ErrNotAllowed):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to delete this quiz!", nil)
		default:
			log.Printf("Error deleting quiz %d: %v", quizID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted successfully.", nil)
}

// notifyTeacher looks up the owning teacher and fires an email callback.
// Notification failures never affect the moderation outcome.
func notifyTeacher(teacherID uint, send func(models.User)) {
	var teacher models.User
	if err := database.Database.Db.Where("id = ?", teacherID).First(&teacher).Error; err != nil {
		log.Printf("Error loading teacher %d for notification: %v", teacherID, err)
		return
	}
	send(teacher)
}
