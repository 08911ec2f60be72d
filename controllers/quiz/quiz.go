package quizController

import (
	"errors"
	"log"

	"eskuul/database"
	"eskuul/middleware"
	"eskuul/models"
	"eskuul/models/content"
	"eskuul/services/grading"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// QuestionInput mirrors one question of a quiz creation request.
type QuestionInput struct {
	QuestionText  string `json:"question_text"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
	Marks         int    `json:"marks"`
}

// CreateQuizRequest is the validated payload for quiz creation.
type CreateQuizRequest struct {
	Title            string          `json:"title"`
	Subject          string          `json:"subject"`
	Topic            string          `json:"topic"`
	GradeLevel       string          `json:"grade_level"`
	TimeLimitMinutes *int            `json:"time_limit_minutes"`
	Questions        []QuestionInput `json:"questions"`
}

// quizSummary is a quiz row in a listing, with its question count.
type quizSummary struct {
	content.Quiz
	QuestionCount int64  `json:"question_count"`
	CreatedByName string `json:"created_by_name,omitempty"`
}

// CreateQuiz creates a quiz together with all its questions in one
// transaction; a new quiz always starts out pending moderation.
func CreateQuiz(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if user.Role != models.RoleTeacher {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only teachers can create quizzes!", nil)
	}

	reqData, ok := c.Locals("validatedQuiz").(*CreateQuizRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	totalMarks := 0
	for _, q := range reqData.Questions {
		marks := q.Marks
		if marks <= 0 {
			marks = 1
		}
		totalMarks += marks
	}

	quiz := content.Quiz{
		Title:            reqData.Title,
		Subject:          reqData.Subject,
		Topic:            reqData.Topic,
		GradeLevel:       reqData.GradeLevel,
		TotalMarks:       totalMarks,
		TimeLimitMinutes: reqData.TimeLimitMinutes,
		CreatedBy:        user.ID,
		Status:           content.StatusPending,
	}

	// Quiz and questions land together or not at all.
	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}

		questions := make([]content.Question, len(reqData.Questions))
		for i, q := range reqData.Questions {
			marks := q.Marks
			if marks <= 0 {
				marks = 1
			}
			questions[i] = content.Question{
				QuizID:        quiz.ID,
				QuestionText:  q.QuestionText,
				OptionA:       q.OptionA,
				OptionB:       q.OptionB,
				OptionC:       q.OptionC,
				OptionD:       q.OptionD,
				CorrectAnswer: q.CorrectAnswer,
				Explanation:   q.Explanation,
				Marks:         marks,
				QuestionOrder: i + 1,
			}
		}

		return tx.Create(&questions).Error
	})

	if err != nil {
		log.Printf("Error creating quiz: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully. Awaiting admin approval.", fiber.Map{
		"quiz": quiz,
	})
}

// GetMyQuizzes lists the logged-in teacher's quizzes in every moderation
// state, newest first.
func GetMyQuizzes(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if user.Role != models.RoleTeacher {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	}

	var quizzes []content.Quiz
	if err := database.Database.Db.Where("created_by = ?", user.ID).Order("created_at desc").Find(&quizzes).Error; err != nil {
		log.Printf("Error fetching teacher quizzes: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes!", nil)
	}

	summaries := make([]quizSummary, len(quizzes))
	for i, quiz := range quizzes {
		var count int64
		database.Database.Db.Model(&content.Question{}).Where("quiz_id = ?", quiz.ID).Count(&count)
		summaries[i] = quizSummary{Quiz: quiz, QuestionCount: count}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully.", fiber.Map{
		"quizzes": summaries,
	})
}

// GetApprovedQuizzes lists approved quizzes for students, with optional
// subject, grade level and free-text filters.
func GetApprovedQuizzes(c *fiber.Ctx) error {
	db := database.Database.Db

	query := db.Model(&content.Quiz{}).Where("status = ?", content.StatusApproved)

	if subject := c.Query("subject"); subject != "" {
		query = query.Where("subject = ?", subject)
	}
	if gradeLevel := c.Query("grade_level"); gradeLevel != "" {
		query = query.Where("grade_level = ?", gradeLevel)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("title ILIKE ? OR topic ILIKE ?", like, like)
	}

	var quizzes []content.Quiz
	if err := query.Order("created_at desc").Find(&quizzes).Error; err != nil {
		log.Printf("Error fetching approved quizzes: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes!", nil)
	}

	summaries := make([]quizSummary, len(quizzes))
	for i, quiz := range quizzes {
		var count int64
		db.Model(&content.Question{}).Where("quiz_id = ?", quiz.ID).Count(&count)

		var creator models.User
		db.Select("name").Where("id = ?", quiz.CreatedBy).First(&creator)

		summaries[i] = quizSummary{Quiz: quiz, QuestionCount: count, CreatedByName: creator.Name}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully.", fiber.Map{
		"quizzes": summaries,
	})
}

// GetQuizForTaking serves an approved quiz with its questions, minus the
// answer key, to a test-taker.
func GetQuizForTaking(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(uint)

	quiz, err := grading.AssembleForTaking(database.Database.Db, quizID)
	if err != nil {
		switch {
		case errors.Is(err, grading.ErrQuizNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
		case errors.Is(err, grading.ErrQuizNotApproved):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This quiz is not yet approved!", nil)
		default:
			log.Printf("Error fetching quiz %d: %v", quizID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully.", fiber.Map{
		"quiz": quiz,
	})
}

// SubmitQuiz grades a student's answers and returns the per-question
// results. The attempt and its answer rows are persisted atomically by the
// grading service.
func SubmitQuiz(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID := c.Locals("quizID").(uint)

	reqData, ok := c.Locals("validatedSubmission").(*struct {
		Answers          map[uint]string `json:"answers"`
		TimeTakenSeconds *int            `json:"time_taken_seconds"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := grading.SubmitAttempt(database.Database.Db, quizID, user.ID, user.Role, grading.AnswerSheet(reqData.Answers), reqData.TimeTakenSeconds)
	if err != nil {
		switch {
		case errors.Is(err, grading.ErrNotStudent):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only students can submit quizzes!", nil)
		case errors.Is(err, grading.ErrNoAnswers):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No answers provided!", nil)
		case errors.Is(err, grading.ErrQuizNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
		case errors.Is(err, grading.ErrQuizNotApproved):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This quiz is not approved!", nil)
		default:
			log.Printf("Error submitting quiz %d for user %d: %v", quizID, user.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted successfully.", result)
}

// GetMyAttempts lists the logged-in student's past attempts, newest first.
func GetMyAttempts(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if user.Role != models.RoleStudent {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	}

	var attempts []content.QuizAttempt
	if err := database.Database.Db.Where("student_id = ?", user.ID).Order("completed_at desc").Find(&attempts).Error; err != nil {
		log.Printf("Error fetching attempts for user %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attempts!", nil)
	}

	type attemptRow struct {
		content.QuizAttempt
		QuizTitle string `json:"quiz_title"`
	}

	rows := make([]attemptRow, len(attempts))
	for i, attempt := range attempts {
		var quiz content.Quiz
		database.Database.Db.Select("title").Where("id = ?", attempt.QuizID).First(&quiz)
		rows[i] = attemptRow{QuizAttempt: attempt, QuizTitle: quiz.Title}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully.", fiber.Map{
		"attempts": rows,
	})
}

// requireUser resolves the authenticated user from the request context.
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
