package quizRoutes

import (
	quizController "eskuul/controllers/quiz"
	"eskuul/middleware"
	quizValidator "eskuul/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

// SetupQuizRoutes sets up all quiz routes. Static paths are registered
// before the parameterized ones so "/approved" never matches ":id".
func SetupQuizRoutes(app *fiber.App) {
	quizGroup := app.Group("/api/quizzes")

	// Teacher
	quizGroup.Post("/create", middleware.JWTMiddleware, quizValidator.CreateQuiz(), quizController.CreateQuiz)
	quizGroup.Get("/my-quizzes", middleware.JWTMiddleware, quizController.GetMyQuizzes)

	// Student
	quizGroup.Get("/approved", quizController.GetApprovedQuizzes)
	quizGroup.Get("/attempts/my", middleware.JWTMiddleware, quizController.GetMyAttempts)
	quizGroup.Post("/submit/:id", middleware.JWTMiddleware, quizValidator.QuizID(), quizValidator.SubmitQuiz(), quizController.SubmitQuiz)

	// Admin moderation
	quizGroup.Get("/admin/pending", middleware.JWTMiddleware, quizController.GetPendingQuizzes)
	quizGroup.Put("/approve/:id", middleware.JWTMiddleware, quizValidator.QuizID(), quizController.ApproveQuiz)
	quizGroup.Put("/reject/:id", middleware.JWTMiddleware, quizValidator.QuizID(), quizController.RejectQuiz)

	// Shared
	quizGroup.Get("/:id", quizValidator.QuizID(), quizController.GetQuizForTaking)
	quizGroup.Delete("/:id", middleware.JWTMiddleware, quizValidator.QuizID(), quizController.DeleteQuiz)
}
