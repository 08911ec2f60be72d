package quizValidator

import (
	"fmt"
	"strconv"
	"strings"

	quizController "eskuul/controllers/quiz"
	"eskuul/middleware"

	"github.com/gofiber/fiber/v2"
)

// CreateQuiz validates a quiz creation payload: quiz metadata plus at least
// one fully specified question with a correct answer in A-D.
func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(quizController.CreateQuizRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if strings.TrimSpace(reqData.Subject) == "" {
			errors["subject"] = "Subject is required!"
		}
		if strings.TrimSpace(reqData.Topic) == "" {
			errors["topic"] = "Topic is required!"
		}
		if reqData.TimeLimitMinutes != nil && *reqData.TimeLimitMinutes <= 0 {
			errors["time_limit_minutes"] = "Time limit must be greater than 0!"
		}

		if len(reqData.Questions) == 0 {
			errors["questions"] = "At least one question is required!"
		}

		for i, q := range reqData.Questions {
			key := fmt.Sprintf("questions.%d", i)

			if strings.TrimSpace(q.QuestionText) == "" ||
				strings.TrimSpace(q.OptionA) == "" ||
				strings.TrimSpace(q.OptionB) == "" ||
				strings.TrimSpace(q.OptionC) == "" ||
				strings.TrimSpace(q.OptionD) == "" ||
				strings.TrimSpace(q.CorrectAnswer) == "" {
				errors[key] = "All question fields are required!"
				continue
			}

			answer := strings.ToUpper(strings.TrimSpace(q.CorrectAnswer))
			if answer != "A" && answer != "B" && answer != "C" && answer != "D" {
				errors[key] = "Correct answer must be A, B, C, or D!"
				continue
			}
			// Store the normalized label so grading compares like with like.
			reqData.Questions[i].CorrectAnswer = answer

			if q.Marks < 0 {
				errors[key] = "Marks must be a positive number!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

// SubmitQuiz validates a quiz submission: a non-empty answers mapping keyed
// by question id.
func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Answers          map[uint]string `json:"answers"`
			TimeTakenSeconds *int            `json:"time_taken_seconds"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(reqData.Answers) == 0 {
			errors["answers"] = "No answers provided!"
		}
		if reqData.TimeTakenSeconds != nil && *reqData.TimeTakenSeconds < 0 {
			errors["time_taken_seconds"] = "Time taken cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Validation failed!", errors)
		}

		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}

// QuizID parses and validates the :id route parameter.
func QuizID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil || id < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz id!", nil)
		}

		c.Locals("quizID", uint(id))
		return c.Next()
	}
}
