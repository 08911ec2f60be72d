package quizController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"eskuul/config"
	"eskuul/database"
	"eskuul/middleware"
	"eskuul/models"
	"eskuul/models/content"
	quizRoutes "eskuul/routers/quizRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:    "test-secret",
		SaltRound: 4,
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&content.Quiz{},
		&content.Question{},
		&content.QuizAttempt{},
		&content.QuizAttemptAnswer{},
	))

	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	quizRoutes.SetupQuizRoutes(app)

	return app
}

func createUser(t *testing.T, name, email, role string) (*models.User, string) {
	t.Helper()

	user := models.User{Name: name, Email: email, Password: "hash", Role: role}
	require.NoError(t, database.Database.Db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)

	return &user, token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	payload := make(map[string]interface{})
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &payload))
	}

	return resp.StatusCode, payload
}

func quizPayload() map[string]interface{} {
	return map[string]interface{}{
		"title":   "Fractions basics",
		"subject": "Math",
		"topic":   "Fractions",
		"questions": []map[string]interface{}{
			{"question_text": "1/2 + 1/2 = ?", "option_a": "1", "option_b": "2", "option_c": "0", "option_d": "1/4", "correct_answer": "a", "marks": 1},
			{"question_text": "1/4 * 4 = ?", "option_a": "4", "option_b": "1", "option_c": "1/4", "option_d": "0", "correct_answer": "B", "marks": 2, "explanation": "multiply numerators"},
			{"question_text": "1 - 1/3 = ?", "option_a": "1/3", "option_b": "3", "option_c": "2/3", "option_d": "0", "correct_answer": "C", "marks": 3},
		},
	}
}

func TestCreateQuizComputesTotalMarks(t *testing.T) {
	app := setupApp(t)
	_, teacherToken := createUser(t, "Ms. Vance", "vance@school.test", models.RoleTeacher)

	code, _ := doJSON(t, app, "POST", "/api/quizzes/create", teacherToken, quizPayload())
	require.Equal(t, fiber.StatusCreated, code)

	var quiz content.Quiz
	require.NoError(t, database.Database.Db.First(&quiz).Error)
	assert.Equal(t, 6, quiz.TotalMarks)
	assert.Equal(t, content.StatusPending, quiz.Status)

	var questions []content.Question
	require.NoError(t, database.Database.Db.Order("question_order asc").Find(&questions).Error)
	require.Len(t, questions, 3)
	// Labels are normalized to upper case on the way in.
	assert.Equal(t, "A", questions[0].CorrectAnswer)
	assert.Equal(t, "B", questions[1].CorrectAnswer)
}

func TestCreateQuizRequiresTeacherRole(t *testing.T) {
	app := setupApp(t)
	_, studentToken := createUser(t, "Sam", "sam@school.test", models.RoleStudent)

	code, _ := doJSON(t, app, "POST", "/api/quizzes/create", studentToken, quizPayload())
	assert.Equal(t, fiber.StatusForbidden, code)
}

func TestCreateQuizValidation(t *testing.T) {
	app := setupApp(t)
	_, teacherToken := createUser(t, "Ms. Vance", "vance@school.test", models.RoleTeacher)

	payload := quizPayload()
	payload["questions"] = []map[string]interface{}{}
	code, _ := doJSON(t, app, "POST", "/api/quizzes/create", teacherToken, payload)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)

	payload = quizPayload()
	payload["questions"].([]map[string]interface{})[0]["correct_answer"] = "E"
	code, _ = doJSON(t, app, "POST", "/api/quizzes/create", teacherToken, payload)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
}

func TestQuizForTakingIsRedactedOverHTTP(t *testing.T) {
	app := setupApp(t)
	_, teacherToken := createUser(t, "Ms. Vance", "vance@school.test", models.RoleTeacher)

	code, _ := doJSON(t, app, "POST", "/api/quizzes/create", teacherToken, quizPayload())
	require.Equal(t, fiber.StatusCreated, code)

	var quiz content.Quiz
	require.NoError(t, database.Database.Db.First(&quiz).Error)
	require.NoError(t, database.Database.Db.Model(&quiz).Update("status", content.StatusApproved).Error)

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/quizzes/%d", quiz.ID), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	body := string(raw)
	assert.Contains(t, body, "question_text")
	assert.NotContains(t, body, "correct_answer")
	assert.NotContains(t, body, "explanation")
	assert.NotContains(t, body, "multiply numerators")
}

func TestQuizForTakingStateHandling(t *testing.T) {
	app := setupApp(t)
	_, teacherToken := createUser(t, "Ms. Vance", "vance@school.test", models.RoleTeacher)

	code, _ := doJSON(t, app, "POST", "/api/quizzes/create", teacherToken, quizPayload())
	require.Equal(t, fiber.StatusCreated, code)

	var quiz content.Quiz
	require.NoError(t, database.Database.Db.First(&quiz).Error)

	// Still pending: hidden from test-takers.
	code, _ = doJSON(t, app, "GET", fmt.Sprintf("/api/quizzes/%d", quiz.ID), "", nil)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = doJSON(t, app, "GET", "/api/quizzes/99999", "", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestSubmitQuizOverHTTP(t *testing.T) {
	app := setupApp(t)
	_, teacherToken := createUser(t, "Ms. Vance", "vance@school.test", models.RoleTeacher)
	_, studentToken := createUser(t, "Sam", "sam@school.test", models.RoleStudent)

	code, _ := doJSON(t, app, "POST", "/api/quizzes/create", teacherToken, quizPayload())
	require.Equal(t, fiber.StatusCreated, code)

	var quiz content.Quiz
	require.NoError(t, database.Database.Db.First(&quiz).Error)
	require.NoError(t, database.Database.Db.Model(&quiz).Update("status", content.StatusApproved).Error)

	var questions []content.Question
	require.NoError(t, database.Database.Db.Order("question_order asc").Find(&questions).Error)

	answers := map[string]string{
		fmt.Sprint(questions[0].ID): "a", // correct, 1 mark
		fmt.Sprint(questions[1].ID): "D", // wrong
	}

	code, payload := doJSON(t, app, "POST", fmt.Sprintf("/api/quizzes/submit/%d", quiz.ID), studentToken, map[string]interface{}{
		"answers":            answers,
		"time_taken_seconds": 120,
	})
	require.Equal(t, fiber.StatusOK, code)

	data, ok := payload["data"].(map[string]interface{})
	require.True(t, ok)

	assert.Equal(t, float64(1), data["score"])
	assert.Equal(t, float64(6), data["total_marks"])
	assert.Equal(t, 16.67, data["percentage"])
	results, ok := data["results"].([]interface{})
	require.True(t, ok)
	assert.Len(t, results, 3)

	// Post-submission reveal includes the answer key.
	first := results[0].(map[string]interface{})
	assert.Equal(t, "A", first["correct_answer"])

	// Teachers cannot submit.
	code, _ = doJSON(t, app, "POST", fmt.Sprintf("/api/quizzes/submit/%d", quiz.ID), teacherToken, map[string]interface{}{
		"answers": answers,
	})
	assert.Equal(t, fiber.StatusForbidden, code)

	// Empty answers are a validation error.
	code, _ = doJSON(t, app, "POST", fmt.Sprintf("/api/quizzes/submit/%d", quiz.ID), studentToken, map[string]interface{}{
		"answers": map[string]string{},
	})
	assert.Equal(t, fiber.StatusBadRequest, code)
}
