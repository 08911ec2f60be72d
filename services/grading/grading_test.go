package grading

import (
	"encoding/json"
	"testing"

	"eskuul/models"
	"eskuul/models/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // keep every query on the one in-memory connection

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&content.Quiz{},
		&content.Question{},
		&content.QuizAttempt{},
		&content.QuizAttemptAnswer{},
	))

	return db
}

type questionSpec struct {
	correct string
	marks   int
}

func seedQuiz(t *testing.T, db *gorm.DB, status string, specs []questionSpec) (*content.Quiz, []content.Question) {
	t.Helper()

	teacher := models.User{Name: "Ms. Vance", Email: "vance@school.test", Password: "x", Role: models.RoleTeacher}
	require.NoError(t, db.Where(models.User{Email: teacher.Email}).FirstOrCreate(&teacher).Error)

	total := 0
	for _, s := range specs {
		total += s.marks
	}

	quiz := content.Quiz{
		Title:      "Fractions",
		Subject:    "Math",
		Topic:      "Fractions",
		TotalMarks: total,
		CreatedBy:  teacher.ID,
		Status:     status,
	}
	require.NoError(t, db.Create(&quiz).Error)

	questions := make([]content.Question, len(specs))
	for i, s := range specs {
		questions[i] = content.Question{
			QuizID:        quiz.ID,
			QuestionText:  "Question?",
			OptionA:       "a", OptionB: "b", OptionC: "c", OptionD: "d",
			CorrectAnswer: s.correct,
			Explanation:   "because",
			Marks:         s.marks,
			QuestionOrder: i + 1,
		}
	}
	require.NoError(t, db.Create(&questions).Error)

	return &quiz, questions
}

func TestAssembleForTakingWithholdsAnswerKey(t *testing.T) {
	db := newTestDB(t)
	quiz, _ := seedQuiz(t, db, content.StatusApproved, []questionSpec{{"A", 1}, {"B", 2}})

	out, err := AssembleForTaking(db, quiz.ID)
	require.NoError(t, err)
	require.Len(t, out.Questions, 2)

	payload, err := json.Marshal(out)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "correct_answer")
	assert.NotContains(t, string(payload), "explanation")
	assert.Equal(t, "Ms. Vance", out.CreatedByName)
	assert.Equal(t, 3, out.TotalMarks)
}

func TestAssembleForTakingOrdersQuestions(t *testing.T) {
	db := newTestDB(t)
	quiz, questions := seedQuiz(t, db, content.StatusApproved, []questionSpec{{"A", 1}, {"B", 1}, {"C", 1}})

	out, err := AssembleForTaking(db, quiz.ID)
	require.NoError(t, err)

	for i, q := range out.Questions {
		assert.Equal(t, i+1, q.QuestionOrder)
		assert.Equal(t, questions[i].ID, q.ID)
	}
}

func TestAssembleForTakingMissingQuiz(t *testing.T) {
	db := newTestDB(t)

	_, err := AssembleForTaking(db, 9999)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestAssembleForTakingUnapprovedQuiz(t *testing.T) {
	db := newTestDB(t)

	for _, status := range []string{content.StatusPending, content.StatusRejected} {
		quiz, _ := seedQuiz(t, db, status, []questionSpec{{"A", 1}})

		_, err := AssembleForTaking(db, quiz.ID)
		assert.ErrorIs(t, err, ErrQuizNotApproved)
	}
}

func TestSubmitAttemptGradesCaseInsensitively(t *testing.T) {
	db := newTestDB(t)
	quiz, questions := seedQuiz(t, db, content.StatusApproved, []questionSpec{{"A", 1}, {"B", 2}})

	result, err := SubmitAttempt(db, quiz.ID, 42, models.RoleStudent, AnswerSheet{
		questions[0].ID: "a", // lower case still matches
		questions[1].ID: "C", // wrong
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 3, result.TotalMarks)
	assert.Equal(t, 33.33, result.Percentage)

	require.Len(t, result.Results, 2)
	assert.True(t, result.Results[0].IsCorrect)
	assert.False(t, result.Results[1].IsCorrect)
	assert.Equal(t, "B", result.Results[1].CorrectAnswer)
	assert.Equal(t, "because", result.Results[1].Explanation)
}

func TestSubmitAttemptOmittedAnswer(t *testing.T) {
	db := newTestDB(t)
	quiz, questions := seedQuiz(t, db, content.StatusApproved, []questionSpec{{"A", 1}, {"B", 1}})

	result, err := SubmitAttempt(db, quiz.ID, 42, models.RoleStudent, AnswerSheet{
		questions[0].ID: "A",
	}, nil)
	require.NoError(t, err)

	require.Len(t, result.Results, 2)
	assert.Nil(t, result.Results[1].StudentAnswer)
	assert.False(t, result.Results[1].IsCorrect)
	assert.Equal(t, 1, result.Score)

	// The unanswered question still gets an answer row, with no label.
	var rows []content.QuizAttemptAnswer
	require.NoError(t, db.Where("attempt_id = ?", result.AttemptID).Order("question_id asc").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Nil(t, rows[1].StudentAnswer)
}

func TestSubmitAttemptIgnoresForeignQuestionIDs(t *testing.T) {
	db := newTestDB(t)
	quiz, questions := seedQuiz(t, db, content.StatusApproved, []questionSpec{{"A", 1}})

	result, err := SubmitAttempt(db, quiz.ID, 42, models.RoleStudent, AnswerSheet{
		questions[0].ID: "B",
		987654:          "A", // not part of this quiz
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Score)
	require.Len(t, result.Results, 1)

	var count int64
	db.Model(&content.QuizAttemptAnswer{}).Where("attempt_id = ?", result.AttemptID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestSubmitAttemptInvalidLabelIsJustWrong(t *testing.T) {
	db := newTestDB(t)
	quiz, questions := seedQuiz(t, db, content.StatusApproved, []questionSpec{{"A", 1}})

	result, err := SubmitAttempt(db, quiz.ID, 42, models.RoleStudent, AnswerSheet{
		questions[0].ID: "E",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	assert.False(t, result.Results[0].IsCorrect)
}

func TestSubmitAttemptRoleAndInputChecks(t *testing.T) {
	db := newTestDB(t)
	quiz, questions := seedQuiz(t, db, content.StatusApproved, []questionSpec{{"A", 1}})

	_, err := SubmitAttempt(db, quiz.ID, 42, models.RoleTeacher, AnswerSheet{questions[0].ID: "A"}, nil)
	assert.ErrorIs(t, err, ErrNotStudent)

	_, err = SubmitAttempt(db, quiz.ID, 42, models.RoleStudent, AnswerSheet{}, nil)
	assert.ErrorIs(t, err, ErrNoAnswers)

	// No attempts may exist after rejected submissions.
	var count int64
	db.Model(&content.QuizAttempt{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestSubmitAttemptQuizStateChecks(t *testing.T) {
	db := newTestDB(t)

	_, err := SubmitAttempt(db, 9999, 42, models.RoleStudent, AnswerSheet{1: "A"}, nil)
	assert.ErrorIs(t, err, ErrQuizNotFound)

	pending, pendingQs := seedQuiz(t, db, content.StatusPending, []questionSpec{{"A", 1}})
	_, err = SubmitAttempt(db, pending.ID, 42, models.RoleStudent, AnswerSheet{pendingQs[0].ID: "A"}, nil)
	assert.ErrorIs(t, err, ErrQuizNotApproved)

	rejected, rejectedQs := seedQuiz(t, db, content.StatusRejected, []questionSpec{{"A", 1}})
	_, err = SubmitAttempt(db, rejected.ID, 42, models.RoleStudent, AnswerSheet{rejectedQs[0].ID: "A"}, nil)
	assert.ErrorIs(t, err, ErrQuizNotApproved)
}

func TestSubmitAttemptTwiceCreatesIndependentAttempts(t *testing.T) {
	db := newTestDB(t)
	quiz, questions := seedQuiz(t, db, content.StatusApproved, []questionSpec{{"A", 1}, {"B", 2}})

	first, err := SubmitAttempt(db, quiz.ID, 42, models.RoleStudent, AnswerSheet{
		questions[0].ID: "A",
		questions[1].ID: "B",
	}, nil)
	require.NoError(t, err)

	second, err := SubmitAttempt(db, quiz.ID, 42, models.RoleStudent, AnswerSheet{
		questions[0].ID: "D",
	}, nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.AttemptID, second.AttemptID)
	assert.Equal(t, 3, first.Score)
	assert.Equal(t, 0, second.Score)

	var attempts []content.QuizAttempt
	require.NoError(t, db.Order("id asc").Find(&attempts).Error)
	require.Len(t, attempts, 2)
	assert.Equal(t, 100.0, attempts[0].Percentage)
	assert.Equal(t, 0.0, attempts[1].Percentage)
}

func TestSubmitAttemptPersistsSnapshot(t *testing.T) {
	db := newTestDB(t)
	quiz, questions := seedQuiz(t, db, content.StatusApproved, []questionSpec{{"A", 2}, {"B", 3}})

	seconds := 95
	result, err := SubmitAttempt(db, quiz.ID, 7, models.RoleStudent, AnswerSheet{
		questions[0].ID: "A",
	}, &seconds)
	require.NoError(t, err)

	var attempt content.QuizAttempt
	require.NoError(t, db.First(&attempt, result.AttemptID).Error)

	assert.Equal(t, uint(7), attempt.StudentID)
	assert.Equal(t, 2, attempt.Score)
	assert.Equal(t, 5, attempt.TotalMarks)
	assert.Equal(t, 40.0, attempt.Percentage)
	assert.Equal(t, "completed", attempt.Status)
	require.NotNil(t, attempt.TimeTakenSeconds)
	assert.Equal(t, 95, *attempt.TimeTakenSeconds)
	assert.False(t, attempt.CompletedAt.IsZero())
	assert.NotEmpty(t, attempt.SubmittedAnswers)
}

func TestRoundPercentage(t *testing.T) {
	assert.Equal(t, 33.33, roundPercentage(1, 3))
	assert.Equal(t, 66.67, roundPercentage(2, 3))
	assert.Equal(t, 100.0, roundPercentage(6, 6))
	assert.Equal(t, 0.0, roundPercentage(0, 6))
	assert.Equal(t, 0.0, roundPercentage(1, 0))
}
