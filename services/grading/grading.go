package grading

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"eskuul/models"
	"eskuul/models/content"

	"gorm.io/gorm"
)

var (
	ErrQuizNotFound    = errors.New("quiz not found")
	ErrQuizNotApproved = errors.New("quiz is not approved")
	ErrNotStudent      = errors.New("only students can submit quizzes")
	ErrNoAnswers       = errors.New("no answers provided")
)

// AnswerSheet maps a question id to the submitted option label. Missing keys
// mean the question was left unanswered; keys that do not belong to the quiz
// are ignored during grading.
type AnswerSheet map[uint]string

// TakeQuestion is a question as shown to a test-taker. It deliberately has
// no correct answer and no explanation.
type TakeQuestion struct {
	ID            uint   `json:"question_id"`
	QuestionText  string `json:"question_text"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	Marks         int    `json:"marks"`
	QuestionOrder int    `json:"question_order"`
}

// QuizForTaking is the payload served to a student about to take a quiz.
type QuizForTaking struct {
	ID               uint           `json:"quiz_id"`
	Title            string         `json:"title"`
	Subject          string         `json:"subject"`
	Topic            string         `json:"topic"`
	GradeLevel       string         `json:"grade_level,omitempty"`
	TotalMarks       int            `json:"total_marks"`
	TimeLimitMinutes *int           `json:"time_limit_minutes,omitempty"`
	CreatedByName    string         `json:"created_by_name"`
	Questions        []TakeQuestion `json:"questions"`
}

// QuestionResult is the graded outcome of one question, revealed to the
// student only after submission.
type QuestionResult struct {
	QuestionID    uint    `json:"question_id"`
	QuestionText  string  `json:"question_text"`
	StudentAnswer *string `json:"student_answer"`
	CorrectAnswer string  `json:"correct_answer"`
	IsCorrect     bool    `json:"is_correct"`
	Marks         int     `json:"marks"`
	Explanation   string  `json:"explanation,omitempty"`
}

// AttemptResult is the full outcome of a graded submission.
type AttemptResult struct {
	AttemptID  uint             `json:"attempt_id"`
	Score      int              `json:"score"`
	TotalMarks int              `json:"total_marks"`
	Percentage float64          `json:"percentage"`
	Results    []QuestionResult `json:"results"`
}

// AssembleForTaking loads an approved quiz with its ordered questions for a
// test-taker. The answer key never appears in the returned payload.
func AssembleForTaking(db *gorm.DB, quizID uint) (*QuizForTaking, error) {
	var quiz content.Quiz
	if err := db.Where("id = ?", quizID).First(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	if quiz.Status != content.StatusApproved {
		return nil, ErrQuizNotApproved
	}

	var creator models.User
	db.Select("name").Where("id = ?", quiz.CreatedBy).First(&creator)

	var questions []content.Question
	if err := db.Where("quiz_id = ?", quiz.ID).Order("question_order asc").Find(&questions).Error; err != nil {
		return nil, err
	}

	out := &QuizForTaking{
		ID:               quiz.ID,
		Title:            quiz.Title,
		Subject:          quiz.Subject,
		Topic:            quiz.Topic,
		GradeLevel:       quiz.GradeLevel,
		TotalMarks:       quiz.TotalMarks,
		TimeLimitMinutes: quiz.TimeLimitMinutes,
		CreatedByName:    creator.Name,
		Questions:        make([]TakeQuestion, len(questions)),
	}

	for i, q := range questions {
		out.Questions[i] = TakeQuestion{
			ID:            q.ID,
			QuestionText:  q.QuestionText,
			OptionA:       q.OptionA,
			OptionB:       q.OptionB,
			OptionC:       q.OptionC,
			OptionD:       q.OptionD,
			Marks:         q.Marks,
			QuestionOrder: q.QuestionOrder,
		}
	}

	return out, nil
}

// SubmitAttempt grades a student's answers against a quiz and persists the
// attempt plus one answer row per question as a single transaction. Quiz
// approval is re-checked here; the state may have changed since the quiz was
// fetched for taking.
func SubmitAttempt(db *gorm.DB, quizID, studentID uint, role string, answers AnswerSheet, timeTakenSeconds *int) (*AttemptResult, error) {
	if role != models.RoleStudent {
		return nil, ErrNotStudent
	}

	if len(answers) == 0 {
		return nil, ErrNoAnswers
	}

	var result *AttemptResult

	err := db.Transaction(func(tx *gorm.DB) error {
		var quiz content.Quiz
		if err := tx.Where("id = ?", quizID).First(&quiz).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuizNotFound
			}
			return err
		}

		if quiz.Status != content.StatusApproved {
			return ErrQuizNotApproved
		}

		var questions []content.Question
		if err := tx.Where("quiz_id = ?", quiz.ID).Order("question_order asc").Find(&questions).Error; err != nil {
			return err
		}

		// Grade question by question. Iterating the quiz's own questions
		// means answer keys that don't belong to the quiz never score.
		score := 0
		results := make([]QuestionResult, len(questions))
		for i, q := range questions {
			var studentAnswer *string
			isCorrect := false

			if raw, ok := answers[q.ID]; ok {
				submitted := raw
				studentAnswer = &submitted
				isCorrect = strings.ToUpper(strings.TrimSpace(raw)) == q.CorrectAnswer
			}

			if isCorrect {
				score += q.Marks
			}

			results[i] = QuestionResult{
				QuestionID:    q.ID,
				QuestionText:  q.QuestionText,
				StudentAnswer: studentAnswer,
				CorrectAnswer: q.CorrectAnswer,
				IsCorrect:     isCorrect,
				Marks:         q.Marks,
				Explanation:   q.Explanation,
			}
		}

		rawAnswers, _ := json.Marshal(answers)

		attempt := content.QuizAttempt{
			StudentID:        studentID,
			QuizID:           quiz.ID,
			Score:            score,
			TotalMarks:       quiz.TotalMarks,
			Percentage:       roundPercentage(score, quiz.TotalMarks),
			TimeTakenSeconds: timeTakenSeconds,
			CompletedAt:      time.Now(),
			Status:           "completed",
			SubmittedAnswers: string(rawAnswers),
		}

		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}

		answerRows := make([]content.QuizAttemptAnswer, len(results))
		for i, r := range results {
			answerRows[i] = content.QuizAttemptAnswer{
				AttemptID:     attempt.ID,
				QuestionID:    r.QuestionID,
				StudentAnswer: r.StudentAnswer,
				IsCorrect:     r.IsCorrect,
			}
		}

		if len(answerRows) > 0 {
			if err := tx.Create(&answerRows).Error; err != nil {
				return err
			}
		}

		result = &AttemptResult{
			AttemptID:  attempt.ID,
			Score:      score,
			TotalMarks: quiz.TotalMarks,
			Percentage: attempt.Percentage,
			Results:    results,
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

// roundPercentage computes score/total as a percentage rounded to 2 decimal
// places.
func roundPercentage(score, totalMarks int) float64 {
	if totalMarks <= 0 {
		return 0
	}
	return math.Round(float64(score)/float64(totalMarks)*100*100) / 100
}
