package content

import (
	"time"

	"gorm.io/gorm"
)

// QuizAttempt is one student's graded submission of one quiz. TotalMarks is
// a snapshot of the quiz total at submission time so later quiz deletion or
// recreation never rewrites historical grades. Rows are never updated.
type QuizAttempt struct {
	gorm.Model
	StudentID        uint      `json:"student_id" gorm:"index;not null"`
	QuizID           uint      `json:"quiz_id" gorm:"index;not null"`
	Score            int       `json:"score"`
	TotalMarks       int       `json:"total_marks"`
	Percentage       float64   `json:"percentage"`
	TimeTakenSeconds *int      `json:"time_taken_seconds,omitempty"`
	CompletedAt      time.Time `json:"completed_at"`
	Status           string    `json:"status" gorm:"default:'completed'"`
	SubmittedAnswers string    `json:"-"` // raw answers payload, JSON, kept for audit
}

// QuizAttemptAnswer records the outcome for a single question within an
// attempt. A nil StudentAnswer means the question was left unanswered.
type QuizAttemptAnswer struct {
	gorm.Model
	AttemptID     uint    `json:"attempt_id" gorm:"index;not null"`
	QuestionID    uint    `json:"question_id" gorm:"not null"`
	StudentAnswer *string `json:"student_answer"`
	IsCorrect     bool    `json:"is_correct" gorm:"default:false"`
}
