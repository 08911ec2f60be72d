package content

import (
	"time"

	"gorm.io/gorm"
)

// Quiz is a teacher-authored multiple choice quiz. TotalMarks is computed
// once at creation from the question marks and stored; question edits after
// creation are not supported, so the stored value never drifts.
type Quiz struct {
	gorm.Model
	Title            string     `json:"title" gorm:"not null"`
	Subject          string     `json:"subject" gorm:"not null"`
	Topic            string     `json:"topic" gorm:"not null"`
	GradeLevel       string     `json:"grade_level"`
	TotalMarks       int        `json:"total_marks" gorm:"not null"`
	TimeLimitMinutes *int       `json:"time_limit_minutes,omitempty"`
	CreatedBy        uint       `json:"created_by" gorm:"index;not null"`
	Status           string     `json:"status" gorm:"index;default:'pending'"`
	RejectionReason  string     `json:"rejection_reason,omitempty"`
	ApprovedBy       *uint      `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`

	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

// Question belongs to exactly one quiz. CorrectAnswer and Explanation are
// never serialized with the model; they only ever reach a student through
// the graded result of a submission.
type Question struct {
	gorm.Model
	QuizID        uint   `json:"quiz_id" gorm:"index;not null"`
	QuestionText  string `json:"question_text" gorm:"not null"`
	OptionA       string `json:"option_a" gorm:"not null"`
	OptionB       string `json:"option_b" gorm:"not null"`
	OptionC       string `json:"option_c" gorm:"not null"`
	OptionD       string `json:"option_d" gorm:"not null"`
	CorrectAnswer string `json:"-" gorm:"not null"` // A, B, C or D
	Explanation   string `json:"-"`
	Marks         int    `json:"marks" gorm:"default:1"`
	QuestionOrder int    `json:"question_order" gorm:"not null"`
}
