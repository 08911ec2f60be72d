package content

import (
	"time"

	"gorm.io/gorm"
)

// PDFSummary represents an uploaded study PDF awaiting or past moderation
type PDFSummary struct {
	gorm.Model
	Subject         string     `json:"subject" gorm:"not null"`
	Topic           string     `json:"topic" gorm:"not null"`
	GradeLevel      string     `json:"grade_level"`
	FilePath        string     `json:"-" gorm:"not null"`
	FileName        string     `json:"file_name" gorm:"not null"`
	FileSize        int64      `json:"file_size"`
	UploadedBy      uint       `json:"uploaded_by" gorm:"index;not null"`
	Status          string     `json:"status" gorm:"index;default:'pending'"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ApprovedBy      *uint      `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
}
