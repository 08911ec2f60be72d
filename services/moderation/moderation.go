package moderation

import (
	"errors"
	"strings"
	"time"

	"eskuul/models"
	"eskuul/models/content"

	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("item not found")
	ErrAlreadyRejected = errors.New("item has already been rejected")
	ErrNotPending      = errors.New("item is not pending review")
	ErrEmptyReason     = errors.New("rejection reason is required")
	ErrNotAllowed      = errors.New("caller may not delete this item")
)

// Transition policy: items move from pending to approved or rejected and
// both of those are terminal. Re-approving an approved item is treated as an
// idempotent success; every other transition out of a terminal state fails.

// ApproveQuiz marks a pending quiz as approved and records the approver.
func ApproveQuiz(db *gorm.DB, quizID, adminID uint) (*content.Quiz, error) {
	var quiz content.Quiz
	if err := db.Where("id = ?", quizID).First(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if quiz.Status == content.StatusApproved {
		return &quiz, nil
	}
	if quiz.Status == content.StatusRejected {
		return nil, ErrAlreadyRejected
	}

	now := time.Now()
	quiz.Status = content.StatusApproved
	quiz.ApprovedBy = &adminID
	quiz.ApprovedAt = &now

	if err := db.Save(&quiz).Error; err != nil {
		return nil, err
	}

	return &quiz, nil
}

// RejectQuiz marks a pending quiz as rejected with a reason for the teacher.
// Approval fields are cleared so a rejected row never carries stale approver
// metadata.
func RejectQuiz(db *gorm.DB, quizID uint, reason string) (*content.Quiz, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrEmptyReason
	}

	var quiz content.Quiz
	if err := db.Where("id = ?", quizID).First(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if quiz.Status != content.StatusPending {
		return nil, ErrNotPending
	}

	quiz.Status = content.StatusRejected
	quiz.RejectionReason = reason
	quiz.ApprovedBy = nil
	quiz.ApprovedAt = nil

	if err := db.Save(&quiz).Error; err != nil {
		return nil, err
	}

	return &quiz, nil
}

// DeleteQuiz removes a quiz and everything hanging off it: questions,
// attempts and per-question attempt answers. The cascade is spelled out here
// rather than left to schema foreign keys, and runs in one transaction.
// Teachers may delete their own quizzes; admins may delete any.
func DeleteQuiz(db *gorm.DB, quizID, callerID uint, callerRole string) error {
	var quiz content.Quiz
	if err := db.Where("id = ?", quizID).First(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if callerRole != models.RoleAdmin && quiz.CreatedBy != callerID {
		return ErrNotAllowed
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("attempt_id IN (?)", tx.Model(&content.QuizAttempt{}).Select("id").Where("quiz_id = ?", quiz.ID)).
			Delete(&content.QuizAttemptAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("quiz_id = ?", quiz.ID).Delete(&content.QuizAttempt{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("quiz_id = ?", quiz.ID).Delete(&content.Question{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&quiz).Error
	})
}

// ApprovePDF marks a pending PDF summary as approved.
func ApprovePDF(db *gorm.DB, pdfID, adminID uint) (*content.PDFSummary, error) {
	var pdf content.PDFSummary
	if err := db.Where("id = ?", pdfID).First(&pdf).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if pdf.Status == content.StatusApproved {
		return &pdf, nil
	}
	if pdf.Status == content.StatusRejected {
		return nil, ErrAlreadyRejected
	}

	now := time.Now()
	pdf.Status = content.StatusApproved
	pdf.ApprovedBy = &adminID
	pdf.ApprovedAt = &now

	if err := db.Save(&pdf).Error; err != nil {
		return nil, err
	}

	return &pdf, nil
}

// RejectPDF marks a pending PDF summary as rejected with a reason.
func RejectPDF(db *gorm.DB, pdfID uint, reason string) (*content.PDFSummary, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrEmptyReason
	}

	var pdf content.PDFSummary
	if err := db.Where("id = ?", pdfID).First(&pdf).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if pdf.Status != content.StatusPending {
		return nil, ErrNotPending
	}

	pdf.Status = content.StatusRejected
	pdf.RejectionReason = reason
	pdf.ApprovedBy = nil
	pdf.ApprovedAt = nil

	if err := db.Save(&pdf).Error; err != nil {
		return nil, err
	}

	return &pdf, nil
}

// DeletePDF removes the database row for a stored PDF and returns the file
// path so the caller can remove the stored file afterwards. File removal is
// outside the transaction; leftovers are swept by the cleanup scheduler.
func DeletePDF(db *gorm.DB, pdfID, callerID uint, callerRole string) (string, error) {
	var pdf content.PDFSummary
	if err := db.Where("id = ?", pdfID).First(&pdf).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	if callerRole != models.RoleAdmin && pdf.UploadedBy != callerID {
		return "", ErrNotAllowed
	}

	if err := db.Unscoped().Delete(&pdf).Error; err != nil {
		return "", err
	}

	return pdf.FilePath, nil
}
