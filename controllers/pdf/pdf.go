package pdfController

import (
	"errors"
	"log"
	"os"

	"eskuul/config"
	"eskuul/database"
	"eskuul/middleware"
	"eskuul/models"
	"eskuul/models/content"
	"eskuul/services/moderation"
	"eskuul/utils"

	"github.com/gofiber/fiber/v2"
)

// UploadPDF stores a teacher's PDF summary. The file lands on disk first and
// the database row second; when the row cannot be written the stored file is
// removed again so no orphan remains.
func UploadPDF(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if user.Role != models.RoleTeacher {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only teachers can upload PDF summaries!", nil)
	}

	fileHeader, err := c.FormFile("pdf")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please upload a PDF file!", nil)
	}

	subject := c.FormValue("subject")
	topic := c.FormValue("topic")
	gradeLevel := c.FormValue("grade_level")

	if subject == "" || topic == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Subject and topic are required!", nil)
	}

	filePath, err := utils.SavePDFUpload(fileHeader, config.AppConfig.UploadDir)
	if err != nil {
		if errors.Is(err, utils.ErrNotAPDF) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Only PDF files are allowed!", nil)
		}
		if errors.Is(err, utils.ErrFileTooLarge) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "File exceeds the upload size limit!", nil)
		}
		log.Printf("Error saving uploaded PDF: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store uploaded file!", nil)
	}

	pdf := content.PDFSummary{
		Subject:    subject,
		Topic:      topic,
		GradeLevel: gradeLevel,
		FilePath:   filePath,
		FileName:   fileHeader.Filename,
		FileSize:   fileHeader.Size,
		UploadedBy: user.ID,
		Status:     content.StatusPending,
	}

	if err := database.Database.Db.Create(&pdf).Error; err != nil {
		// Compensate: the file write is outside the transaction.
		utils.RemoveStoredFile(filePath)
		log.Printf("Error saving PDF record: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save PDF!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "PDF uploaded successfully. Awaiting admin approval.", fiber.Map{
		"pdf": pdf,
	})
}

// GetMyPDFs lists the logged-in teacher's uploads in every moderation state.
func GetMyPDFs(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if user.Role != models.RoleTeacher {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	}

	var pdfs []content.PDFSummary
	if err := database.Database.Db.Where("uploaded_by = ?", user.ID).Order("created_at desc").Find(&pdfs).Error; err != nil {
		log.Printf("Error fetching teacher PDFs: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch PDFs!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "PDFs fetched successfully.", fiber.Map{
		"pdfs": pdfs,
	})
}

// GetApprovedPDFs lists approved PDFs for students, with optional subject,
// grade level and free-text filters.
func GetApprovedPDFs(c *fiber.Ctx) error {
	db := database.Database.Db

	query := db.Model(&content.PDFSummary{}).Where("status = ?", content.StatusApproved)

	if subject := c.Query("subject"); subject != "" {
		query = query.Where("subject = ?", subject)
	}
	if gradeLevel := c.Query("grade_level"); gradeLevel != "" {
		query = query.Where("grade_level = ?", gradeLevel)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("topic ILIKE ? OR subject ILIKE ?", like, like)
	}

	var pdfs []content.PDFSummary
	if err := query.Order("created_at desc").Find(&pdfs).Error; err != nil {
		log.Printf("Error fetching approved PDFs: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch PDFs!", nil)
	}

	type pdfRow struct {
		content.PDFSummary
		UploadedByName string `json:"uploaded_by_name"`
	}

	rows := make([]pdfRow, len(pdfs))
	for i, pdf := range pdfs {
		var uploader models.User
		db.Select("name").Where("id = ?", pdf.UploadedBy).First(&uploader)
		rows[i] = pdfRow{PDFSummary: pdf, UploadedByName: uploader.Name}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "PDFs fetched successfully.", fiber.Map{
		"pdfs": rows,
	})
}

// DownloadPDF streams an approved PDF as an attachment.
func DownloadPDF(c *fiber.Ctx) error {
	pdfID := c.Locals("pdfID").(uint)

	var pdf content.PDFSummary
	if err := database.Database.Db.Where("id = ?", pdfID).First(&pdf).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "PDF not found!", nil)
	}

	if pdf.Status != content.StatusApproved {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This PDF is not yet approved for download!", nil)
	}

	if _, err := os.Stat(pdf.FilePath); err != nil {
		log.Printf("Stored file missing for PDF %d: %v", pdf.ID, err)
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "PDF file not found on server!", nil)
	}

	return c.Download(pdf.FilePath, pdf.FileName)
}

// GetPendingPDFs lists PDFs awaiting review, oldest first (admin only).
func GetPendingPDFs(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if user.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	var pdfs []content.PDFSummary
	if err := database.Database.Db.Where("status = ?", content.StatusPending).Order("created_at asc").Find(&pdfs).Error; err != nil {
		log.Printf("Error fetching pending PDFs: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch pending PDFs!", nil)
	}

	type pendingPDF struct {
		content.PDFSummary
		TeacherName  string `json:"teacher_name"`
		TeacherEmail string `json:"teacher_email"`
	}

	rows := make([]pendingPDF, len(pdfs))
	for i, pdf := range pdfs {
		var teacher models.User
		database.Database.Db.Select("name, email").Where("id = ?", pdf.UploadedBy).First(&teacher)
		rows[i] = pendingPDF{PDFSummary: pdf, TeacherName: teacher.Name, TeacherEmail: teacher.Email}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending PDFs fetched successfully.", fiber.Map{
		"pdfs": rows,
	})
}

// ApprovePDF transitions a pending PDF to approved (admin only).
func ApprovePDF(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if user.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only admins can approve PDFs!", nil)
	}

	pdfID := c.Locals("pdfID").(uint)

	pdf, err := moderation.ApprovePDF(database.Database.Db, pdfID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, moderation.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "PDF not found!", nil)
		case errors.Is(err, moderation.ErrAlreadyRejected):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "PDF has already been rejected!", nil)
		default:
			log.Printf("Error approving PDF %d: %v", pdfID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to approve PDF!", nil)
		}
	}

	notifyUploader(pdf.UploadedBy, func(teacher models.User) {
		utils.SendContentApprovedEmail(teacher.Email, teacher.Name, "PDF summary", pdf.Topic)
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "PDF approved successfully.", fiber.Map{
		"pdf": pdf,
	})
}

// RejectPDF transitions a pending PDF to rejected with a reason (admin only).
func RejectPDF(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if user.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only admins can reject PDFs!", nil)
	}

	pdfID := c.Locals("pdfID").(uint)

	reqData := new(struct {
		RejectionReason string `json:"rejection_reason"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	pdf, err := moderation.RejectPDF(database.Database.Db, pdfID, reqData.RejectionReason)
	if err != nil {
		switch {
		case errors.Is(err, moderation.ErrEmptyReason):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Rejection reason is required!", nil)
		case errors.Is(err, moderation.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "PDF not found!", nil)
		case errors.Is(err, moderation.ErrNotPending):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "PDF is not pending review!", nil)
		default:
			log.Printf("Error rejecting PDF %d: %v", pdfID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reject PDF!", nil)
		}
	}

	notifyUploader(pdf.UploadedBy, func(teacher models.User) {
		utils.SendContentRejectedEmail(teacher.Email, teacher.Name, "PDF summary", pdf.Topic, pdf.RejectionReason)
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "PDF rejected.", fiber.Map{
		"pdf": pdf,
	})
}

// DeletePDF removes the record and then the stored file. Owners and admins
// only.
func DeletePDF(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	pdfID := c.Locals("pdfID").(uint)

	filePath, err := moderation.DeletePDF(database.Database.Db, pdfID, user.ID, user.Role)
	if err != nil {
		switch {
		case errors.Is(err, moderation.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "PDF not found!", nil)
		case errors.Is(err, moderation.ErrNotAllowed):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to delete this PDF!", nil)
		default:
			log.Printf("Error deleting PDF %d: %v", pdfID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete PDF!", nil)
		}
	}

	utils.RemoveStoredFile(filePath)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "PDF deleted successfully.", nil)
}

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

func notifyUploader(teacherID uint, send func(models.User)) {
	var teacher models.User
	if err := database.Database.Db.Where("id = ?", teacherID).First(&teacher).Error; err != nil {
		log.Printf("Error loading teacher %d for notification: %v", teacherID, err)
		return
	}
	send(teacher)
}
