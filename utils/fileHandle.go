package utils

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"eskuul/config"

	"github.com/google/uuid"
)

var (
	ErrNotAPDF      = errors.New("uploaded file is not a PDF")
	ErrFileTooLarge = errors.New("uploaded file exceeds the size limit")
)

// SavePDFUpload stores an uploaded PDF under destDir with a generated name
// and returns the stored path. The upload must carry a PDF content type,
// actually start with PDF magic bytes, and stay within the configured size
// limit.
func SavePDFUpload(file *multipart.FileHeader, destDir string) (string, error) {
	maxSize := int64(config.AppConfig.MaxUploadSizeMB) * 1024 * 1024
	if file.Size > maxSize {
		return "", ErrFileTooLarge
	}

	if !strings.EqualFold(file.Header.Get("Content-Type"), "application/pdf") {
		return "", ErrNotAPDF
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// Sniff the real content; the header alone is client-controlled.
	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return "", err
	}
	if http.DetectContentType(head[:n]) != "application/pdf" {
		return "", ErrNotAPDF
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	// Create destination directory if it doesn't exist
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	newFilename := "pdf-" + uuid.NewString() + ".pdf"
	filePath := filepath.Join(destDir, newFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(filePath)
		return "", err
	}

	return filePath, nil
}

// RemoveStoredFile deletes a stored upload. Failures are logged, not
// returned; the cleanup scheduler sweeps anything left behind.
func RemoveStoredFile(filePath string) {
	if filePath == "" {
		return
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		log.Printf("Error removing stored file %s: %v", filePath, err)
	}
}
