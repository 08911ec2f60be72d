package utils

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"eskuul/config"
	"eskuul/database"
	"eskuul/models/content"

	"github.com/robfig/cron/v3"
)

// StartCleanupScheduler runs a nightly sweep over the upload directory and
// removes files that no pdf_summaries row references anymore. Such orphans
// appear when an upload's database insert fails after the file was written,
// or when a file removal after delete did not go through.
func StartCleanupScheduler() {
	c := cron.New()

	_, err := c.AddFunc("0 3 * * *", func() {
		SweepOrphanedUploads(config.AppConfig.UploadDir)
	})
	if err != nil {
		log.Printf("Error scheduling upload cleanup: %v", err)
		return
	}

	c.Start()
	log.Println("Upload cleanup scheduler started.")
}

// SweepOrphanedUploads deletes unreferenced files older than an hour from
// the upload directory. The age cutoff keeps the sweep from racing an
// in-flight upload whose database row is not committed yet.
func SweepOrphanedUploads(uploadDir string) {
	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Error reading upload dir: %v", err)
		}
		return
	}

	cutoff := time.Now().Add(-1 * time.Hour)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		filePath := filepath.Join(uploadDir, entry.Name())

		var count int64
		if err := database.Database.Db.Model(&content.PDFSummary{}).Where("file_path = ?", filePath).Count(&count).Error; err != nil {
			log.Printf("Error checking references for %s: %v", filePath, err)
			continue
		}

		if count == 0 {
			if err := os.Remove(filePath); err != nil {
				log.Printf("Error removing orphaned file %s: %v", filePath, err)
				continue
			}
			removed++
		}
	}

	if removed > 0 {
		log.Printf("Upload cleanup removed %d orphaned file(s).", removed)
	}
}
