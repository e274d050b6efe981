package handlers

import (
	"database/sql"
	"fmt"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tugas-app/internal/config"
	"tugas-app/internal/models"
	"tugas-app/pkg/logger"
)

// Laporan foto pekerjaan dikirim sebagai multipart (description + image).

// validateReportImage memeriksa ukuran dan tipe lampiran laporan.
func validateReportImage(file *multipart.FileHeader) error {
	if file.Size > 5<<20 {
		return fiber.NewError(fiber.StatusBadRequest, "File size exceeds the limit of 5MB")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowedExts := map[string]bool{".jpg": true, ".jpeg": true, ".png": true}
	if !allowedExts[ext] {
		return fiber.NewError(fiber.StatusBadRequest, "File type not allowed")
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.Contains(contentType, "image") {
		return fiber.NewError(fiber.StatusBadRequest, "File must be an image")
	}

	return nil
}

// UploadTaskReport menambahkan laporan (append-only) ke sebuah task.
// Admin atau karyawan yang ditugaskan yang boleh melapor.
func UploadTaskReport(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)
	role := c.Locals("role").(string)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid task ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	var ownerID *int
	err = config.DB.QueryRow("SELECT user_id FROM tasks WHERE id = $1", taskID).Scan(&ownerID)
	if err != nil {
		if err == sql.ErrNoRows {
			logger.ErrorLogger.Error("Task not found", zap.Error(err))
			return c.Status(404).JSON(fiber.Map{
				"message": "Task not found",
				"success": false,
				"status":  404,
			})
		}
		logger.ErrorLogger.Error("Error fetching task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching task",
			"success": false,
			"status":  500,
		})
	}

	if role != models.RoleAdmin && (ownerID == nil || *ownerID != userID) {
		logger.SecurityLogger.Warn("Forbidden report upload",
			zap.Int("user_id", userID), zap.Int("task_id", taskID))
		return c.Status(403).JSON(fiber.Map{
			"message": "Forbidden",
			"success": false,
			"status":  403,
		})
	}

	description := strings.TrimSpace(c.FormValue("description"))
	if description == "" {
		return c.Status(400).JSON(fiber.Map{
			"message": "Description is required",
			"success": false,
			"status":  400,
		})
	}

	// Lampiran gambar opsional
	var imagePath *string
	if file, err := c.FormFile("image"); err == nil {
		if err := validateReportImage(file); err != nil {
			logger.ErrorLogger.Error("Error validating report image", zap.Error(err))
			return c.Status(400).JSON(fiber.Map{
				"message": err.Error(),
				"success": false,
				"status":  400,
			})
		}

		filename := fmt.Sprintf("reports/%d_%d%s", taskID, time.Now().UnixNano(),
			strings.ToLower(filepath.Ext(file.Filename)))
		storagePath := path.Join(config.UploadDir, filename)
		if err := os.MkdirAll(filepath.Dir(storagePath), 0755); err != nil {
			logger.ErrorLogger.Error("Error creating report directory", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error saving file",
				"success": false,
				"status":  500,
			})
		}
		if err := c.SaveFile(file, storagePath); err != nil {
			logger.ErrorLogger.Error("Error saving report image", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error saving file",
				"success": false,
				"status":  500,
			})
		}
		imagePath = &filename
	}

	var report models.TaskReport
	err = config.DB.QueryRow(
		"INSERT INTO task_reports (task_id, description, image_path, submitted_by) VALUES ($1, $2, $3, $4) RETURNING id, task_id, description, image_path, submitted_by, created_at",
		taskID, description, imagePath, userID,
	).Scan(&report.ID, &report.TaskID, &report.Description, &report.ImagePath, &report.SubmittedBy, &report.CreatedAt)
	if err != nil {
		logger.ErrorLogger.Error("Error creating report", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating report",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Task report uploaded",
		zap.Int("task_id", taskID), zap.Int("report_id", report.ID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Report uploaded successfully",
		"success": true,
		"status":  201,
		"data":    report,
	})
}

// ListTaskReports mengambil semua laporan milik sebuah task, terlama dulu.
func ListTaskReports(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)
	role := c.Locals("role").(string)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid task ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	var ownerID *int
	err = config.DB.QueryRow("SELECT user_id FROM tasks WHERE id = $1", taskID).Scan(&ownerID)
	if err != nil {
		logger.ErrorLogger.Error("Task not found", zap.Error(err))
		return c.Status(404).JSON(fiber.Map{
			"message": "Task not found",
			"success": false,
			"status":  404,
		})
	}

	if role != models.RoleAdmin && (ownerID == nil || *ownerID != userID) {
		logger.SecurityLogger.Warn("Forbidden report access",
			zap.Int("user_id", userID), zap.Int("task_id", taskID))
		return c.Status(403).JSON(fiber.Map{
			"message": "Forbidden",
			"success": false,
			"status":  403,
		})
	}

	rows, err := config.DB.Query(
		"SELECT id, task_id, description, image_path, submitted_by, created_at FROM task_reports WHERE task_id = $1 ORDER BY created_at",
		taskID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching reports", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching reports",
			"success": false,
			"status":  500,
		})
	}
	defer rows.Close()

	reports := []models.TaskReport{}
	for rows.Next() {
		var r models.TaskReport
		err := rows.Scan(&r.ID, &r.TaskID, &r.Description, &r.ImagePath, &r.SubmittedBy, &r.CreatedAt)
		if err != nil {
			logger.ErrorLogger.Error("Error scanning reports", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error scanning reports",
				"success": false,
				"status":  500,
			})
		}
		reports = append(reports, r)
	}
	if err = rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over reports", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error iterating over reports",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Reports fetched successfully", zap.Int("task_id", taskID))
	return c.JSON(fiber.Map{
		"message": "Reports fetched successfully",
		"success": true,
		"status":  200,
		"data":    reports,
	})
}
