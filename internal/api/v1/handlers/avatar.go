package handlers

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	// Decoder untuk sniffing dimensi gambar via image.DecodeConfig
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tugas-app/internal/config"
	"tugas-app/internal/models"
	"tugas-app/pkg/logger"
)

// Avatar dikirim sebagai data URI base64 dari klien (hasil kamera/galeri),
// bukan multipart. Batas 2MB setelah decode.
const maxAvatarBytes = 2 * 1024 * 1024

var dataURIPattern = regexp.MustCompile(`^data:image/(jpeg|png|jpg|gif|webp);base64,`)

// extensionForFormat memetakan nama format hasil image.DecodeConfig
// ke ekstensi file yang dipakai di storage.
func extensionForFormat(format string) string {
	switch format {
	case "jpeg":
		return "jpg"
	case "png", "gif", "webp":
		return format
	default:
		return "jpg"
	}
}

// UploadAvatar menerima {avatar: "data:image/...;base64,..."}, memvalidasi
// mime, base64, ukuran, dan dimensi gambar, lalu menyimpan file dengan nama
// avatars/{userID}_{unix}.{ext} dan menghapus avatar lama.
func UploadAvatar(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)
	role := c.Locals("role").(string)

	targetID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid user ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid user ID",
			"success": false,
			"status":  400,
		})
	}

	if role != models.RoleAdmin && userID != targetID {
		logger.SecurityLogger.Warn("Forbidden avatar upload",
			zap.Int("user_id", userID), zap.Int("target_id", targetID))
		return c.Status(403).JSON(fiber.Map{
			"message": "Forbidden",
			"success": false,
			"status":  403,
		})
	}

	type AvatarRequest struct {
		Avatar string `json:"avatar" validate:"required"`
	}

	var req AvatarRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in upload avatar", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}
	if err := config.Validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	if !dataURIPattern.MatchString(req.Avatar) {
		return c.Status(422).JSON(fiber.Map{
			"message": "Invalid image format. Only JPEG, PNG, GIF, and WebP are allowed.",
			"success": false,
			"status":  422,
		})
	}

	encoded := req.Avatar[strings.Index(req.Avatar, ",")+1:]
	imageData, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return c.Status(422).JSON(fiber.Map{
			"message": "Invalid base64 data",
			"success": false,
			"status":  422,
		})
	}

	if len(imageData) > maxAvatarBytes {
		return c.Status(422).JSON(fiber.Map{
			"message": "Image size must be less than 2MB",
			"success": false,
			"status":  422,
		})
	}

	// Sniff dimensi: byte yang tidak bisa dibaca sebagai gambar ditolak
	_, format, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return c.Status(422).JSON(fiber.Map{
			"message": "Invalid image data",
			"success": false,
			"status":  422,
		})
	}

	user, err := userByID(targetID)
	if err != nil {
		logger.SecurityLogger.Warn("User not found", zap.Error(err))
		return c.Status(404).JSON(fiber.Map{
			"message": "User not found",
			"success": false,
			"status":  404,
		})
	}

	filename := fmt.Sprintf("avatars/%d_%d.%s", targetID, time.Now().Unix(), extensionForFormat(format))
	storagePath := path.Join(config.UploadDir, filename)

	if err := os.MkdirAll(filepath.Dir(storagePath), 0755); err != nil {
		logger.ErrorLogger.Error("Error creating avatar directory", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error saving avatar",
			"success": false,
			"status":  500,
		})
	}
	if err := os.WriteFile(storagePath, imageData, 0644); err != nil {
		logger.ErrorLogger.Error("Error writing avatar file", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error saving avatar",
			"success": false,
			"status":  500,
		})
	}

	// Hapus avatar lama kalau ada
	if user.Avatar != nil && *user.Avatar != "" {
		_ = os.Remove(path.Join(config.UploadDir, *user.Avatar))
	}

	_, err = config.DB.Exec("UPDATE users SET avatar = $1, updated_at = NOW() WHERE id = $2",
		filename, targetID)
	if err != nil {
		logger.ErrorLogger.Error("Error updating avatar", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating avatar",
			"success": false,
			"status":  500,
		})
	}

	dropUserCache(targetID)

	avatarURL := fmt.Sprintf("%s/%s/%s", config.BaseURL, config.UploadDir, filename)

	logger.AuditLogger.Info("Avatar uploaded", zap.Int("user_id", targetID), zap.String("filename", filename))
	return c.JSON(fiber.Map{
		"message": "Avatar uploaded successfully",
		"success": true,
		"status":  200,
		"data": fiber.Map{
			"avatar":      avatarURL,
			"avatar_path": filename,
		},
	})
}

// RemoveAvatar menghapus file avatar dan mengosongkan kolomnya.
func RemoveAvatar(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)
	role := c.Locals("role").(string)

	targetID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid user ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid user ID",
			"success": false,
			"status":  400,
		})
	}

	if role != models.RoleAdmin && userID != targetID {
		logger.SecurityLogger.Warn("Forbidden avatar removal",
			zap.Int("user_id", userID), zap.Int("target_id", targetID))
		return c.Status(403).JSON(fiber.Map{
			"message": "Forbidden",
			"success": false,
			"status":  403,
		})
	}

	user, err := userByID(targetID)
	if err != nil {
		logger.SecurityLogger.Warn("User not found", zap.Error(err))
		return c.Status(404).JSON(fiber.Map{
			"message": "User not found",
			"success": false,
			"status":  404,
		})
	}

	if user.Avatar != nil && *user.Avatar != "" {
		_ = os.Remove(path.Join(config.UploadDir, *user.Avatar))
	}

	_, err = config.DB.Exec("UPDATE users SET avatar = NULL, updated_at = NOW() WHERE id = $1", targetID)
	if err != nil {
		logger.ErrorLogger.Error("Error removing avatar", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error removing avatar",
			"success": false,
			"status":  500,
		})
	}

	dropUserCache(targetID)

	logger.AuditLogger.Info("Avatar removed", zap.Int("user_id", targetID))
	return c.JSON(fiber.Map{
		"message": "Avatar removed successfully",
		"success": true,
		"status":  200,
	})
}
