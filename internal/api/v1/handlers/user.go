package handlers

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"tugas-app/internal/config"
	"tugas-app/internal/models"
	"tugas-app/pkg/logger"
)

// User handlers

const usersPerPage = 10

// GetAllUsers mengembalikan daftar user dalam amplop paginasi
// {data: {current_page, data: [...], per_page, total}}. Hanya admin.
func GetAllUsers(c *fiber.Ctx) error {
	role := c.Locals("role").(string)

	if role != models.RoleAdmin {
		logger.SecurityLogger.Warn("Forbidden", zap.String("role", role))
		return c.Status(403).JSON(fiber.Map{
			"message": "Forbidden",
			"success": false,
			"status":  403,
		})
	}

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	var total int
	if err := config.DB.QueryRow("SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		logger.ErrorLogger.Error("Error counting users", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching users",
			"success": false,
			"status":  500,
		})
	}

	rows, err := config.DB.Query(
		"SELECT "+userColumns+" FROM users ORDER BY id LIMIT $1 OFFSET $2",
		usersPerPage, (page-1)*usersPerPage)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching users", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching users",
			"success": false,
			"status":  500,
		})
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			logger.ErrorLogger.Error("Error scanning users", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error scanning users",
				"success": false,
				"status":  500,
			})
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over users", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error iterating over users",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Users fetched successfully", zap.Int("page", page))
	return c.JSON(fiber.Map{
		"message": "Users fetched successfully",
		"success": true,
		"status":  200,
		"data": fiber.Map{
			"current_page": page,
			"data":         users,
			"per_page":     usersPerPage,
			"total":        total,
		},
	})
}

// GetUser mengambil satu user (admin atau user itu sendiri).
func GetUser(c *fiber.Ctx) error {
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
		logger.SecurityLogger.Warn("Forbidden", zap.String("role", role),
			zap.Int("user_id", userID), zap.Int("target_id", targetID))
		return c.Status(403).JSON(fiber.Map{
			"message": "Forbidden",
			"success": false,
			"status":  403,
		})
	}

	// Coba ambil data dari cache Redis
	cacheKey := fmt.Sprintf("user:%d", targetID)
	if cached, err := config.RedisClient.Get(config.Ctx, cacheKey).Result(); err == nil {
		var user models.User
		if err = json.Unmarshal([]byte(cached), &user); err == nil {
			return c.JSON(fiber.Map{
				"message": "User found (from cache)",
				"success": true,
				"status":  200,
				"data":    user,
			})
		}
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

	cacheUser(user)

	logger.AuditLogger.Info("User found", zap.Int("user_id", targetID))
	return c.JSON(fiber.Map{
		"message": "User found",
		"success": true,
		"status":  200,
		"data":    user,
	})
}

// UpdateUser mengupdate sebagian field user. Admin boleh mengubah siapa
// saja termasuk role dan department; user biasa hanya dirinya sendiri
// (tanpa perubahan role).
func UpdateUser(c *fiber.Ctx) error {
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
		logger.SecurityLogger.Warn("You don't have permission to update this user",
			zap.String("role", role), zap.Int("user_id", userID), zap.Int("target_id", targetID))
		return c.Status(403).JSON(fiber.Map{
			"message": "You don't have permission to update this user",
			"success": false,
			"status":  403,
		})
	}

	// pointer (*) untuk menandakan bahwa field bisa kosong
	type UpdateUserRequest struct {
		Name       *string `json:"name"`
		Email      *string `json:"email"`
		Phone      *string `json:"phone"`
		Role       *string `json:"role"`
		Department *string `json:"department"`
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	// Role hanya bisa diubah oleh admin, dan harus valid
	if req.Role != nil {
		if role != models.RoleAdmin {
			logger.SecurityLogger.Warn("Forbidden role change", zap.Int("user_id", userID))
			return c.Status(403).JSON(fiber.Map{
				"message": "Forbidden",
				"success": false,
				"status":  403,
			})
		}
		if !models.ValidRole(*req.Role) {
			return c.Status(400).JSON(fiber.Map{
				"message": "Invalid role",
				"success": false,
				"status":  400,
			})
		}
	}

	_, err = config.DB.Exec(`
        UPDATE users
        SET name = COALESCE($1, name),
			email = COALESCE($2, email),
			phone = COALESCE($3, phone),
			role = COALESCE($4, role),
			department = COALESCE($5, department),
			updated_at = NOW()
        WHERE id = $6`,
		req.Name, req.Email, req.Phone, req.Role, req.Department, targetID,
	)
	if err != nil {
		logger.ErrorLogger.Error("Error updating user", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating user",
			"success": false,
			"status":  500,
		})
	}

	updatedUser, err := userByID(targetID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching updated user", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching updated user",
			"success": false,
			"status":  500,
		})
	}

	dropUserCache(targetID)
	cacheUser(updatedUser)

	logger.AuditLogger.Info("User updated successfully", zap.Int("user_id", targetID))
	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"success": true,
		"status":  200,
		"data": fiber.Map{
			"user": updatedUser,
		},
	})
}

// DeleteUser menghapus user (admin saja) berikut file avatarnya.
func DeleteUser(c *fiber.Ctx) error {
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

	if role != models.RoleAdmin {
		logger.SecurityLogger.Warn("You don't have permission to delete this user",
			zap.String("role", role), zap.Int("user_id", userID), zap.Int("target_id", targetID))
		return c.Status(403).JSON(fiber.Map{
			"message": "You don't have permission to delete this user",
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

	// Hapus file avatar lama kalau ada
	if user.Avatar != nil && *user.Avatar != "" {
		_ = os.Remove(path.Join(config.UploadDir, *user.Avatar))
	}

	_, err = config.DB.Exec("DELETE FROM users WHERE id = $1", targetID)
	if err != nil {
		logger.ErrorLogger.Error("Error deleting user", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting user",
			"success": false,
			"status":  500,
		})
	}

	dropUserCache(targetID)

	logger.AuditLogger.Info("User deleted successfully", zap.Int("user_id", targetID))
	return c.Status(200).JSON(fiber.Map{
		"message": "User deleted successfully",
		"success": true,
		"status":  200,
	})
}

// Profile mengembalikan user yang sedang login.
func Profile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	user, err := userByID(userID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching profile", zap.Error(err))
		return c.Status(404).JSON(fiber.Map{
			"message": "User not found",
			"success": false,
			"status":  404,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Profile fetched successfully",
		"success": true,
		"status":  200,
		"data": fiber.Map{
			"user": user,
		},
	})
}

// UpdateProfile mengubah name/phone milik user yang sedang login.
func UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	type UpdateProfileRequest struct {
		Name  *string `json:"name"`
		Phone *string `json:"phone"`
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update profile", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	_, err := config.DB.Exec(`
		UPDATE users
		SET name = COALESCE($1, name),
			phone = COALESCE($2, phone),
			updated_at = NOW()
		WHERE id = $3`,
		req.Name, req.Phone, userID,
	)
	if err != nil {
		logger.ErrorLogger.Error("Error updating profile", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating profile",
			"success": false,
			"status":  500,
		})
	}

	user, err := userByID(userID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching updated profile", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching updated profile",
			"success": false,
			"status":  500,
		})
	}

	dropUserCache(userID)
	cacheUser(user)

	logger.AuditLogger.Info("Profile updated successfully", zap.Int("user_id", userID))
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"success": true,
		"status":  200,
		"data": fiber.Map{
			"user":  user,
			"name":  user.Name,
			"phone": user.Phone,
		},
	})
}

// ChangePassword memverifikasi password lama lalu mengganti dengan yang baru.
func ChangePassword(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	type ChangePasswordRequest struct {
		CurrentPassword      string `json:"current_password" validate:"required"`
		Password             string `json:"password" validate:"required,min=6"`
		PasswordConfirmation string `json:"password_confirmation" validate:"required"`
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in change password", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during change password", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	if req.Password != req.PasswordConfirmation {
		return c.Status(422).JSON(fiber.Map{
			"message": "Password confirmation does not match",
			"success": false,
			"status":  422,
		})
	}

	var currentHash string
	err := config.DB.QueryRow("SELECT password FROM users WHERE id = $1", userID).Scan(&currentHash)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching user", zap.Error(err))
		return c.Status(404).JSON(fiber.Map{
			"message": "User not found",
			"success": false,
			"status":  404,
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(currentHash), []byte(req.CurrentPassword)); err != nil {
		logger.SecurityLogger.Warn("Wrong current password", zap.Int("user_id", userID))
		return c.Status(422).JSON(fiber.Map{
			"message": "Current password is incorrect",
			"success": false,
			"status":  422,
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.ErrorLogger.Error("Error hashing password", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error hashing password",
			"success": false,
			"status":  500,
		})
	}

	_, err = config.DB.Exec("UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2",
		string(hashedPassword), userID)
	if err != nil {
		logger.ErrorLogger.Error("Error updating password", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating password",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Password changed successfully", zap.Int("user_id", userID))
	return c.JSON(fiber.Map{
		"message": "Password changed successfully",
		"success": true,
		"status":  200,
	})
}
