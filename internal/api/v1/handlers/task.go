package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tugas-app/internal/config"
	"tugas-app/internal/models"
	"tugas-app/pkg/logger"
)

// Task handlers

// CreateTask membuat task baru. Admin boleh menugaskan ke user lain
// lewat user_id; employee selalu membuat task untuk dirinya sendiri.
func CreateTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)
	role := c.Locals("role").(string)

	type TaskRequest struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description"`
		Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
		DueDate     string `json:"due_date"`
		UserID      *int   `json:"user_id"`
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.ErrorLogger.Error("Validation error in create task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	// Field opsional diisi default supaya baris di database selalu lengkap
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	dueDate := time.Now()
	if req.DueDate != "" {
		parsed, err := parseDueDate(req.DueDate)
		if err != nil {
			logger.ErrorLogger.Error("Invalid due date in create task", zap.Error(err))
			return c.Status(400).JSON(fiber.Map{
				"message": "Invalid due date",
				"success": false,
				"status":  400,
			})
		}
		dueDate = parsed
	}

	assignee := &userID
	if req.UserID != nil {
		// Menugaskan ke orang lain hanya boleh dilakukan admin
		if role != models.RoleAdmin && *req.UserID != userID {
			logger.SecurityLogger.Warn("Forbidden task assignment",
				zap.Int("user_id", userID), zap.Int("target_id", *req.UserID))
			return c.Status(403).JSON(fiber.Map{
				"message": "Forbidden",
				"success": false,
				"status":  403,
			})
		}
		assignee = req.UserID
	}

	var taskID int
	err := config.DB.QueryRow(
		"INSERT INTO tasks (user_id, title, description, priority, due_date) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		assignee, req.Title, req.Description, req.Priority, dueDate,
	).Scan(&taskID)
	if err != nil {
		logger.ErrorLogger.Error("Error creating task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating task",
			"success": false,
			"status":  500,
		})
	}

	task, err := taskByID(taskID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching created task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching created task",
			"success": false,
			"status":  500,
		})
	}

	cacheTask(task)
	broadcastTask("task.created", task)

	logger.AuditLogger.Info("Task created successfully", zap.Int("task_id", taskID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Task created successfully",
		"success": true,
		"status":  201,
		"data":    task,
	})
}

// ListTasks mengambil task dengan filter opsional status (completed/pending),
// priority, dan user_id. Admin melihat semua task; employee hanya miliknya.
func ListTasks(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)
	role := c.Locals("role").(string)

	query := "SELECT " + taskColumns + " FROM tasks"
	where := []string{}
	args := []interface{}{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if role != models.RoleAdmin {
		// employee dikunci ke tasknya sendiri, apapun query param-nya
		where = append(where, "user_id = "+arg(userID))
	} else if s := c.Query("user_id"); s != "" {
		target, err := strconv.Atoi(s)
		if err != nil {
			logger.ErrorLogger.Error("Invalid user_id filter", zap.Error(err))
			return c.Status(400).JSON(fiber.Map{
				"message": "Invalid user_id filter",
				"success": false,
				"status":  400,
			})
		}
		where = append(where, "user_id = "+arg(target))
	}

	switch c.Query("status") {
	case "":
	case "completed":
		where = append(where, "completed = TRUE")
	case "pending":
		where = append(where, "completed = FALSE")
	default:
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid status filter",
			"success": false,
			"status":  400,
		})
	}

	if p := c.Query("priority"); p != "" {
		if !models.ValidPriority(p) {
			return c.Status(400).JSON(fiber.Map{
				"message": "Invalid priority filter",
				"success": false,
				"status":  400,
			})
		}
		where = append(where, "priority = "+arg(p))
	}

	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	query += " ORDER BY id"

	rows, err := config.DB.Query(query, args...)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching tasks",
			"success": false,
			"status":  500,
		})
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			logger.ErrorLogger.Error("Error scanning tasks", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error scanning tasks",
				"success": false,
				"status":  500,
			})
		}
		tasks = append(tasks, task)
	}
	if err = rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error iterating over tasks",
			"success": false,
			"status":  500,
		})
	}

	// Panaskan cache per task untuk GET /tasks/:id berikutnya
	for _, task := range tasks {
		cacheTask(task)
	}

	logger.AuditLogger.Info("Tasks fetched successfully", zap.Int("count", len(tasks)))
	return c.JSON(fiber.Map{
		"message": "Tasks fetched successfully",
		"success": true,
		"status":  200,
		"data":    tasks,
	})
}

// GetTask mengambil satu task, coba dari cache Redis dulu.
func GetTask(c *fiber.Ctx) error {
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

	allowed := func(t models.Task) bool {
		return role == models.RoleAdmin || (t.UserID != nil && *t.UserID == userID)
	}

	cacheKey := fmt.Sprintf("task:%d", taskID)
	if cached, err := config.RedisClient.Get(config.Ctx, cacheKey).Result(); err == nil {
		var task models.Task
		if err = json.Unmarshal([]byte(cached), &task); err == nil {
			if !allowed(task) {
				logger.SecurityLogger.Warn("Forbidden task access",
					zap.Int("user_id", userID), zap.Int("task_id", taskID))
				return c.Status(403).JSON(fiber.Map{
					"message": "Forbidden",
					"success": false,
					"status":  403,
				})
			}
			logger.AuditLogger.Info("Task found (from cache)", zap.Int("task_id", taskID))
			return c.JSON(fiber.Map{
				"message": "Task found (from cache)",
				"success": true,
				"status":  200,
				"data":    task,
			})
		}
	}

	task, err := taskByID(taskID)
	if err != nil {
		logger.ErrorLogger.Error("Task not found", zap.Error(err))
		return c.Status(404).JSON(fiber.Map{
			"message": "Task not found",
			"success": false,
			"status":  404,
		})
	}
	if !allowed(task) {
		logger.SecurityLogger.Warn("Forbidden task access",
			zap.Int("user_id", userID), zap.Int("task_id", taskID))
		return c.Status(403).JSON(fiber.Map{
			"message": "Forbidden",
			"success": false,
			"status":  403,
		})
	}

	cacheTask(task)

	logger.AuditLogger.Info("Task found", zap.Int("task_id", taskID))
	return c.JSON(fiber.Map{
		"message": "Task found",
		"success": true,
		"status":  200,
		"data":    task,
	})
}

// UpdateTask mengupdate sebagian field task dan mengembalikan task utuh
// hasil update (klien mengganti entri lokalnya dengan respons ini).
func UpdateTask(c *fiber.Ctx) error {
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
		logger.SecurityLogger.Warn("Forbidden task update",
			zap.Int("user_id", userID), zap.Int("task_id", taskID))
		return c.Status(403).JSON(fiber.Map{
			"message": "You don't have permission to update this task",
			"success": false,
			"status":  403,
		})
	}

	// pointer (*) untuk menandakan bahwa field bisa kosong
	type UpdateTaskRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Priority    *string `json:"priority"`
		DueDate     *string `json:"due_date"`
		Completed   *bool   `json:"completed"`
		UserID      *int    `json:"user_id"`
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if req.Priority != nil && !models.ValidPriority(*req.Priority) {
		logger.ErrorLogger.Error("Invalid priority in update task")
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid priority",
			"success": false,
			"status":  400,
		})
	}

	var dueDate *time.Time
	if req.DueDate != nil {
		parsed, err := parseDueDate(*req.DueDate)
		if err != nil {
			logger.ErrorLogger.Error("Invalid due date in update task", zap.Error(err))
			return c.Status(400).JSON(fiber.Map{
				"message": "Invalid due date",
				"success": false,
				"status":  400,
			})
		}
		dueDate = &parsed
	}

	if req.UserID != nil && role != models.RoleAdmin {
		logger.SecurityLogger.Warn("Forbidden task reassignment",
			zap.Int("user_id", userID), zap.Int("task_id", taskID))
		return c.Status(403).JSON(fiber.Map{
			"message": "Forbidden",
			"success": false,
			"status":  403,
		})
	}

	// Field nil di-skip lewat COALESCE sehingga hanya field terkirim
	// yang berubah; updated_at selalu diperbarui.
	_, err = config.DB.Exec(`
		UPDATE tasks
		SET title = COALESCE($1, title),
			description = COALESCE($2, description),
			priority = COALESCE($3, priority),
			due_date = COALESCE($4, due_date),
			completed = COALESCE($5, completed),
			user_id = COALESCE($6, user_id),
			updated_at = NOW()
		WHERE id = $7`,
		req.Title, req.Description, req.Priority, dueDate, req.Completed, req.UserID, taskID,
	)
	if err != nil {
		logger.ErrorLogger.Error("Error updating task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating task",
			"success": false,
			"status":  500,
		})
	}

	updatedTask, err := taskByID(taskID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching updated task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching updated task",
			"success": false,
			"status":  500,
		})
	}

	dropTaskCache(taskID)
	cacheTask(updatedTask)
	broadcastTask("task.updated", updatedTask)

	logger.AuditLogger.Info("Task updated", zap.Int("task_id", taskID))
	return c.Status(200).JSON(fiber.Map{
		"message": "Task updated successfully",
		"success": true,
		"status":  200,
		"data":    updatedTask,
	})
}

// DeleteTask menghapus task (admin atau pemiliknya).
func DeleteTask(c *fiber.Ctx) error {
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
		logger.SecurityLogger.Warn("Forbidden task delete",
			zap.String("role", role), zap.Int("user_id", userID), zap.Int("task_id", taskID))
		return c.Status(403).JSON(fiber.Map{
			"message": "Forbidden",
			"success": false,
			"status":  403,
		})
	}

	_, err = config.DB.Exec("DELETE FROM tasks WHERE id = $1", taskID)
	if err != nil {
		logger.ErrorLogger.Error("Error deleting task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting task",
			"success": false,
			"status":  500,
		})
	}

	dropTaskCache(taskID)
	broadcastTask("task.deleted", fiber.Map{"id": taskID})

	logger.AuditLogger.Info("Task deleted", zap.Int("task_id", taskID))
	return c.Status(200).JSON(fiber.Map{
		"message": "Task deleted successfully",
		"success": true,
		"status":  200,
	})
}
