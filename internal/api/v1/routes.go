package v1

import (
	"github.com/gofiber/fiber/v2"

	"tugas-app/internal/api/v1/handlers"
	"tugas-app/internal/middleware"
)

func RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Auth
	api.Post("/auth/login", handlers.Login)
	api.Post("/auth/register", handlers.Register)

	// User
	userRoutes := api.Group("/users", middleware.UseToken)
	userRoutes.Get("/", handlers.GetAllUsers)
	userRoutes.Get("/:id", handlers.GetUser)
	userRoutes.Put("/:id", handlers.UpdateUser)
	userRoutes.Delete("/:id", handlers.DeleteUser)
	userRoutes.Post("/:id/avatar", handlers.UploadAvatar)
	userRoutes.Delete("/:id/avatar", handlers.RemoveAvatar)

	// Profile user yang sedang login
	api.Get("/profile", middleware.UseToken, handlers.Profile)
	api.Put("/profile", middleware.UseToken, handlers.UpdateProfile)
	api.Put("/password/change", middleware.UseToken, handlers.ChangePassword)

	// Task
	taskRoutes := api.Group("/tasks", middleware.UseToken)
	taskRoutes.Post("/", handlers.CreateTask)
	taskRoutes.Get("/", handlers.ListTasks)
	taskRoutes.Get("/:id", handlers.GetTask)
	taskRoutes.Put("/:id", handlers.UpdateTask)
	taskRoutes.Delete("/:id", handlers.DeleteTask)
	taskRoutes.Post("/:id/report", handlers.UploadTaskReport)

	// Laporan per task
	api.Get("/task-reports/task/:id", middleware.UseToken, handlers.ListTaskReports)
}
