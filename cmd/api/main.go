package main

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"tugas-app/configs"
	v1 "tugas-app/internal/api/v1"
	"tugas-app/internal/config"
	"tugas-app/internal/middleware"
	"tugas-app/internal/repository"
	myws "tugas-app/internal/websocket"
	"tugas-app/pkg/database"
	"tugas-app/pkg/logger"
)

func main() {
	// Inisialisasi logger
	logger.InitLoggers()
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))

	// Load config
	cfg := configs.LoadConfig()
	config.BaseURL = cfg.BaseURL
	config.UploadDir = cfg.UploadDir

	// Inisialisasi database
	config.DB = database.ConnectDB(cfg)
	defer config.DB.Close()

	logger.SystemLogger.Info("Database Connected")

	// Buat tabel jika belum ada
	repository.CreateTableIfNotExists(config.DB)
	// Jika ingin membuat admin user pertama:
	// repository.CreateAdminUser(config.DB)

	// Inisialisasi Redis
	config.RedisClient = database.ConnectRedis(cfg)
	defer config.RedisClient.Close()

	// Hub websocket untuk push event task ke dashboard
	hub := myws.NewHub()
	go hub.Run()
	config.Hub = hub

	app := fiber.New(fiber.Config{
		BodyLimit: 8 * 1024 * 1024, // avatar base64 + lampiran laporan
	})

	// Middleware
	app.Use(middleware.ErrorHandler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
	}))

	// File upload (avatar & lampiran laporan) disajikan statis
	app.Static("/"+cfg.UploadDir, cfg.UploadDir)

	// Daftarkan route API v1
	v1.RegisterRoutes(app)

	// WebSocket route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		client := &myws.Client{Conn: c}
		hub.Register <- client
		defer func() {
			hub.Unregister <- client
		}()
		for {
			// Klien dashboard hanya mendengarkan; baca sampai koneksi putus
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	addr := fmt.Sprintf(":%d", cfg.AppPort)
	logger.SystemLogger.Info("Application ready", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		logger.ErrorLogger.Error("Application failed to start", zap.Error(err))
	}
}
