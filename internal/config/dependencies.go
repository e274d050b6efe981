package config

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"

	"tugas-app/internal/websocket"
)

var (
	// Global dependency yang akan digunakan di seluruh aplikasi
	DB          *sql.DB
	SecretKey   = []byte("secret")
	Validate    = validator.New()
	Ctx         = context.Background()
	RedisClient *redis.Client
	// Hub boleh nil (mis. saat test); handler wajib cek sebelum broadcast.
	Hub *websocket.Hub
	// BaseURL dipakai untuk membangun URL absolut file upload.
	BaseURL = "http://localhost:3004"
	// UploadDir direktori penyimpanan avatar dan lampiran laporan.
	UploadDir = "uploads"
)
