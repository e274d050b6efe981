package handlers

import (
	"encoding/json"
	"fmt"
	"time"

	"tugas-app/internal/config"
	"tugas-app/internal/models"
)

const userColumns = "id, name, email, role, department, phone, avatar, created_at, updated_at"

// rowScanner cocok untuk *sql.Row maupun *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Department, &u.Phone, &u.Avatar, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func userByID(id int) (models.User, error) {
	row := config.DB.QueryRow("SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

const taskColumns = "id, user_id, title, description, priority, due_date, completed, created_at, updated_at"

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Priority, &t.DueDate, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func taskByID(id int) (models.Task, error) {
	row := config.DB.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = $1", id)
	return scanTask(row)
}

// cacheTask menyimpan task ke Redis selama 1 jam. Gagal cache tidak
// menggagalkan request, cache hanya akselerasi.
func cacheTask(t models.Task) {
	data, err := json.Marshal(t)
	if err != nil {
		return
	}
	config.RedisClient.SetEX(config.Ctx, fmt.Sprintf("task:%d", t.ID), data, time.Hour)
}

func dropTaskCache(id int) {
	config.RedisClient.Del(config.Ctx, fmt.Sprintf("task:%d", id))
}

func cacheUser(u models.User) {
	data, err := json.Marshal(u)
	if err != nil {
		return
	}
	config.RedisClient.SetEX(config.Ctx, fmt.Sprintf("user:%d", u.ID), data, time.Hour)
}

func dropUserCache(id int) {
	config.RedisClient.Del(config.Ctx, fmt.Sprintf("user:%d", id))
}

// broadcastTask mengirim event task ke hub websocket jika hub aktif.
func broadcastTask(event string, payload interface{}) {
	if config.Hub != nil {
		config.Hub.BroadcastEvent(event, payload)
	}
}

// parseDueDate menerima RFC3339 maupun tanggal polos (YYYY-MM-DD).
func parseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
