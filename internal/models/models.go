package models

import (
	"time"
)

// User role dan task priority yang dikenali aplikasi.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type User struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department *string   `json:"department"`
	Phone      *string   `json:"phone"`
	Avatar     *string   `json:"avatar"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Task struct {
	ID          int       `json:"id"`
	UserID      *int      `json:"user_id"` // karyawan yang ditugaskan, boleh kosong
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	DueDate     time.Time `json:"due_date"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TaskReport struct {
	ID          int       `json:"id"`
	TaskID      int       `json:"task_id"`
	Description string    `json:"description"`
	ImagePath   *string   `json:"image_path"`
	SubmittedBy *int      `json:"submitted_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleEmployee
}
