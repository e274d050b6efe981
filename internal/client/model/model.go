// Package model berisi entitas kanonik sisi klien: hasil normalisasi
// respons server (field snake_case + default untuk field kosong),
// independen dari bentuk amplop di wire.
package model

import "time"

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task adalah entitas kanonik. ID selalu string di sisi klien walaupun
// server mengirim angka; due date dipakai dengan semantik tanggal
// (jam diabaikan saat pengelompokan kalender).
type Task struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Priority    string      `json:"priority"`
	DueDate     time.Time   `json:"due_date"`
	Completed   bool        `json:"completed"`
	EmployeeID  string      `json:"employee_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Report      *TaskReport `json:"report,omitempty"`
}

type TaskReport struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	ImagePath   string    `json:"image_path,omitempty"`
	SubmittedBy string    `json:"submitted_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Department string    `json:"department,omitempty"`
	Avatar     string    `json:"avatar,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TaskDraft adalah input pembuatan task; field kosong diisi default
// oleh server (priority medium, due date sekarang).
type TaskDraft struct {
	Title       string
	Description string
	Priority    string
	DueDate     time.Time
	EmployeeID  string
}

// TaskPatch adalah update parsial; field nil tidak dikirim.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *string
	DueDate     *time.Time
	Completed   *bool
	EmployeeID  *string
}

// TaskQuery adalah filter opsional untuk listing task di server.
type TaskQuery struct {
	Status   string // "", "completed", "pending"
	Priority string // "", "low", "medium", "high"
	UserID   string
}
