package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tugas-app/internal/client/model"
)

// Server lama dan baru mengirim list dengan tiga bentuk amplop berbeda:
// paginated Laravel-style {data:{data:[...]}}, wrapped {data:[...]},
// atau array telanjang. Decoder di sini mencoba ketiganya berurutan.

// ErrUnrecognizedEnvelope dikembalikan saat body tidak cocok dengan
// satu pun bentuk amplop yang dikenal.
var ErrUnrecognizedEnvelope = errors.New("unrecognized response envelope")

// Shape menandai bentuk amplop yang berhasil dikenali, untuk logging.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapePaginated
	ShapeWrapped
	ShapeRaw
)

func (s Shape) String() string {
	switch s {
	case ShapePaginated:
		return "paginated"
	case ShapeWrapped:
		return "wrapped"
	case ShapeRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// DecodeList membongkar body list apa pun bentuk amplopnya. Urutan
// pengecekan: paginated dulu, lalu wrapped, lalu array telanjang.
// Saat tidak ada yang cocok, hasilnya slice kosong + ErrUnrecognizedEnvelope
// supaya pemanggil tidak pernah memegang data setengah jadi.
func DecodeList(body []byte) ([]json.RawMessage, Shape, error) {
	var paginated struct {
		Data *struct {
			Data []json.RawMessage `json:"data"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &paginated); err == nil &&
		paginated.Data != nil && paginated.Data.Data != nil {
		return paginated.Data.Data, ShapePaginated, nil
	}

	var wrapped struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Data != nil {
		return wrapped.Data, ShapeWrapped, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err == nil {
		return raw, ShapeRaw, nil
	}

	return []json.RawMessage{}, ShapeUnknown, ErrUnrecognizedEnvelope
}

// unwrapObject membongkar respons satu objek: {data:{...}} atau objek
// telanjang langsung.
func unwrapObject(body []byte) json.RawMessage {
	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && len(wrapped.Data) > 0 &&
		wrapped.Data[0] == '{' {
		return wrapped.Data
	}
	return body
}

// unwrapUser membongkar respons user satu objek. Server membungkus
// user dua lapis ({data:{user:{...}}}); terima juga {user:{...}} dan
// objek user telanjang.
func unwrapUser(body []byte) json.RawMessage {
	inner := unwrapObject(body)
	var wrapped struct {
		User json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(inner, &wrapped); err == nil && len(wrapped.User) > 0 &&
		wrapped.User[0] == '{' {
		return wrapped.User
	}
	return inner
}

// flexID menerima id berupa angka maupun string.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// flexBool menerima boolean, angka 0/1, maupun string "0"/"1"/"true".
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	switch strings.Trim(string(b), `"`) {
	case "true", "1":
		*f = true
	case "false", "0", "", "null":
		*f = false
	default:
		return fmt.Errorf("invalid boolean value: %s", b)
	}
	return nil
}

// flexTime menerima RFC3339, format datetime MySQL, atau tanggal saja.
type flexTime struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000000Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (f *flexTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		f.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			f.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized time value: %s", s)
}

// wireTask adalah bentuk task di wire, toleran terhadap variasi nama
// field dan tipe dari backend lama.
type wireTask struct {
	ID          flexID      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Priority    string      `json:"priority"`
	DueDate     flexTime    `json:"due_date"`
	Completed   flexBool    `json:"completed"`
	EmployeeID  flexID      `json:"employee_id"`
	AssignedTo  flexID      `json:"assigned_to"`
	UserID      flexID      `json:"user_id"`
	CreatedAt   flexTime    `json:"created_at"`
	UpdatedAt   flexTime    `json:"updated_at"`
	Report      *wireReport `json:"report"`
}

type wireReport struct {
	ID          flexID   `json:"id"`
	TaskID      flexID   `json:"task_id"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	ImagePath   string   `json:"image_path"`
	SubmittedBy flexID   `json:"submitted_by"`
	CreatedAt   flexTime `json:"created_at"`
}

type wireUser struct {
	ID         flexID   `json:"id"`
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	Department string   `json:"department"`
	Avatar     string   `json:"avatar"`
	Phone      string   `json:"phone"`
	CreatedAt  flexTime `json:"created_at"`
	UpdatedAt  flexTime `json:"updated_at"`
}

// NormalizeTask mengubah satu item wire menjadi entitas kanonik.
// Field kosong diisi default: priority medium, tanggal sekarang,
// assignee diambil dari employee_id lalu assigned_to lalu user_id.
// Normalisasi bersifat idempoten: entitas kanonik yang di-marshal
// ulang akan melewati jalur yang sama tanpa berubah.
func NormalizeTask(raw json.RawMessage) (model.Task, error) {
	var w wireTask
	if err := json.Unmarshal(raw, &w); err != nil {
		return model.Task{}, err
	}

	t := model.Task{
		ID:          string(w.ID),
		Title:       w.Title,
		Description: w.Description,
		Priority:    w.Priority,
		DueDate:     w.DueDate.Time,
		Completed:   bool(w.Completed),
		CreatedAt:   w.CreatedAt.Time,
		UpdatedAt:   w.UpdatedAt.Time,
	}

	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	now := time.Now()
	if t.DueDate.IsZero() {
		t.DueDate = now
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	switch {
	case w.EmployeeID != "":
		t.EmployeeID = string(w.EmployeeID)
	case w.AssignedTo != "":
		t.EmployeeID = string(w.AssignedTo)
	case w.UserID != "":
		t.EmployeeID = string(w.UserID)
	}

	if w.Report != nil {
		r := normalizeReport(*w.Report)
		t.Report = &r
	}

	return t, nil
}

func normalizeReport(w wireReport) model.TaskReport {
	return model.TaskReport{
		ID:          string(w.ID),
		TaskID:      string(w.TaskID),
		Description: w.Description,
		ImageURL:    w.ImageURL,
		ImagePath:   w.ImagePath,
		SubmittedBy: string(w.SubmittedBy),
		CreatedAt:   w.CreatedAt.Time,
	}
}

// NormalizeReport membongkar satu laporan wire menjadi bentuk kanonik.
func NormalizeReport(raw json.RawMessage) (model.TaskReport, error) {
	var w wireReport
	if err := json.Unmarshal(raw, &w); err != nil {
		return model.TaskReport{}, err
	}
	return normalizeReport(w), nil
}

// NormalizeUser mengubah satu user wire menjadi entitas kanonik.
func NormalizeUser(raw json.RawMessage) (model.User, error) {
	var w wireUser
	if err := json.Unmarshal(raw, &w); err != nil {
		return model.User{}, err
	}
	u := model.User{
		ID:         string(w.ID),
		Email:      w.Email,
		Name:       w.Name,
		Role:       w.Role,
		Department: w.Department,
		Avatar:     w.Avatar,
		Phone:      w.Phone,
		CreatedAt:  w.CreatedAt.Time,
		UpdatedAt:  w.UpdatedAt.Time,
	}
	if u.Role == "" {
		u.Role = model.RoleEmployee
	}
	return u, nil
}

// parseIDNumber dipakai saat payload keluar butuh id numerik (server
// menyimpan id sebagai integer).
func parseIDNumber(id string) (int, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", id, err)
	}
	return n, nil
}
