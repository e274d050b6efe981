// Package api adalah klien HTTP untuk server tugas-app: membungkus
// request, membongkar amplop respons, dan menormalkan entitas.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tugas-app/internal/client/model"
)

// APIError membawa status HTTP dan pesan dari amplop error server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// TokenFunc mengembalikan bearer token saat ini; string kosong berarti
// request dikirim tanpa Authorization.
type TokenFunc func() string

type Client struct {
	baseURL string
	http    *http.Client
	token   TokenFunc
}

// NewClient membuat klien untuk base URL seperti
// "http://localhost:3004/api/v1". Token boleh nil untuk klien anonim.
func NewClient(baseURL string, token TokenFunc) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		token:   token,
	}
}

// do mengirim request JSON dan mengembalikan body mentah. Status >= 400
// diubah menjadi *APIError dengan pesan dari field "message".
func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, errorFromBody(resp.StatusCode, raw)
	}
	return raw, nil
}

func errorFromBody(status int, body []byte) error {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return &APIError{Status: status, Message: envelope.Message}
	}
	return &APIError{Status: status, Message: http.StatusText(status)}
}

// Login mengembalikan body mentah: bentuk respons auth (flat vs nested)
// dibongkar oleh session, bukan di sini.
func (c *Client) Login(ctx context.Context, email, password string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// RegisterData adalah input pendaftaran user baru.
type RegisterData struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role,omitempty"`
	Department string `json:"department,omitempty"`
}

func (c *Client) Register(ctx context.Context, data RegisterData) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/auth/register", data)
}

// ListTasks mengambil task sesuai filter. Amplop yang tidak dikenali
// menghasilkan list kosong tanpa error supaya tampilan tetap konsisten.
func (c *Client) ListTasks(ctx context.Context, q model.TaskQuery) ([]model.Task, error) {
	params := url.Values{}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.Priority != "" {
		params.Set("priority", q.Priority)
	}
	if q.UserID != "" {
		params.Set("user_id", q.UserID)
	}
	path := "/tasks"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	items, _, err := DecodeList(body)
	if err != nil {
		// Bentuk tak dikenal diperlakukan sebagai kosong, bukan gagal
		return []model.Task{}, nil
	}

	tasks := make([]model.Task, 0, len(items))
	for _, item := range items {
		t, err := NormalizeTask(item)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, draft model.TaskDraft) (model.Task, error) {
	payload := map[string]interface{}{
		"title":       draft.Title,
		"description": draft.Description,
	}
	if draft.Priority != "" {
		payload["priority"] = draft.Priority
	}
	if !draft.DueDate.IsZero() {
		payload["due_date"] = draft.DueDate.Format(time.RFC3339)
	}
	if draft.EmployeeID != "" {
		id, err := parseIDNumber(draft.EmployeeID)
		if err != nil {
			return model.Task{}, err
		}
		payload["user_id"] = id
	}

	body, err := c.do(ctx, http.MethodPost, "/tasks", payload)
	if err != nil {
		return model.Task{}, err
	}
	return NormalizeTask(unwrapObject(body))
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	payload := map[string]interface{}{}
	if patch.Title != nil {
		payload["title"] = *patch.Title
	}
	if patch.Description != nil {
		payload["description"] = *patch.Description
	}
	if patch.Priority != nil {
		payload["priority"] = *patch.Priority
	}
	if patch.DueDate != nil {
		payload["due_date"] = patch.DueDate.Format(time.RFC3339)
	}
	if patch.Completed != nil {
		payload["completed"] = *patch.Completed
	}
	if patch.EmployeeID != nil {
		uid, err := parseIDNumber(*patch.EmployeeID)
		if err != nil {
			return model.Task{}, err
		}
		payload["user_id"] = uid
	}

	body, err := c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id), payload)
	if err != nil {
		return model.Task{}, err
	}
	return NormalizeTask(unwrapObject(body))
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil)
	return err
}

// ListUsers mengambil semua user (amplop paginated dari server).
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	body, err := c.do(ctx, http.MethodGet, "/users", nil)
	if err != nil {
		return nil, err
	}

	items, _, err := DecodeList(body)
	if err != nil {
		return []model.User{}, nil
	}

	users := make([]model.User, 0, len(items))
	for _, item := range items {
		u, err := NormalizeUser(item)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, fields map[string]interface{}) (model.User, error) {
	body, err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id), fields)
	if err != nil {
		return model.User{}, err
	}
	return NormalizeUser(unwrapUser(body))
}

// Profile mengambil user yang sedang login.
func (c *Client) Profile(ctx context.Context) (model.User, error) {
	body, err := c.do(ctx, http.MethodGet, "/profile", nil)
	if err != nil {
		return model.User{}, err
	}
	return NormalizeUser(unwrapUser(body))
}

// AvatarResult adalah hasil unggah avatar: URL absolut + path relatif.
type AvatarResult struct {
	Avatar     string `json:"avatar"`
	AvatarPath string `json:"avatar_path"`
}

// UploadAvatar mengirim avatar sebagai data URI base64.
func (c *Client) UploadAvatar(ctx context.Context, userID, dataURI string) (AvatarResult, error) {
	body, err := c.do(ctx, http.MethodPost, "/users/"+url.PathEscape(userID)+"/avatar",
		map[string]string{"avatar": dataURI})
	if err != nil {
		return AvatarResult{}, err
	}
	var result AvatarResult
	if err := json.Unmarshal(unwrapObject(body), &result); err != nil {
		return AvatarResult{}, err
	}
	return result, nil
}

func (c *Client) RemoveAvatar(ctx context.Context, userID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(userID)+"/avatar", nil)
	return err
}

func (c *Client) ChangePassword(ctx context.Context, current, newPassword string) error {
	_, err := c.do(ctx, http.MethodPut, "/password/change", map[string]string{
		"current_password":      current,
		"password":              newPassword,
		"password_confirmation": newPassword,
	})
	return err
}

// UploadTaskReport mengirim laporan sebagai multipart: description
// wajib, imagePath opsional (kosong berarti tanpa lampiran).
func (c *Client) UploadTaskReport(ctx context.Context, taskID, description, imagePath string) (model.TaskReport, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("description", description); err != nil {
		return model.TaskReport{}, err
	}
	if imagePath != "" {
		file, err := os.Open(imagePath)
		if err != nil {
			return model.TaskReport{}, err
		}
		part, err := writer.CreateFormFile("image", filepath.Base(imagePath))
		if err != nil {
			file.Close()
			return model.TaskReport{}, err
		}
		if _, err := io.Copy(part, file); err != nil {
			file.Close()
			return model.TaskReport{}, err
		}
		file.Close()
	}
	if err := writer.Close(); err != nil {
		return model.TaskReport{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/tasks/"+url.PathEscape(taskID)+"/report", &buf)
	if err != nil {
		return model.TaskReport{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return model.TaskReport{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.TaskReport{}, err
	}
	if resp.StatusCode >= 400 {
		return model.TaskReport{}, errorFromBody(resp.StatusCode, raw)
	}
	return NormalizeReport(unwrapObject(raw))
}

func (c *Client) ListTaskReports(ctx context.Context, taskID string) ([]model.TaskReport, error) {
	body, err := c.do(ctx, http.MethodGet, "/task-reports/task/"+url.PathEscape(taskID), nil)
	if err != nil {
		return nil, err
	}

	items, _, err := DecodeList(body)
	if err != nil {
		return []model.TaskReport{}, nil
	}

	reports := make([]model.TaskReport, 0, len(items))
	for _, item := range items {
		r, err := NormalizeReport(item)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}
