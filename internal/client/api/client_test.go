package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"tugas-app/internal/client/model"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, func() string { return "token-uji" })
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data": []}`))
	})

	_, err := client.ListTasks(context.Background(), model.TaskQuery{})
	require.NoError(t, err)
	require.Equal(t, "Bearer token-uji", gotAuth)
}

func TestClientErrorEnvelope(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
		w.Write([]byte(`{"message": "Invalid credentials", "success": false, "status": 401}`))
	})

	_, err := client.Login(context.Background(), "x@mail.com", "salah")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 401, apiErr.Status)
	require.Equal(t, "Invalid credentials", apiErr.Message)
}

func TestListTasksQueryParams(t *testing.T) {
	var gotQuery string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"data": []}`))
	})

	_, err := client.ListTasks(context.Background(), model.TaskQuery{
		Status:   "pending",
		Priority: "high",
	})
	require.NoError(t, err)
	require.Contains(t, gotQuery, "status=pending")
	require.Contains(t, gotQuery, "priority=high")
}

// Amplop tak dikenal menghasilkan list kosong, bukan error.
func TestListTasksUnrecognizedEnvelope(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message": "ok", "success": true}`))
	})

	tasks, err := client.ListTasks(context.Background(), model.TaskQuery{})
	require.NoError(t, err)
	require.NotNil(t, tasks)
	require.Empty(t, tasks)
}

func TestCreateTaskUnwrapsAndNormalizes(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, "Tugas baru", payload["title"])

		w.WriteHeader(201)
		w.Write([]byte(`{"message": "ok", "data": {"id": 10, "title": "Tugas baru", "completed": 0}}`))
	})

	task, err := client.CreateTask(context.Background(), model.TaskDraft{Title: "Tugas baru"})
	require.NoError(t, err)
	require.Equal(t, "10", task.ID)
	require.Equal(t, model.PriorityMedium, task.Priority)
	require.False(t, task.Completed)
}

func TestUpdateTaskSendsOnlyPatchedFields(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, true, payload["completed"])
		require.NotContains(t, payload, "title")

		w.Write([]byte(`{"data": {"id": 5, "title": "tetap", "completed": true}}`))
	})

	done := true
	task, err := client.UpdateTask(context.Background(), "5", model.TaskPatch{Completed: &done})
	require.NoError(t, err)
	require.True(t, task.Completed)
}

// Server membungkus user dua lapis ({data:{user:{...}}}); field user
// harus tetap terbaca utuh.
func TestProfileUnwrapsUserEnvelope(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message": "ok", "success": true, "status": 200, "data": {"user": {"id": 7, "name": "Budi", "email": "budi@mail.com", "role": "admin"}}}`))
	})

	user, err := client.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "7", user.ID)
	require.Equal(t, "Budi", user.Name)
	require.Equal(t, model.RoleAdmin, user.Role)
}

func TestUpdateUserUnwrapsUserEnvelope(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message": "ok", "data": {"user": {"id": 3, "name": "Nama Baru", "email": "sari@mail.com", "phone": "08123"}}}`))
	})

	user, err := client.UpdateUser(context.Background(), "3", map[string]interface{}{
		"name": "Nama Baru",
	})
	require.NoError(t, err)
	require.Equal(t, "3", user.ID)
	require.Equal(t, "Nama Baru", user.Name)
	require.Equal(t, "08123", user.Phone)
}

func TestUploadAvatarResult(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"avatar": "http://localhost:3004/uploads/avatars/1_99.png", "avatar_path": "avatars/1_99.png"}}`))
	})

	result, err := client.UploadAvatar(context.Background(), "1", "data:image/png;base64,AAAA")
	require.NoError(t, err)
	require.Equal(t, "avatars/1_99.png", result.AvatarPath)
	require.Contains(t, result.Avatar, "http://")
}
