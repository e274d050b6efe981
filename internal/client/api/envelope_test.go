package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tugas-app/internal/client/model"
)

const taskItem = `{"id": 7, "title": "Audit gudang", "description": "Cek stok", "priority": "high", "due_date": "2026-03-10", "completed": 0, "employee_id": "3"}`

// Ketiga bentuk amplop harus menghasilkan list item yang sama.
func TestDecodeListShapes(t *testing.T) {
	bodies := map[string]string{
		"paginated": `{"data": {"current_page": 1, "data": [` + taskItem + `], "total": 1}}`,
		"wrapped":   `{"message": "ok", "success": true, "data": [` + taskItem + `]}`,
		"raw":       `[` + taskItem + `]`,
	}
	wantShape := map[string]Shape{
		"paginated": ShapePaginated,
		"wrapped":   ShapeWrapped,
		"raw":       ShapeRaw,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			items, shape, err := DecodeList([]byte(body))
			require.NoError(t, err)
			require.Equal(t, wantShape[name], shape)
			require.Len(t, items, 1)

			task, err := NormalizeTask(items[0])
			require.NoError(t, err)
			require.Equal(t, "7", task.ID)
			require.Equal(t, "Audit gudang", task.Title)
			require.Equal(t, "3", task.EmployeeID)
			require.False(t, task.Completed)
		})
	}
}

func TestDecodeListUnrecognized(t *testing.T) {
	items, shape, err := DecodeList([]byte(`{"message": "ok", "success": true}`))
	require.ErrorIs(t, err, ErrUnrecognizedEnvelope)
	require.Equal(t, ShapeUnknown, shape)
	require.NotNil(t, items)
	require.Empty(t, items)
}

func TestDecodeListEmpty(t *testing.T) {
	items, shape, err := DecodeList([]byte(`{"data": []}`))
	require.NoError(t, err)
	require.Equal(t, ShapeWrapped, shape)
	require.Empty(t, items)
}

func TestNormalizeTaskDefaults(t *testing.T) {
	before := time.Now()
	task, err := NormalizeTask(json.RawMessage(`{"id": "12", "title": "Tanpa detail"}`))
	require.NoError(t, err)

	require.Equal(t, model.PriorityMedium, task.Priority)
	require.False(t, task.Completed)
	require.False(t, task.DueDate.Before(before))
	require.False(t, task.CreatedAt.Before(before))
	require.Empty(t, task.EmployeeID)
}

// assigned_to dan user_id adalah nama lama; employee_id menang.
func TestNormalizeTaskAssigneePrecedence(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"employee_id first", `{"id":1,"title":"a","employee_id":5,"assigned_to":6,"user_id":7}`, "5"},
		{"assigned_to fallback", `{"id":1,"title":"a","assigned_to":6,"user_id":7}`, "6"},
		{"user_id fallback", `{"id":1,"title":"a","user_id":7}`, "7"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task, err := NormalizeTask(json.RawMessage(tc.body))
			require.NoError(t, err)
			require.Equal(t, tc.want, task.EmployeeID)
		})
	}
}

func TestNormalizeTaskFlexibleTypes(t *testing.T) {
	body := `{"id": "42", "title": "x", "completed": "1", "due_date": "2026-05-01 08:30:00"}`
	task, err := NormalizeTask(json.RawMessage(body))
	require.NoError(t, err)
	require.Equal(t, "42", task.ID)
	require.True(t, task.Completed)
	require.Equal(t, 2026, task.DueDate.Year())
	require.Equal(t, time.May, task.DueDate.Month())
}

// Entitas kanonik yang di-serialize ulang harus lolos normalisasi
// tanpa berubah.
func TestNormalizeTaskIdempotent(t *testing.T) {
	first, err := NormalizeTask(json.RawMessage(taskItem))
	require.NoError(t, err)

	encoded, err := json.Marshal(first)
	require.NoError(t, err)

	second, err := NormalizeTask(encoded)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.Priority, second.Priority)
	require.Equal(t, first.EmployeeID, second.EmployeeID)
	require.True(t, first.DueDate.Equal(second.DueDate))
}

func TestNormalizeUser(t *testing.T) {
	user, err := NormalizeUser(json.RawMessage(`{"id": 9, "name": "Budi", "email": "budi@mail.com"}`))
	require.NoError(t, err)
	require.Equal(t, "9", user.ID)
	require.Equal(t, model.RoleEmployee, user.Role)
}

func TestUnwrapObject(t *testing.T) {
	wrapped := []byte(`{"message": "ok", "data": {"id": 1, "title": "x"}}`)
	raw := []byte(`{"id": 1, "title": "x"}`)

	require.JSONEq(t, string(raw), string(unwrapObject(wrapped)))
	require.JSONEq(t, string(raw), string(unwrapObject(raw)))
}
