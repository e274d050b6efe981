package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"tugas-app/internal/client/model"
)

// fakeGateway memenuhi Gateway tanpa server, dengan state di memori.
type fakeGateway struct {
	tasks   []model.Task
	nextID  int
	listErr error
}

func newFakeGateway(tasks ...model.Task) *fakeGateway {
	return &fakeGateway{tasks: tasks, nextID: 100}
}

func (g *fakeGateway) ListTasks(ctx context.Context, q model.TaskQuery) ([]model.Task, error) {
	if g.listErr != nil {
		return nil, g.listErr
	}
	out := make([]model.Task, len(g.tasks))
	copy(out, g.tasks)
	return out, nil
}

func (g *fakeGateway) CreateTask(ctx context.Context, draft model.TaskDraft) (model.Task, error) {
	g.nextID++
	priority := draft.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	task := model.Task{
		ID:          fmt.Sprint(g.nextID),
		Title:       draft.Title,
		Description: draft.Description,
		Priority:    priority,
		DueDate:     draft.DueDate,
	}
	g.tasks = append(g.tasks, task)
	return task, nil
}

func (g *fakeGateway) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	for i, t := range g.tasks {
		if t.ID == id {
			if patch.Title != nil {
				t.Title = *patch.Title
			}
			if patch.Completed != nil {
				t.Completed = *patch.Completed
			}
			g.tasks[i] = t
			return t, nil
		}
	}
	return model.Task{}, errors.New("task not found")
}

func (g *fakeGateway) DeleteTask(ctx context.Context, id string) error {
	for i, t := range g.tasks {
		if t.ID == id {
			g.tasks = append(g.tasks[:i], g.tasks[i+1:]...)
			return nil
		}
	}
	return errors.New("task not found")
}

func TestSubscribeReplaysCurrentSnapshot(t *testing.T) {
	s := NewTaskStore(newFakeGateway())
	require.NoError(t, s.Refresh(context.Background(), model.TaskQuery{}))

	var got [][]model.Task
	cancel := s.Subscribe(func(tasks []model.Task) {
		got = append(got, tasks)
	})
	defer cancel()

	// Replay langsung saat subscribe, walau belum ada perubahan
	require.Len(t, got, 1)
	require.Empty(t, got[0])
}

func TestRefreshBroadcastsFullReplacement(t *testing.T) {
	gw := newFakeGateway(
		model.Task{ID: "1", Title: "satu"},
		model.Task{ID: "2", Title: "dua"},
	)
	s := NewTaskStore(gw)

	var emissions [][]model.Task
	cancel := s.Subscribe(func(tasks []model.Task) {
		emissions = append(emissions, tasks)
	})
	defer cancel()

	require.NoError(t, s.Refresh(context.Background(), model.TaskQuery{}))
	require.Len(t, emissions, 2)
	require.Len(t, emissions[1], 2)
}

func TestRefreshFailureEmptiesStore(t *testing.T) {
	gw := newFakeGateway(model.Task{ID: "1", Title: "satu"})
	s := NewTaskStore(gw)
	require.NoError(t, s.Refresh(context.Background(), model.TaskQuery{}))
	require.Len(t, s.Snapshot(), 1)

	boom := errors.New("server down")
	gw.listErr = boom

	var gotErr error
	cancelErr := s.OnError(func(err error) { gotErr = err })
	defer cancelErr()

	err := s.Refresh(context.Background(), model.TaskQuery{})
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, gotErr, boom)
	// Fail-safe: data lama tidak boleh tersisa
	require.Empty(t, s.Snapshot())
}

func TestCreateAppendsServerEntity(t *testing.T) {
	s := NewTaskStore(newFakeGateway())
	require.NoError(t, s.Refresh(context.Background(), model.TaskQuery{}))

	created, err := s.Create(context.Background(), model.TaskDraft{Title: "baru"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, model.PriorityMedium, created.Priority)

	snapshot := s.Snapshot()
	require.Len(t, snapshot, 1)
	require.Equal(t, created.ID, snapshot[0].ID)
}

func TestUpdateReplacesOnlyExisting(t *testing.T) {
	gw := newFakeGateway(model.Task{ID: "1", Title: "lama"})
	s := NewTaskStore(gw)
	require.NoError(t, s.Refresh(context.Background(), model.TaskQuery{}))

	title := "baru"
	updated, err := s.Update(context.Background(), "1", model.TaskPatch{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "baru", updated.Title)

	got, ok := s.ByID("1")
	require.True(t, ok)
	require.Equal(t, "baru", got.Title)
	require.Len(t, s.Snapshot(), 1)
}

func TestDeleteRemovesFromSnapshot(t *testing.T) {
	gw := newFakeGateway(model.Task{ID: "1"}, model.Task{ID: "2"})
	s := NewTaskStore(gw)
	require.NoError(t, s.Refresh(context.Background(), model.TaskQuery{}))

	require.NoError(t, s.Delete(context.Background(), "1"))

	snapshot := s.Snapshot()
	require.Len(t, snapshot, 1)
	require.Equal(t, "2", snapshot[0].ID)
}

func TestToggleCompletionFlips(t *testing.T) {
	gw := newFakeGateway(model.Task{ID: "1", Completed: false})
	s := NewTaskStore(gw)
	require.NoError(t, s.Refresh(context.Background(), model.TaskQuery{}))

	require.NoError(t, s.ToggleCompletion(context.Background(), "1"))
	got, _ := s.ByID("1")
	require.True(t, got.Completed)

	require.NoError(t, s.ToggleCompletion(context.Background(), "1"))
	got, _ = s.ByID("1")
	require.False(t, got.Completed)
}

func TestToggleCompletionUnknownIDIsNoOp(t *testing.T) {
	s := NewTaskStore(newFakeGateway())
	require.NoError(t, s.ToggleCompletion(context.Background(), "999"))
	require.Empty(t, s.Snapshot())
}

// Skenario ujung ke ujung: buat, selesaikan, hapus, sambil memantau
// siaran snapshot.
func TestStoreLifecycle(t *testing.T) {
	s := NewTaskStore(newFakeGateway())

	var last []model.Task
	cancel := s.Subscribe(func(tasks []model.Task) { last = tasks })
	defer cancel()

	created, err := s.Create(context.Background(), model.TaskDraft{Title: "siklus"})
	require.NoError(t, err)
	require.Len(t, last, 1)

	require.NoError(t, s.ToggleCompletion(context.Background(), created.ID))
	require.True(t, last[0].Completed)

	require.NoError(t, s.Delete(context.Background(), created.ID))
	require.Empty(t, last)
}

func TestSnapshotIsACopy(t *testing.T) {
	gw := newFakeGateway(model.Task{ID: "1", Title: "asli"})
	s := NewTaskStore(gw)
	require.NoError(t, s.Refresh(context.Background(), model.TaskQuery{}))

	snap := s.Snapshot()
	snap[0].Title = "dimutasi"

	again, _ := s.ByID("1")
	require.Equal(t, "asli", again.Title)
}
