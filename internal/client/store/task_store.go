// Package store menyimpan snapshot task di memori dan menyiarkan
// perubahan ke semua subscriber. Setiap operasi tulis mengganti
// snapshot penuh, tidak pernah mem-patch sebagian.
package store

import (
	"context"
	"sync"

	"tugas-app/internal/client/model"
)

// Gateway adalah operasi remote yang dibutuhkan store. *api.Client
// memenuhinya; test memakai fake.
type Gateway interface {
	ListTasks(ctx context.Context, q model.TaskQuery) ([]model.Task, error)
	CreateTask(ctx context.Context, draft model.TaskDraft) (model.Task, error)
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Listener menerima snapshot penuh setiap kali isi store berubah.
type Listener func(tasks []model.Task)

// ErrorListener menerima error operasi remote yang membuat store
// dikosongkan.
type ErrorListener func(err error)

type TaskStore struct {
	gateway Gateway

	mu        sync.Mutex
	tasks     []model.Task
	nextID    int
	listeners map[int]Listener
	errSubs   map[int]ErrorListener
}

func NewTaskStore(gateway Gateway) *TaskStore {
	return &TaskStore{
		gateway:   gateway,
		tasks:     []model.Task{},
		listeners: map[int]Listener{},
		errSubs:   map[int]ErrorListener{},
	}
}

// Subscribe mendaftarkan listener dan langsung mengirim snapshot saat
// ini (replay), lalu mengembalikan fungsi untuk berhenti berlangganan.
func (s *TaskStore) Subscribe(fn Listener) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	current := snapshotCopy(s.tasks)
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// OnError mendaftarkan listener untuk kegagalan refresh.
func (s *TaskStore) OnError(fn ErrorListener) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.errSubs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.errSubs, id)
		s.mu.Unlock()
	}
}

// Snapshot mengembalikan salinan isi store saat ini.
func (s *TaskStore) Snapshot() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshotCopy(s.tasks)
}

// ByID mencari task berdasarkan id pada snapshot saat ini.
func (s *TaskStore) ByID(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Refresh menarik ulang seluruh task dari server. Saat gagal, store
// dikosongkan (fail-safe) dan error disiarkan ke OnError; tampilan
// tidak pernah memegang data basi.
func (s *TaskStore) Refresh(ctx context.Context, q model.TaskQuery) error {
	tasks, err := s.gateway.ListTasks(ctx, q)
	if err != nil {
		s.replace([]model.Task{})
		s.notifyError(err)
		return err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	s.replace(tasks)
	return nil
}

// Create mengirim draft ke server lalu menambahkan entitas yang
// dikembalikan server (dengan id dan default) ke snapshot.
func (s *TaskStore) Create(ctx context.Context, draft model.TaskDraft) (model.Task, error) {
	created, err := s.gateway.CreateTask(ctx, draft)
	if err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	next := snapshotCopy(s.tasks)
	next = append(next, created)
	s.tasks = next
	s.mu.Unlock()

	s.emit()
	return created, nil
}

// Update mengganti task yang cocok dengan entitas hasil server. Task
// yang tidak ada di snapshot tidak ditambahkan.
func (s *TaskStore) Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	updated, err := s.gateway.UpdateTask(ctx, id, patch)
	if err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	next := snapshotCopy(s.tasks)
	for i := range next {
		if next[i].ID == id {
			next[i] = updated
			break
		}
	}
	s.tasks = next
	s.mu.Unlock()

	s.emit()
	return updated, nil
}

// Delete menghapus task di server lalu di snapshot.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	if err := s.gateway.DeleteTask(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	next := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.ID != id {
			next = append(next, t)
		}
	}
	s.tasks = next
	s.mu.Unlock()

	s.emit()
	return nil
}

// ToggleCompletion membalik status selesai sebuah task. Id yang tidak
// dikenal adalah no-op tanpa error.
func (s *TaskStore) ToggleCompletion(ctx context.Context, id string) error {
	current, ok := s.ByID(id)
	if !ok {
		return nil
	}
	flipped := !current.Completed
	_, err := s.Update(ctx, id, model.TaskPatch{Completed: &flipped})
	return err
}

// replace mengganti snapshot penuh lalu menyiarkannya.
func (s *TaskStore) replace(tasks []model.Task) {
	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	s.emit()
}

// emit memanggil semua listener di luar lock, masing-masing dengan
// salinan snapshot sendiri.
func (s *TaskStore) emit() {
	s.mu.Lock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	current := s.tasks
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snapshotCopy(current))
	}
}

func (s *TaskStore) notifyError(err error) {
	s.mu.Lock()
	fns := make([]ErrorListener, 0, len(s.errSubs))
	for _, fn := range s.errSubs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(err)
	}
}

func snapshotCopy(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	return out
}
