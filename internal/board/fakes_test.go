package board

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/balkashynov/crewboard/internal/models"
	"github.com/balkashynov/crewboard/internal/notify"
)

var errStoreDown = errors.New("store down")

// memStore is an in-memory TaskStore with switchable failures
type memStore struct {
	mu    sync.Mutex
	tasks map[string]models.Task

	failInsert bool
	failUpdate bool
	failGet    bool
	failList   bool

	// staleReads hides completion stamps from GetTask, like a read taken
	// before another writer finished the task
	staleReads bool
}

func newMemStore() *memStore {
	return &memStore{tasks: make(map[string]models.Task)}
}

func (m *memStore) InsertTask(ctx context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInsert {
		return errStoreDown
	}
	m.tasks[task.ID] = *task
	return nil
}

func (m *memStore) GetTask(ctx context.Context, id string) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, errStoreDown
	}
	t, ok := m.tasks[id]
	if !ok {
		return nil, nil
	}
	if m.staleReads {
		t.CompletedAt = nil
	}
	return &t, nil
}

func (m *memStore) UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus, completedAt *time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpdate {
		return false, errStoreDown
	}
	t, ok := m.tasks[id]
	if !ok {
		return false, errors.New("no such task")
	}
	t.Status = status
	stamped := completedAt != nil && t.CompletedAt == nil
	if stamped {
		t.CompletedAt = completedAt
	}
	m.tasks[id] = t
	return stamped, nil
}

func (m *memStore) ListTasksByWorkspace(ctx context.Context, workspaceID string) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList {
		return nil, errStoreDown
	}
	var out []models.Task
	for _, t := range m.tasks {
		if t.WorkspaceID == workspaceID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (f *fakeNotifier) Send(ctx context.Context, msg notify.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

// steppingClock returns a strictly increasing time on every call
func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}
