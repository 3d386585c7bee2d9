package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/balkashynov/crewboard/internal/board"
	"github.com/balkashynov/crewboard/internal/ledger"
	"github.com/balkashynov/crewboard/internal/models"
	"github.com/balkashynov/crewboard/internal/suggest"
)

// MockBoard implements Board for testing
type MockBoard struct {
	CreateTaskFunc func(ctx context.Context, in board.TaskInput) (*models.Task, error)
	MoveTaskFunc   func(ctx context.Context, id string, status models.TaskStatus) (board.MoveResult, error)
	ListTasksFunc  func(ctx context.Context, workspaceID string) ([]models.Task, error)
}

func (m *MockBoard) Identity() board.Identity {
	return board.Identity{UserID: "u1", UserName: "Ada", WorkspaceID: "ws-1"}
}

func (m *MockBoard) CreateTask(ctx context.Context, in board.TaskInput) (*models.Task, error) {
	if m.CreateTaskFunc != nil {
		return m.CreateTaskFunc(ctx, in)
	}
	return &models.Task{ID: "t1", Title: in.Title, Points: in.Points}, nil
}

func (m *MockBoard) MoveTask(ctx context.Context, id string, status models.TaskStatus) (board.MoveResult, error) {
	if m.MoveTaskFunc != nil {
		return m.MoveTaskFunc(ctx, id, status)
	}
	return board.MoveResult{}, nil
}

func (m *MockBoard) ListTasks(ctx context.Context, workspaceID string) ([]models.Task, error) {
	if m.ListTasksFunc != nil {
		return m.ListTasksFunc(ctx, workspaceID)
	}
	return nil, nil
}

type MockChat struct {
	PostFunc func(ctx context.Context, content string) (*models.ChatMessage, error)
}

func (m *MockChat) Post(ctx context.Context, content string) (*models.ChatMessage, error) {
	return m.PostFunc(ctx, content)
}

type MockSuggestions struct {
	GenerateFunc func(ctx context.Context) ([]suggest.Suggestion, error)
	AcceptFunc   func(ctx context.Context, id string) (*models.Task, error)
}

func (m *MockSuggestions) Generate(ctx context.Context) ([]suggest.Suggestion, error) {
	return m.GenerateFunc(ctx)
}

func (m *MockSuggestions) Accept(ctx context.Context, id string) (*models.Task, error) {
	return m.AcceptFunc(ctx, id)
}

type fixedLedger struct{ total int }

func (f fixedLedger) Progress() ledger.Progress { return ledger.ProgressFor(f.total) }

type testServer struct {
	board   *MockBoard
	chat    *MockChat
	suggest *MockSuggestions
	events  *board.Buffer
	router  http.Handler
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)
	ts := &testServer{
		board:   &MockBoard{},
		chat:    &MockChat{},
		suggest: &MockSuggestions{},
		events:  &board.Buffer{},
	}
	srv := NewServer(Deps{
		Board:   ts.board,
		Ledger:  fixedLedger{total: 540},
		Chat:    ts.chat,
		Suggest: ts.suggest,
		Events:  ts.events,
	})
	ts.router = srv.Handler()
	return ts
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Events  []board.Event   `json:"events"`
}

func (ts *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to parse response %q: %v", w.Body.String(), err)
	}
	return w, env
}

func TestHandleCreateTask(t *testing.T) {
	ts := newTestServer()
	var got board.TaskInput
	ts.board.CreateTaskFunc = func(ctx context.Context, in board.TaskInput) (*models.Task, error) {
		got = in
		ts.events.Emit(board.Event{Level: board.LevelSuccess, Title: "Task Created!"})
		return &models.Task{ID: "t1", Title: in.Title, Points: in.Points, Status: models.StatusTodo}, nil
	}

	w, env := ts.do(t, http.MethodPost, "/api/tasks", map[string]any{
		"title":    "Write spec",
		"points":   40,
		"due_date": "2025-07-01",
		"due_time": "14:30",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if !env.Success {
		t.Error("expected success")
	}
	if got.Title != "Write spec" || got.Points != 40 || got.DueDate == nil || got.DueTime != "14:30" {
		t.Errorf("unexpected input passed to board: %+v", got)
	}
	if len(env.Events) != 1 || env.Events[0].Title != "Task Created!" {
		t.Errorf("expected the creation event in the response, got %+v", env.Events)
	}
	if len(ts.events.Drain()) != 0 {
		t.Error("events should be drained into the response")
	}
}

func TestHandleCreateTaskErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", fmt.Errorf("%w: title is required", board.ErrValidation), http.StatusBadRequest},
		{"persistence", fmt.Errorf("%w: disk", board.ErrPersistence), http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer()
			ts.board.CreateTaskFunc = func(ctx context.Context, in board.TaskInput) (*models.Task, error) {
				return nil, tt.err
			}
			w, env := ts.do(t, http.MethodPost, "/api/tasks", map[string]any{"title": "x"})
			if w.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, w.Code)
			}
			if env.Success || env.Error == "" {
				t.Errorf("expected failure envelope, got %+v", env)
			}
		})
	}
}

func TestHandleCreateTaskBadInput(t *testing.T) {
	ts := newTestServer()
	called := false
	ts.board.CreateTaskFunc = func(ctx context.Context, in board.TaskInput) (*models.Task, error) {
		called = true
		return nil, nil
	}

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed JSON, got %d", w.Code)
	}

	w, _ = ts.do(t, http.MethodPost, "/api/tasks", map[string]any{"title": "x", "due_date": "someday"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad due date, got %d", w.Code)
	}
	if called {
		t.Error("board should not be called for invalid input")
	}
}

func TestHandleMoveTask(t *testing.T) {
	ts := newTestServer()
	ts.board.MoveTaskFunc = func(ctx context.Context, id string, status models.TaskStatus) (board.MoveResult, error) {
		if id == "missing" {
			return board.MoveResult{}, fmt.Errorf("%w: %s", board.ErrTaskNotFound, id)
		}
		return board.MoveResult{
			Task:     models.Task{ID: id, Status: status, Points: 40},
			Previous: models.StatusTodo,
			Changed:  true,
			Awarded:  40,
		}, nil
	}

	w, env := ts.do(t, http.MethodPatch, "/api/tasks/t1/status", map[string]string{"status": "done"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var res board.MoveResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if res.Awarded != 40 || res.Task.Status != models.StatusDone {
		t.Errorf("unexpected result: %+v", res)
	}

	w, _ = ts.do(t, http.MethodPatch, "/api/tasks/missing/status", map[string]string{"status": "done"})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestHandleListTasks(t *testing.T) {
	ts := newTestServer()
	var gotWorkspace string
	ts.board.ListTasksFunc = func(ctx context.Context, workspaceID string) ([]models.Task, error) {
		gotWorkspace = workspaceID
		return []models.Task{
			{ID: "b", Status: models.StatusDone},
			{ID: "a", Status: models.StatusTodo},
		}, nil
	}

	w, env := ts.do(t, http.MethodGet, "/api/tasks", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotWorkspace != "ws-1" {
		t.Errorf("expected listing of the session workspace, got %q", gotWorkspace)
	}
	var tasks []models.Task
	json.Unmarshal(env.Data, &tasks)
	if len(tasks) != 2 || tasks[0].ID != "b" {
		t.Errorf("expected order preserved, got %+v", tasks)
	}

	_, env = ts.do(t, http.MethodGet, "/api/tasks?status=todo", nil)
	json.Unmarshal(env.Data, &tasks)
	if len(tasks) != 1 || tasks[0].ID != "a" {
		t.Errorf("expected filtered list, got %+v", tasks)
	}
}

func TestHandleLedger(t *testing.T) {
	ts := newTestServer()
	w, env := ts.do(t, http.MethodGet, "/api/ledger", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var p ledger.Progress
	if err := json.Unmarshal(env.Data, &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Total != 540 || p.Level != 2 || p.InLevel != 40 || p.PointsToNext != 460 {
		t.Errorf("unexpected progress: %+v", p)
	}
}

func TestHandleChat(t *testing.T) {
	ts := newTestServer()
	ts.chat.PostFunc = func(ctx context.Context, content string) (*models.ChatMessage, error) {
		if content == "" {
			return nil, fmt.Errorf("%w: message is empty", board.ErrValidation)
		}
		return &models.ChatMessage{ID: "m1", Content: content}, nil
	}

	w, _ := ts.do(t, http.MethodPost, "/api/chat", map[string]string{"message": "hello"})
	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	w, _ = ts.do(t, http.MethodPost, "/api/chat", map[string]string{"message": ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandleSuggestions(t *testing.T) {
	ts := newTestServer()
	ts.suggest.GenerateFunc = func(ctx context.Context) ([]suggest.Suggestion, error) {
		return []suggest.Suggestion{{ID: "1", Title: "Review", Priority: suggest.PriorityHigh}}, nil
	}
	ts.suggest.AcceptFunc = func(ctx context.Context, id string) (*models.Task, error) {
		if id != "1" {
			return nil, fmt.Errorf("%w: unknown suggestion %q", board.ErrValidation, id)
		}
		return &models.Task{ID: "t9", Title: "Review", Points: 75}, nil
	}

	w, env := ts.do(t, http.MethodGet, "/api/suggestions", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var list []suggest.Suggestion
	json.Unmarshal(env.Data, &list)
	if len(list) != 1 || list[0].Priority != suggest.PriorityHigh {
		t.Errorf("unexpected suggestions: %+v", list)
	}

	w, _ = ts.do(t, http.MethodPost, "/api/suggestions/1/accept", nil)
	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	w, _ = ts.do(t, http.MethodPost, "/api/suggestions/7/accept", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandleSuggestionsCancelled(t *testing.T) {
	ts := newTestServer()
	ts.suggest.GenerateFunc = func(ctx context.Context) ([]suggest.Suggestion, error) {
		return nil, context.Canceled
	}
	w, env := ts.do(t, http.MethodGet, "/api/suggestions", nil)
	if w.Code != http.StatusServiceUnavailable || env.Success {
		t.Errorf("expected 503 failure, got %d %+v", w.Code, env)
	}
}

func TestEveryResponseCarriesEvents(t *testing.T) {
	ts := newTestServer()
	ts.suggest.GenerateFunc = func(ctx context.Context) ([]suggest.Suggestion, error) {
		return []suggest.Suggestion{{ID: "1", Title: "Review"}}, nil
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"malformed body", http.MethodPost, "/api/tasks", "{not json", http.StatusBadRequest},
		{"bad due date", http.MethodPost, "/api/tasks", `{"title":"x","due_date":"someday"}`, http.StatusBadRequest},
		{"malformed move", http.MethodPatch, "/api/tasks/t1/status", "[", http.StatusBadRequest},
		{"ledger", http.MethodGet, "/api/ledger", "", http.StatusOK},
		{"suggestions", http.MethodGet, "/api/suggestions", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.events.Emit(board.Event{Level: board.LevelInfo, Title: "Queued"})

			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			ts.router.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}

			var raw map[string]json.RawMessage
			if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
				t.Fatalf("decode: %v", err)
			}
			for _, key := range []string{"success", "events"} {
				if _, ok := raw[key]; !ok {
					t.Errorf("response is missing %q: %s", key, w.Body.String())
				}
			}
			var events []board.Event
			if err := json.Unmarshal(raw["events"], &events); err != nil {
				t.Fatalf("decode events: %v", err)
			}
			if len(events) != 1 || events[0].Title != "Queued" {
				t.Errorf("expected the queued event to be delivered, got %+v", events)
			}
		})
	}
}
