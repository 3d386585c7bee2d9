// Package board owns the task lifecycle of a workspace board: creating tasks,
// moving them between columns, and awarding points the first time a task is
// finished.
package board

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/balkashynov/crewboard/internal/ledger"
	"github.com/balkashynov/crewboard/internal/models"
	"github.com/balkashynov/crewboard/internal/notify"
	"github.com/balkashynov/crewboard/internal/parser"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrPersistence  = errors.New("could not reach storage")
	ErrTaskNotFound = errors.New("task not found")
)

// Point bounds for a task
const (
	MinPoints     = 5
	MaxPoints     = 100
	DefaultPoints = 25
)

// TaskStore is the persistence the board reads and writes through.
// GetTask returns nil, nil for an unknown id. UpdateTaskStatus writes
// completedAt only if the task has no completion stamp yet and reports
// whether it did.
type TaskStore interface {
	InsertTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, id string) (*models.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus, completedAt *time.Time) (bool, error)
	ListTasksByWorkspace(ctx context.Context, workspaceID string) ([]models.Task, error)
}

// Crediter receives points earned on the board
type Crediter interface {
	Credit(ctx context.Context, amount int, reason ledger.Reason, ref string) (int, error)
}

// Identity is the already-resolved user acting on the board
type Identity struct {
	UserID        string
	UserName      string
	WorkspaceID   string
	WorkspaceName string
}

// TaskInput holds the data needed to create a new task
type TaskInput struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	AssigneeName  string     `json:"assignee_name"`
	AssigneeEmail string     `json:"assignee_email"`
	DueDate       *time.Time `json:"due_date"`
	DueTime       string     `json:"due_time"` // HH:MM
	Points        int        `json:"points"`   // 0 means the default
}

// MoveResult describes what a MoveTask call did
type MoveResult struct {
	Task     models.Task       `json:"task"`
	Previous models.TaskStatus `json:"previous"`
	Changed  bool              `json:"changed"`
	Awarded  int               `json:"awarded"`
}

// Service manages the tasks of the current workspace
type Service struct {
	store    TaskStore
	ledger   Crediter
	identity Identity

	notifier notify.Notifier
	events   EventSink
	logger   *log.Logger
	view     *View

	now           func() time.Time
	newID         func() string
	defaultPoints int

	// serializes moves so a completion is never awarded twice
	mu sync.Mutex
}

// Option configures a Service
type Option func(*Service)

func WithNotifier(n notify.Notifier) Option { return func(s *Service) { s.notifier = n } }
func WithEvents(sink EventSink) Option     { return func(s *Service) { s.events = sink } }
func WithLogger(l *log.Logger) Option      { return func(s *Service) { s.logger = l } }
func WithView(v *View) Option              { return func(s *Service) { s.view = v } }
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// WithDefaultPoints sets the reward used when TaskInput.Points is zero
func WithDefaultPoints(points int) Option {
	return func(s *Service) { s.defaultPoints = points }
}

// NewService wires a board for identity's workspace
func NewService(store TaskStore, credits Crediter, identity Identity, opts ...Option) *Service {
	s := &Service{
		store:         store,
		ledger:        credits,
		identity:      identity,
		events:        discardSink{},
		logger:        log.New(io.Discard),
		view:          NewView(),
		now:           time.Now,
		newID:         uuid.NewString,
		defaultPoints: DefaultPoints,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Identity returns who the board acts for
func (s *Service) Identity() Identity { return s.identity }

// View returns the local board state
func (s *Service) View() *View { return s.view }

// CreateTask validates input, stores a new todo task and notifies the assignee.
// A notification failure is reported as an event; the task is still created.
func (s *Service) CreateTask(ctx context.Context, in TaskInput) (*models.Task, error) {
	task, err := s.buildTask(in)
	if err != nil {
		s.events.Emit(Event{Level: LevelError, Title: "Task not created", Message: err.Error()})
		return nil, err
	}

	if err := s.store.InsertTask(ctx, task); err != nil {
		s.logger.Error("failed to insert task", "title", task.Title, "err", err)
		s.events.Emit(Event{Level: LevelError, Title: "Task not created", Message: "Could not save the task, please try again"})
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.view.Add(*task)
	s.logger.Info("task created", "id", task.ID, "workspace", task.WorkspaceID, "points", task.Points)
	s.events.Emit(Event{Level: LevelSuccess, Title: "Task Created!", Message: "New task has been added to the board"})

	if task.AssigneeEmail != "" {
		s.notifyAssignee(ctx, task)
	}

	return task, nil
}

func (s *Service) buildTask(in TaskInput) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	points := in.Points
	if points == 0 {
		points = s.defaultPoints
	}
	if points < MinPoints || points > MaxPoints {
		return nil, fmt.Errorf("%w: points must be between %d and %d, got %d", ErrValidation, MinPoints, MaxPoints, points)
	}

	email := ""
	if strings.TrimSpace(in.AssigneeEmail) != "" {
		addr, err := parser.ParseEmail(in.AssigneeEmail)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		email = addr
	}

	dueTime := strings.TrimSpace(in.DueTime)
	if dueTime != "" {
		normalized, err := parser.ParseDueTime(dueTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		dueTime = normalized
	}

	if s.identity.WorkspaceID == "" {
		return nil, fmt.Errorf("%w: no workspace selected", ErrValidation)
	}

	now := s.now()
	return &models.Task{
		ID:            s.newID(),
		CreatedAt:     now,
		UpdatedAt:     now,
		WorkspaceID:   s.identity.WorkspaceID,
		Title:         title,
		Description:   strings.TrimSpace(in.Description),
		AssigneeName:  strings.TrimSpace(in.AssigneeName),
		AssigneeEmail: email,
		DueDate:       in.DueDate,
		DueTime:       dueTime,
		Status:        models.StatusTodo,
		Points:        points,
		CreatedBy:     s.identity.UserID,
	}, nil
}

func (s *Service) notifyAssignee(ctx context.Context, task *models.Task) {
	if s.notifier == nil {
		return
	}

	msg, err := notify.AssignmentMessage(task, s.identity.UserName, s.identity.WorkspaceName)
	if err == nil {
		err = s.notifier.Send(ctx, msg)
	}
	if err != nil {
		s.logger.Warn("assignment e-mail failed", "task", task.ID, "to", task.AssigneeEmail, "err", err)
		s.events.Emit(Event{
			Level:   LevelWarning,
			Title:   "Email not sent",
			Message: fmt.Sprintf("Task created, but %s could not be notified", task.AssigneeEmail),
		})
		return
	}

	s.events.Emit(Event{Level: LevelInfo, Title: "Assignee notified", Message: "Email sent to " + task.AssigneeEmail})
}

// MoveTask sets a task's status. Moving to the status it already has is a
// no-op. The first move into done credits the task's points.
func (s *Service) MoveTask(ctx context.Context, taskID string, status models.TaskStatus) (MoveResult, error) {
	if !status.Valid() {
		return MoveResult{}, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		s.events.Emit(Event{Level: LevelError, Title: "Move failed", Message: "Could not load the task, please try again"})
		return MoveResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if task == nil || task.WorkspaceID != s.identity.WorkspaceID {
		return MoveResult{}, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}

	result := MoveResult{Task: *task, Previous: task.Status}
	if task.Status == status {
		return result, nil
	}

	var completedAt *time.Time
	firstCompletion := status == models.StatusDone && !task.Completed()
	if firstCompletion {
		now := s.now()
		completedAt = &now
	}

	change, tracked := s.view.ApplyPending(task.ID, status)
	stamped, err := s.store.UpdateTaskStatus(ctx, task.ID, status, completedAt)
	if err != nil {
		if tracked {
			s.view.Revert(change)
		}
		s.logger.Error("failed to update task status", "id", task.ID, "status", status, "err", err)
		s.events.Emit(Event{Level: LevelError, Title: "Move failed", Message: "Could not save the change, please try again"})
		return MoveResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	task.Status = status
	task.UpdatedAt = s.now()
	if firstCompletion && !stamped {
		// another process completed it between our read and write
		s.logger.Info("task already completed elsewhere, no award", "id", task.ID)
		firstCompletion = false
	}
	if stamped {
		task.CompletedAt = completedAt
	}
	if tracked {
		s.view.Confirm(change, *task)
	}

	result.Task = *task
	result.Changed = true
	s.logger.Info("task moved", "id", task.ID, "from", result.Previous, "to", status)

	if firstCompletion {
		if _, err := s.ledger.Credit(ctx, task.Points, ledger.ReasonTaskCompleted, task.ID); err != nil {
			s.logger.Warn("completion not credited", "id", task.ID, "points", task.Points, "err", err)
		} else {
			result.Awarded = task.Points
			s.events.Emit(Event{
				Level:   LevelSuccess,
				Title:   "Task Completed! 🎉",
				Message: fmt.Sprintf("You earned %d points for completing %q", task.Points, task.Title),
			})
		}
	}

	return result, nil
}

// ListTasks returns a workspace's tasks, newest first. Listing the current
// workspace also refreshes the local view.
func (s *Service) ListTasks(ctx context.Context, workspaceID string) ([]models.Task, error) {
	tasks, err := s.store.ListTasksByWorkspace(ctx, workspaceID)
	if err != nil {
		s.events.Emit(Event{Level: LevelError, Title: "Could not load tasks", Message: "Please try again"})
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if workspaceID == s.identity.WorkspaceID {
		s.view.Replace(tasks)
	}
	return tasks, nil
}
