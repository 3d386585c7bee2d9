package models

import (
	"time"
)

// TaskStatus is the column a task sits in on the board
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

// Statuses lists the board columns in display order
var Statuses = []TaskStatus{StatusTodo, StatusInProgress, StatusDone}

// Valid reports whether s is one of the three board statuses
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Label returns the column heading for the status
func (s TaskStatus) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// Task represents a card on a workspace board
type Task struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id" yaml:"id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
	WorkspaceID string    `gorm:"not null;index;size:36" json:"workspace_id" yaml:"workspace_id"`

	Title         string     `gorm:"not null" json:"title" yaml:"title"`
	Description   string     `json:"description,omitempty" yaml:"description,omitempty"`
	AssigneeName  string     `json:"assignee_name,omitempty" yaml:"assignee_name,omitempty"`
	AssigneeEmail string     `json:"assignee_email,omitempty" yaml:"assignee_email,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	DueTime       string     `gorm:"size:5" json:"due_time,omitempty" yaml:"due_time,omitempty"` // HH:MM, informational only
	Status        TaskStatus `gorm:"not null;default:todo;size:16" json:"status" yaml:"status"`
	Points        int        `gorm:"not null" json:"points" yaml:"points"`
	CreatedBy     string     `gorm:"not null" json:"created_by" yaml:"created_by"`

	// CompletedAt is stamped on the first move into done and never cleared.
	// It guards against awarding points twice for the same task.
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// Completed reports whether the task has ever reached done
func (t *Task) Completed() bool {
	return t.CompletedAt != nil
}
