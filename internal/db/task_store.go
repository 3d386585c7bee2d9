package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/crewboard/internal/models"
)

// InsertTask persists a new task. The caller assigns the ID.
func (s *Store) InsertTask(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		return fmt.Errorf("task id is required")
	}
	if err := s.DB.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// GetTask retrieves a task by ID. A missing task returns nil, nil.
func (s *Store) GetTask(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

// UpdateTaskStatus sets the status of a task. A non-nil completedAt is only
// written when the task has never been completed, so the stamp is set once and
// never cleared. stamped reports whether this call wrote it.
func (s *Store) UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus, completedAt *time.Time) (stamped bool, err error) {
	now := time.Now()
	if completedAt != nil {
		res := s.DB.WithContext(ctx).Model(&models.Task{}).
			Where("id = ? AND completed_at IS NULL", id).
			Updates(map[string]interface{}{"status": status, "updated_at": now, "completed_at": *completedAt})
		if res.Error != nil {
			return false, fmt.Errorf("failed to update task status: %w", res.Error)
		}
		if res.RowsAffected == 1 {
			return true, nil
		}
		// Missing, or completed by someone else in the meantime
	}

	res := s.DB.WithContext(ctx).Model(&models.Task{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": now})
	if res.Error != nil {
		return false, fmt.Errorf("failed to update task status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, fmt.Errorf("task not found: %s", id)
	}
	return false, nil
}

// ListTasksByWorkspace returns the workspace's tasks, newest first
func (s *Store) ListTasksByWorkspace(ctx context.Context, workspaceID string) ([]models.Task, error) {
	var tasks []models.Task
	err := s.DB.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// CountTasksByStatus returns how many tasks of a workspace sit in each column
func (s *Store) CountTasksByStatus(ctx context.Context, workspaceID string) (map[models.TaskStatus]int, error) {
	var rows []struct {
		Status models.TaskStatus
		Count  int
	}
	err := s.DB.WithContext(ctx).Model(&models.Task{}).
		Select("status, COUNT(*) AS count").
		Where("workspace_id = ?", workspaceID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	counts := make(map[models.TaskStatus]int, len(models.Statuses))
	for _, st := range models.Statuses {
		counts[st] = 0
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// SearchTasks finds tasks in a workspace whose title, description or assignee
// contain query, case-insensitively. Exact title matches rank first, then title
// prefixes, then everything else newest first. An empty status matches all.
func (s *Store) SearchTasks(ctx context.Context, workspaceID, query string, status models.TaskStatus) ([]models.Task, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, fmt.Errorf("search query is empty")
	}
	like := "%" + escapeLike(q) + "%"

	tx := s.DB.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Where("(LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\' OR LOWER(assignee_name) LIKE ? ESCAPE '\\')", like, like, like)
	if status != "" {
		tx = tx.Where("status = ?", status)
	}

	var tasks []models.Task
	err := tx.Order(clause.OrderBy{Expression: clause.Expr{
		SQL:                "CASE WHEN LOWER(title) = ? THEN 0 WHEN LOWER(title) LIKE ? ESCAPE '\\' THEN 1 ELSE 2 END, created_at DESC",
		Vars:               []any{q, escapeLike(q) + "%"},
		WithoutParentheses: true,
	}}).Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}
	return tasks, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
