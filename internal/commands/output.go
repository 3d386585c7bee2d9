package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/balkashynov/crewboard/internal/app"
	"github.com/balkashynov/crewboard/internal/board"
	"github.com/balkashynov/crewboard/internal/models"
	"github.com/balkashynov/crewboard/internal/parser"
	"github.com/balkashynov/crewboard/internal/tui"
)

// printEvents shows what happened on the board during the command
func printEvents(s *app.Session) {
	sink := tui.TerminalSink{Out: os.Stdout}
	for _, e := range s.Events.Drain() {
		sink.Emit(e)
	}
}

// resolveTask finds a task in the current workspace by full ID or a unique ID prefix
func resolveTask(ctx context.Context, s *app.Session, ref string) (*models.Task, error) {
	tasks, err := s.Board.ListTasks(ctx, s.Identity.WorkspaceID)
	if err != nil {
		return nil, err
	}
	return matchTask(tasks, ref)
}

func matchTask(tasks []models.Task, ref string) (*models.Task, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return nil, fmt.Errorf("%w: task id is required", board.ErrValidation)
	}

	var matches []*models.Task
	for i := range tasks {
		id := strings.ToLower(tasks[i].ID)
		if id == ref {
			return &tasks[i], nil
		}
		if strings.HasPrefix(id, ref) {
			matches = append(matches, &tasks[i])
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", board.ErrTaskNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("task id %q is ambiguous (%d matches), use more characters", ref, len(matches))
	}
}

// shortID is the prefix shown in tables; any unique prefix resolves back
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func printTaskTable(tasks []models.Task) {
	fmt.Printf("%-8s  %-12s %-38s %-16s %6s  %s\n", "ID", "STATUS", "TITLE", "ASSIGNEE", "POINTS", "DUE")
	fmt.Println(strings.Repeat("-", 96))

	for _, task := range tasks {
		due := parser.FormatDueDate(task.DueDate)
		if due != "" && task.DueTime != "" {
			due += " " + task.DueTime
		}
		fmt.Printf("%-8s  %-12s %-38s %-16s %6d  %s\n",
			shortID(task.ID),
			task.Status.Label(),
			truncate(task.Title, 38),
			truncate(task.AssigneeName, 16),
			task.Points,
			due)
	}
}

func formatPoints(n int) string {
	return humanize.Comma(int64(n))
}
