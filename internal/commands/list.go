package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/balkashynov/crewboard/internal/app"
	"github.com/balkashynov/crewboard/internal/board"
	"github.com/balkashynov/crewboard/internal/models"
)

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List tasks in the current workspace",
	Long:    "List the current workspace's tasks, newest first, optionally filtered by status",
	Args:    cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *app.Session, cmd *cobra.Command, args []string) error {
		status, err := statusFlag(cmd)
		if err != nil {
			return err
		}
		jsonOutput, _ := cmd.Flags().GetBool("json")

		tasks, err := s.Board.ListTasks(ctx, s.Identity.WorkspaceID)
		if err != nil {
			return err
		}
		tasks = filterStatus(tasks, status)

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(tasks)
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found. Use 'crewboard add \"task title\"' to create your first task.")
			return nil
		}

		fmt.Printf("Workspace %s\n\n", s.Identity.WorkspaceName)
		printTaskTable(tasks)
		return nil
	}),
}

// statusFlag reads --status, accepting the column names too
func statusFlag(cmd *cobra.Command) (models.TaskStatus, error) {
	raw, _ := cmd.Flags().GetString("status")
	if raw == "" {
		return "", nil
	}
	return parseStatus(raw)
}

func parseStatus(raw string) (models.TaskStatus, error) {
	switch raw {
	case "todo", "to-do", "to_do":
		return models.StatusTodo, nil
	case "in_progress", "in-progress", "progress", "doing":
		return models.StatusInProgress, nil
	case "done", "completed":
		return models.StatusDone, nil
	}
	return "", fmt.Errorf("%w: unknown status %q (use todo, in_progress or done)", board.ErrValidation, raw)
}

func filterStatus(tasks []models.Task, status models.TaskStatus) []models.Task {
	if status == "" {
		return tasks
	}
	var out []models.Task
	for _, t := range tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

func init() {
	listCmd.Flags().StringP("status", "s", "", "Filter by status: todo, in_progress, done")
	listCmd.Flags().Bool("json", false, "Output as JSON")
}
