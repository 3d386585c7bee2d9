package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/crewboard/internal/app"
	"github.com/balkashynov/crewboard/internal/models"
)

var moveCmd = &cobra.Command{
	Use:   "move [task-id] [status]",
	Short: "Move a task to another column",
	Long: `Move a task to todo, in_progress or done. Any unique prefix of the task ID works.
The first time a task reaches done you earn its points.`,
	Args: cobra.ExactArgs(2),
	RunE: withSession(func(ctx context.Context, s *app.Session, cmd *cobra.Command, args []string) error {
		status, err := parseStatus(args[1])
		if err != nil {
			return err
		}
		return moveTask(ctx, s, args[0], status)
	}),
}

var startCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Move a task to In Progress",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, s *app.Session, cmd *cobra.Command, args []string) error {
		return moveTask(ctx, s, args[0], models.StatusInProgress)
	}),
}

var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, s *app.Session, cmd *cobra.Command, args []string) error {
		return moveTask(ctx, s, args[0], models.StatusDone)
	}),
}

var todoCmd = &cobra.Command{
	Use:     "todo [task-id]",
	Aliases: []string{"undone"},
	Short:   "Move a task back to To Do",
	Args:    cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, s *app.Session, cmd *cobra.Command, args []string) error {
		return moveTask(ctx, s, args[0], models.StatusTodo)
	}),
}

func moveTask(ctx context.Context, s *app.Session, ref string, status models.TaskStatus) error {
	task, err := resolveTask(ctx, s, ref)
	if err != nil {
		return err
	}

	result, err := s.Board.MoveTask(ctx, task.ID, status)
	if err != nil {
		return err
	}

	if !result.Changed {
		fmt.Printf("Task %s is already in %s: %s\n", shortID(task.ID), status.Label(), task.Title)
		return nil
	}

	fmt.Printf("➡️  Moved task %s from %s to %s: %s\n", shortID(task.ID), result.Previous.Label(), status.Label(), task.Title)
	if result.Awarded > 0 {
		p := s.Ledger.Progress()
		fmt.Printf("⭐ +%d points · %s total · level %d\n", result.Awarded, formatPoints(p.Total), p.Level)
	} else if status == models.StatusDone && task.Completed() {
		fmt.Println("Points for this task were already awarded.")
	}
	return nil
}
