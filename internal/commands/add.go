package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/crewboard/internal/app"
	"github.com/balkashynov/crewboard/internal/board"
	"github.com/balkashynov/crewboard/internal/models"
	"github.com/balkashynov/crewboard/internal/parser"
	"github.com/balkashynov/crewboard/internal/tui"
)

var addCmd = &cobra.Command{
	Use:   "add [task title]",
	Short: "Add a task to the board",
	Long: `Add a task to the current workspace. New tasks start in To Do.

Modes:
  Interactive: crewboard add -i (or just 'crewboard add' with no arguments)
  Quick: crewboard add "Task title" (with optional flags)
  Smart parsing: crewboard add "Write spec +40 @Bob <bob@example.com> due:3d at:14:30"

Smart parsing syntax:
  +N          - Points for finishing it (5-100, default 25)
  @name       - Assignee name (underscores become spaces)
  <addr>      - Assignee e-mail, they are notified
  due:3d      - Due date (dd/mm/yyyy, yyyy-mm-dd, 3d, 12h, 2w)
  at:14:30    - Due time`,
	Args: cobra.ArbitraryArgs,
	RunE: withSession(func(ctx context.Context, s *app.Session, cmd *cobra.Command, args []string) error {
		interactive, _ := cmd.Flags().GetBool("interactive")
		noUI, _ := cmd.Flags().GetBool("no-ui")

		parsed := parser.ParseTitle(strings.Join(args, " "))
		applyAddFlags(cmd, &parsed)

		if len(args) == 0 && !noUI {
			interactive = true
		}
		if len(parsed.Errors) > 0 {
			if noUI {
				return fmt.Errorf("%w: %s", board.ErrValidation, strings.Join(parsed.Errors, ", "))
			}
			fmt.Printf("⚠️  Found issues with parsing: %s\n", strings.Join(parsed.Errors, ", "))
			fmt.Println("Opening interactive mode for confirmation...")
			interactive = true
		}

		var (
			task *models.Task
			err  error
		)
		if interactive {
			task, err = tui.RunAddTaskTUI(ctx, s.Board, parsed)
			if errors.Is(err, tui.ErrCancelled) {
				fmt.Println("Cancelled, no task created.")
				return nil
			}
		} else {
			task, err = s.Board.CreateTask(ctx, inputFromParsed(parsed))
		}
		if err != nil {
			return err
		}

		fmt.Printf("✅ Added task %s: %s (%d points)\n", shortID(task.ID), task.Title, task.Points)
		if task.AssigneeName != "" || task.AssigneeEmail != "" {
			fmt.Printf("Assigned to: %s\n", strings.TrimSpace(task.AssigneeName+" "+angle(task.AssigneeEmail)))
		}
		if due := parser.FormatDueDate(task.DueDate); due != "" {
			fmt.Println(due)
		}
		return nil
	}),
}

// applyAddFlags lets explicit flags win over the smart syntax
// applyAddFlags lets explicit flags win over tokens parsed from the title.
// A flag that replaces a field also clears the title's error for it.
func applyAddFlags(cmd *cobra.Command, parsed *parser.ParsedTask) {
	if cmd.Flags().Changed("points") {
		parsed.Points, _ = cmd.Flags().GetInt("points")
		dropErrors(parsed, "Invalid points '")
	}
	if v, _ := cmd.Flags().GetString("assignee"); v != "" {
		parsed.AssigneeName = v
	}
	if v, _ := cmd.Flags().GetString("email"); v != "" {
		parsed.AssigneeEmail = v
		dropErrors(parsed, "Invalid email '")
	}
	if v, _ := cmd.Flags().GetString("due"); v != "" {
		dropErrors(parsed, "Invalid due date '")
		due, err := parser.ParseDueDate(v)
		if err != nil {
			parsed.Errors = append(parsed.Errors, fmt.Sprintf("Invalid due date '%s'", v))
		} else {
			parsed.DueDate = due
		}
	}
	if v, _ := cmd.Flags().GetString("at"); v != "" {
		dropErrors(parsed, "Invalid time '")
		if at, err := parser.ParseDueTime(v); err != nil {
			parsed.Errors = append(parsed.Errors, fmt.Sprintf("Invalid time '%s'. Use HH:MM", v))
		} else {
			parsed.DueTime = at
		}
	}
	if v, _ := cmd.Flags().GetString("desc"); v != "" {
		parsed.Description = v
	}
}

func dropErrors(parsed *parser.ParsedTask, prefix string) {
	kept := parsed.Errors[:0]
	for _, e := range parsed.Errors {
		if !strings.HasPrefix(e, prefix) {
			kept = append(kept, e)
		}
	}
	parsed.Errors = kept
}

func inputFromParsed(parsed parser.ParsedTask) board.TaskInput {
	return board.TaskInput{
		Title:         parsed.Title,
		AssigneeName:  parsed.AssigneeName,
		AssigneeEmail: parsed.AssigneeEmail,
		DueDate:       parsed.DueDate,
		DueTime:       parsed.DueTime,
		Points:        parsed.Points,
		Description:   parsed.Description,
	}
}

func angle(email string) string {
	if email == "" {
		return ""
	}
	return "<" + email + ">"
}

func init() {
	addCmd.Flags().BoolP("interactive", "i", false, "Use interactive mode")
	addCmd.Flags().Bool("no-ui", false, "Never open the interactive form")
	addCmd.Flags().IntP("points", "p", 0, "Points for finishing the task (5-100)")
	addCmd.Flags().StringP("assignee", "a", "", "Assignee name")
	addCmd.Flags().StringP("email", "e", "", "Assignee e-mail")
	addCmd.Flags().String("due", "", "Due date (dd/mm/yyyy, 3d, 12h, 2w)")
	addCmd.Flags().String("at", "", "Due time HH:MM")
	addCmd.Flags().StringP("desc", "d", "", "Task description")
}
