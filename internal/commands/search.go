package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/crewboard/internal/app"
	"github.com/balkashynov/crewboard/internal/models"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search tasks in the current workspace",
	Long: `Search tasks by title, description and assignee:
- Exact title match (highest priority)
- Title prefix match
- Contains anywhere (newest first)

Search is case insensitive.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withSession(func(ctx context.Context, s *app.Session, cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		status, err := statusFlag(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		tasks, err := s.Store.SearchTasks(ctx, s.Identity.WorkspaceID, query, status)
		if err != nil {
			return err
		}
		if limit > 0 && len(tasks) > limit {
			tasks = tasks[:limit]
		}

		if jsonOutput {
			return renderSearchJSON(tasks, query)
		}
		renderSearchTable(tasks, query)
		return nil
	}),
}

func renderSearchJSON(tasks []models.Task, query string) error {
	type searchResult struct {
		Query string        `json:"query"`
		Count int           `json:"count"`
		Tasks []models.Task `json:"tasks"`
	}

	if tasks == nil {
		tasks = []models.Task{}
	}
	out, err := json.MarshalIndent(searchResult{Query: query, Count: len(tasks), Tasks: tasks}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func renderSearchTable(tasks []models.Task, query string) {
	fmt.Printf("Search results for '%s' (%d found):\n", query, len(tasks))
	if len(tasks) == 0 {
		fmt.Println("No tasks found matching your search.")
		return
	}
	fmt.Println()
	printTaskTable(tasks)
}

func init() {
	searchCmd.Flags().StringP("status", "s", "", "Filter by status: todo, in_progress, done")
	searchCmd.Flags().IntP("limit", "l", 0, "Limit number of results")
	searchCmd.Flags().Bool("json", false, "Output as JSON")
}
