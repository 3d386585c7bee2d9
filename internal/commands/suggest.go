package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/crewboard/internal/app"
	"github.com/balkashynov/crewboard/internal/ledger"
	"github.com/balkashynov/crewboard/internal/suggest"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Get task suggestions, or accept one",
	Long: `Show suggested tasks for the workspace. Accepting a suggestion adds it to the
board with points based on its priority, and earns a bonus.`,
	Example: `  crewboard suggest
  crewboard suggest --accept 2`,
	Args: cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *app.Session, cmd *cobra.Command, args []string) error {
		if id, _ := cmd.Flags().GetString("accept"); id != "" {
			task, err := s.Suggest.Accept(ctx, id)
			if err != nil && task == nil {
				return err
			}
			fmt.Printf("✅ Added task %s: %s (%d points)\n", shortID(task.ID), task.Title, task.Points)
			if err != nil {
				return err
			}
			fmt.Printf("⭐ +%d points for accepting a suggestion\n", ledger.SuggestionAcceptedPoints)
			return nil
		}

		fmt.Println("🤔 Thinking...")
		list, err := s.Suggest.Generate(ctx)
		if err != nil {
			return err
		}
		printSuggestions(list)
		return nil
	}),
}

func printSuggestions(list []suggest.Suggestion) {
	if len(list) == 0 {
		fmt.Println("No suggestions right now.")
		return
	}
	for _, sug := range list {
		fmt.Printf("\n[%s] %s  (%s priority, %d points, ~%s)\n", sug.ID, sug.Title, sug.Priority, sug.Priority.Points(), sug.EstimatedTime)
		fmt.Printf("    %s\n", sug.Description)
		fmt.Printf("    Why: %s\n", sug.Reason)
	}
	fmt.Println("\nAccept one with 'crewboard suggest --accept <id>'.")
}

func init() {
	suggestCmd.Flags().StringP("accept", "a", "", "Accept the suggestion with this ID")
}
