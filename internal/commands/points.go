package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/balkashynov/crewboard/internal/app"
	"github.com/balkashynov/crewboard/internal/ledger"
)

var pointsCmd = &cobra.Command{
	Use:     "points",
	Aliases: []string{"ledger", "score"},
	Short:   "Show your points, level and recent credits",
	Args:    cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *app.Session, cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		p := s.Ledger.Progress()
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		}

		fmt.Printf("⭐ %s points · level %d\n", formatPoints(p.Total), p.Level)
		fmt.Printf("%s %d/%d · %d to level %d\n",
			levelBar(p.InLevel, ledger.PointsPerLevel, 30), p.InLevel, ledger.PointsPerLevel, p.PointsToNext, p.Level+1)

		credits, err := s.Store.ListCredits(ctx, s.Model.ID, limit)
		if err != nil {
			return err
		}
		if len(credits) == 0 {
			fmt.Println("\nNo points yet. Finish a task with 'crewboard done <id>' to earn some.")
			return nil
		}

		fmt.Println("\nRecent credits:")
		for _, c := range credits {
			fmt.Printf("  %+5d  %-20s %s\n", c.Amount, reasonLabel(ledger.Reason(c.Reason)), humanize.Time(c.CreatedAt))
		}
		return nil
	}),
}

func levelBar(value, total, width int) string {
	filled := value * width / total
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func reasonLabel(r ledger.Reason) string {
	switch r {
	case ledger.ReasonTaskCompleted:
		return "task completed"
	case ledger.ReasonChatMessage:
		return "chat message"
	case ledger.ReasonSuggestionAccepted:
		return "suggestion accepted"
	}
	return string(r)
}

func init() {
	pointsCmd.Flags().IntP("limit", "l", 10, "Number of recent credits to show")
	pointsCmd.Flags().Bool("json", false, "Output progress as JSON")
}
