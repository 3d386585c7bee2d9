package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/balkashynov/crewboard/internal/app"
	"github.com/balkashynov/crewboard/internal/tui"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the interactive board",
	Long: `Open the three-column board for the current workspace.

Keys:
  h/l, ←/→      Switch column
  j/k, ↑/↓      Select task
  >/<           Move task to the next/previous column
  1/2/3         Move task to To Do, In Progress, Done
  d             Mark task done
  s             Task suggestions
  r             Refresh
  q             Quit`,
	Args: cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *app.Session, cmd *cobra.Command, args []string) error {
		return tui.RunBoardTUI(ctx, tui.BoardDeps{
			Board:   s.Board,
			Suggest: s.Suggest,
			Ledger:  s.Ledger,
			Events:  s.Events,
		})
	}),
}
