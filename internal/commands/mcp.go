package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/balkashynov/crewboard/internal/app"
	"github.com/balkashynov/crewboard/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout so assistants can create,
move and list tasks as the signed-in user. Logs go to stderr.`,
	Annotations: map[string]string{logToStderr: "true"},
	Args:        cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app.App, cmd *cobra.Command, args []string) error {
		s, err := a.Load(ctx)
		if err != nil {
			return err
		}
		a.Logger.Info("mcp server starting", "workspace", s.Identity.WorkspaceName, "user", s.Identity.UserName)
		return mcp.Serve(mcp.NewServer(s.Board, s.Ledger, version))
	}),
}
