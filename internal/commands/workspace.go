package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/crewboard/internal/app"
)

var workspaceCmd = &cobra.Command{
	Use:     "workspace",
	Aliases: []string{"ws"},
	Short:   "Create, list and switch workspaces",
}

var workspaceCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a workspace and print its invite code",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(ctx context.Context, a *app.App, cmd *cobra.Command, args []string) error {
		ws, err := a.Store.CreateWorkspace(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("✅ Created workspace %s\n", ws.Name)
		fmt.Printf("Invite code: %s\n", ws.InviteCode)
		return nil
	}),
}

var workspaceListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List workspaces",
	Args:    cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app.App, cmd *cobra.Command, args []string) error {
		list, err := a.Store.ListWorkspaces(ctx)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No workspaces yet. Use 'crewboard workspace create <name>' to make one.")
			return nil
		}

		current := ""
		if active, err := a.Store.GetActiveSession(ctx); err == nil && active != nil {
			current = active.WorkspaceID
		}

		fmt.Printf("  %-30s %-8s %s\n", "NAME", "INVITE", "ID")
		for _, ws := range list {
			marker := " "
			if ws.ID == current {
				marker = "*"
			}
			fmt.Printf("%s %-30s %-8s %s\n", marker, truncate(ws.Name, 30), ws.InviteCode, ws.ID)
		}
		return nil
	}),
}

var workspaceSwitchCmd = &cobra.Command{
	Use:     "switch [name|id|invite-code]",
	Aliases: []string{"join"},
	Short:   "Switch the signed-in user to another workspace",
	Args:    cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app.App, cmd *cobra.Command, args []string) error {
		session, err := a.SwitchWorkspace(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("🔀 %s is now in workspace %s\n", session.UserName, session.Workspace.Name)
		return nil
	}),
}

func init() {
	workspaceCmd.AddCommand(workspaceCreateCmd)
	workspaceCmd.AddCommand(workspaceListCmd)
	workspaceCmd.AddCommand(workspaceSwitchCmd)
}
