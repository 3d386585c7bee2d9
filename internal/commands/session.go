package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/crewboard/internal/app"
	"github.com/balkashynov/crewboard/internal/db"
	"github.com/balkashynov/crewboard/internal/parser"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to a workspace",
	Long: `Sign in as a user and select the workspace you work in.
The workspace can be given by name, ID or invite code.`,
	Example: `  crewboard login --name "Ana" --email ana@example.com --workspace acme`,
	Args:    cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app.App, cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		ref, _ := cmd.Flags().GetString("workspace")

		name = strings.TrimSpace(name)
		if name == "" {
			return errors.New("--name is required")
		}
		if email != "" {
			addr, err := parser.ParseEmail(email)
			if err != nil {
				return err
			}
			email = addr
		}

		session, err := a.Login(ctx, name, email, ref)
		if errors.Is(err, db.ErrWorkspaceNotFound) {
			return fmt.Errorf("%w. Create it with 'crewboard workspace create %s'", err, ref)
		}
		if err != nil {
			return err
		}

		fmt.Printf("👋 Signed in as %s to workspace %s\n", session.UserName, session.Workspace.Name)
		return nil
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out of the current workspace",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app.App, cmd *cobra.Command, args []string) error {
		session, err := a.Store.EndActiveSession(ctx)
		if errors.Is(err, db.ErrNoActiveSession) {
			fmt.Println("Not signed in.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("👋 Signed out %s\n", session.UserName)
		return nil
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user and workspace",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *app.Session, cmd *cobra.Command, args []string) error {
		p := s.Ledger.Progress()
		fmt.Printf("User:      %s", s.Model.UserName)
		if s.Model.UserEmail != "" {
			fmt.Printf(" <%s>", s.Model.UserEmail)
		}
		fmt.Println()
		fmt.Printf("Workspace: %s (invite code %s)\n", s.Model.Workspace.Name, s.Model.Workspace.InviteCode)
		fmt.Printf("Since:     %s\n", s.Model.StartedAt.Format("02/01/2006 15:04"))
		fmt.Printf("Points:    %s (level %d)\n", formatPoints(p.Total), p.Level)
		return nil
	}),
}

func init() {
	loginCmd.Flags().StringP("name", "n", "", "Your display name")
	loginCmd.Flags().StringP("email", "e", "", "Your e-mail address")
	loginCmd.Flags().StringP("workspace", "w", "", "Workspace name, ID or invite code")
	_ = loginCmd.MarkFlagRequired("workspace")
}
