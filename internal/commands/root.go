package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/balkashynov/crewboard/internal/app"
	"github.com/balkashynov/crewboard/internal/config"
	"github.com/balkashynov/crewboard/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "crewboard",
	Short: "A team task board with points",
	Long: `crewboard is a command-line team board. Create tasks in a shared workspace,
move them from To Do to Done, and earn points every time you finish one.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// logToStderr marks commands whose logs belong on the terminal.
// Everything else logs to a file so output and the TUI stay clean.
const logToStderr = "crewboard/log-stderr"

// openApp loads configuration and connects to the database
func openApp(cmd *cobra.Command) (*app.App, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	out, closeLog := logOutput(cmd)
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, out)
	a, err := app.Open(cfg, logger)
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	return a, func() {
		a.Close()
		closeLog()
	}, nil
}

func logOutput(cmd *cobra.Command) (io.Writer, func()) {
	if _, ok := cmd.Annotations[logToStderr]; ok {
		return os.Stderr, func() {}
	}
	if err := os.MkdirAll(config.GlobalDir(), 0o755); err != nil {
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(filepath.Join(config.GlobalDir(), "crewboard.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return io.Discard, func() {}
	}
	return f, func() { f.Close() }
}

// withApp wraps a command function that only needs storage
func withApp(fn func(context.Context, *app.App, *cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, done, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer done()
		return fn(cmd.Context(), a, cmd, args)
	}
}

// withSession wraps a command function that acts for the signed-in user
func withSession(fn func(context.Context, *app.Session, *cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return withApp(func(ctx context.Context, a *app.App, cmd *cobra.Command, args []string) error {
		s, err := a.Load(ctx)
		if err != nil {
			return err
		}
		err = fn(ctx, s, cmd, args)
		printEvents(s)
		return err
	})
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("crewboard %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.crewboard/config.yaml merged with ./.crewboard/config.yaml)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(workspaceCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(todoCmd)
	rootCmd.AddCommand(pointsCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.SetHelpCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}
