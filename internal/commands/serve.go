package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/balkashynov/crewboard/internal/api"
	"github.com/balkashynov/crewboard/internal/app"
)

var serveCmd = &cobra.Command{
	Use:         "serve",
	Short:       "Serve the board over HTTP for the signed-in user",
	Annotations: map[string]string{logToStderr: "true"},
	Args:        cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app.App, cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = a.Config.Server.Addr
		}

		s, err := a.Load(ctx)
		if err != nil {
			return err
		}

		if a.Config.Log.Level != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}
		srv := api.NewServer(api.Deps{
			Board:   s.Board,
			Ledger:  s.Ledger,
			Chat:    s.Chat,
			Suggest: s.Suggest,
			Events:  s.Events,
			Logger:  a.Logger,
		})

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		a.Logger.Info("serving board", "addr", addr, "workspace", s.Identity.WorkspaceName, "user", s.Identity.UserName)
		if err := srv.Run(ctx, addr); err != nil {
			return err
		}
		a.Logger.Info("server stopped")
		return nil
	}),
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
}
