package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/balkashynov/crewboard/internal/app"
	"github.com/balkashynov/crewboard/internal/ledger"
	"github.com/balkashynov/crewboard/internal/models"
)

// boardExport is a snapshot of the current workspace for backups and reports
type boardExport struct {
	Workspace  string          `json:"workspace" yaml:"workspace"`
	User       string          `json:"user" yaml:"user"`
	ExportedAt time.Time       `json:"exported_at" yaml:"exported_at"`
	Points     ledger.Progress `json:"points" yaml:"points"`
	Counts     map[string]int  `json:"counts" yaml:"counts"`
	Tasks      []models.Task   `json:"tasks" yaml:"tasks"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the workspace board as JSON or YAML",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *app.Session, cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("output")

		tasks, err := s.Board.ListTasks(ctx, s.Identity.WorkspaceID)
		if err != nil {
			return err
		}
		counts, err := s.Store.CountTasksByStatus(ctx, s.Identity.WorkspaceID)
		if err != nil {
			return err
		}

		snapshot := boardExport{
			Workspace:  s.Identity.WorkspaceName,
			User:       s.Identity.UserName,
			ExportedAt: time.Now().UTC(),
			Points:     s.Ledger.Progress(),
			Counts:     make(map[string]int, len(models.Statuses)),
			Tasks:      tasks,
		}
		for _, status := range models.Statuses {
			snapshot.Counts[string(status)] = counts[status]
		}
		if snapshot.Tasks == nil {
			snapshot.Tasks = []models.Task{}
		}

		var out io.Writer = os.Stdout
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outPath, err)
			}
			defer f.Close()
			out = f
		}

		if err := writeExport(out, format, snapshot); err != nil {
			return err
		}
		if outPath != "" {
			fmt.Printf("📦 Exported %d tasks to %s\n", len(tasks), outPath)
		}
		return nil
	}),
}

func writeExport(w io.Writer, format string, snapshot boardExport) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snapshot)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snapshot); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (use json or yaml)", format)
	}
}

func init() {
	exportCmd.Flags().StringP("format", "f", "yaml", "Output format: json, yaml")
	exportCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
}
