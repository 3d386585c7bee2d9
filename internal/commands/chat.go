package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/balkashynov/crewboard/internal/app"
	"github.com/balkashynov/crewboard/internal/ledger"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Post to the workspace chat, or show recent messages",
	Long: `Post a message to the team chat of the current workspace. Every message earns
a small bonus. With no message (or --history) the latest messages are shown.`,
	Args: cobra.ArbitraryArgs,
	RunE: withSession(func(ctx context.Context, s *app.Session, cmd *cobra.Command, args []string) error {
		history, _ := cmd.Flags().GetBool("history")
		limit, _ := cmd.Flags().GetInt("limit")

		if history || len(args) == 0 {
			msgs, err := s.Chat.History(ctx, limit)
			if err != nil {
				return err
			}
			if len(msgs) == 0 {
				fmt.Println("No messages yet. Say hi with 'crewboard chat \"hello team\"'.")
				return nil
			}
			for _, m := range msgs {
				fmt.Printf("%-16s %s  %s\n", truncate(m.SenderName, 16), humanize.Time(m.CreatedAt), m.Content)
			}
			return nil
		}

		msg, err := s.Chat.Post(ctx, strings.Join(args, " "))
		if err != nil && msg == nil {
			return err
		}
		fmt.Printf("💬 Sent to %s\n", s.Identity.WorkspaceName)
		if err != nil {
			return err
		}
		fmt.Printf("⭐ +%d points\n", ledger.ChatMessagePoints)
		return nil
	}),
}

func init() {
	chatCmd.Flags().Bool("history", false, "Show recent messages")
	chatCmd.Flags().IntP("limit", "l", 20, "Number of messages to show")
}
