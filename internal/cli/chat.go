package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/werewolf-go/internal/api/request"
	"github.com/mcoot/werewolf-go/internal/api/response"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Match chat commands",
	}

	cmd.AddCommand(newChatSayCmd())
	cmd.AddCommand(newChatMessagesCmd())

	return cmd
}

func newChatSayCmd() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "say <code> <message...>",
		Short: "Post a message, or whisper one with --to",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.SendMessageRequest{Content: strings.Join(args[1:], " ")}
			if to != "" {
				req.Type = "whisper"
				req.TargetID = to
			}
			var result response.ChatMessage

			if err := client.Post(matchPath(args[0], "messages"), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Whisper to this player ID")

	return cmd
}

func newChatMessagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "messages <code>",
		Short: "List the messages you can see",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.ChatMessage

			if err := client.Get(matchPath(args[0], "messages"), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
