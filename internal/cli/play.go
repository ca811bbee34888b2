package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/werewolf-go/internal/api/request"
	"github.com/mcoot/werewolf-go/internal/api/response"
)

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "In-match commands",
	}

	cmd.AddCommand(newPlayAdvanceCmd())
	cmd.AddCommand(newPlayActCmd())
	cmd.AddCommand(newPlayVoteCmd())

	return cmd
}

func newPlayAdvanceCmd() *cobra.Command {
	var expect string

	cmd := &cobra.Command{
		Use:   "advance <code>",
		Short: "Move the match to its next phase (host only)",
		Long: `Move the match to its next phase.

With --expect the call does nothing unless the match is still in that phase,
so a late click cannot skip a phase that a timer already ended.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.AdvanceRequest{ExpectedPhase: expect}
			var result response.Match

			if err := client.Post(matchPath(args[0], "advance"), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&expect, "expect", "", "Only advance from this phase (night, day, discussion, voting, results)")

	return cmd
}

func newPlayActCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "act <code> <target-id>",
		Short: "Use your role's night action on a player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.TargetRequest{TargetID: args[1]}
			var result response.Match

			if err := client.Post(matchPath(args[0], "night-action"), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayVoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vote <code> <target-id>",
		Short: "Vote to eliminate a player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.TargetRequest{TargetID: args[1]}
			var result response.Match

			if err := client.Post(matchPath(args[0], "vote"), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
