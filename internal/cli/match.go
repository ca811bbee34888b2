package cli

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/werewolf-go/internal/api/request"
	"github.com/mcoot/werewolf-go/internal/api/response"
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match setup commands",
	}

	cmd.AddCommand(newMatchCreateCmd())
	cmd.AddCommand(newMatchGetCmd())
	cmd.AddCommand(newMatchJoinCmd())
	cmd.AddCommand(newMatchLeaveCmd())
	cmd.AddCommand(newMatchReadyCmd())
	cmd.AddCommand(newMatchStartCmd())
	cmd.AddCommand(newMatchDeleteCmd())
	cmd.AddCommand(newMatchHeartbeatCmd())
	cmd.AddCommand(newMatchBotCmd())

	return cmd
}

// parseRoleCounts parses "werewolf=2,seer=1,villager=3"
func parseRoleCounts(s string) (map[string]int, error) {
	counts := make(map[string]int)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, n, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("role %q must be written as role=count", part)
		}
		count, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil || count < 0 {
			return nil, fmt.Errorf("role %q has an invalid count", part)
		}
		counts[strings.ToLower(strings.TrimSpace(id))] = count
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("no roles given")
	}
	return counts, nil
}

func newMatchCreateCmd() *cobra.Command {
	var (
		players    int
		night      int
		day        int
		discussion int
		voting     int
		roles      string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new match and become its host",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.CreateMatchRequest{
				TotalPlayers:       players,
				NightDuration:      night,
				DayDuration:        day,
				DiscussionDuration: discussion,
				VotingDuration:     voting,
			}
			if roles != "" {
				counts, err := parseRoleCounts(roles)
				if err != nil {
					return err
				}
				req.CustomRoles = counts
			}

			var result response.Match

			if err := client.Post("/api/v1/matches", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&players, "players", 0, "Total players (default: server default)")
	cmd.Flags().IntVar(&night, "night", 0, "Night duration in seconds")
	cmd.Flags().IntVar(&day, "day", 0, "Day duration in seconds")
	cmd.Flags().IntVar(&discussion, "discussion", 0, "Discussion duration in seconds")
	cmd.Flags().IntVar(&voting, "voting", 0, "Voting duration in seconds")
	cmd.Flags().StringVar(&roles, "roles", "", "Custom role counts, e.g. werewolf=1,seer=1,villager=3 (default: preset)")

	return cmd
}

func newMatchGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Get match details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Match

			if err := client.Get(matchPath(args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <code>",
		Short: "Join a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Match

			if err := client.Post(matchPath(args[0], "join"), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <code>",
		Short: "Leave a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			if err := client.Post(matchPath(code, "leave"), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Left match %s", code))
			return nil
		},
	}
}

func newMatchReadyCmd() *cobra.Command {
	var notReady bool

	cmd := &cobra.Command{
		Use:   "ready <code>",
		Short: "Mark yourself ready (or not, with --not)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.ReadyRequest{Ready: !notReady}
			var result response.Match

			if err := client.Post(matchPath(args[0], "ready"), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&notReady, "not", false, "Mark yourself not ready")

	return cmd
}

func newMatchStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <code>",
		Short: "Deal roles and start the first night (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Match

			if err := client.Post(matchPath(args[0], "start"), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <code>",
		Short: "Delete a match (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			if err := client.Delete(matchPath(code)); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Deleted match %s", code))
			return nil
		},
	}
}

func newMatchHeartbeatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "heartbeat <code>",
		Short: "Tell the match you are still here",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post(matchPath(args[0], "heartbeat"), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("ok")
			return nil
		},
	}
}

func newMatchBotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Seat or remove bot players (host only)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <code>",
		Short: "Seat a bot player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Match

			if err := client.Post(matchPath(args[0], "bots"), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <code> <bot-id>",
		Short: "Remove a bot player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Match

			if err := client.Do(http.MethodDelete, matchPath(args[0], "bots", args[1]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	})

	return cmd
}
