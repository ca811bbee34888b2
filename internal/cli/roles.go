package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/werewolf-go/internal/api/response"
)

func newRolesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Role catalog commands",
	}

	cmd.AddCommand(newRolesListCmd())
	cmd.AddCommand(newRolesPresetCmd())

	return cmd
}

func newRolesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every role",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.Role

			if err := client.Get("/api/v1/roles", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRolesPresetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preset <players>",
		Short: "Show the default role mix for a player count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Preset

			if err := client.Get("/api/v1/roles/presets/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
