package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/blockdrop/internal/api/response"
	"github.com/mcoot/blockdrop/internal/model"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameCommandCmd())
	cmd.AddCommand(newGameTickCmd())
	cmd.AddCommand(newGameNewCmd())
	cmd.AddCommand(newGameAbandonCmd())

	return cmd
}

func gamePath(id string, suffix ...string) string {
	return "/api/v1/games/" + id + strings.Join(suffix, "")
}

func newGameCreateCmd() *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			if cmd.Flags().Changed("seed") {
				req["seed"] = seed
			}

			var result response.Game
			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "Piece randomizer seed (random if unset)")

	return cmd
}

func newGameListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your games",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.GameList
			if err := client.Get("/api/v1/games", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a game's board and stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game
			if err := client.Get(gamePath(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func commandNames() string {
	names := make([]string, len(model.Commands))
	for i, c := range model.Commands {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func newGameCommandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cmd <id> <command>...",
		Short: "Send one or more commands to a game",
		Long: `Send commands to a game in order and show the result of the last one.

Commands: ` + commandNames(),
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			for _, name := range args[1:] {
				if !model.Command(name).Valid() {
					return fmt.Errorf("unknown command %q (want one of: %s)", name, commandNames())
				}
			}

			var result response.CommandResponse
			for _, name := range args[1:] {
				if err := client.Post(gamePath(id, "/commands"), map[string]string{"command": name}, &result); err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGameTickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tick <id> <elapsed-ms>",
		Short: "Advance a game's clock by hand",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("elapsed must be a whole number of milliseconds: %w", err)
			}

			var result response.Game
			if err := client.Post(gamePath(args[0], "/tick"), map[string]int64{"elapsed_ms": ms}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGameNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <id>",
		Short: "Restart a game in place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game
			if err := client.Post(gamePath(args[0], "/new"), nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGameAbandonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abandon <id>",
		Short: "Abandon a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(gamePath(args[0])); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Abandoned game " + args[0])
			return nil
		},
	}
}
