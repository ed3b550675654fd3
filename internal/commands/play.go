package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-core/internal/config"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	"github.com/rocketscienceinc/tictactoe-core/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-core/transport/terminal"
)

func playCmd() *cobra.Command {
	var playerA, playerB string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a hot-seat game in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			nameA, nameB := entity.DefaultPlayerAName, entity.DefaultPlayerBName
			if _, statErr := os.Stat(configPath); statErr == nil {
				conf, err := config.Load(configPath)
				if err != nil {
					return err
				}
				nameA, nameB = conf.Players.PlayerA, conf.Players.PlayerB
			}

			if playerA != "" {
				nameA = playerA
			}
			if playerB != "" {
				nameB = playerB
			}

			controller := tictactoe.NewGameController(entity.NewGame("local", nameA, nameB))
			console := terminal.New(cmd.InOrStdin(), cmd.OutOrStdout(), controller)

			return console.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&playerA, "player-a", "", "name of the player using X")
	cmd.Flags().StringVar(&playerB, "player-b", "", "name of the player using O")

	return cmd
}
