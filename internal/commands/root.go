package commands

import (
	"github.com/spf13/cobra"
)

var configPath string

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "tictactoe",
		Short:        "Hot-seat tic-tac-toe engine and session service",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "./config.yml", "path to config file (empty reads env only)")

	root.AddCommand(serveCmd(), playCmd())
	return root
}
