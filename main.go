package main

import (
	"fmt"
	"os"

	"github.com/rocketscienceinc/tictactoe-core/internal/commands"
)

// main - is the entry point of the application. It dispatches to the serve and play commands.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
