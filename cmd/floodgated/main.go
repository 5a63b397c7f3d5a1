// Package main implements the floodgate storage node daemon (floodgated).
package main

import (
	"os"

	"github.com/concave-dev/floodgate/cmd/floodgated/commands"
)

func main() {
	commands.SetupCommands()

	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
