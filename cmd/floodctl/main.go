// Package main provides the entry point for the floodgate CLI tool (floodctl).
//
// floodctl drives load against floodgated storage nodes, either by submitting
// records itself through a bounded submitter (write) or by asking a node to
// run a batch (batch), and inspects and resets nodes (stats, health, members, reset).
package main

import (
	"os"

	"github.com/concave-dev/floodgate/cmd/floodctl/commands"
	"github.com/concave-dev/floodgate/cmd/floodctl/config"
	"github.com/concave-dev/floodgate/cmd/floodctl/handlers"
)

func init() {
	rootCmd := commands.RootCmd

	rootCmd.Version = config.Version
	rootCmd.PersistentPreRunE = config.ValidateGlobalFlags

	commands.SetupCommands()

	commands.SetupGlobalFlags(rootCmd, &config.Global.APIAddr, &config.Global.LogLevel,
		&config.Global.Timeout, &config.Global.Verbose, &config.Global.Output, config.DefaultAPIAddr)

	commands.SetupWriteFlags(&config.Write.Count, &config.Write.PayloadSize, &config.Write.StartID,
		&config.Write.Concurrency, &config.Write.Mode, &config.Write.Retries, &config.Write.WriteTimeout,
		&config.Write.Rate, &config.Write.Burst, &config.Write.DrainTimeout)

	commands.SetupBatchFlags(&config.Batch.Count, &config.Batch.PayloadSize, &config.Batch.StartID,
		&config.Batch.Concurrency, &config.Batch.Mode, &config.Batch.Target, &config.Batch.Retries,
		&config.Batch.Timeout)

	setupCommandHandlers()
}

// setupCommandHandlers assigns RunE functions to commands
func setupCommandHandlers() {
	statsCmd, healthCmd, membersCmd, resetCmd := commands.GetNodeCommands()

	commands.GetWriteCommand().RunE = handlers.HandleWrite
	commands.GetBatchCommand().RunE = handlers.HandleBatch
	statsCmd.RunE = handlers.HandleStats
	healthCmd.RunE = handlers.HandleHealth
	membersCmd.RunE = handlers.HandleMembers
	resetCmd.RunE = handlers.HandleReset
}

// main is the main entry point
func main() {
	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
