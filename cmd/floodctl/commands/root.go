// Package commands provides the command tree of floodctl.
//
// COMMAND STRUCTURE:
//   - write: submit generated records from the CLI through a local submitter
//   - batch: have the node generate and submit a batch server-side
//   - stats, health, members: inspect the node behind --api
//   - reset: clear the node's record store between runs
package commands

import (
	"github.com/spf13/cobra"
)

// Root command
var RootCmd = &cobra.Command{
	Use:   "floodctl",
	Short: "CLI tool for driving load against floodgate storage nodes",
	Long: `Floodgate CLI (floodctl) submits batches of records to floodgated
storage nodes with a bounded number of writes in flight, and inspects
node stats and cluster membership.`,
	SilenceUsage: true,
	Example: `  # Write 10k records from the CLI with 32 writes in flight
  floodctl write --count=10000 --concurrency=32

  # Reject writes instead of waiting when the queue is full
  floodctl write --count=10000 --mode=failfast:64

  # Let the node spread a batch over every storage node
  floodctl batch --count=100000 --target=cluster

  # Show node stats and cluster members
  floodctl stats
  floodctl members

  # Connect to a remote node and print JSON
  floodctl --api=192.168.1.100:8008 -o json stats`,
}

// SetupCommands initializes all commands and their relationships
func SetupCommands() {
	RootCmd.AddCommand(writeCmd)
	RootCmd.AddCommand(batchCmd)
	RootCmd.AddCommand(statsCmd)
	RootCmd.AddCommand(healthCmd)
	RootCmd.AddCommand(membersCmd)
	RootCmd.AddCommand(resetCmd)
}

// SetupGlobalFlags configures all global persistent flags
func SetupGlobalFlags(rootCmd *cobra.Command, apiAddrPtr *string, logLevelPtr *string,
	timeoutPtr *int, verbosePtr *bool, outputPtr *string, defaultAPIAddr string) {
	rootCmd.PersistentFlags().StringVar(apiAddrPtr, "api", defaultAPIAddr,
		"API server address of a floodgated node")
	rootCmd.PersistentFlags().StringVar(logLevelPtr, "log-level", "ERROR",
		"Log level: DEBUG, INFO, WARN, ERROR")
	rootCmd.PersistentFlags().IntVar(timeoutPtr, "timeout", 8,
		"Timeout in seconds for health, stats and members requests")
	rootCmd.PersistentFlags().BoolVarP(verbosePtr, "verbose", "v", false,
		"Show verbose output")
	rootCmd.PersistentFlags().StringVarP(outputPtr, "output", "o", "table",
		"Output format: table, json")
}
