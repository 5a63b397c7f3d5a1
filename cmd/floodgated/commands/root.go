package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/concave-dev/floodgate/cmd/floodgated/config"
	"github.com/concave-dev/floodgate/cmd/floodgated/daemon"
	"github.com/concave-dev/floodgate/cmd/floodgated/utils"
	"github.com/concave-dev/floodgate/internal/logging"
	"github.com/concave-dev/floodgate/internal/version"
	"github.com/spf13/cobra"
)

// Global variable to track log file handle for cleanup
var logFileHandle *os.File

// CleanupLogFile closes the log file handle if it exists
func CleanupLogFile() {
	if logFileHandle != nil {
		if err := logFileHandle.Close(); err != nil {
			// The logger may point at the file being closed
			fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
		}
		logFileHandle = nil
	}
}

// RootCmd is the floodgate daemon
var RootCmd = &cobra.Command{
	Use:   "floodgated",
	Short: "Storage node daemon with bounded concurrent batch submission",
	Long: `floodgated runs a floodgate storage node.

Each node accepts records over HTTP, discovers its peers through gossip and
runs server-side batches that keep at most --concurrency writes in flight.
When writes back up, the --mode strategy decides whether producers block,
wait in a bounded stage or are rejected.`,
	Version:      version.FloodgatedVersion,
	SilenceUsage: true,
	Example: `  # Start a first node
  floodgated

  # Start a second node and join the first
  floodgated --serf=0.0.0.0:4201 --api=0.0.0.0:8009 --join=127.0.0.1:4200

  # Single node that sheds load once 256 writes are queued
  floodgated --standalone --concurrency=32 --mode=failfast:256

  # Simulate a slow, flaky disk
  floodgated --write-latency=20ms --fail-every=50`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.DisplayLogo(version.FloodgatedVersion)
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		CheckExplicitFlags(cmd)

		if config.Global.IsExplicitlySet(config.LogFileField) && config.Global.LogFile != "" {
			logDir := filepath.Dir(config.Global.LogFile)
			if err := os.MkdirAll(logDir, 0755); err != nil {
				return fmt.Errorf("failed to create log directory %s: %w", logDir, err)
			}

			var err error
			logFileHandle, err = os.OpenFile(config.Global.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("failed to open log file %s: %w", config.Global.LogFile, err)
			}
			logging.SetOutput(logFileHandle)
		}

		// Set the level before config initialization logs anything, then again
		// for a DEBUG environment override
		logging.SetLevel(config.Global.LogLevel)
		config.InitializeConfig()
		logging.SetLevel(config.Global.LogLevel)

		if err := config.ValidateConfig(); err != nil {
			CleanupLogFile()
			return err
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer CleanupLogFile()
		return daemon.Run()
	},
}

// SetupCommands initializes all commands and their relationships
func SetupCommands() {
	SetupFlags(RootCmd)
}
