// Package utils provides utility functions for the floodctl CLI.
package utils

import (
	"os"

	"github.com/concave-dev/floodgate/cmd/floodctl/config"
	"github.com/concave-dev/floodgate/internal/logging"
)

// SetupLogging configures CLI logging. DEBUG=true shows everything; otherwise
// the --log-level flag applies and the default ERROR level keeps command
// output free of log lines.
func SetupLogging() {
	if os.Getenv("DEBUG") == "true" {
		logging.RestoreOutput()
		logging.SetLevel("DEBUG")
		return
	}

	if config.Global.LogLevel == "ERROR" {
		logging.SuppressOutput()
		return
	}
	logging.SetLevel(config.Global.LogLevel)
}
