package handlers

import (
	"github.com/concave-dev/floodgate/cmd/floodctl/client"
	"github.com/concave-dev/floodgate/cmd/floodctl/config"
	"github.com/concave-dev/floodgate/cmd/floodctl/display"
	"github.com/concave-dev/floodgate/cmd/floodctl/utils"
	"github.com/concave-dev/floodgate/internal/logging"
	"github.com/spf13/cobra"
)

// HandleHealth handles the health command
func HandleHealth(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	logging.Info("Checking health of API server: %s", config.Global.APIAddr)

	health, err := client.CreateAPIClient().GetHealth()
	if err != nil {
		return err
	}

	display.DisplayHealth(*health)
	return nil
}

// HandleStats handles the stats command
func HandleStats(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	logging.Info("Fetching node stats from API server: %s", config.Global.APIAddr)

	stats, err := client.CreateAPIClient().GetStats()
	if err != nil {
		return err
	}

	display.DisplayStats(*stats)
	return nil
}

// HandleMembers handles the members command
func HandleMembers(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	logging.Info("Fetching cluster members from API server: %s", config.Global.APIAddr)

	members, err := client.CreateAPIClient().GetMembers()
	if err != nil {
		return err
	}

	display.DisplayMembers(members)
	logging.Success("Successfully retrieved %d cluster nodes", len(members))
	return nil
}

// HandleReset handles the reset command
func HandleReset(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	if err := client.CreateAPIClient().ResetRecords(); err != nil {
		return err
	}

	logging.Success("Record store of %s reset", config.Global.APIAddr)
	return nil
}
