package commands

import (
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show submitter, token pool and store counters of a node",
	Example: `  floodctl stats
  floodctl -v stats
  floodctl -o json stats`,
	Args: cobra.NoArgs,
	// RunE will be set by the main package that imports this
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that a node is up",
	Args:  cobra.NoArgs,
}

var membersCmd = &cobra.Command{
	Use:     "members",
	Aliases: []string{"ls"},
	Short:   "List cluster members known to a node",
	Long: `List the cluster members known to the node behind --api.

Standalone nodes report an empty list.`,
	Example: `  floodctl members
  floodctl -v members`,
	Args: cobra.NoArgs,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop every record stored on a node and zero its store counters",
	Args:  cobra.NoArgs,
}

// GetNodeCommands returns the node commands for handler assignment
func GetNodeCommands() (*cobra.Command, *cobra.Command, *cobra.Command, *cobra.Command) {
	return statsCmd, healthCmd, membersCmd, resetCmd
}
