// Package commands contains Cobra CLI command definitions for floodgated.
package commands

import (
	"github.com/concave-dev/floodgate/cmd/floodgated/config"
	"github.com/spf13/cobra"
)

// SetupFlags configures all command line flags for the daemon
func SetupFlags(cmd *cobra.Command) {
	// Cluster flags
	cmd.Flags().StringVar(&config.Global.SerfAddr, "serf", config.DefaultSerf,
		"Address and port for Serf cluster membership (e.g., 0.0.0.0:4200)")
	cmd.Flags().StringSliceVar(&config.Global.JoinAddrs, "join", nil,
		"Comma-separated list of cluster addresses to join (e.g., node1:4200,node2:4200)\n"+
			"Multiple addresses provide fault tolerance - if first node is down, tries next one")
	cmd.Flags().BoolVar(&config.Global.StrictJoin, "strict-join", false,
		"Exit daemon if cluster join fails (default: continue in isolation)")
	cmd.Flags().BoolVar(&config.Global.Standalone, "standalone", false,
		"Run without cluster membership; only local batches are available")

	// API flags
	cmd.Flags().StringVar(&config.Global.APIAddr, "api", config.DefaultAPI,
		"Address and port for HTTP API server (e.g., "+config.DefaultAPI+")\n"+
			"Inherits the Serf IP unless set explicitly")

	// Submission flags
	cmd.Flags().IntVar(&config.Global.Concurrency, "concurrency", config.DefaultConcurrency,
		"Maximum number of writes in flight for server-side batches (env: FLOODGATE_CONCURRENCY)")
	cmd.Flags().StringVar(&config.Global.Mode, "mode", config.DefaultMode,
		"Admission strategy: block, buffered:<stage size> or failfast:<queue size>")
	cmd.Flags().DurationVar(&config.Global.DrainTimeout, "drain-timeout", config.DefaultDrainTimeout,
		"How long a cancelled batch waits for in-flight writes (0 waits for all)")
	cmd.Flags().DurationVar(&config.Global.WriteTimeout, "write-timeout", config.DefaultWriteTimeout,
		"Timeout of a single record write to another node")

	// Fault injection flags
	cmd.Flags().DurationVar(&config.Global.WriteLatency, "write-latency", 0,
		"Artificial latency added to every local record write")
	cmd.Flags().IntVar(&config.Global.FailEvery, "fail-every", 0,
		"Fail every Nth local record write (0 disables)")

	// Operational flags
	cmd.Flags().StringVar(&config.Global.NodeName, "name", "",
		"Node name (defaults to generated name like 'swift-delta')")
	cmd.Flags().StringVar(&config.Global.LogLevel, "log-level", config.DefaultLogLevel,
		"Log level: DEBUG, INFO, WARN, ERROR")
	cmd.Flags().StringVar(&config.Global.LogFile, "log-file", "",
		"Append logs to this file instead of stderr")
}

// CheckExplicitFlags checks if flags were explicitly set by the user
func CheckExplicitFlags(cmd *cobra.Command) {
	config.Global.SetExplicitlySet(config.SerfField, cmd.Flags().Changed("serf"))
	config.Global.SetExplicitlySet(config.APIAddrField, cmd.Flags().Changed("api"))
	config.Global.SetExplicitlySet(config.LogFileField, cmd.Flags().Changed("log-file"))
	config.Global.SetExplicitlySet(config.ConcurrencyField, cmd.Flags().Changed("concurrency"))
}
