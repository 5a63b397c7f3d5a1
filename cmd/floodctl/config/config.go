// Package config provides configuration management for the floodctl CLI.
package config

import (
	"time"

	"github.com/concave-dev/floodgate/internal/version"
)

const (
	DefaultAPIAddr = "127.0.0.1:8008" // Default API server address (routable)

	OutputTable = "table"
	OutputJSON  = "json"
)

// Version returns the current floodctl CLI version from the centralized version package
var Version = version.FloodctlVersion

// Global holds the global CLI configuration
var Global struct {
	APIAddr  string // Address of floodgated API server to connect to
	LogLevel string // Log level for CLI operations
	Timeout  int    // Request timeout in seconds for control requests
	Verbose  bool   // Show verbose output
	Output   string // Output format: table, json
}

// Write holds the write command configuration. Records are generated and
// submitted from the CLI process, one POST per record.
var Write struct {
	Count        int
	PayloadSize  int
	StartID      uint64
	Concurrency  int
	Mode         string
	Retries      uint
	WriteTimeout time.Duration
	Rate         float64 // Writes per second, 0 disables limiting
	Burst        int
	DrainTimeout time.Duration
}

// BatchFlags are the batch command options. The batch itself runs on the node.
type BatchFlags struct {
	Count       int
	PayloadSize int
	StartID     uint64
	Concurrency int    // 0 keeps the node's limit
	Mode        string // Empty keeps the node's mode
	Target      string // local or cluster
	Retries     uint
	Timeout     time.Duration // Per-write timeout applied by the node
}

// Batch holds the batch command configuration
var Batch BatchFlags
