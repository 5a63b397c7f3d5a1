// Package config provides configuration management for the floodgate daemon.
//
// The daemon runs two network services:
//
//   - Serf: gossip membership used to discover storage nodes (UDP+TCP)
//   - HTTP API: record ingestion, server-side batches, stats and metrics
//
// The API inherits the Serf IP unless --api is given. The config tracks which
// values were set explicitly so defaults can move out of the way (a busy
// default port falls back to the next free one, an explicit one fails).
package config

import (
	"time"

	configDefaults "github.com/concave-dev/floodgate/internal/config"
	"github.com/concave-dev/floodgate/internal/submit"
)

// ConfigField represents a configuration field that can be explicitly set
type ConfigField int

const (
	SerfField ConfigField = iota
	APIAddrField
	LogFileField
	ConcurrencyField
)

const (
	DefaultSerf         = configDefaults.DefaultBindAddr + ":4200"
	DefaultAPI          = configDefaults.DefaultBindAddr + ":8008"
	DefaultLogLevel     = configDefaults.DefaultLogLevel
	DefaultConcurrency  = configDefaults.DefaultConcurrency
	DefaultMode         = configDefaults.DefaultQueueMode
	DefaultDrainTimeout = configDefaults.DefaultDrainTimeout
	DefaultWriteTimeout = configDefaults.DefaultWriteTimeout
	DefaultMaxPorts     = 100
)

// Config holds all daemon configuration values
type Config struct {
	SerfAddr   string   // Network address for Serf cluster membership
	SerfPort   int      // Network port for Serf cluster membership
	APIAddr    string   // HTTP API server address (inherits Serf IP by default)
	APIPort    int      // HTTP API server port (derived from APIAddr)
	NodeName   string   // Name of this node
	JoinAddrs  []string // List of cluster addresses to join
	StrictJoin bool     // Exit if cluster join fails (default: continue in isolation)
	Standalone bool     // Run without Serf; cluster batches are refused
	LogLevel   string   // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string   // Append logs to this file instead of stderr
	MaxPorts   int      // Ports tried when a default port is busy

	// Submission
	Concurrency  int              // Admission tokens of the node submitter
	Mode         string           // Queue mode flag value
	QueueMode    submit.QueueMode // Parsed Mode
	DrainTimeout time.Duration    // Wait for in-flight writes of cancelled batches
	WriteTimeout time.Duration    // Per-record timeout of cluster batch writes

	// Fault injection for the local record store
	WriteLatency time.Duration
	FailEvery    int

	serfExplicitlySet        bool
	apiAddrExplicitlySet     bool
	logFileExplicitlySet     bool
	concurrencyExplicitlySet bool
}

// Global configuration instance
var Global Config

// SetExplicitlySet marks a configuration field as explicitly set by the user.
func (c *Config) SetExplicitlySet(field ConfigField, value bool) {
	switch field {
	case SerfField:
		c.serfExplicitlySet = value
	case APIAddrField:
		c.apiAddrExplicitlySet = value
	case LogFileField:
		c.logFileExplicitlySet = value
	case ConcurrencyField:
		c.concurrencyExplicitlySet = value
	}
}

// IsExplicitlySet returns whether a configuration field was explicitly set by the user.
func (c *Config) IsExplicitlySet(field ConfigField) bool {
	switch field {
	case SerfField:
		return c.serfExplicitlySet
	case APIAddrField:
		return c.apiAddrExplicitlySet
	case LogFileField:
		return c.logFileExplicitlySet
	case ConcurrencyField:
		return c.concurrencyExplicitlySet
	}
	return false
}

// SubmitConfig returns the node submitter configuration.
func (c *Config) SubmitConfig() submit.Config {
	return submit.Config{
		ConcurrencyLimit: c.Concurrency,
		Mode:             c.QueueMode,
		DrainTimeout:     c.DrainTimeout,
	}
}
