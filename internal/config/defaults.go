// Package config holds the default values shared by the floodgate daemon,
// the floodctl CLI and the internal packages.
package config

import "time"

const (
	// DefaultBindAddr binds every network service on all interfaces
	DefaultBindAddr = "0.0.0.0"

	// DefaultAPIPort is the HTTP API port of floodgated
	DefaultAPIPort = 8008

	// DefaultSerfPort is the gossip port used for storage node discovery
	DefaultSerfPort = 4200

	// DefaultLogLevel applies to both binaries
	DefaultLogLevel = "INFO"

	// DefaultQueueMode is the admission strategy of server-side batches
	DefaultQueueMode = "block"

	// DefaultConcurrency is the number of admission tokens of a node
	DefaultConcurrency = 16

	// DefaultWriteTimeout bounds a single write issued by floodctl
	DefaultWriteTimeout = 10 * time.Second

	// DefaultDrainTimeout bounds how long a cancelled batch waits for writes
	DefaultDrainTimeout = 5 * time.Second
)
