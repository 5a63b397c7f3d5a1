package api

import (
	"fmt"
	"time"

	"github.com/concave-dev/floodgate/internal/cluster"
	"github.com/concave-dev/floodgate/internal/config"
	"github.com/concave-dev/floodgate/internal/metrics"
	"github.com/concave-dev/floodgate/internal/store"
	"github.com/concave-dev/floodgate/internal/submit"
	"github.com/concave-dev/floodgate/internal/validate"
)

// ClusterView is the part of the cluster manager the API needs.
type ClusterView interface {
	Members() []*cluster.Node
	StorageNodes() []*cluster.Node
}

// Config holds the parameters and collaborators of the HTTP API server.
//
// Store and Submitter are required. Cluster is nil on standalone nodes and
// Metrics is nil when metrics are disabled.
type Config struct {
	BindAddr string // HTTP server bind address (e.g., "0.0.0.0")
	BindPort int    // HTTP server bind port
	NodeName string // Reported in record acknowledgements and stats

	// WriteTimeout bounds each record POST of cluster batches.
	WriteTimeout time.Duration

	Store     *store.Store
	Submitter *submit.Submitter
	Cluster   ClusterView
	Metrics   *metrics.Collector
}

// DefaultConfig returns a config bound to loopback. The daemon overrides the
// bind address and supplies the collaborators.
func DefaultConfig() *Config {
	return &Config{
		BindAddr:     "127.0.0.1",
		BindPort:     config.DefaultAPIPort,
		NodeName:     "floodgate",
		WriteTimeout: config.DefaultWriteTimeout,
	}
}

// Validate checks the network settings and that required collaborators are set.
func (c *Config) Validate() error {
	if err := validate.ValidateRequiredString(c.BindAddr, "bind address"); err != nil {
		return err
	}
	if err := validate.ValidatePortRange(c.BindPort); err != nil {
		return fmt.Errorf("bind port validation failed: %w", err)
	}
	if err := validate.ValidatePositiveTimeout(c.WriteTimeout, "write timeout"); err != nil {
		return err
	}
	if c.Store == nil {
		return fmt.Errorf("record store cannot be nil")
	}
	if c.Submitter == nil {
		return fmt.Errorf("submitter cannot be nil")
	}

	return nil
}
