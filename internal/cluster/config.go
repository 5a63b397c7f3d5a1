package cluster

import (
	"fmt"
	"time"

	"github.com/concave-dev/floodgate/internal/config"
	"github.com/concave-dev/floodgate/internal/validate"
)

// Tags set by the manager itself. Operators cannot override them.
const (
	TagNodeID  = "node_id"
	TagAPIAddr = "api_addr"
	TagRole    = "role"

	// RoleStorage marks nodes that accept record writes.
	RoleStorage = "storage"
)

// Config configures a Manager.
type Config struct {
	BindAddr string            // Gossip bind address
	BindPort int               // Gossip bind port
	NodeName string            // Serf node name, unique in the cluster
	APIAddr  string            // Advertised "ip:port" of the node's HTTP API
	Role     string            // Advertised role, RoleStorage by default
	Tags     map[string]string // Extra tags

	EventBufferSize int           // Buffered serf events
	JoinRetries     int           // Attempts per Join call
	JoinTimeout     time.Duration // Timeout of one join attempt
	LogLevel        string        // Level below which serf output is discarded

	// DeadNodeReclaimTime lets a failed node rejoin under the same name
	DeadNodeReclaimTime time.Duration
}

// DefaultConfig returns a configuration listening on the default gossip port.
// NodeName and APIAddr must still be set.
func DefaultConfig() *Config {
	return &Config{
		BindAddr:            config.DefaultBindAddr,
		BindPort:            config.DefaultSerfPort,
		Role:                RoleStorage,
		EventBufferSize:     1024,
		JoinRetries:         3,
		JoinTimeout:         30 * time.Second,
		LogLevel:            config.DefaultLogLevel,
		DeadNodeReclaimTime: 10 * time.Minute,
		Tags:                make(map[string]string),
	}
}

func validateConfig(cfg *Config) error {
	if err := validate.NodeNameFormat(cfg.NodeName); err != nil {
		return err
	}

	if err := validate.ValidateField(cfg.BindAddr, "required,ip"); err != nil {
		return fmt.Errorf("invalid bind address: %w", err)
	}

	if err := validate.ValidateField(cfg.BindPort, "min=0,max=65535"); err != nil {
		return fmt.Errorf("invalid bind port: %w", err)
	}

	if cfg.APIAddr != "" {
		if _, err := validate.ParseBindAddress(cfg.APIAddr); err != nil {
			return fmt.Errorf("invalid API address: %w", err)
		}
	}

	if cfg.EventBufferSize < 1 {
		return fmt.Errorf("event buffer size must be positive, got: %d", cfg.EventBufferSize)
	}

	if cfg.JoinRetries < 1 {
		return fmt.Errorf("join retries must be positive, got: %d", cfg.JoinRetries)
	}

	for name := range cfg.Tags {
		switch name {
		case TagNodeID, TagAPIAddr, TagRole:
			return fmt.Errorf("tag name '%s' is reserved and cannot be used", name)
		}
	}

	return nil
}
