package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/concave-dev/floodgate/internal/logging"
	"github.com/concave-dev/floodgate/internal/submit"
	"github.com/concave-dev/floodgate/internal/validate"
)

// InitializeConfig applies environment overrides and fills unset defaults.
// An explicit flag always wins over the environment.
func InitializeConfig() {
	if os.Getenv("DEBUG") == "true" {
		Global.LogLevel = "DEBUG"
		logging.Info("DEBUG environment variable detected, setting log level to DEBUG")
	}

	if Global.MaxPorts == 0 {
		Global.MaxPorts = DefaultMaxPorts
	}
	if env := os.Getenv("MAX_PORTS"); env != "" {
		if n, err := strconv.Atoi(env); err == nil {
			Global.MaxPorts = n
			logging.Info("MAX_PORTS environment variable detected, setting max ports to %d", n)
		} else {
			logging.Warn("Invalid MAX_PORTS environment variable '%s', using default: %d", env, Global.MaxPorts)
		}
	}

	if env := os.Getenv("FLOODGATE_CONCURRENCY"); env != "" && !Global.concurrencyExplicitlySet {
		if n, err := strconv.Atoi(env); err == nil {
			Global.Concurrency = n
			logging.Info("FLOODGATE_CONCURRENCY environment variable detected, using %d tokens", n)
		} else {
			logging.Warn("Invalid FLOODGATE_CONCURRENCY environment variable '%s', using %d", env, Global.Concurrency)
		}
	}
}

// ValidateConfig validates and normalizes the daemon configuration before any
// service starts. Addresses are split into host and port, the node name is
// lowercased and the queue mode is parsed.
func ValidateConfig() error {
	if Global.MaxPorts < 1 || Global.MaxPorts > 10000 {
		return fmt.Errorf("max-ports must be between 1 and 10000, got: %d", Global.MaxPorts)
	}

	serfAddr, err := validate.ParseBindAddress(Global.SerfAddr)
	if err != nil {
		logging.Error("Invalid serf address '%s': %v", Global.SerfAddr, err)
		return fmt.Errorf("invalid serf address: %w", err)
	}
	if err := validate.ValidatePortRange(serfAddr.Port); err != nil {
		return fmt.Errorf("daemon requires specific serf port (not 0): %w", err)
	}
	Global.SerfAddr = serfAddr.Host
	Global.SerfPort = serfAddr.Port

	apiAddr, err := validate.ParseBindAddress(Global.APIAddr)
	if err != nil {
		logging.Error("Invalid API address '%s': %v", Global.APIAddr, err)
		return fmt.Errorf("invalid API address: %w", err)
	}
	if Global.apiAddrExplicitlySet {
		if err := validate.ValidatePortRange(apiAddr.Port); err != nil {
			return fmt.Errorf("API address requires specific port (not 0): %w", err)
		}
		Global.APIAddr = apiAddr.Host
	} else {
		// The API follows the gossip interface so peers can reach it
		Global.APIAddr = Global.SerfAddr
	}
	Global.APIPort = apiAddr.Port

	if Global.NodeName != "" {
		original := Global.NodeName
		Global.NodeName = strings.ToLower(Global.NodeName)
		if original != Global.NodeName {
			logging.Warn("Node name '%s' converted to lowercase: '%s'", original, Global.NodeName)
		}
		if err := validate.NodeNameFormat(Global.NodeName); err != nil {
			return fmt.Errorf("invalid node name: %w", err)
		}
	}

	if err := logging.ValidateLogLevel(Global.LogLevel); err != nil {
		return err
	}

	if len(Global.JoinAddrs) > 0 {
		if Global.Standalone {
			return fmt.Errorf("cannot use --standalone and --join together")
		}
		if err := validate.ValidateAddressList(Global.JoinAddrs); err != nil {
			return fmt.Errorf("invalid join addresses: %w", err)
		}
	}
	if Global.StrictJoin && len(Global.JoinAddrs) == 0 {
		return fmt.Errorf("--strict-join requires --join addresses")
	}

	mode, err := submit.ParseQueueMode(Global.Mode)
	if err != nil {
		return fmt.Errorf("invalid queue mode: %w", err)
	}
	Global.QueueMode = mode

	if err := Global.SubmitConfig().Validate(); err != nil {
		return err
	}

	if err := validate.ValidatePositiveTimeout(Global.WriteTimeout, "write timeout"); err != nil {
		return err
	}
	if Global.WriteLatency < 0 {
		return fmt.Errorf("write latency cannot be negative, got %v", Global.WriteLatency)
	}
	if Global.FailEvery < 0 {
		return fmt.Errorf("fail-every cannot be negative, got %d", Global.FailEvery)
	}

	return nil
}
