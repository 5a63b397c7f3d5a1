// Package daemon runs a floodgate storage node from start to graceful shutdown.
//
// STARTUP ORDER:
//  1. Resolve the Serf port: an explicit --serf must be free on UDP and TCP,
//     a default one falls forward to the next free port
//  2. Pre-bind the API listener so the address advertised over gossip is the
//     one that will be served
//  3. Build the record store, the metrics collector and the node submitter
//  4. Start the cluster manager and join peers (skipped with --standalone)
//  5. Serve the HTTP API on the pre-bound listener
//
// Shutdown runs in reverse: API first so running batches can finish, then
// the cluster manager leaves the gossip pool.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/concave-dev/floodgate/cmd/floodgated/config"
	"github.com/concave-dev/floodgate/internal/api"
	"github.com/concave-dev/floodgate/internal/cluster"
	"github.com/concave-dev/floodgate/internal/logging"
	"github.com/concave-dev/floodgate/internal/metrics"
	"github.com/concave-dev/floodgate/internal/names"
	"github.com/concave-dev/floodgate/internal/netutil"
	"github.com/concave-dev/floodgate/internal/store"
	"github.com/concave-dev/floodgate/internal/submit"
	"github.com/concave-dev/floodgate/internal/version"
)

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "floodgate"

// apiShutdownTimeout bounds how long running batches may take to finish
const apiShutdownTimeout = 30 * time.Second

// Run starts every service of the node and blocks until SIGINT or SIGTERM.
func Run() error {
	logging.SetLevel(config.Global.LogLevel)
	logging.Info("Starting floodgate daemon v%s", version.FloodgatedVersion)

	if config.Global.NodeName == "" {
		config.Global.NodeName = names.Generate()
		logging.Info("Generated node name: %s", config.Global.NodeName)
	}
	logging.Info("Node: %s", config.Global.NodeName)

	if !config.Global.Standalone {
		if err := resolveSerfPort(); err != nil {
			return err
		}
	}

	apiListener, err := bindAPI()
	if err != nil {
		return err
	}
	// Serve closes the listener; this covers the early-return paths
	defer apiListener.Close()

	st := store.New(store.Options{
		Latency:   config.Global.WriteLatency,
		FailEvery: config.Global.FailEvery,
	})
	if config.Global.WriteLatency > 0 || config.Global.FailEvery > 0 {
		logging.Warn("Fault injection enabled: latency=%v, fail every %d writes",
			config.Global.WriteLatency, config.Global.FailEvery)
	}

	collector := metrics.NewCollector(MetricsNamespace)
	submitter, err := submit.New(config.Global.SubmitConfig(), submit.WithObserver(collector))
	if err != nil {
		return fmt.Errorf("failed to create submitter: %w", err)
	}
	if err := collector.Register(metrics.NewPoolCollector(MetricsNamespace, submitter.Stats)); err != nil {
		return fmt.Errorf("failed to register pool metrics: %w", err)
	}
	logging.Info("Submitter: %d tokens, mode %s, drain timeout %v",
		config.Global.Concurrency, config.Global.QueueMode, config.Global.DrainTimeout)

	var manager *cluster.Manager
	if !config.Global.Standalone {
		manager, err = startCluster(apiListener)
		if err != nil {
			return err
		}
	} else {
		logging.Info("Standalone mode: cluster membership disabled")
	}

	apiConfig := buildAPIConfig(st, submitter, collector, manager)
	apiServer, err := api.NewServerWithListener(apiConfig, apiListener)
	if err != nil {
		shutdownCluster(manager)
		return fmt.Errorf("failed to create API server: %w", err)
	}
	if err := apiServer.Start(); err != nil {
		shutdownCluster(manager)
		return fmt.Errorf("failed to start API server: %w", err)
	}

	logging.Success("floodgate daemon started successfully")
	logging.Info("HTTP API: http://%s/api/v1", apiServer.Addr())
	if manager != nil {
		logging.Info("Serf: %s:%d", config.Global.SerfAddr, config.Global.SerfPort)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logging.Info("Received signal: %v", sig)
	logging.Info("Initiating graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), apiShutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		logging.Error("Error shutting down API server: %v", err)
	}

	shutdownCluster(manager)

	stats := st.Stats()
	logging.Success("floodgate daemon shutdown completed (%d records stored, %d writes failed)",
		stats.Records, stats.Failures)
	return nil
}

// resolveSerfPort checks an explicit Serf port or finds a free default one.
func resolveSerfPort() error {
	addr, port := config.Global.SerfAddr, config.Global.SerfPort

	if config.Global.IsExplicitlySet(config.SerfField) {
		if err := netutil.CheckSerfPort(addr, port); err != nil {
			var inUse *netutil.AddressInUseError
			if errors.As(err, &inUse) {
				logging.Error("Port %d is already in use - cannot start Serf on %s", port, addr)
			}
			return fmt.Errorf("cannot bind Serf to %s:%d: %w", addr, port, err)
		}
		return nil
	}

	found, err := netutil.FindSerfPort(addr, port, config.Global.MaxPorts)
	if err != nil {
		return fmt.Errorf("failed to find available Serf port: %w", err)
	}
	if found != port {
		logging.Warn("Default port %d was busy, using port %d for Serf", port, found)
		config.Global.SerfPort = found
	}
	return nil
}

// bindAPI reserves the API listener. A busy default port falls forward.
func bindAPI() (net.Listener, error) {
	addr, port := config.Global.APIAddr, config.Global.APIPort

	if config.Global.IsExplicitlySet(config.APIAddrField) {
		listener, err := netutil.BindTCP(addr, port)
		if err != nil {
			return nil, fmt.Errorf("failed to bind API to %s:%d: %w", addr, port, err)
		}
		return listener, nil
	}

	listener, actual, err := netutil.BindTCPWithFallback(addr, port, config.Global.MaxPorts)
	if err != nil {
		return nil, fmt.Errorf("failed to bind API listener: %w", err)
	}
	if actual != port {
		logging.Warn("Default API port %d was busy, using port %d", port, actual)
		config.Global.APIPort = actual
	}
	return listener, nil
}

func startCluster(apiListener net.Listener) (*cluster.Manager, error) {
	port, err := netutil.ListenerPort(apiListener)
	if err != nil {
		return nil, err
	}

	clusterConfig := buildClusterConfig(advertiseAddr(config.Global.APIAddr, port))
	manager, err := cluster.NewManager(clusterConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create cluster manager: %w", err)
	}
	if err := manager.Start(); err != nil {
		return nil, fmt.Errorf("failed to start cluster manager: %w", err)
	}

	if len(config.Global.JoinAddrs) > 0 {
		if err := manager.Join(config.Global.JoinAddrs); err != nil {
			if config.Global.StrictJoin {
				shutdownCluster(manager)
				return nil, fmt.Errorf("strict join failed: %w", err)
			}
			logging.Warn("Failed to join cluster, continuing in isolation: %v", err)
		}
	}

	return manager, nil
}

func shutdownCluster(manager *cluster.Manager) {
	if manager == nil {
		return
	}
	if err := manager.Shutdown(); err != nil {
		logging.Error("Error shutting down cluster manager: %v", err)
	}
}

// buildClusterConfig converts daemon config to cluster manager config
func buildClusterConfig(apiAddr string) *cluster.Config {
	clusterConfig := cluster.DefaultConfig()

	clusterConfig.BindAddr = config.Global.SerfAddr
	clusterConfig.BindPort = config.Global.SerfPort
	clusterConfig.NodeName = config.Global.NodeName
	clusterConfig.APIAddr = apiAddr
	clusterConfig.LogLevel = config.Global.LogLevel
	clusterConfig.Tags["floodgate_version"] = version.FloodgatedVersion
	clusterConfig.Tags["queue_mode"] = config.Global.QueueMode.String()

	return clusterConfig
}

// buildAPIConfig converts daemon config to API config
func buildAPIConfig(st *store.Store, sub *submit.Submitter, collector *metrics.Collector, manager *cluster.Manager) *api.Config {
	apiConfig := api.DefaultConfig()

	apiConfig.BindAddr = config.Global.APIAddr
	apiConfig.BindPort = config.Global.APIPort
	apiConfig.NodeName = config.Global.NodeName
	apiConfig.WriteTimeout = config.Global.WriteTimeout
	apiConfig.Store = st
	apiConfig.Submitter = sub
	apiConfig.Metrics = collector
	if manager != nil {
		apiConfig.Cluster = manager
	}

	return apiConfig
}

// advertiseAddr returns the API address peers should dial. A wildcard bind
// is replaced by the first non-loopback IPv4 address of the host.
func advertiseAddr(host string, port int) string {
	if ip := net.ParseIP(host); ip != nil && ip.IsUnspecified() {
		host = "127.0.0.1"
		if addrs, err := net.InterfaceAddrs(); err == nil {
			for _, a := range addrs {
				if ipNet, ok := a.(*net.IPNet); ok && !ipNet.IP.IsLoopback() && ipNet.IP.To4() != nil {
					host = ipNet.IP.String()
					break
				}
			}
		}
		logging.Debug("API bound to wildcard address, advertising %s", host)
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
