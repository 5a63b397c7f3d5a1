// Package cluster tracks the storage nodes of a floodgate cluster through
// Serf gossip.
//
// Every floodgated node runs a Manager. The manager advertises the node's
// HTTP API address and role as serf tags and maintains a member table from
// serf member events. Cluster-wide batches use StorageNodes to spread writes
// over every alive node that accepts records.
//
// MEMBER LIFECYCLE:
//   - join/update: the member is (re)inserted with its current tags
//   - failed: the member stays in the table with status failed
//   - leave/reap: the member is removed
package cluster

import (
	"context"
	"fmt"
	"io"
	"net"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/concave-dev/floodgate/internal/logging"
	"github.com/google/uuid"
	"github.com/hashicorp/serf/serf"
)

// Node is one member of the cluster.
type Node struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Addr     net.IP            `json:"addr"`
	Port     uint16            `json:"port"`
	Status   serf.MemberStatus `json:"status"`
	Tags     map[string]string `json:"tags"`
	LastSeen time.Time         `json:"lastSeen"`
}

// APIAddr returns the advertised HTTP API address, or "" if none.
func (n *Node) APIAddr() string {
	return n.Tags[TagAPIAddr]
}

// IsStorage reports whether the node accepts record writes.
func (n *Node) IsStorage() bool {
	return n.Tags[TagRole] == RoleStorage && n.APIAddr() != ""
}

// Manager owns the serf agent of a node.
type Manager struct {
	serf      *serf.Serf
	NodeID    string
	NodeName  string
	startTime time.Time

	eventQueue chan serf.Event
	logWriter  *logging.ColorfulSerfWriter

	memberLock sync.RWMutex
	members    map[string]*Node

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	config *Config
}

// NewManager validates cfg and prepares a manager. Start brings up serf.
func NewManager(cfg *Config) (*Manager, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		NodeID:     uuid.NewString(),
		NodeName:   cfg.NodeName,
		eventQueue: make(chan serf.Event, cfg.EventBufferSize),
		members:    make(map[string]*Node),
		ctx:        ctx,
		cancel:     cancel,
		config:     cfg,
	}, nil
}

// Start creates the serf agent and begins processing member events.
func (m *Manager) Start() error {
	m.startTime = time.Now()
	logging.Info("Starting cluster manager for node %s (%s)", m.NodeName, logging.FormatID(m.NodeID))

	serfConfig := serf.DefaultConfig()

	// Serf and memberlist are chatty; below ERROR their output is routed
	// through our logger, at ERROR it is dropped.
	if m.config.LogLevel == "ERROR" {
		serfConfig.LogOutput = io.Discard
		serfConfig.MemberlistConfig.LogOutput = io.Discard
	} else {
		m.logWriter = logging.NewColorfulSerfWriter()
		serfConfig.LogOutput = m.logWriter
		serfConfig.MemberlistConfig.LogOutput = m.logWriter
	}

	serfConfig.Init()
	serfConfig.NodeName = m.NodeName
	serfConfig.MemberlistConfig.BindAddr = m.config.BindAddr
	serfConfig.MemberlistConfig.BindPort = m.config.BindPort
	serfConfig.MemberlistConfig.DeadNodeReclaimTime = m.config.DeadNodeReclaimTime
	serfConfig.EventCh = m.eventQueue
	serfConfig.Tags = m.buildNodeTags()

	var err error
	m.serf, err = serf.Create(serfConfig)
	if err != nil {
		return fmt.Errorf("failed to create serf instance: %w", err)
	}

	m.wg.Add(1)
	go m.processEvents()

	m.addMember(m.serf.LocalMember())

	logging.Success("Cluster manager started on %s:%d", m.config.BindAddr, m.config.BindPort)
	return nil
}

// Join contacts the given "ip:port" gossip addresses. Each attempt is bounded
// by JoinTimeout and failed attempts back off linearly.
func (m *Manager) Join(addresses []string) error {
	if len(addresses) == 0 {
		return fmt.Errorf("no join addresses provided")
	}

	logging.Info("Attempting to join cluster via %v", addresses)

	type joinResult struct {
		n   int
		err error
	}

	var lastErr error
	for attempt := 1; attempt <= m.config.JoinRetries; attempt++ {
		done := make(chan joinResult, 1)
		go func() {
			n, err := m.serf.Join(addresses, false)
			done <- joinResult{n, err}
		}()

		timer := time.NewTimer(m.config.JoinTimeout)
		select {
		case res := <-done:
			timer.Stop()
			if res.err == nil {
				logging.Success("Joined cluster, contacted %d nodes", res.n)
				return nil
			}
			lastErr = res.err
			logging.Warn("Join attempt %d/%d failed: %v", attempt, m.config.JoinRetries, res.err)

		case <-timer.C:
			lastErr = fmt.Errorf("join attempt timed out after %v", m.config.JoinTimeout)
			logging.Warn("Join attempt %d/%d timed out after %v", attempt, m.config.JoinRetries, m.config.JoinTimeout)
		}

		if attempt < m.config.JoinRetries {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}

	return fmt.Errorf("failed to join cluster after %d attempts: %w", m.config.JoinRetries, lastErr)
}

// Shutdown leaves the cluster and stops serf.
func (m *Manager) Shutdown() error {
	logging.Info("Shutting down cluster manager")

	m.cancel()

	if m.serf != nil {
		if err := m.serf.Leave(); err != nil {
			logging.Warn("Error during graceful leave: %v", err)
		}
		if err := m.serf.Shutdown(); err != nil {
			logging.Error("Error shutting down serf: %v", err)
		}
	}

	m.wg.Wait()

	if m.logWriter != nil {
		_ = m.logWriter.Close()
	}

	logging.Success("Cluster manager shutdown completed")
	return nil
}

// Members returns a copy of the member table ordered by name.
func (m *Manager) Members() []*Node {
	m.memberLock.RLock()
	defer m.memberLock.RUnlock()

	nodes := make([]*Node, 0, len(m.members))
	for _, node := range m.members {
		nodes = append(nodes, copyNode(node))
	}

	slices.SortFunc(nodes, func(a, b *Node) int {
		return strings.Compare(a.Name, b.Name)
	})
	return nodes
}

// StorageNodes returns the alive members that accept record writes, ordered
// by name.
func (m *Manager) StorageNodes() []*Node {
	var nodes []*Node
	for _, node := range m.Members() {
		if node.Status == serf.StatusAlive && node.IsStorage() {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// Uptime returns how long the manager has been running.
func (m *Manager) Uptime() time.Duration {
	if m.startTime.IsZero() {
		return 0
	}
	return time.Since(m.startTime)
}

func (m *Manager) buildNodeTags() map[string]string {
	tags := make(map[string]string, len(m.config.Tags)+3)
	for k, v := range m.config.Tags {
		tags[k] = v
	}

	tags[TagNodeID] = m.NodeID
	tags[TagRole] = m.config.Role
	if m.config.APIAddr != "" {
		tags[TagAPIAddr] = m.config.APIAddr
	}

	return tags
}

func copyNode(node *Node) *Node {
	nodeCopy := *node
	nodeCopy.Tags = make(map[string]string, len(node.Tags))
	for k, v := range node.Tags {
		nodeCopy.Tags[k] = v
	}
	return &nodeCopy
}
