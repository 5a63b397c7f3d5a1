package cluster

import (
	"net"
	"testing"
	"time"

	"github.com/hashicorp/serf/serf"
)

func newTestManager() *Manager {
	return &Manager{
		members: make(map[string]*Node),
		config:  DefaultConfig(),
	}
}

func storageMember(name, id, apiAddr string) serf.Member {
	return serf.Member{
		Name:   name,
		Addr:   net.ParseIP("10.0.0.1"),
		Port:   4200,
		Status: serf.StatusAlive,
		Tags: map[string]string{
			TagNodeID:  id,
			TagRole:    RoleStorage,
			TagAPIAddr: apiAddr,
		},
	}
}

func TestNewManager(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NodeName = "node-a"
	cfg.APIAddr = "127.0.0.1:8008"

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if m.NodeID == "" || m.NodeName != "node-a" {
		t.Errorf("NewManager() NodeID = %q, NodeName = %q", m.NodeID, m.NodeName)
	}
	if m.Uptime() != 0 {
		t.Errorf("Uptime() before Start = %v, want 0", m.Uptime())
	}

	tags := m.buildNodeTags()
	if tags[TagNodeID] != m.NodeID || tags[TagRole] != RoleStorage || tags[TagAPIAddr] != "127.0.0.1:8008" {
		t.Errorf("buildNodeTags() = %v", tags)
	}
}

func TestNewManagerInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty node name", mutate: func(c *Config) { c.NodeName = "" }},
		{name: "bad node name", mutate: func(c *Config) { c.NodeName = "Node A" }},
		{name: "hostname bind", mutate: func(c *Config) { c.BindAddr = "localhost" }},
		{name: "bad api address", mutate: func(c *Config) { c.APIAddr = "nope" }},
		{name: "zero event buffer", mutate: func(c *Config) { c.EventBufferSize = 0 }},
		{name: "zero join retries", mutate: func(c *Config) { c.JoinRetries = 0 }},
		{name: "reserved tag", mutate: func(c *Config) { c.Tags = map[string]string{TagRole: "x"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.NodeName = "node-a"
			tt.mutate(cfg)

			if m, err := NewManager(cfg); err == nil || m != nil {
				t.Errorf("NewManager() = %v, %v; want error", m, err)
			}
		})
	}
}

func TestMemberLifecycle(t *testing.T) {
	m := newTestManager()

	a := storageMember("node-a", "id-a", "10.0.0.1:8008")
	b := storageMember("node-b", "id-b", "10.0.0.2:8008")
	m.handleEvent(serf.MemberEvent{Type: serf.EventMemberJoin, Members: []serf.Member{b, a}})

	members := m.Members()
	if len(members) != 2 || members[0].Name != "node-a" || members[1].Name != "node-b" {
		t.Fatalf("Members() = %v, want node-a, node-b", members)
	}

	m.handleEvent(serf.MemberEvent{Type: serf.EventMemberFailed, Members: []serf.Member{b}})
	storage := m.StorageNodes()
	if len(storage) != 1 || storage[0].APIAddr() != "10.0.0.1:8008" {
		t.Errorf("StorageNodes() after failure = %v", storage)
	}

	m.handleEvent(serf.MemberEvent{Type: serf.EventMemberLeave, Members: []serf.Member{a}})
	if got := len(m.Members()); got != 1 {
		t.Errorf("len(Members()) after leave = %d, want 1", got)
	}
	if got := len(m.StorageNodes()); got != 0 {
		t.Errorf("len(StorageNodes()) = %d, want 0", got)
	}
}

func TestStorageNodesSkipsNonStorage(t *testing.T) {
	m := newTestManager()

	noAPI := storageMember("node-c", "id-c", "")
	client := storageMember("node-d", "id-d", "10.0.0.4:8008")
	client.Tags[TagRole] = "client"
	m.addMember(noAPI)
	m.addMember(client)
	m.addMember(storageMember("node-e", "id-e", "10.0.0.5:8008"))

	storage := m.StorageNodes()
	if len(storage) != 1 || storage[0].Name != "node-e" {
		t.Errorf("StorageNodes() = %v, want only node-e", storage)
	}
}

func TestMembersReturnsCopies(t *testing.T) {
	m := newTestManager()
	m.addMember(storageMember("node-a", "id-a", "10.0.0.1:8008"))

	m.Members()[0].Tags[TagAPIAddr] = "mutated"

	if got := m.Members()[0].APIAddr(); got != "10.0.0.1:8008" {
		t.Errorf("member table mutated through copy: %q", got)
	}
}

func TestMemberIDFallsBackToName(t *testing.T) {
	member := serf.Member{Name: "legacy", Tags: map[string]string{}}
	if got := memberID(member); got != "legacy" {
		t.Errorf("memberID() = %q, want legacy", got)
	}
	node := nodeFromMember(member)
	if time.Since(node.LastSeen) > time.Minute {
		t.Errorf("LastSeen not set: %v", node.LastSeen)
	}
}
