package api

import (
	"net"
	"testing"
	"time"

	"github.com/concave-dev/floodgate/internal/backend"
	"github.com/concave-dev/floodgate/internal/cluster"
	"github.com/concave-dev/floodgate/internal/store"
	"github.com/concave-dev/floodgate/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewServer_InvalidConfig tests that NewServer validates its config
func TestNewServer_InvalidConfig(t *testing.T) {
	if _, err := NewServer(DefaultConfig()); err == nil {
		t.Error("NewServer() without store should fail")
	}
}

// TestNewServerWithListener tests that the listener address replaces the bind address
func TestNewServerWithListener(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	server, err := NewServerWithListener(testConfig(t, store.New(store.Options{})), listener)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", server.config.BindAddr)
	assert.Equal(t, listener.Addr().(*net.TCPAddr).Port, server.config.BindPort)
	assert.Equal(t, listener.Addr().String(), server.Addr())
}

func TestServerServesRecordsAndStats(t *testing.T) {
	st := store.New(store.Options{})
	server := startTestServer(t, testConfig(t, st))

	client := backend.NewHTTPClient(backend.APIBaseURL(server.Addr()), time.Second, "test")

	var health wire.Health
	resp, err := client.R().SetResult(&health).Get("/health")
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode())
	assert.Equal(t, "healthy", health.Status)

	writer := backend.NewNodeWriter(client, server.Addr())
	for _, req := range requestsN(5) {
		require.NoError(t, writer.Write(t.Context(), req))
	}
	assert.Equal(t, 5, st.Len())

	var stats wire.Envelope[wire.NodeStats]
	_, err = client.R().SetResult(&stats).Get("/stats")
	require.NoError(t, err)
	assert.Equal(t, "node-test", stats.Data.Node)
	assert.Equal(t, "block", stats.Data.Mode)
	assert.Equal(t, 4, stats.Data.Pool.Capacity)
	assert.Equal(t, 5, stats.Data.Store.Records)
}

// TestClusterBatch runs a batch on one node that writes across two others.
func TestClusterBatch(t *testing.T) {
	stA, stB := store.New(store.Options{}), store.New(store.Options{})
	nodeA := startTestServer(t, testConfig(t, stA))
	nodeB := startTestServer(t, testConfig(t, stB))

	coordCfg := testConfig(t, store.New(store.Options{}))
	coordCfg.Cluster = staticCluster{
		{Name: "a", Tags: map[string]string{cluster.TagAPIAddr: nodeA.Addr(), cluster.TagRole: cluster.RoleStorage}},
		{Name: "b", Tags: map[string]string{cluster.TagAPIAddr: nodeB.Addr(), cluster.TagRole: cluster.RoleStorage}},
	}
	coord := startTestServer(t, coordCfg)

	client := backend.NewHTTPClient(backend.APIBaseURL(coord.Addr()), 10*time.Second, "test")

	var result wire.Envelope[wire.BatchResult]
	resp, err := client.R().
		SetBody(wire.BatchRequest{Count: 100, PayloadSize: 8, Target: "cluster", Concurrency: 2}).
		SetResult(&result).
		Post("/batches")
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode(), resp.String())

	assert.Equal(t, 100, result.Data.Succeeded)
	assert.Equal(t, 2, result.Data.Concurrency)
	assert.Equal(t, "cluster", result.Data.Target)
	assert.Equal(t, 50, stA.Len())
	assert.Equal(t, 50, stB.Len())

	var members wire.Envelope[[]wire.Member]
	_, err = client.R().SetResult(&members).Get("/cluster/members")
	require.NoError(t, err)
	assert.Equal(t, 2, members.Count)
	assert.Equal(t, nodeA.Addr(), members.Data[0].APIAddr)
}
