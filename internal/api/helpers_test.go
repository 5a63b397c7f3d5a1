package api

import (
	"context"
	"net"
	"testing"

	"github.com/concave-dev/floodgate/internal/cluster"
	"github.com/concave-dev/floodgate/internal/store"
	"github.com/concave-dev/floodgate/internal/submit"
	"github.com/gin-gonic/gin"
)

// staticCluster is a fixed member table.
type staticCluster []*cluster.Node

func (s staticCluster) Members() []*cluster.Node { return s }

func (s staticCluster) StorageNodes() []*cluster.Node { return s }

func testConfig(t *testing.T, st *store.Store) *Config {
	t.Helper()

	sub, err := submit.New(submit.Config{ConcurrencyLimit: 4, Mode: submit.Block()})
	if err != nil {
		t.Fatalf("submit.New() error = %v", err)
	}

	cfg := DefaultConfig()
	cfg.NodeName = "node-test"
	cfg.Store = st
	cfg.Submitter = sub
	return cfg
}

// startTestServer serves cfg on a loopback port until the test ends.
func startTestServer(t *testing.T, cfg *Config) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to create test listener: %v", err)
	}

	server, err := NewServerWithListener(cfg, listener)
	if err != nil {
		t.Fatalf("NewServerWithListener() error = %v", err)
	}
	if err := server.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = server.Shutdown(context.Background()) })

	return server
}

func requestsN(n int) []submit.Request {
	reqs := make([]submit.Request, n)
	for i := range reqs {
		reqs[i] = submit.Request{ID: uint64(i), Payload: []byte("payload")}
	}
	return reqs
}
