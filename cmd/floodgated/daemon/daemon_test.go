package daemon

import (
	"net"
	"testing"

	"github.com/concave-dev/floodgate/cmd/floodgated/config"
	"github.com/concave-dev/floodgate/internal/cluster"
	"github.com/concave-dev/floodgate/internal/store"
	"github.com/concave-dev/floodgate/internal/submit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvertiseAddr(t *testing.T) {
	assert.Equal(t, "10.1.2.3:8008", advertiseAddr("10.1.2.3", 8008))

	host, port, err := net.SplitHostPort(advertiseAddr("0.0.0.0", 8008))
	require.NoError(t, err)
	assert.Equal(t, "8008", port)
	assert.False(t, net.ParseIP(host).IsUnspecified())
}

func TestBuildClusterConfig(t *testing.T) {
	config.Global = config.Config{
		SerfAddr:  "10.0.0.5",
		SerfPort:  4300,
		NodeName:  "swift-delta",
		LogLevel:  "WARN",
		QueueMode: submit.FailFast(32),
	}

	cfg := buildClusterConfig("10.0.0.5:8008")

	assert.Equal(t, "10.0.0.5", cfg.BindAddr)
	assert.Equal(t, 4300, cfg.BindPort)
	assert.Equal(t, "swift-delta", cfg.NodeName)
	assert.Equal(t, "10.0.0.5:8008", cfg.APIAddr)
	assert.Equal(t, cluster.RoleStorage, cfg.Role)
	assert.Equal(t, "failfast:32", cfg.Tags["queue_mode"])
}

func TestBuildAPIConfigStandalone(t *testing.T) {
	config.Global = config.Config{APIAddr: "127.0.0.1", APIPort: 9000, NodeName: "n", WriteTimeout: 1}

	sub, err := submit.New(submit.DefaultConfig())
	require.NoError(t, err)

	cfg := buildAPIConfig(store.New(store.Options{}), sub, nil, nil)

	assert.Nil(t, cfg.Cluster, "a nil manager must not become a non-nil ClusterView")
	assert.Equal(t, 9000, cfg.BindPort)
	assert.NoError(t, cfg.Validate())
}

func TestBindAPIFallsForward(t *testing.T) {
	busy, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	busyPort := busy.Addr().(*net.TCPAddr).Port
	config.Global = config.Config{APIAddr: "127.0.0.1", APIPort: busyPort, MaxPorts: 10}

	listener, err := bindAPI()
	require.NoError(t, err)
	defer listener.Close()

	assert.NotEqual(t, busyPort, config.Global.APIPort)
	assert.Equal(t, config.Global.APIPort, listener.Addr().(*net.TCPAddr).Port)
}

func TestBindAPIExplicitBusyFails(t *testing.T) {
	busy, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	config.Global = config.Config{APIAddr: "127.0.0.1", APIPort: busy.Addr().(*net.TCPAddr).Port, MaxPorts: 10}
	config.Global.SetExplicitlySet(config.APIAddrField, true)

	_, err = bindAPI()
	assert.Error(t, err)
}
