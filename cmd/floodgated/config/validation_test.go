package config

import (
	"strings"
	"testing"
	"time"

	"github.com/concave-dev/floodgate/internal/submit"
)

func defaults() Config {
	return Config{
		SerfAddr:     DefaultSerf,
		APIAddr:      DefaultAPI,
		LogLevel:     DefaultLogLevel,
		MaxPorts:     DefaultMaxPorts,
		Concurrency:  DefaultConcurrency,
		Mode:         DefaultMode,
		DrainTimeout: DefaultDrainTimeout,
		WriteTimeout: DefaultWriteTimeout,
	}
}

func TestValidateConfig_Defaults(t *testing.T) {
	Global = defaults()

	if err := ValidateConfig(); err != nil {
		t.Fatalf("ValidateConfig() error = %v", err)
	}

	if Global.SerfAddr != "0.0.0.0" || Global.SerfPort != 4200 {
		t.Errorf("serf = %s:%d, want 0.0.0.0:4200", Global.SerfAddr, Global.SerfPort)
	}
	if Global.APIAddr != "0.0.0.0" || Global.APIPort != 8008 {
		t.Errorf("api = %s:%d, want 0.0.0.0:8008", Global.APIAddr, Global.APIPort)
	}
	if Global.QueueMode != submit.Block() {
		t.Errorf("QueueMode = %v, want block", Global.QueueMode)
	}
}

func TestValidateConfig_APIInheritsSerfIP(t *testing.T) {
	tests := []struct {
		name        string
		serf        string
		api         string
		apiExplicit bool
		wantHost    string
		wantPort    int
	}{
		{"inherit", "192.168.1.10:4300", DefaultAPI, false, "192.168.1.10", 8008},
		{"explicit", "192.168.1.10:4300", "127.0.0.1:9000", true, "127.0.0.1", 9000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Global = defaults()
			Global.SerfAddr = tt.serf
			Global.APIAddr = tt.api
			Global.SetExplicitlySet(APIAddrField, tt.apiExplicit)

			if err := ValidateConfig(); err != nil {
				t.Fatalf("ValidateConfig() error = %v", err)
			}
			if Global.APIAddr != tt.wantHost || Global.APIPort != tt.wantPort {
				t.Errorf("api = %s:%d, want %s:%d", Global.APIAddr, Global.APIPort, tt.wantHost, tt.wantPort)
			}
		})
	}
}

func TestValidateConfig_Errors(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*Config)
		errorContains string
	}{
		{"serf port zero", func(c *Config) { c.SerfAddr = "0.0.0.0:0" }, "serf port"},
		{"serf hostname", func(c *Config) { c.SerfAddr = "localhost:4200" }, "invalid serf address"},
		{"bad node name", func(c *Config) { c.NodeName = "-node" }, "invalid node name"},
		{"bad log level", func(c *Config) { c.LogLevel = "LOUD" }, "LOUD"},
		{"bad join", func(c *Config) { c.JoinAddrs = []string{"nowhere"} }, "invalid join addresses"},
		{"standalone join", func(c *Config) { c.Standalone = true; c.JoinAddrs = []string{"10.0.0.1:4200"} }, "--standalone"},
		{"strict without join", func(c *Config) { c.StrictJoin = true }, "--strict-join"},
		{"bad mode", func(c *Config) { c.Mode = "lifo" }, "invalid queue mode"},
		{"zero staging", func(c *Config) { c.Mode = "buffered:0" }, "queue size must be positive"},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, "concurrency limit"},
		{"negative drain", func(c *Config) { c.DrainTimeout = -time.Second }, "drain timeout"},
		{"zero write timeout", func(c *Config) { c.WriteTimeout = 0 }, "write timeout"},
		{"negative latency", func(c *Config) { c.WriteLatency = -time.Millisecond }, "write latency"},
		{"negative fail-every", func(c *Config) { c.FailEvery = -1 }, "fail-every"},
		{"max ports", func(c *Config) { c.MaxPorts = 0 }, "max-ports"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Global = defaults()
			tt.mutate(&Global)

			err := ValidateConfig()
			if err == nil {
				t.Fatal("ValidateConfig() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.errorContains) {
				t.Errorf("ValidateConfig() error = %q, want it to contain %q", err, tt.errorContains)
			}
		})
	}
}

func TestValidateConfig_NodeNameLowercased(t *testing.T) {
	Global = defaults()
	Global.NodeName = "Node-A"

	if err := ValidateConfig(); err != nil {
		t.Fatalf("ValidateConfig() error = %v", err)
	}
	if Global.NodeName != "node-a" {
		t.Errorf("NodeName = %q, want node-a", Global.NodeName)
	}
}

func TestInitializeConfig_ConcurrencyEnv(t *testing.T) {
	Global = defaults()
	t.Setenv("FLOODGATE_CONCURRENCY", "64")

	InitializeConfig()
	if Global.Concurrency != 64 {
		t.Errorf("Concurrency = %d, want 64 from environment", Global.Concurrency)
	}

	Global = defaults()
	Global.SetExplicitlySet(ConcurrencyField, true)
	InitializeConfig()
	if Global.Concurrency != DefaultConcurrency {
		t.Errorf("Concurrency = %d, explicit flag must win over environment", Global.Concurrency)
	}
}

func TestInitializeConfig_Debug(t *testing.T) {
	Global = defaults()
	t.Setenv("DEBUG", "true")

	InitializeConfig()
	if Global.LogLevel != "DEBUG" {
		t.Errorf("LogLevel = %q, want DEBUG", Global.LogLevel)
	}
}
