package submit

import (
	"errors"
	"testing"
	"time"
)

func TestParseQueueMode(t *testing.T) {
	tests := []struct {
		input   string
		want    QueueMode
		wantErr bool
	}{
		{input: "block", want: Block()},
		{input: "semaphore", want: Block()},
		{input: " Block ", want: Block()},
		{input: "buffered:64", want: BufferedStaging(64)},
		{input: "failfast:5", want: FailFast(5)},
		{input: "failfast:0", want: FailFast(0)},
		{input: "buffered", wantErr: true},
		{input: "failfast:abc", wantErr: true},
		{input: "block:3", wantErr: true},
		{input: "reactive", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseQueueMode(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseQueueMode(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseQueueMode(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseQueueMode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestQueueModeStringRoundTrip(t *testing.T) {
	for _, m := range []QueueMode{Block(), BufferedStaging(8), FailFast(3)} {
		got, err := ParseQueueMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseQueueMode(%q) = %v, %v; want %v", m.String(), got, err, m)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "default", cfg: DefaultConfig()},
		{name: "buffered", cfg: Config{ConcurrencyLimit: 1, Mode: BufferedStaging(1)}},
		{name: "drain timeout", cfg: Config{ConcurrencyLimit: 1, DrainTimeout: time.Second}},
		{name: "zero limit", cfg: Config{}, wantErr: true},
		{name: "negative staging", cfg: Config{ConcurrencyLimit: 2, Mode: BufferedStaging(-1)}, wantErr: true},
		{name: "unknown mode", cfg: Config{ConcurrencyLimit: 2, Mode: QueueMode{Kind: 42}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr != (err != nil) {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
