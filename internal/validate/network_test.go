package validate

import (
	"testing"
	"time"
)

func TestParseBindAddress(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expectError  bool
		expectedIP   string
		expectedPort int
	}{
		{name: "valid IPv4 address", input: "192.168.1.1:8080", expectedIP: "192.168.1.1", expectedPort: 8080},
		{name: "valid localhost", input: "127.0.0.1:4200", expectedIP: "127.0.0.1", expectedPort: 4200},
		{name: "valid any address", input: "0.0.0.0:9000", expectedIP: "0.0.0.0", expectedPort: 9000},
		{name: "OS assigned port", input: "127.0.0.1:0", expectedIP: "127.0.0.1", expectedPort: 0},
		{name: "empty address", input: "", expectError: true},
		{name: "missing port", input: "192.168.1.1", expectError: true},
		{name: "invalid IP address", input: "999.999.999.999:8080", expectError: true},
		{name: "port too high", input: "192.168.1.1:99999", expectError: true},
		{name: "negative port", input: "192.168.1.1:-1", expectError: true},
		{name: "port not a number", input: "192.168.1.1:abc", expectError: true},
		{name: "hostname instead of IP", input: "localhost:8080", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseBindAddress(tt.input)

			if tt.expectError {
				if err == nil {
					t.Errorf("ParseBindAddress(%q) expected error, got %+v", tt.input, result)
				}
				if result != nil {
					t.Errorf("ParseBindAddress(%q) = %+v, want nil on error", tt.input, result)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseBindAddress(%q) unexpected error: %v", tt.input, err)
			}
			if result.Host != tt.expectedIP || result.Port != tt.expectedPort {
				t.Errorf("ParseBindAddress(%q) = %s:%d, want %s:%d", tt.input, result.Host, result.Port, tt.expectedIP, tt.expectedPort)
			}
			if result.String() != tt.input {
				t.Errorf("String() = %q, want %q", result.String(), tt.input)
			}
		})
	}
}

func TestValidateRoutableAddress(t *testing.T) {
	tests := []struct {
		input       string
		expectError bool
	}{
		{input: "127.0.0.1:8008"},
		{input: "10.1.2.3:1"},
		{input: "0.0.0.0:8008", expectError: true},
		{input: "127.0.0.1:0", expectError: true},
		{input: "nonsense", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ValidateRoutableAddress(tt.input)
			if (err != nil) != tt.expectError {
				t.Errorf("ValidateRoutableAddress(%q) error = %v, expectError %v", tt.input, err, tt.expectError)
			}
		})
	}
}

func TestValidateField(t *testing.T) {
	tests := []struct {
		name        string
		value       any
		tag         string
		expectError bool
	}{
		{name: "valid IP address", value: "192.168.1.1", tag: "required,ip"},
		{name: "invalid IP address", value: "not-an-ip", tag: "required,ip", expectError: true},
		{name: "positive limit", value: 10, tag: "gt=0"},
		{name: "zero limit", value: 0, tag: "gt=0", expectError: true},
		{name: "empty string fails required", value: "", tag: "required", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateField(tt.value, tt.tag)
			if (err != nil) != tt.expectError {
				t.Errorf("ValidateField(%v, %q) error = %v, expectError %v", tt.value, tt.tag, err, tt.expectError)
			}
		})
	}
}

func TestValidateAddressList(t *testing.T) {
	if err := ValidateAddressList([]string{"10.0.0.1:4200", "10.0.0.2:4200"}); err != nil {
		t.Errorf("ValidateAddressList() unexpected error: %v", err)
	}
	if err := ValidateAddressList(nil); err == nil {
		t.Error("ValidateAddressList(nil) expected error")
	}
	if err := ValidateAddressList([]string{"10.0.0.1:4200", "bad"}); err == nil {
		t.Error("ValidateAddressList() with a bad entry expected error")
	}
}

func TestScalarHelpers(t *testing.T) {
	if err := ValidatePortRange(0); err == nil {
		t.Error("ValidatePortRange(0) expected error")
	}
	if err := ValidatePortRange(8008); err != nil {
		t.Errorf("ValidatePortRange(8008) = %v", err)
	}
	if err := ValidateRequiredString("", "node name"); err == nil || err.Error() != "node name cannot be empty" {
		t.Errorf("ValidateRequiredString() = %v", err)
	}
	if err := ValidatePositiveTimeout(0, "drain timeout"); err == nil {
		t.Error("ValidatePositiveTimeout(0) expected error")
	}
	if err := ValidatePositiveTimeout(time.Second, "drain timeout"); err != nil {
		t.Errorf("ValidatePositiveTimeout(1s) = %v", err)
	}
	if err := ValidatePositiveInt(-1, "concurrency"); err == nil {
		t.Error("ValidatePositiveInt(-1) expected error")
	}
}

func TestNodeNameFormat(t *testing.T) {
	tests := []struct {
		input       string
		expectError bool
	}{
		{input: "node"},
		{input: "storage-01"},
		{input: "edge_node_2"},
		{input: "", expectError: true},
		{input: "Node", expectError: true},
		{input: "node.1", expectError: true},
		{input: "-node", expectError: true},
		{input: "node_", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := NodeNameFormat(tt.input)
			if (err != nil) != tt.expectError {
				t.Errorf("NodeNameFormat(%q) error = %v, expectError %v", tt.input, err, tt.expectError)
			}
		})
	}
}

func BenchmarkParseBindAddress(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := ParseBindAddress("192.168.1.100:8080"); err != nil {
			b.Fatalf("Unexpected error: %v", err)
		}
	}
}
