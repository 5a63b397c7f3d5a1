// Package validate wraps go-playground/validator for the checks shared by the
// floodgate daemon, the floodctl CLI and the submitter configuration.
//
// VALIDATION COVERAGE:
//   - Addresses: "ip:port" bind and join addresses
//   - Numbers: port ranges, positive limits and queue sizes
//   - Names: node names advertised through serf
//   - Timeouts: positive durations
//
// Single values are checked with ValidateField and a validator tag, so callers
// describe the rule instead of hand-writing comparisons.
package validate

import (
	"fmt"
	"net"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var (
	// Shared validator instance; only built-in tags are used
	validate *validator.Validate
)

func init() {
	validate = validator.New()
}

// NetworkAddress is a validated "ip:port" pair.
type NetworkAddress struct {
	Host string `validate:"required,ip"`
	Port int    `validate:"min=0,max=65535"`
}

// String returns the address in "host:port" form.
func (na NetworkAddress) String() string {
	return net.JoinHostPort(na.Host, strconv.Itoa(na.Port))
}

// ParseBindAddress parses "ip:port" and validates both parts. Hostnames are
// rejected because serf advertises the literal address to other nodes.
func ParseBindAddress(addr string) (*NetworkAddress, error) {
	if addr == "" {
		return nil, fmt.Errorf("address cannot be empty")
	}

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid address format '%s': %w", addr, err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid port '%s': %w", portStr, err)
	}

	netAddr := &NetworkAddress{
		Host: host,
		Port: port,
	}

	if err := validate.Struct(netAddr); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return netAddr, nil
}

// ValidateField validates a single value against a validator tag, for
// example ValidateField(k, "gt=0").
func ValidateField(value any, tag string) error {
	return validate.Var(value, tag)
}

// ValidateAddressList checks every address of a --join list.
func ValidateAddressList(addresses []string) error {
	if len(addresses) == 0 {
		return fmt.Errorf("address list cannot be empty")
	}

	for i, addr := range addresses {
		if _, err := ParseBindAddress(addr); err != nil {
			return fmt.Errorf("invalid address at index %d: %w", i, err)
		}
	}

	return nil
}

// ValidateRoutableAddress parses addr like ParseBindAddress and additionally
// rejects the unspecified address and port 0, which a client cannot dial.
func ValidateRoutableAddress(addr string) (*NetworkAddress, error) {
	netAddr, err := ParseBindAddress(addr)
	if err != nil {
		return nil, err
	}

	if ip := net.ParseIP(netAddr.Host); ip.IsUnspecified() {
		return nil, fmt.Errorf("unroutable address '%s': use 127.0.0.1 or a specific IP", addr)
	}

	if err := ValidatePortRange(netAddr.Port); err != nil {
		return nil, fmt.Errorf("port must be between 1-65535: %w", err)
	}

	return netAddr, nil
}
