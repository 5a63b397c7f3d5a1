package netutil

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// DefaultMaxAttempts is how many consecutive ports the fallback binders try.
const DefaultMaxAttempts = 100

// BindTCP listens on address:port over IPv4. A busy port yields an
// *AddressInUseError.
func BindTCP(address string, port int) (net.Listener, error) {
	addr := net.JoinHostPort(address, strconv.Itoa(port))

	listener, err := net.Listen("tcp4", addr)
	if err != nil {
		if IsAddressInUseError(err) {
			return nil, &AddressInUseError{Port: port, Address: address, Err: err}
		}
		return nil, fmt.Errorf("failed to bind TCP to %s: %w", addr, err)
	}

	return listener, nil
}

// BindTCPWithFallback binds the first free port in
// [preferredPort, preferredPort+maxAttempts) and returns it with its port.
func BindTCPWithFallback(address string, preferredPort, maxAttempts int) (net.Listener, int, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	for port := preferredPort; port < preferredPort+maxAttempts && port <= 65535; port++ {
		listener, err := BindTCP(address, port)
		if err != nil {
			var inUse *AddressInUseError
			if errors.As(err, &inUse) {
				continue
			}
			return nil, 0, fmt.Errorf("failed to bind TCP starting from port %d: %w", preferredPort, err)
		}
		return listener, port, nil
	}

	return nil, 0, fmt.Errorf("no available TCP port found in range %d-%d on %s",
		preferredPort, preferredPort+maxAttempts-1, address)
}

// CheckSerfPort verifies that both UDP (gossip) and TCP (state sync) are free
// on address:port. Serf needs both on the same port.
func CheckSerfPort(address string, port int) error {
	addr := net.JoinHostPort(address, strconv.Itoa(port))

	tcp, err := net.Listen("tcp4", addr)
	if err != nil {
		if IsAddressInUseError(err) {
			return &AddressInUseError{Port: port, Address: address, Err: err}
		}
		return fmt.Errorf("failed to bind TCP to %s: %w", addr, err)
	}
	tcp.Close()

	udpAddr, err := net.ResolveUDPAddr("udp4", addr)
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address %s: %w", addr, err)
	}
	udp, err := net.ListenUDP("udp4", udpAddr)
	if err != nil {
		if IsAddressInUseError(err) {
			return &AddressInUseError{Port: port, Address: address, Err: err}
		}
		return fmt.Errorf("failed to bind UDP to %s: %w", addr, err)
	}
	udp.Close()

	return nil
}

// FindSerfPort returns the first port from startPort on where CheckSerfPort
// succeeds. The port is released again, so a small race window remains;
// Serf starts first and a lost race fails startup cleanly.
func FindSerfPort(address string, startPort, maxAttempts int) (int, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	for port := startPort; port < startPort+maxAttempts && port <= 65535; port++ {
		err := CheckSerfPort(address, port)
		if err == nil {
			return port, nil
		}

		var inUse *AddressInUseError
		if !errors.As(err, &inUse) {
			return 0, err
		}
	}

	return 0, fmt.Errorf("no available port found in range %d-%d on %s",
		startPort, startPort+maxAttempts-1, address)
}

// ListenerPort returns the TCP port of listener.
func ListenerPort(listener net.Listener) (int, error) {
	tcpAddr, ok := listener.Addr().(*net.TCPAddr)
	if !ok {
		return 0, fmt.Errorf("listener is not a TCP listener: %T", listener.Addr())
	}
	return tcpAddr.Port, nil
}
