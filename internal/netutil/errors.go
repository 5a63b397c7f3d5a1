// Package netutil contains port binding helpers for floodgated. The daemon
// reserves its TCP listeners before it joins the cluster so that the API
// address advertised over gossip is the one actually served.
package netutil

import (
	"errors"
	"fmt"
	"net"
	"syscall"
)

// IsAddressInUseError reports whether err is an EADDRINUSE bind failure.
func IsAddressInUseError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.EADDRINUSE)
	}
	return false
}

// AddressInUseError is returned by the binders when a port is taken.
type AddressInUseError struct {
	Port    int
	Address string
	Err     error
}

func (e *AddressInUseError) Error() string {
	return fmt.Sprintf("port %d is already in use on %s", e.Port, e.Address)
}

func (e *AddressInUseError) Unwrap() error {
	return e.Err
}
