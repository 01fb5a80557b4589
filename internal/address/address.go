// Package address provides the host:port value type shared by node views
// and transports. It intentionally knows nothing about how an address is
// dialed; that is a transport concern.
package address

import (
	"net"

	"github.com/cockroachdb/errors"
)

// Address is an opaque "host:port" endpoint for a transport collaborator
// to resolve. The core never parses or dials it; it only carries it.
type Address string

// Validate checks that addr splits into a non-empty host and port.
func (addr Address) Validate() error {
	host, port, err := net.SplitHostPort(string(addr))
	if err != nil {
		return errors.Wrapf(err, "invalid address %q", addr)
	}
	if host == "" || port == "" {
		return errors.Newf("invalid address %q: empty host or port", addr)
	}
	return nil
}

func (addr Address) String() string { return string(addr) }
