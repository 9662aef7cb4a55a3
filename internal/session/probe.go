package session

import (
	"fmt"
	"net"
	"time"

	"github.com/pkg/errors"

	"github.com/scottpeterman/termtelent-sub002/internal/exception"
)

// TCPProber is our Prober implementation using a bounded TCP connect
type TCPProber struct {
	port    int
	timeout time.Duration
}

// NewTCPProber returns a new instance of TCPProber
func NewTCPProber(timeout time.Duration) *TCPProber {
	return &TCPProber{
		port:    DefaultPort,
		timeout: timeout,
	}
}

// Probe quick-checks that the management port is open on the address
func (p *TCPProber) Probe(address string) error {
	addr := fmt.Sprintf("%s:%d", address, p.port)

	conn, err := net.DialTimeout("tcp", addr, p.timeout)

	if err != nil {
		return errors.Wrapf(exception.ErrUnreachable, "%s: %s", addr, err)
	}

	conn.Close()

	return nil
}
