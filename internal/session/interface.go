package session

import (
	"context"
	"time"
)

//go:generate mockgen -destination=../mock/session/mock_session.go -package=mock_session . Session,Dialer,Prober

// Credentials for device login
type Credentials struct {
	Username string
	Password string
}

// Facts is the structured identity data returned by a device session
type Facts struct {
	Hostname  string
	Vendor    string
	Model     string
	OSVersion string
	Serial    string
}

// Session represents an open command channel to a single device
type Session interface {
	Run(ctx context.Context, cmd string) (string, error)
	Close() error
}

// Dialer opens sessions to devices
type Dialer interface {
	Dial(ctx context.Context, address string, creds Credentials, timeout time.Duration) (Session, error)
}

// Prober checks management port reachability for an address
type Prober interface {
	Probe(address string) error
}
