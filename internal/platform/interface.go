package platform

import (
	"context"

	"github.com/scottpeterman/termtelent-sub002/internal/neighbor"
	"github.com/scottpeterman/termtelent-sub002/internal/session"
)

//go:generate mockgen -destination=../mock/platform/mock_platform.go -package=mock_platform . Dialect

// NeighborCommand pairs a CLI command with the parser hint for its output
type NeighborCommand struct {
	Protocol     neighbor.Protocol
	Command      string
	TemplateHint string
}

// Dialect is one vendor/OS protocol profile: it knows how to pull facts
// over an open session, how to recognize its own facts, and which
// commands reveal neighbors
type Dialect interface {
	Name() string
	FetchFacts(ctx context.Context, sess session.Session) (*session.Facts, error)
	Validate(facts *session.Facts) bool
	NeighborCommands() []NeighborCommand
}
