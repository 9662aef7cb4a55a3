package crawler

import (
	"context"
	"time"

	"github.com/scottpeterman/termtelent-sub002/internal/platform"
	"github.com/scottpeterman/termtelent-sub002/internal/session"
	"github.com/scottpeterman/termtelent-sub002/internal/topology"
)

//go:generate mockgen -destination=../mock/crawler/mock_crawler.go -package=mock_crawler . Detector,Service

// Detector interface representing platform detection for one address
type Detector interface {
	Detect(ctx context.Context, address string, creds session.Credentials, timeout time.Duration) (platform.Dialect, *session.Facts, error)
}

// Stats summarizes a finished or interrupted crawl
type Stats struct {
	Discovered  int
	Failed      int
	Unreachable int
	Duration    time.Duration
}

// Result carries everything a crawl produced
type Result struct {
	Devices map[string]*topology.Device
	Stats   Stats
}

// Service interface for running discovery crawls
type Service interface {
	Crawl(ctx context.Context) (*Result, error)
}
