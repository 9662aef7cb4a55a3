package crawler

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/pkg/errors"

	"github.com/scottpeterman/termtelent-sub002/internal/config"
	"github.com/scottpeterman/termtelent-sub002/internal/event"
	"github.com/scottpeterman/termtelent-sub002/internal/exception"
	"github.com/scottpeterman/termtelent-sub002/internal/logger"
	"github.com/scottpeterman/termtelent-sub002/internal/name"
	"github.com/scottpeterman/termtelent-sub002/internal/neighbor"
	"github.com/scottpeterman/termtelent-sub002/internal/parse"
	"github.com/scottpeterman/termtelent-sub002/internal/platform"
	"github.com/scottpeterman/termtelent-sub002/internal/session"
	"github.com/scottpeterman/termtelent-sub002/internal/topology"
)

// CrawlService walks the network breadth first from a seed address. Each
// discovered device's neighbor tables feed new addresses into the queue
// until the queue drains or the device budget is reached.
type CrawlService struct {
	conf     *config.Crawl
	detector Detector
	dialer   session.Dialer
	parser   parse.Engine
	events   chan *event.Event
	log      logger.Logger

	mu           sync.Mutex
	queue        []string
	queued       map[string]struct{}
	visited      map[string]struct{}
	failed       map[string]struct{}
	unreachable  map[string]struct{}
	devices      map[string]*topology.Device
	useAlternate bool
}

// NewCrawlService returns a new instance of CrawlService. The event
// channel may be nil when no listener cares about progress.
func NewCrawlService(
	conf *config.Crawl,
	detector Detector,
	dialer session.Dialer,
	parser parse.Engine,
	events chan *event.Event,
) *CrawlService {
	return &CrawlService{
		conf:        conf,
		detector:    detector,
		dialer:      dialer,
		parser:      parser,
		events:      events,
		log:         logger.New(),
		queue:       []string{},
		queued:      map[string]struct{}{},
		visited:     map[string]struct{}{},
		failed:      map[string]struct{}{},
		unreachable: map[string]struct{}{},
		devices:     map[string]*topology.Device{},
	}
}

// Crawl runs the discovery loop to completion. Cancellation stops the
// crawl between waves; whatever was discovered so far is still returned
// along with the context error.
func (s *CrawlService) Crawl(ctx context.Context) (*Result, error) {
	start := time.Now()

	s.enqueue(s.conf.Seed)

	pool := workerpool.New(s.workers())
	defer pool.StopWait()

	var runErr error

	for {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		batch := s.drainQueue()

		if len(batch) == 0 {
			break
		}

		wg := sync.WaitGroup{}

		for _, address := range batch {
			if !s.withinBudget() {
				s.log.Info().
					Int("maxDevices", s.conf.MaxDevices).
					Msg("device budget reached")
				break
			}

			address := address
			wg.Add(1)

			pool.Submit(func() {
				defer wg.Done()
				s.processDevice(ctx, address)
			})
		}

		wg.Wait()

		if !s.withinBudget() {
			break
		}
	}

	result := &Result{
		Devices: s.devices,
		Stats: Stats{
			Discovered:  len(s.devices),
			Failed:      len(s.failed),
			Unreachable: len(s.unreachable),
			Duration:    time.Since(start),
		},
	}

	s.emit(event.CrawlComplete, result.Stats)

	s.log.Info().
		Int("discovered", result.Stats.Discovered).
		Int("failed", result.Stats.Failed).
		Int("unreachable", result.Stats.Unreachable).
		Str("duration", result.Stats.Duration.String()).
		Msg("crawl finished")

	return result, runErr
}

// processDevice handles one queued address end to end: detect platform,
// collect neighbor tables, record the device, enqueue its peers
func (s *CrawlService) processDevice(ctx context.Context, address string) {
	// excluded addresses are dropped before any connection attempt
	if s.excluded(address) {
		s.log.Info().Str("address", address).Msg("address excluded by pattern")
		s.markVisited(address)
		return
	}

	s.emit(event.DeviceProcessing, s.progress(address, ""))

	dialect, facts, creds, err := s.detect(ctx, address)

	if err != nil {
		s.recordFailure(address, err)
		return
	}

	identity := name.Hostname(facts.Hostname)

	if identity == "" {
		identity = address
	}

	if s.excluded(identity) {
		s.log.Info().Str("identity", identity).Msg("device excluded by pattern")
		s.markVisited(address)
		return
	}

	device, fresh := s.registerDevice(address, identity, dialect.Name(), facts)

	if device == nil {
		// ceiling hit while this worker was in flight
		return
	}

	if !fresh {
		// already discovered under another address
		return
	}

	neighbors := s.collectNeighbors(ctx, address, creds, dialect, device)

	for _, n := range neighbors {
		if s.usableAddress(n.IP) {
			s.enqueue(n.IP)
		}
	}

	s.emit(event.DeviceDiscovered, s.progress(address, identity))

	s.log.Info().
		Str("address", address).
		Str("identity", identity).
		Str("platform", dialect.Name()).
		Int("neighbors", len(neighbors)).
		Msg("device discovered")
}

// detect wraps platform detection in a hard timeout and handles the one
// shot escalation to alternate credentials on authentication failure
func (s *CrawlService) detect(ctx context.Context, address string) (platform.Dialect, *session.Facts, session.Credentials, error) {
	creds := s.credentials()

	dialect, facts, err := s.detectWithTimeout(ctx, address, creds)

	if err == nil {
		return dialect, facts, creds, nil
	}

	if errors.Is(err, exception.ErrAuthenticationFailed) && s.conf.Alternate != nil {
		alt := session.Credentials{
			Username: s.conf.Alternate.Username,
			Password: s.conf.Alternate.Password,
		}

		if alt != creds {
			s.log.Info().Str("address", address).Msg("retrying with alternate credentials")

			dialect, facts, err = s.detectWithTimeout(ctx, address, alt)

			if err == nil {
				s.promoteAlternate()
				return dialect, facts, alt, nil
			}
		}
	}

	return nil, nil, creds, err
}

// detectWithTimeout enforces the configured per-device ceiling regardless
// of how the transport's own timeouts behave
func (s *CrawlService) detectWithTimeout(ctx context.Context, address string, creds session.Credentials) (platform.Dialect, *session.Facts, error) {
	type outcome struct {
		dialect platform.Dialect
		facts   *session.Facts
		err     error
	}

	done := make(chan outcome, 1)

	detectCtx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	go func() {
		dialect, facts, err := s.detector.Detect(detectCtx, address, creds, s.timeout())
		done <- outcome{dialect, facts, err}
	}()

	select {
	case out := <-done:
		return out.dialect, out.facts, out.err
	case <-detectCtx.Done():
		return nil, nil, errors.Wrap(exception.ErrOperationTimeout, address)
	}
}

// collectNeighbors runs every neighbor command the dialect knows and
// folds the valid records into the device's adjacency
func (s *CrawlService) collectNeighbors(
	ctx context.Context,
	address string,
	creds session.Credentials,
	dialect platform.Dialect,
	device *topology.Device,
) []*neighbor.Neighbor {
	sess, err := s.dialer.Dial(ctx, address, creds, s.timeout())

	if err != nil {
		s.log.Warn().
			Err(err).
			Str("address", address).
			Msg("failed to reconnect for neighbor collection")
		return nil
	}

	defer sess.Close()

	collected := []*neighbor.Neighbor{}

	for _, cmd := range dialect.NeighborCommands() {
		output, err := sess.Run(ctx, cmd.Command)

		if err != nil {
			s.log.Debug().
				Err(err).
				Str("address", address).
				Str("command", cmd.Command).
				Msg("neighbor command failed")
			continue
		}

		_, records, score := s.parser.FindBestTemplate(output, cmd.TemplateHint)

		if score <= parse.MinConfidence {
			s.log.Debug().
				Err(exception.ErrParseLowConfidence).
				Str("address", address).
				Str("command", cmd.Command).
				Float64("score", score).
				Msg("discarding neighbor output")
			continue
		}

		for _, rec := range records {
			n, ok := neighbor.Normalize(rec, cmd.Protocol, dialect.Name())

			if !ok {
				continue
			}

			if s.excluded(n.PeerID) {
				continue
			}

			s.mu.Lock()
			device.AddConnection(n.PeerID, topology.Connection{
				LocalPort:        n.LocalIf,
				RemotePort:       n.RemoteIf,
				Protocol:         n.Protocol,
				NeighborIP:       n.IP,
				NeighborPlatform: n.Platform,
			})
			s.mu.Unlock()

			collected = append(collected, n)
		}
	}

	return collected
}

// registerDevice atomically marks the address visited and claims the
// identity. Returns false when another worker already discovered the
// same device under a different address, and nil when the device ceiling
// has been reached. Marking, dedup and the ceiling check all happen
// under one lock so concurrent workers cannot overshoot the budget.
func (s *CrawlService) registerDevice(address, identity, platformName string, facts *session.Facts) (*topology.Device, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.devices[identity]; ok {
		s.visited[address] = struct{}{}
		return existing, false
	}

	if s.conf.MaxDevices > 0 && len(s.devices) >= s.conf.MaxDevices-1 {
		return nil, false
	}

	s.visited[address] = struct{}{}

	device := topology.NewDevice(identity, address, platformName, facts.Serial)
	s.devices[identity] = device

	return device, true
}

func (s *CrawlService) recordFailure(address string, err error) {
	s.mu.Lock()

	if errors.Is(err, exception.ErrUnreachable) {
		s.unreachable[address] = struct{}{}
	} else {
		s.failed[address] = struct{}{}
	}

	s.mu.Unlock()

	s.log.Warn().Err(err).Str("address", address).Msg("device failed")

	s.emit(event.DeviceFailed, s.progress(address, ""))
}

func (s *CrawlService) enqueue(address string) {
	if address == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.queued[address]; ok {
		return
	}

	s.queued[address] = struct{}{}
	s.queue = append(s.queue, address)
}

func (s *CrawlService) drainQueue() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := s.queue
	s.queue = []string{}

	return batch
}

// usableAddress filters neighbor management addresses before they enter
// the queue
func (s *CrawlService) usableAddress(address string) bool {
	if address == "" || s.excluded(address) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.visited[address]; ok {
		return false
	}

	if _, ok := s.unreachable[address]; ok {
		return false
	}

	if _, ok := s.failed[address]; ok {
		return false
	}

	return true
}

// withinBudget gates processing on the configured device ceiling. Zero
// means unlimited.
func (s *CrawlService) withinBudget() bool {
	if s.conf.MaxDevices <= 0 {
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.visited) < s.conf.MaxDevices-1
}

func (s *CrawlService) markVisited(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.visited[address] = struct{}{}
}

func (s *CrawlService) excluded(value string) bool {
	lowered := strings.ToLower(value)

	for _, pattern := range s.conf.Exclusions {
		if pattern != "" && strings.Contains(lowered, strings.ToLower(pattern)) {
			return true
		}
	}

	return false
}

func (s *CrawlService) credentials() session.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.useAlternate && s.conf.Alternate != nil {
		return session.Credentials{
			Username: s.conf.Alternate.Username,
			Password: s.conf.Alternate.Password,
		}
	}

	return session.Credentials{
		Username: s.conf.Credentials.Username,
		Password: s.conf.Credentials.Password,
	}
}

func (s *CrawlService) promoteAlternate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.useAlternate = true
}

func (s *CrawlService) progress(address, identity string) event.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	return event.Progress{
		Address:           address,
		Identity:          identity,
		DevicesDiscovered: len(s.devices),
		DevicesFailed:     len(s.failed),
		DevicesQueued:     len(s.queue),
	}
}

func (s *CrawlService) emit(eventType event.EventType, payload any) {
	if s.events == nil {
		return
	}

	select {
	case s.events <- &event.Event{Type: eventType, Payload: payload}:
	default:
		// listener fell behind; progress events are droppable
	}
}

func (s *CrawlService) workers() int {
	if s.conf.Workers <= 0 {
		return 1
	}

	return s.conf.Workers
}

func (s *CrawlService) timeout() time.Duration {
	if s.conf.Timeout <= 0 {
		return 30 * time.Second
	}

	return s.conf.Timeout
}
