package platform

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/scottpeterman/termtelent-sub002/internal/exception"
	"github.com/scottpeterman/termtelent-sub002/internal/logger"
	"github.com/scottpeterman/termtelent-sub002/internal/parse"
	"github.com/scottpeterman/termtelent-sub002/internal/session"
)

// accepted is a cached successful detection for one address
type accepted struct {
	dialect Dialect
	facts   *session.Facts
}

// Detector tries dialects in priority order until one's facts validate.
// Caches are instance scoped so concurrent crawl runs never share state.
type Detector struct {
	dialer   session.Dialer
	prober   session.Prober
	dialects map[string]Dialect
	log      logger.Logger

	mu          sync.Mutex
	accepted    map[string]accepted
	unreachable map[string]struct{}
}

// NewDetector returns a new instance of Detector with the built in
// dialect set registered
func NewDetector(dialer session.Dialer, prober session.Prober, parser parse.Engine) *Detector {
	dialects := map[string]Dialect{}

	for _, d := range []Dialect{
		newIOSDialect(parser),
		newNXOSDialect(parser),
		newEOSDialect(parser),
		newProcurveDialect(parser),
	} {
		dialects[d.Name()] = d
	}

	return &Detector{
		dialer:      dialer,
		prober:      prober,
		dialects:    dialects,
		log:         logger.New(),
		accepted:    map[string]accepted{},
		unreachable: map[string]struct{}{},
	}
}

// Dialect returns a registered dialect by name
func (d *Detector) Dialect(dialectName string) (Dialect, bool) {
	dialect, ok := d.dialects[dialectName]
	return dialect, ok
}

// Detect probes the address, then walks the dialect priority order until
// one dialect's facts pass validation. The first validated dialect wins
// and is cached for the remainder of the run.
func (d *Detector) Detect(ctx context.Context, address string, creds session.Credentials, timeout time.Duration) (Dialect, *session.Facts, error) {
	d.mu.Lock()

	if cached, ok := d.accepted[address]; ok {
		d.mu.Unlock()
		return cached.dialect, cached.facts, nil
	}

	if _, ok := d.unreachable[address]; ok {
		d.mu.Unlock()
		return nil, nil, errors.Wrap(exception.ErrUnreachable, address)
	}

	d.mu.Unlock()

	if err := d.prober.Probe(address); err != nil {
		d.mu.Lock()
		d.unreachable[address] = struct{}{}
		d.mu.Unlock()

		d.log.Warn().Str("address", address).Msg("management port not reachable")

		return nil, nil, err
	}

	// opportunistic procurve attempt before the main order
	if dialect, facts, ok := d.tryDialect(ctx, d.dialects["procurve"], address, creds, timeout, nil); ok {
		return d.cacheAccepted(address, dialect, facts), facts, nil
	}

	order := []string{"ios", "eos", "procurve", "nxos_ssh"}

	if d.looksLikeNXOS(ctx, address, creds, timeout) {
		order = []string{"nxos_ssh", "ios", "eos"}
	}

	sawAuthFailure := false

	for _, dialectName := range order {
		dialect, facts, ok := d.tryDialect(ctx, d.dialects[dialectName], address, creds, timeout, &sawAuthFailure)

		if ok {
			d.log.Info().
				Str("address", address).
				Str("dialect", dialect.Name()).
				Msg("platform detected")

			return d.cacheAccepted(address, dialect, facts), facts, nil
		}
	}

	if sawAuthFailure {
		return nil, nil, errors.Wrap(exception.ErrAuthenticationFailed, address)
	}

	d.log.Warn().Str("address", address).Msg("no valid platform detected")

	return nil, nil, errors.Wrap(exception.ErrPlatformDetectionExhausted, address)
}

// tryDialect runs a single dialect attempt: open session, fetch facts,
// validate. The "Unknown" hostname + os-version pair is a silent
// non-match, not an error.
func (d *Detector) tryDialect(
	ctx context.Context,
	dialect Dialect,
	address string,
	creds session.Credentials,
	timeout time.Duration,
	sawAuthFailure *bool,
) (Dialect, *session.Facts, bool) {
	sess, err := d.dialer.Dial(ctx, address, creds, timeout)

	if err != nil {
		if errors.Is(err, exception.ErrAuthenticationFailed) && sawAuthFailure != nil {
			*sawAuthFailure = true
		}

		d.log.Debug().
			Err(err).
			Str("dialect", dialect.Name()).
			Str("address", address).
			Msg("dialect attempt failed to connect")

		return nil, nil, false
	}

	defer sess.Close()

	facts, err := dialect.FetchFacts(ctx, sess)

	if err != nil {
		d.log.Debug().
			Err(err).
			Str("dialect", dialect.Name()).
			Str("address", address).
			Msg("failed to fetch facts")

		return nil, nil, false
	}

	if facts.Hostname == unknownValue && facts.OSVersion == unknownValue {
		return nil, nil, false
	}

	if !dialect.Validate(facts) {
		d.log.Debug().
			Str("dialect", dialect.Name()).
			Str("address", address).
			Msg("facts validation failed")

		return nil, nil, false
	}

	return dialect, facts, true
}

// looksLikeNXOS is the cheap pre-check that reorders the attempt list: a
// raw version banner mentioning Nexus or NX-OS means we should lead with
// the nxos_ssh dialect
func (d *Detector) looksLikeNXOS(ctx context.Context, address string, creds session.Credentials, timeout time.Duration) bool {
	sess, err := d.dialer.Dial(ctx, address, creds, timeout)

	if err != nil {
		return false
	}

	defer sess.Close()

	output, err := sess.Run(ctx, "show version")

	if err != nil {
		return false
	}

	return strings.Contains(output, "Nexus") || strings.Contains(output, "NX-OS")
}

func (d *Detector) cacheAccepted(address string, dialect Dialect, facts *session.Facts) Dialect {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.accepted[address] = accepted{dialect: dialect, facts: facts}

	return dialect
}
