package sweep

import (
	"context"
	"regexp"
	"strconv"

	"github.com/Ullaakut/nmap/v3"
	"github.com/pkg/errors"
	"github.com/projectdiscovery/mapcidr"

	"github.com/scottpeterman/termtelent-sub002/internal/logger"
)

//go:generate mockgen -destination=../mock/sweep/mock_sweep.go -package=mock_sweep . Scanner

// Candidate is one address answering on the ssh port, suitable as a
// crawl seed
type Candidate struct {
	IP       string
	Hostname string
}

// Scanner interface representing a subnet sweep for seed candidates
type Scanner interface {
	Scan() ([]*Candidate, error)
	Stop()
}

// NmapScanner sweeps one or more CIDR ranges for hosts answering on the
// ssh port
type NmapScanner struct {
	ctx     context.Context
	cancel  context.CancelFunc
	scanner *nmap.Scanner
	log     logger.Logger
}

// NewNmapScanner returns a new instance of NmapScanner for the given
// CIDR ranges. Plain addresses pass through untouched.
func NewNmapScanner(cidrs []string, port int) (*NmapScanner, error) {
	log := logger.New()

	targets, err := expandTargets(cidrs)

	if err != nil {
		return nil, err
	}

	// Use a cancelable context so we can properly cleanup when needed
	ctxWithCancel, cancel := context.WithCancel(context.Background())

	scanner, err := nmap.NewScanner(
		ctxWithCancel,
		nmap.WithTargets(targets...),
		nmap.WithPorts(strconv.Itoa(port)),
		nmap.WithTimingTemplate(nmap.TimingFastest),
	)

	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "failed to create scanner")
	}

	return &NmapScanner{
		ctx:     ctxWithCancel,
		cancel:  cancel,
		scanner: scanner,
		log:     log,
	}, nil
}

// Stop stops the sweep. Once called this scanner is useless, a new one
// is needed to scan again.
func (s *NmapScanner) Stop() {
	s.cancel()
}

// Scan sweeps the targets and returns hosts with the ssh port open
func (s *NmapScanner) Scan() ([]*Candidate, error) {
	s.log.Info().Msg("Sweeping for seed candidates...")

	result, warnings, err := s.scanner.Run()

	if warnings != nil && len(*warnings) > 0 {
		fields := map[string]interface{}{}

		for i, warning := range *warnings {
			fields[strconv.Itoa(i)] = warning
		}

		s.log.Warn().
			Fields(fields).
			Msg("encountered sweep warnings")
	}

	if err != nil {
		return nil, errors.Wrap(err, "sweep failed")
	}

	candidates := []*Candidate{}

	for _, host := range result.Hosts {
		open := false

		for _, port := range host.Ports {
			if port.Status() == nmap.Open {
				open = true
				break
			}
		}

		if !open || len(host.Addresses) == 0 {
			continue
		}

		hostname := ""

		if len(host.Hostnames) > 0 {
			hostname = host.Hostnames[0].Name
		}

		candidates = append(candidates, &Candidate{
			IP:       host.Addresses[0].String(),
			Hostname: hostname,
		})
	}

	s.log.Info().Int("candidates", len(candidates)).Msg("sweep complete")

	return candidates, nil
}

var cidrSuffix = regexp.MustCompile(`\/\d{1,2}$`)

// expandTargets turns CIDR notation into individual addresses and passes
// anything else through as-is
func expandTargets(cidrs []string) ([]string, error) {
	targets := []string{}

	for _, t := range cidrs {
		if cidrSuffix.MatchString(t) {
			ips, err := mapcidr.IPAddresses(t)

			if err != nil {
				return nil, err
			}

			targets = append(targets, ips...)
		} else {
			targets = append(targets, t)
		}
	}

	if len(targets) == 0 {
		return nil, errors.New("no sweep targets provided")
	}

	return targets, nil
}
