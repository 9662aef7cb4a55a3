package name

import (
	"regexp"
	"strings"
)

// domainSuffixes is the fixed list of known domain tails stripped from
// discovered hostnames, longest match first, case-insensitive
var domainSuffixes = []string{
	".corp.local",
	".net.local",
	".mgmt.local",
	".internal",
	".local",
	".lan",
	".corp",
}

var (
	ipv4Pattern = regexp.MustCompile(`^\d{1,3}(?:\.\d{1,3}){3}$`)

	// generic ".label.tld" shaped tail for FQDNs outside the known list
	fqdnTailPattern = regexp.MustCompile(`(?i)\.[a-z0-9][a-z0-9-]*(?:\.[a-z]{2,})+$`)
)

// Hostname strips FQDN tails, scraping artifacts and whitespace to produce
// the canonical device identity. Two raw names that normalize to the same
// string are the same device. Idempotent.
func Hostname(raw string) string {
	host := strings.TrimSpace(raw)

	if host == "" {
		return host
	}

	// drop a trailing interface token glued on by upstream scraping,
	// e.g. "switch1-Gi1/0/1" or "ush-m1-core Fo1/0/14"
	if i := strings.LastIndexAny(host, " -"); i > 0 && IsInterfaceLike(host[i+1:]) {
		host = strings.TrimSpace(host[:i])
	}

	// dotted-quad addresses pass through untouched
	if ipv4Pattern.MatchString(host) {
		return host
	}

	lower := strings.ToLower(host)
	for _, suffix := range domainSuffixes {
		if strings.HasSuffix(lower, suffix) {
			host = host[:len(host)-len(suffix)]
			break
		}
	}

	host = fqdnTailPattern.ReplaceAllString(host, "")

	return strings.TrimSpace(host)
}
