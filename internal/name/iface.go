package name

import (
	"regexp"
	"strings"
)

// Form selects which canonical interface spelling to produce
type Form int

// Enum values for our two canonical interface forms
const (
	Short Form = iota
	Long
)

// ifaceSpec pairs a vendor spelling pattern with its canonical templates.
// Patterns capture the trailing numeric/slash identifier.
type ifaceSpec struct {
	pattern   *regexp.Regexp
	longForm  string
	shortForm string
}

// mgmtPattern matches the management interface synonym set with or without
// a trailing number. Checked before the general table.
var mgmtPattern = regexp.MustCompile(`^(?:management|oob_management|mgmt|oob|wan|ma)(\d+(?:/\d+)*)?$`)

// ifaceSpecs is the general interface table. Order matters: first match wins.
var ifaceSpecs = []ifaceSpec{
	{regexp.MustCompile(`^(?:ethernet|eth|et)(\d+(?:/\d+)*(?:\.\d+)?)$`), "Ethernet$1", "Eth$1"},
	{regexp.MustCompile(`^(?:gigabitethernet|gigabiteth|gigabit|gige|gi)(\d+(?:/\d+)*(?:\.\d+)?)$`), "GigabitEthernet$1", "Gi$1"},
	{regexp.MustCompile(`^(?:tengigabitethernet|tengigabit|tengige|tengig|te)(\d+(?:/\d+)*(?:\.\d+)?)$`), "TenGigabitEthernet$1", "Te$1"},
	{regexp.MustCompile(`^(?:twentyfivegigabitethernet|twentyfivegige|twentyfivegig|twe)(\d+(?:/\d+)*(?:\.\d+)?)$`), "TwentyFiveGigE$1", "Twe$1"},
	{regexp.MustCompile(`^(?:fortygigabitethernet|fortygige|fortygig|fo)(\d+(?:/\d+)*(?:\.\d+)?)$`), "FortyGigabitEthernet$1", "Fo$1"},
	{regexp.MustCompile(`^(?:hundredgigabitethernet|hundredgige|hundredgig|100gig|hun|hu)(\d+(?:/\d+)*(?:\.\d+)?)$`), "HundredGigabitEthernet$1", "Hu$1"},
	{regexp.MustCompile(`^(?:port-channel|port_channel|portchannel|po)(\d+)$`), "Port-Channel$1", "Po$1"},
	{regexp.MustCompile(`^(?:management|mgmt|oob_management|oob|wan|ma)(\d+(?:/\d+)*)$`), "Management$1", "Ma$1"},
	{regexp.MustCompile(`^(?:management|mgmt|oob_management|oob|wan|ma)$`), "Management", "Ma"},
	{regexp.MustCompile(`^(?:vlan|vl)(\d+)$`), "Vlan$1", "Vl$1"},
	{regexp.MustCompile(`^(?:loopback|lo)(\d+)$`), "Loopback$1", "Lo$1"},
	{regexp.MustCompile(`^(?:fastethernet|fast|fa)(\d+(?:/\d+)*)$`), "FastEthernet$1", "Fa$1"},
}

// Interface maps a vendor specific interface spelling to its canonical
// long or short form. Unmatched input is returned unchanged, lower-cased.
// Idempotent: canonical forms map to themselves.
func Interface(raw string, form Form) string {
	iface := strings.ToLower(strings.TrimSpace(raw))

	if iface == "" {
		return ""
	}

	if out, ok := matchInterface(iface, form); ok {
		return out
	}

	// Upstream scraping sometimes prepends the advertising hostname,
	// separated by a space or hyphen. Retry against the trailing token.
	if i := strings.LastIndex(iface, " "); i != -1 {
		if out, ok := matchInterface(iface[i+1:], form); ok {
			return out
		}
	}

	if i := strings.LastIndex(iface, "-"); i != -1 {
		if out, ok := matchInterface(iface[i+1:], form); ok {
			return out
		}
	}

	return iface
}

// ShortInterface is shorthand for the short canonical form
func ShortInterface(raw string) string {
	return Interface(raw, Short)
}

// LongInterface is shorthand for the long canonical form
func LongInterface(raw string) string {
	return Interface(raw, Long)
}

// IsInterfaceLike reports whether the token matches any known interface
// spelling. Used to recognize interface suffixes glued onto hostnames.
func IsInterfaceLike(token string) bool {
	_, ok := matchInterface(strings.ToLower(strings.TrimSpace(token)), Short)
	return ok
}

func matchInterface(iface string, form Form) (string, bool) {
	// management synonyms first, independent of the general table
	if m := mgmtPattern.FindStringSubmatch(iface); m != nil {
		if form == Long {
			return "Management" + m[1], true
		}
		return "Ma" + m[1], true
	}

	for _, spec := range ifaceSpecs {
		if spec.pattern.MatchString(iface) {
			template := spec.shortForm
			if form == Long {
				template = spec.longForm
			}
			return spec.pattern.ReplaceAllString(iface, template), true
		}
	}

	return "", false
}
