package neighbor

import (
	"regexp"
	"strings"

	"github.com/scottpeterman/termtelent-sub002/internal/name"
	"github.com/scottpeterman/termtelent-sub002/internal/parse"
)

// Protocol identifies which adjacency protocol produced a record
type Protocol string

// Enum values for the supported neighbor protocols
const (
	CDP  Protocol = "cdp"
	LLDP Protocol = "lldp"
)

// Neighbor is one canonical adjacency record
type Neighbor struct {
	PeerID   string
	IP       string
	Platform string
	LocalIf  string
	RemoteIf string
	Protocol Protocol
}

// fieldMapping names the parser fields that hold each value for a given
// platform dialect. Remote interface naming is the part that differs.
type fieldMapping struct {
	deviceID string
	mgmtIP   string
	localIf  string
	remoteIf string
}

var lldpMappings = map[string]fieldMapping{
	"ios":      {"NEIGHBOR_NAME", "MGMT_ADDRESS", "LOCAL_INTERFACE", "NEIGHBOR_PORT_ID"},
	"eos":      {"NEIGHBOR_NAME", "MGMT_ADDRESS", "LOCAL_INTERFACE", "NEIGHBOR_INTERFACE"},
	"nxos_ssh": {"NEIGHBOR_NAME", "MGMT_ADDRESS", "LOCAL_INTERFACE", "NEIGHBOR_PORT_ID"},
}

var cdpMapping = fieldMapping{"NEIGHBOR_NAME", "MGMT_ADDRESS", "LOCAL_INTERFACE", "NEIGHBOR_INTERFACE"}

var (
	colonMACPattern  = regexp.MustCompile(`^(?i)[0-9a-f]{2}(?::[0-9a-f]{2}){5}$`)
	dottedMACPattern = regexp.MustCompile(`^(?i)[0-9a-f]{4}\.[0-9a-f]{4}\.[0-9a-f]{4}$`)
	numericPattern   = regexp.MustCompile(`^\d+$`)
)

// headerTokens are leading words from command banners that sometimes leak
// through capture as fake device ids
var headerTokens = []string{"Entry", "Device", "System"}

// Normalize converts one raw parsed record into a canonical Neighbor.
// Returns false for records whose peer id fails the validity guard.
func Normalize(rec parse.Record, proto Protocol, platform string) (*Neighbor, bool) {
	mapping := cdpMapping

	if proto == LLDP {
		m, ok := lldpMappings[platform]
		if !ok {
			m = lldpMappings["ios"]
		}
		mapping = m
	}

	deviceID := rec[mapping.deviceID]

	if deviceID == "" {
		// chassis id is the LLDP fallback identity
		deviceID = strings.ToLower(strings.ReplaceAll(rec["CHASSIS_ID"], ":", ""))
	}

	peerID := name.Hostname(deviceID)

	if !ValidDeviceID(peerID) {
		return nil, false
	}

	ip := rec[mapping.mgmtIP]

	if ip == "" {
		ip = rec["INTERFACE_IP"]
	}

	localIf := rec[mapping.localIf]
	remoteIf := rec[mapping.remoteIf]

	if remoteIf == "" {
		remoteIf = rec["NEIGHBOR_INTERFACE"]
	}

	if localIf == "" || remoteIf == "" {
		return nil, false
	}

	return &Neighbor{
		PeerID:   peerID,
		IP:       ip,
		Platform: PlatformFromDescription(platformDescription(rec, proto)),
		LocalIf:  name.ShortInterface(localIf),
		RemoteIf: name.ShortInterface(remoteIf),
		Protocol: proto,
	}, true
}

// ValidDeviceID guards against malformed capture output being treated as
// a device
func ValidDeviceID(deviceID string) bool {
	if len(deviceID) <= 1 {
		return false
	}

	for _, token := range headerTokens {
		if strings.HasPrefix(deviceID, token) {
			return false
		}
	}

	if numericPattern.MatchString(deviceID) {
		return false
	}

	if colonMACPattern.MatchString(deviceID) || dottedMACPattern.MatchString(deviceID) {
		return false
	}

	return !punctuationOnly(deviceID)
}

// PlatformFromDescription infers the peer's platform by keyword search
// over whatever free-text description the protocol carried
func PlatformFromDescription(desc string) string {
	desc = strings.ToLower(desc)

	switch {
	case strings.Contains(desc, "nx-os") || strings.Contains(desc, "nexus"):
		return "nxos"
	case strings.Contains(desc, "arista") || strings.Contains(desc, "eos"):
		return "eos"
	case strings.Contains(desc, "juniper") || strings.Contains(desc, "junos"):
		return "junos"
	case strings.Contains(desc, "cisco") || strings.Contains(desc, "ios"):
		return "ios"
	}

	// generic default when no keyword matches
	return "ios"
}

func platformDescription(rec parse.Record, proto Protocol) string {
	if proto == CDP {
		if rec["PLATFORM"] != "" {
			return rec["PLATFORM"]
		}
		return rec["NEIGHBOR_DESCRIPTION"]
	}

	if rec["NEIGHBOR_DESCRIPTION"] != "" {
		return rec["NEIGHBOR_DESCRIPTION"]
	}

	if rec["CAPABILITIES"] != "" {
		return rec["CAPABILITIES"]
	}

	return rec["PLATFORM"]
}

func punctuationOnly(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune(".-_/:,", r) {
			return false
		}
	}
	return true
}
