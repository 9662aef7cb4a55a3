package platform

import (
	"context"
	"strings"

	"github.com/scottpeterman/termtelent-sub002/internal/neighbor"
	"github.com/scottpeterman/termtelent-sub002/internal/parse"
	"github.com/scottpeterman/termtelent-sub002/internal/session"
)

// unknownValue is the sentinel facts fields carry when a template matched
// structurally but extracted nothing useful
const unknownValue = "Unknown"

// baseDialect carries the pieces shared by every dialect implementation
type baseDialect struct {
	name         string
	versionCmd   string
	versionHint  string
	neighborCmds []NeighborCommand
	parser       parse.Engine
}

func (d *baseDialect) Name() string {
	return d.name
}

func (d *baseDialect) NeighborCommands() []NeighborCommand {
	return d.neighborCmds
}

// FetchFacts runs the dialect's version command and extracts structured
// identity facts from its output
func (d *baseDialect) FetchFacts(ctx context.Context, sess session.Session) (*session.Facts, error) {
	output, err := sess.Run(ctx, d.versionCmd)

	if err != nil {
		return nil, err
	}

	_, records, score := d.parser.FindBestTemplate(output, d.versionHint)

	facts := &session.Facts{
		Hostname:  unknownValue,
		Vendor:    unknownValue,
		Model:     unknownValue,
		OSVersion: unknownValue,
		Serial:    unknownValue,
	}

	if score > parse.MinConfidence && len(records) > 0 {
		rec := records[0]

		setIfPresent(&facts.Hostname, rec["HOSTNAME"])
		setIfPresent(&facts.Vendor, rec["VENDOR"])
		setIfPresent(&facts.Model, rec["HARDWARE"])
		setIfPresent(&facts.OSVersion, rec["VERSION"])
		setIfPresent(&facts.Serial, rec["SERIAL"])
	}

	if facts.Vendor == unknownValue {
		facts.Vendor = vendorFromOutput(output)
	}

	return facts, nil
}

func setIfPresent(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}

// vendorFromOutput falls back to scanning the raw banner for a vendor
// keyword when the template carried no VENDOR field
func vendorFromOutput(output string) string {
	switch {
	case strings.Contains(output, "Cisco"):
		return "Cisco"
	case strings.Contains(output, "Arista"):
		return "Arista"
	case strings.Contains(output, "Hewlett-Packard") || strings.Contains(output, "ProCurve"):
		return "Hewlett-Packard"
	case strings.Contains(output, "Aruba"):
		return "Aruba"
	case strings.Contains(output, "Juniper"):
		return "Juniper"
	}

	return unknownValue
}

// validateCommon rejects facts with missing or sentinel critical fields
func validateCommon(f *session.Facts) bool {
	for _, field := range []string{f.Vendor, f.Model, f.OSVersion} {
		if field == "" || field == unknownValue {
			return false
		}
	}

	return true
}

type iosDialect struct{ baseDialect }

func newIOSDialect(parser parse.Engine) *iosDialect {
	return &iosDialect{baseDialect{
		name:        "ios",
		versionCmd:  "show version",
		versionHint: "cisco_ios_show_version",
		parser:      parser,
		neighborCmds: []NeighborCommand{
			{neighbor.CDP, "show cdp neighbors detail", "cisco_ios_show_cdp_neighbors_detail"},
			{neighbor.LLDP, "show lldp neighbors detail", "cisco_ios_show_lldp_neighbors_detail"},
		},
	}}
}

// Validate accepts Cisco facts that do not belong to the sibling NX-OS
// dialect
func (d *iosDialect) Validate(f *session.Facts) bool {
	return validateCommon(f) &&
		strings.Contains(f.Vendor, "Cisco") &&
		strings.Contains(f.OSVersion, "Version") &&
		!strings.Contains(f.Model, "Nexus") &&
		!strings.Contains(f.OSVersion, "NX-OS")
}

type nxosDialect struct{ baseDialect }

func newNXOSDialect(parser parse.Engine) *nxosDialect {
	return &nxosDialect{baseDialect{
		name:        "nxos_ssh",
		versionCmd:  "show version",
		versionHint: "cisco_nxos_show_version",
		parser:      parser,
		neighborCmds: []NeighborCommand{
			{neighbor.CDP, "show cdp neighbors detail", "cisco_nxos_show_cdp_neighbors_detail"},
			{neighbor.LLDP, "show lldp neighbors detail", "cisco_nxos_show_lldp_neighbors_detail"},
		},
	}}
}

func (d *nxosDialect) Validate(f *session.Facts) bool {
	return validateCommon(f) &&
		strings.Contains(f.Vendor, "Cisco") &&
		(strings.Contains(f.Model, "Nexus") || strings.Contains(f.OSVersion, "NX-OS"))
}

type eosDialect struct{ baseDialect }

func newEOSDialect(parser parse.Engine) *eosDialect {
	return &eosDialect{baseDialect{
		name:        "eos",
		versionCmd:  "show version",
		versionHint: "arista_eos_show_version",
		parser:      parser,
		// EOS does not speak CDP
		neighborCmds: []NeighborCommand{
			{neighbor.LLDP, "show lldp neighbors detail", "arista_eos_show_lldp_neighbors_detail"},
		},
	}}
}

func (d *eosDialect) Validate(f *session.Facts) bool {
	return validateCommon(f) &&
		(strings.Contains(f.Vendor, "Arista") ||
			strings.Contains(f.Model, "vEOS") ||
			strings.Contains(f.OSVersion, "EOS"))
}

type procurveDialect struct{ baseDialect }

func newProcurveDialect(parser parse.Engine) *procurveDialect {
	return &procurveDialect{baseDialect{
		name:        "procurve",
		versionCmd:  "show system",
		versionHint: "hp_procurve_show_system",
		parser:      parser,
		neighborCmds: []NeighborCommand{
			{neighbor.LLDP, "show lldp info remote-device detail", "hp_procurve_show_lldp_info_remote_detail"},
		},
	}}
}

func (d *procurveDialect) Validate(f *session.Facts) bool {
	return validateCommon(f) &&
		(strings.Contains(f.Vendor, "Hewlett-Packard") ||
			strings.Contains(f.Model, "Aruba") ||
			strings.Contains(f.Vendor, "Aruba"))
}
