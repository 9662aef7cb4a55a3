package neighbor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scottpeterman/termtelent-sub002/internal/neighbor"
	"github.com/scottpeterman/termtelent-sub002/internal/parse"
)

func TestNormalize(t *testing.T) {
	t.Run("normalizes a cdp record", func(st *testing.T) {
		rec := parse.Record{
			"NEIGHBOR_NAME":      "core-sw01.corp.local",
			"MGMT_ADDRESS":       "10.0.0.2",
			"LOCAL_INTERFACE":    "GigabitEthernet1/0/1",
			"NEIGHBOR_INTERFACE": "GigabitEthernet1/0/24",
			"PLATFORM":           "cisco WS-C3850-48T",
		}

		n, ok := neighbor.Normalize(rec, neighbor.CDP, "ios")

		assert.True(st, ok)
		assert.Equal(st, "core-sw01", n.PeerID)
		assert.Equal(st, "10.0.0.2", n.IP)
		assert.Equal(st, "Gi1/0/1", n.LocalIf)
		assert.Equal(st, "Gi1/0/24", n.RemoteIf)
		assert.Equal(st, "ios", n.Platform)
	})

	t.Run("lldp uses port id for remote interface on ios", func(st *testing.T) {
		rec := parse.Record{
			"NEIGHBOR_NAME":    "dist-sw02",
			"MGMT_ADDRESS":     "10.0.0.3",
			"LOCAL_INTERFACE":  "Te1/1/1",
			"NEIGHBOR_PORT_ID": "Ethernet49",
		}

		n, ok := neighbor.Normalize(rec, neighbor.LLDP, "ios")

		assert.True(st, ok)
		assert.Equal(st, "Te1/1/1", n.LocalIf)
		assert.Equal(st, "Eth49", n.RemoteIf)
	})

	t.Run("lldp uses neighbor interface on eos", func(st *testing.T) {
		rec := parse.Record{
			"NEIGHBOR_NAME":      "leaf01",
			"MGMT_ADDRESS":       "10.0.0.4",
			"LOCAL_INTERFACE":    "Ethernet1",
			"NEIGHBOR_INTERFACE": "Ethernet2",
		}

		n, ok := neighbor.Normalize(rec, neighbor.LLDP, "eos")

		assert.True(st, ok)
		assert.Equal(st, "Eth2", n.RemoteIf)
	})

	t.Run("falls back to chassis id when name missing", func(st *testing.T) {
		rec := parse.Record{
			"CHASSIS_ID":       "edge-fw01",
			"MGMT_ADDRESS":     "10.0.0.5",
			"LOCAL_INTERFACE":  "Gi1/0/2",
			"NEIGHBOR_PORT_ID": "port1",
		}

		n, ok := neighbor.Normalize(rec, neighbor.LLDP, "ios")

		assert.True(st, ok)
		assert.Equal(st, "edge-fw01", n.PeerID)
	})

	t.Run("rejects record without interfaces", func(st *testing.T) {
		rec := parse.Record{
			"NEIGHBOR_NAME": "core-sw01",
			"MGMT_ADDRESS":  "10.0.0.2",
		}

		_, ok := neighbor.Normalize(rec, neighbor.CDP, "ios")

		assert.False(st, ok)
	})

	t.Run("rejects mac address device ids", func(st *testing.T) {
		rec := parse.Record{
			"NEIGHBOR_NAME":      "aa:bb:cc:dd:ee:ff",
			"LOCAL_INTERFACE":    "Gi1/0/1",
			"NEIGHBOR_INTERFACE": "Gi1/0/2",
		}

		_, ok := neighbor.Normalize(rec, neighbor.CDP, "ios")

		assert.False(st, ok)
	})
}

func TestValidDeviceID(t *testing.T) {
	t.Run("accepts normal hostnames", func(st *testing.T) {
		assert.True(st, neighbor.ValidDeviceID("core-sw01"))
		assert.True(st, neighbor.ValidDeviceID("sw1"))
	})

	t.Run("rejects short and numeric ids", func(st *testing.T) {
		assert.False(st, neighbor.ValidDeviceID(""))
		assert.False(st, neighbor.ValidDeviceID("a"))
		assert.False(st, neighbor.ValidDeviceID("12345"))
	})

	t.Run("rejects banner header tokens", func(st *testing.T) {
		assert.False(st, neighbor.ValidDeviceID("Entry address(es):"))
		assert.False(st, neighbor.ValidDeviceID("Device ID"))
		assert.False(st, neighbor.ValidDeviceID("System Name"))
	})

	t.Run("rejects mac addresses", func(st *testing.T) {
		assert.False(st, neighbor.ValidDeviceID("aa:bb:cc:dd:ee:ff"))
		assert.False(st, neighbor.ValidDeviceID("aabb.ccdd.eeff"))
	})

	t.Run("rejects punctuation only", func(st *testing.T) {
		assert.False(st, neighbor.ValidDeviceID("--"))
		assert.False(st, neighbor.ValidDeviceID("..."))
	})
}

func TestPlatformFromDescription(t *testing.T) {
	t.Run("infers platform keywords", func(st *testing.T) {
		assert.Equal(st, "nxos", neighbor.PlatformFromDescription("Cisco Nexus Operating System (NX-OS)"))
		assert.Equal(st, "eos", neighbor.PlatformFromDescription("Arista Networks EOS"))
		assert.Equal(st, "junos", neighbor.PlatformFromDescription("Juniper Networks JUNOS"))
		assert.Equal(st, "ios", neighbor.PlatformFromDescription("Cisco IOS Software"))
	})

	t.Run("defaults to ios", func(st *testing.T) {
		assert.Equal(st, "ios", neighbor.PlatformFromDescription("some unknown switch"))
	})
}
