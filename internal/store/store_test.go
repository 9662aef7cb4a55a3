package store_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scottpeterman/termtelent-sub002/internal/neighbor"
	"github.com/scottpeterman/termtelent-sub002/internal/store"
	"github.com/scottpeterman/termtelent-sub002/internal/topology"
)

func TestRecordFromDevice(t *testing.T) {
	t.Run("converts a device with connections", func(st *testing.T) {
		device := topology.NewDevice("access-sw01", "10.0.0.1", "ios", "FCW1234A0AA")

		device.AddConnection("core-sw01", topology.Connection{
			LocalPort:  "Gi1/0/1",
			RemotePort: "Gi1/0/24",
			Protocol:   neighbor.CDP,
			NeighborIP: "10.0.0.2",
		})

		record := store.RecordFromDevice(device)

		assert.Equal(st, "access-sw01", record.Hostname)
		assert.Equal(st, "10.0.0.1", record.IP)
		assert.Equal(st, "ios", record.Platform)
		assert.Equal(st, "FCW1234A0AA", record.Serial)

		connections := map[string][]topology.Connection{}

		assert.NoError(st, json.Unmarshal(record.Connections, &connections))
		assert.Len(st, connections["core-sw01"], 1)
		assert.Equal(st, "Gi1/0/24", connections["core-sw01"][0].RemotePort)
	})

	t.Run("converts a device without connections", func(st *testing.T) {
		device := topology.NewDevice("lone-sw01", "10.0.0.9", "eos", "")

		record := store.RecordFromDevice(device)

		assert.Equal(st, "lone-sw01", record.Hostname)
		assert.NotEmpty(st, record.Connections)
	})
}
