package name_test

import (
	"testing"

	"github.com/scottpeterman/termtelent-sub002/internal/name"
	"github.com/stretchr/testify/assert"
)

func TestInterfaceNormalization(t *testing.T) {
	t.Run("normalizes vendor spellings to long and short forms", func(st *testing.T) {
		cases := []struct {
			input string
			long  string
			short string
		}{
			{"GigabitEthernet1/0/1", "GigabitEthernet1/0/1", "Gi1/0/1"},
			{"Gi1/0/1", "GigabitEthernet1/0/1", "Gi1/0/1"},
			{"Eth1/1", "Ethernet1/1", "Eth1/1"},
			{"Te1/1/1", "TenGigabitEthernet1/1/1", "Te1/1/1"},
			{"100Gig1/0/1", "HundredGigabitEthernet1/0/1", "Hu1/0/1"},
			{"Fo1/0/14", "FortyGigabitEthernet1/0/14", "Fo1/0/14"},
			{"Twe1/0/2", "TwentyFiveGigE1/0/2", "Twe1/0/2"},
			{"Po1", "Port-Channel1", "Po1"},
			{"port-channel10", "Port-Channel10", "Po10"},
			{"Vlan100", "Vlan100", "Vl100"},
			{"lo0", "Loopback0", "Lo0"},
			{"FastEthernet0/1", "FastEthernet0/1", "Fa0/1"},
		}

		for _, c := range cases {
			assert.Equal(st, c.long, name.Interface(c.input, name.Long), c.input)
			assert.Equal(st, c.short, name.Interface(c.input, name.Short), c.input)
		}
	})

	t.Run("normalizes management synonyms", func(st *testing.T) {
		assert.Equal(st, "Ma0", name.ShortInterface("mgmt0"))
		assert.Equal(st, "Ma", name.ShortInterface("oob_management"))
		assert.Equal(st, "Ma", name.ShortInterface("wan"))
		assert.Equal(st, "Ma", name.ShortInterface("oob"))
		assert.Equal(st, "Management1", name.LongInterface("management1"))
		assert.Equal(st, "Ma1", name.ShortInterface("Ma1"))
	})

	t.Run("strips hostname prefixes", func(st *testing.T) {
		assert.Equal(st, "Gi1/0/1", name.ShortInterface("switch1-Gi1/0/1"))
		assert.Equal(st, "Fo1/0/14", name.ShortInterface("ush-m1-core Fo1/0/14"))
		assert.Equal(st, "FortyGigabitEthernet1/0/14", name.LongInterface("ush-m1-core Fo1/0/14"))
	})

	t.Run("returns unmatched input lower-cased", func(st *testing.T) {
		assert.Equal(st, "xe-0/0/0", name.ShortInterface("xe-0/0/0"))
		assert.Equal(st, "", name.ShortInterface(""))
	})

	t.Run("is idempotent", func(st *testing.T) {
		inputs := []string{
			"GigabitEthernet1/0/1",
			"Te1/1/1",
			"100Gig1/0/1",
			"mgmt0",
			"wan",
			"xe-0/0/0",
		}

		for _, in := range inputs {
			short := name.ShortInterface(in)
			long := name.LongInterface(in)

			assert.Equal(st, short, name.ShortInterface(short), in)
			assert.Equal(st, long, name.LongInterface(long), in)
		}
	})
}
