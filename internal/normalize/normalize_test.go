package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_CollapsesAndLowercases(t *testing.T) {
	q := Normalize("  What   IS\tOSPF?  ")
	assert.Equal(t, "what is ospf", q.Text)
	assert.Equal(t, []string{"what", "is", "ospf"}, q.Tokens)
	assert.Equal(t, "  What   IS\tOSPF?  ", q.Original)
}

func TestNormalize_Substitutions(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ospf area 0 stuck", "ospf area 0.0.0.0 stuck"},
		{"ospf area 0", "ospf area 0.0.0.0"},
		{"ospf area 0.0.0.0", "ospf area 0.0.0.0"},
		{"area 01 flapping", "area 01 flapping"},
		{"BGP neighbour down", "bgp neighbor down"},
		{"Gi0/1 down", "gigabitethernet0/1 down"},
		{"gig 1/0/1 crc", "gigabitethernet1/0/1 crc"},
		{"te1/1/1 errors", "tengigabitethernet1/1/1 errors"},
		{"fa0/0 down", "fastethernet0/0 down"},
		{"lo0 unreachable", "loopback0 unreachable"},
		{"IOS-XE bgp", "iosxe bgp"},
		{"ios xe bgp", "iosxe bgp"},
		{"NX-OS vlan", "nxos vlan"},
		{"gigabitethernet0/1", "gigabitethernet0/1"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in).Text)
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	first := Normalize("Junos ge-0/0/0 Gi0/1 area 0 neighbour")
	second := Normalize(first.Text)
	assert.Equal(t, first.Text, second.Text)
}

func TestQuery_Count(t *testing.T) {
	q := Normalize("bgp down down, bgp not established")
	assert.Equal(t, 2, q.Count("down"))
	assert.Equal(t, 2, q.Count("bgp"))
	assert.Equal(t, 1, q.Count("not established"))
	assert.Equal(t, 0, q.Count("own"))
	assert.Equal(t, 0, q.Count(""))
	assert.True(t, q.Has("bgp down"))
}

func TestInferVendor(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantVendor string
		wantVotes  int
	}{
		{"explicit token", "iosxe bgp neighbor down", "iosxe", 1},
		{"interface prefix", "ge-0/0/1 down", "junos", 1},
		{"cisco interface", "gigabitethernet0/1 crc errors", "iosxe", 1},
		{"phrase hint", "show route 10.0.0.0", "junos", 1},
		{"no hints", "what is ospf", "", 0},
		{"nexus", "nexus ethernet1/1 down", "nxos", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vendor, evidence := InferVendor(Normalize(tt.text).Text)
			assert.Equal(t, tt.wantVendor, vendor)
			total := 0
			for _, v := range evidence.Votes {
				if v.Vendor == tt.wantVendor {
					total = v.Votes
				}
			}
			assert.Equal(t, tt.wantVotes, total)
		})
	}
}

func TestInferVendor_TieBreaksOnSmallestName(t *testing.T) {
	// one vote each for iosxe and junos
	vendor, evidence := InferVendor("cisco juniper interop")
	assert.Equal(t, "iosxe", vendor)
	require.Len(t, evidence.Votes, 2)
	assert.Equal(t, "iosxe", evidence.Votes[0].Vendor)
	assert.Equal(t, "junos", evidence.Votes[1].Vendor)

	vendor, _ = InferVendor("arista juniper")
	assert.Equal(t, "eos", vendor)
}

func TestInferVendor_MajorityWins(t *testing.T) {
	vendor, evidence := InferVendor("cisco juniper junos ge-0/0/0")
	assert.Equal(t, "junos", vendor)
	require.Len(t, evidence.Votes, 2)
	assert.Equal(t, 3, evidence.Votes[1].Votes)
	assert.Equal(t, []string{"ge-0/0/0"}, evidence.Votes[1].InterfaceHits)
}

func TestExtractEntities(t *testing.T) {
	q := Normalize("iosxe bgp neighbor 192.0.2.1 down on Gi0/1 port 179, area 0 mtu 9000 md5")
	e := ExtractEntities(q)

	assert.Equal(t, []string{"192.0.2.1"}, e.PeerIPs)
	assert.Equal(t, []string{"gigabitethernet0/1"}, e.Interfaces)
	assert.Equal(t, []int{179}, e.Ports)
	assert.Equal(t, []string{"0.0.0.0"}, e.Areas)
	assert.Equal(t, 9000, e.MTU)
	assert.Equal(t, AuthMD5, e.Auth)
}

func TestExtractEntities_RejectsInvalidValues(t *testing.T) {
	e := ExtractEntities(Normalize("ping 999.1.1.1 port 70000 mtu 12"))
	assert.Empty(t, e.PeerIPs)
	assert.Empty(t, e.Ports)
	assert.Zero(t, e.MTU)
}

func TestExtractEntities_JunosInterfacesAndNoAuth(t *testing.T) {
	e := ExtractEntities(Normalize("junos ge-0/0/0.0 and ae1 ospf no authentication tcp/22"))
	assert.Equal(t, []string{"ge-0/0/0.0", "ae1"}, e.Interfaces)
	assert.Equal(t, AuthNone, e.Auth)
	assert.Equal(t, []int{22}, e.Ports)
}
