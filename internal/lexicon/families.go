package lexicon

// Structured value kinds extracted from a query
const (
	StructuredPeerIP    = "peer_ip"
	StructuredPort      = "port"
	StructuredInterface = "interface"
	StructuredArea      = "area"
)

// VendorPresentWeight is added once when a vendor was named or inferred.
const VendorPresentWeight = 0.5

// Keyword is a weighted vocabulary entry
type Keyword struct {
	Term   string
	Weight float64
}

// Family is a troubleshooting protocol family. Target is the playbook id the
// family routes to.
type Family struct {
	Target     string
	Protocol   []Keyword
	State      []Keyword
	Structured map[string]float64
}

// Families is ordered by target name.
var Families = []Family{
	{
		Target: "bgp-neighbor-down",
		Protocol: []Keyword{
			{"bgp", 1.5},
			{"ebgp", 1.5},
			{"ibgp", 1.5},
			{"remote-as", 0.75},
			{"neighbor", 0.5},
			{"peer", 0.5},
			{"session", 0.5},
		},
		State: []Keyword{
			{"not established", 1.0},
			{"hold timer expired", 1.0},
			{"down", 0.75},
			{"idle", 0.75},
			{"flapping", 0.75},
			{"flap", 0.75},
			{"active", 0.5},
			{"reset", 0.5},
			{"stuck", 0.5},
		},
		Structured: map[string]float64{
			StructuredPeerIP: 0.75,
			StructuredPort:   0.5,
		},
	},
	{
		Target: "interface-down",
		Protocol: []Keyword{
			{"interface", 1.0},
			{"line protocol", 1.0},
			{"link", 0.75},
			{"port", 0.5},
			{"optic", 0.5},
			{"transceiver", 0.5},
			{"sfp", 0.5},
			{"cable", 0.5},
		},
		State: []Keyword{
			{"err-disabled", 1.0},
			{"administratively down", 1.0},
			{"down", 0.75},
			{"flapping", 0.75},
			{"crc", 0.75},
			{"errors", 0.5},
		},
		Structured: map[string]float64{
			StructuredInterface: 1.0,
		},
	},
	{
		Target: "mtu-blackhole",
		Protocol: []Keyword{
			{"mtu", 1.5},
			{"pmtud", 1.5},
			{"path mtu", 1.5},
			{"fragmentation", 1.0},
			{"mss", 1.0},
			{"packet too big", 1.0},
			{"fragment", 0.75},
			{"df", 0.5},
			{"tunnel", 0.5},
			{"jumbo", 0.5},
		},
		State: []Keyword{
			{"blackhole", 1.0},
			{"mismatch", 0.75},
			{"large packets", 0.75},
			{"hangs", 0.75},
			{"drops", 0.5},
			{"dropping", 0.5},
			{"timeout", 0.5},
			{"stuck", 0.5},
		},
		Structured: map[string]float64{
			StructuredPeerIP:    0.5,
			StructuredInterface: 0.25,
		},
	},
	{
		Target: "ospf-adjacency-stuck",
		Protocol: []Keyword{
			{"ospf", 1.5},
			{"adjacency", 0.75},
			{"neighbor", 0.5},
			{"lsa", 0.5},
			{"hello", 0.5},
			{"dead interval", 0.5},
		},
		State: []Keyword{
			{"exstart", 1.0},
			{"stuck", 0.75},
			{"init", 0.75},
			{"2-way", 0.75},
			{"exchange", 0.5},
			{"loading", 0.5},
			{"down", 0.5},
			{"flapping", 0.5},
		},
		Structured: map[string]float64{
			StructuredArea:      0.75,
			StructuredInterface: 0.5,
			StructuredPeerIP:    0.25,
		},
	},
}

// TroubleshootTriggers selects the troubleshooting path when any of them
// appears in the normalized query.
var TroubleshootTriggers = []string{
	"blackhole",
	"broken",
	"crc",
	"down",
	"dropping",
	"drops",
	"err-disabled",
	"exstart",
	"fail",
	"failed",
	"failing",
	"fails",
	"failure",
	"flap",
	"flapping",
	"hold timer expired",
	"idle",
	"mismatch",
	"not coming up",
	"not established",
	"not working",
	"stuck",
	"timed out",
	"timeout",
	"troubleshoot",
	"troubleshooting",
	"unreachable",
}
