package playbook

import (
	"github.com/aescanero/netqa-router/internal/citation"
)

// Scenario ids
const (
	ScenarioBGPNeighborDown    = "bgp-neighbor-down"
	ScenarioInterfaceDown      = "interface-down"
	ScenarioMTUBlackhole       = "mtu-blackhole"
	ScenarioOSPFAdjacencyStuck = "ospf-adjacency-stuck"
)

// Rule is one diagnostic step. Check, Result, Fix and Verify are {param}
// templates over the run context; Commands are command intents looked up
// per vendor.
type Rule struct {
	ID string
	// Condition is a CEL expression over ctx; empty means always.
	Condition string
	Trigger   string
	Check     string
	Result    string
	Fix       string
	Verify    string
	Commands  []string
	Citations []citation.Citation
}

// Scenario is a named, ordered rule table
type Scenario struct {
	ID          string
	Title       string
	DefaultPort int
	Rules       []Rule
}

func cite(doc, section, title string) citation.Citation {
	return citation.New(doc, section, title)
}

// DefaultScenarios holds the built-in playbooks, ordered by id.
var DefaultScenarios = []Scenario{
	bgpNeighborDown,
	interfaceDown,
	mtuBlackhole,
	ospfAdjacencyStuck,
}

var bgpNeighborDown = Scenario{
	ID:          ScenarioBGPNeighborDown,
	Title:       "BGP neighbor not established",
	DefaultPort: 179,
	Rules: []Rule{
		{
			ID:        "bgp-session-state",
			Trigger:   "session not in Established",
			Check:     "Check the session state for {peer}",
			Result:    "Session to {peer} is Idle, Connect or Active instead of Established",
			Verify:    "State column shows a prefix count for {peer}",
			Commands:  []string{"show_bgp_summary", "show_bgp_neighbor"},
			Citations: []citation.Citation{cite("4271", "8", "BGP Finite State Machine")},
		},
		{
			ID:       "bgp-peer-reachability",
			Trigger:  "no IP path to the peer",
			Check:    "Confirm {peer} is reachable from {interface}",
			Result:   "Pings or traceroute to {peer} fail, or no route covers it",
			Fix:      "Restore the route or link towards {peer}",
			Verify:   "Ping {peer} succeeds with 0% loss",
			Commands: []string{"ping_peer", "traceroute_peer", "show_route_peer"},
			Citations: []citation.Citation{
				cite("4271", "8.2.1", "FSM Definition"),
				cite("1812", "5.2", "Forwarding Walk-through"),
			},
		},
		{
			ID:        "bgp-transport",
			Condition: "ctx.port > 0",
			Trigger:   "TCP session cannot form",
			Check:     "Check TCP port {port} to {peer} is open and not filtered",
			Result:    "No TCP connection on port {port}, or an ACL drops it",
			Fix:       "Permit TCP {port} between the peers",
			Verify:    "A TCP connection to {peer} port {port} is ESTABLISHED",
			Commands:  []string{"show_tcp_port", "show_acl"},
			Citations: []citation.Citation{cite("4271", "2", "Introduction to the BGP")},
		},
		{
			ID:       "bgp-open-config",
			Trigger:  "OPEN rejected",
			Check:    "Compare neighbor {peer} remote-as and update-source on both sides",
			Result:   "Remote AS or source address does not match the peer configuration",
			Fix:      "Correct the neighbor statement for {peer}",
			Verify:   "No OPEN Message Error notifications for {peer}",
			Commands: []string{"show_bgp_config"},
			Citations: []citation.Citation{
				cite("4271", "6.2", "OPEN Message Error Handling"),
				cite("4271", "4.2", "OPEN Message Format"),
			},
		},
		{
			ID:        "bgp-auth",
			Condition: "ctx.auth != 'none'",
			Trigger:   "TCP MD5 signature mismatch",
			Check:     "Compare the session password for {peer} (auth {auth})",
			Result:    "Keys differ or only one side signs segments",
			Fix:       "Set the same key on both ends for {peer}",
			Verify:    "No invalid MD5 digest messages in the log",
			Commands:  []string{"show_bgp_auth"},
			Citations: []citation.Citation{
				cite("2385", "2", "Proposal"),
				cite("5925", "1", "Introduction"),
			},
		},
		{
			ID:        "bgp-hold-timer",
			Trigger:   "hold timer expired",
			Check:     "Check negotiated hold and keepalive timers for {peer}",
			Result:    "Hold timer expires before keepalives arrive",
			Fix:       "Align timers or fix loss on the path to {peer}",
			Commands:  []string{"show_bgp_timers"},
			Citations: []citation.Citation{cite("4271", "10", "BGP Timers")},
		},
		{
			ID:        "bgp-notifications",
			Trigger:   "session reset by NOTIFICATION",
			Check:     "Read recent BGP log messages for {peer}",
			Result:    "NOTIFICATION codes show why {peer} closed the session",
			Commands:  []string{"show_log_bgp"},
			Citations: []citation.Citation{cite("4271", "6", "BGP Error Handling")},
		},
		{
			ID:       "bgp-soft-reset",
			Trigger:  "session up, routes missing",
			Check:    "Refresh routes from {peer} without dropping the session",
			Result:   "Received prefix count recovers after the refresh",
			Verify:   "Summary shows {peer} Established with prefixes received",
			Commands: []string{"clear_bgp_soft", "show_bgp_summary"},
			Citations: []citation.Citation{
				cite("2918", "3", "Route-REFRESH Message"),
				cite("4271", "9", "UPDATE Message Handling"),
			},
		},
	},
}

var ospfAdjacencyStuck = Scenario{
	ID:    ScenarioOSPFAdjacencyStuck,
	Title: "OSPF adjacency not reaching Full",
	Rules: []Rule{
		{
			ID:        "ospf-neighbor-state",
			Trigger:   "adjacency below Full",
			Check:     "Check the neighbor state on {interface}",
			Result:    "Neighbor {peer} stays in Init, 2-Way, ExStart or Exchange",
			Verify:    "Neighbor {peer} is Full",
			Commands:  []string{"show_ospf_neighbor"},
			Citations: []citation.Citation{cite("2328", "10.1", "Neighbor states")},
		},
		{
			ID:        "ospf-interface-enabled",
			Trigger:   "OSPF not running on the link",
			Check:     "Confirm OSPF is enabled on {interface} in area {area}",
			Result:    "{interface} is missing from the OSPF interface list",
			Fix:       "Add {interface} to area {area}",
			Commands:  []string{"show_ospf_interface"},
			Citations: []citation.Citation{cite("2328", "9", "The Interface Data Structure")},
		},
		{
			ID:       "ospf-area-mismatch",
			Trigger:  "hellos dropped for area",
			Check:    "Compare the area ID on both ends of {interface}",
			Result:   "Local area {area} differs from the neighbor's area",
			Fix:      "Place both interfaces in area {area}",
			Commands: []string{"show_ospf_config", "show_ospf_interface"},
			Citations: []citation.Citation{
				cite("2328", "10.5", "Receiving Hello Packets"),
				cite("2328", "3", "Splitting the AS into Areas"),
			},
		},
		{
			ID:       "ospf-hello-timers",
			Trigger:  "hello or dead interval mismatch",
			Check:    "Compare hello and dead intervals on {interface}",
			Result:   "Intervals differ so hellos from {peer} are discarded",
			Fix:      "Set matching intervals on {interface}",
			Commands: []string{"show_ospf_interface"},
			Citations: []citation.Citation{
				cite("2328", "10.5", "Receiving Hello Packets"),
				cite("2328", "A.3.2", "The Hello packet"),
			},
		},
		{
			ID:        "ospf-mtu-mismatch",
			Condition: "ctx.mtu > 0",
			Trigger:   "stuck in ExStart/Exchange",
			Check:     "Compare interface MTU {mtu} with the neighbor",
			Result:    "Database Description packets are rejected for MTU mismatch",
			Fix:       "Set the same IP MTU on both ends of {interface}",
			Verify:    "Adjacency moves past Exchange",
			Commands:  []string{"show_interface_mtu"},
			Citations: []citation.Citation{cite("2328", "10.6", "Receiving Database Description Packets")},
		},
		{
			ID:        "ospf-auth",
			Condition: "ctx.auth != 'none'",
			Trigger:   "authentication mismatch",
			Check:     "Compare OSPF authentication type and key on {interface} (auth {auth})",
			Result:    "Packets fail authentication and are dropped",
			Fix:       "Configure the same authentication on both neighbors",
			Commands:  []string{"show_ospf_auth"},
			Citations: []citation.Citation{
				cite("2328", "D.3", "Cryptographic authentication"),
				cite("5709", "3", "OSPFv2 HMAC-SHA Cryptographic Authentication"),
			},
		},
		{
			ID:        "ospf-router-id",
			Trigger:   "duplicate router ID",
			Check:     "Check the router ID is unique in area {area}",
			Result:    "Two routers advertise the same router ID",
			Fix:       "Assign a unique router ID and restart the OSPF process",
			Commands:  []string{"show_ospf_router_id", "show_ospf_database"},
			Citations: []citation.Citation{cite("2328", "C.1", "Global parameters")},
		},
		{
			ID:       "ospf-adjacency-debug",
			Trigger:  "cause still unknown",
			Check:    "Trace adjacency events on {interface}",
			Result:   "Debug output names the event that stalls the neighbor state machine",
			Commands: []string{"debug_ospf_adj", "show_ospf_database"},
			Citations: []citation.Citation{
				cite("2328", "10.3", "The Neighbor state machine"),
			},
		},
	},
}

var interfaceDown = Scenario{
	ID:    ScenarioInterfaceDown,
	Title: "Interface down or flapping",
	Rules: []Rule{
		{
			ID:        "interface-status",
			Trigger:   "line protocol down",
			Check:     "Check admin and operational status of {interface}",
			Result:    "{interface} is administratively down or the line protocol is down",
			Fix:       "Enable {interface} if it was shut",
			Verify:    "{interface} is up/up",
			Commands:  []string{"show_interface", "show_interface_status"},
			Citations: []citation.Citation{cite("2863", "3.1.13", "IfAdminStatus and IfOperStatus")},
		},
		{
			ID:        "interface-errdisable",
			Trigger:   "port error-disabled",
			Check:     "Check whether {interface} was error-disabled",
			Result:    "{interface} was shut by a protection feature",
			Fix:       "Clear the cause and re-enable {interface}",
			Commands:  []string{"show_errdisable"},
			Citations: []citation.Citation{cite("2863", "3.1.13", "IfAdminStatus and IfOperStatus")},
		},
		{
			ID:        "interface-optics",
			Trigger:   "no light or low receive power",
			Check:     "Read transceiver levels on {interface}",
			Result:    "Receive power is outside the optic's range",
			Fix:       "Clean or replace the fiber or optic on {interface}",
			Commands:  []string{"show_optics"},
			Citations: []citation.Citation{cite("2863", "3.1.1", "Interface Sub-Layers and Sub-Types")},
		},
		{
			ID:       "interface-errors",
			Trigger:  "CRC or input errors",
			Check:    "Check error counters on {interface}",
			Result:   "CRC, input or carrier errors are increasing",
			Fix:      "Replace the cable or fix the duplex/speed mismatch",
			Verify:   "Counters stop incrementing after clearing",
			Commands: []string{"show_interface_errors"},
			Citations: []citation.Citation{
				cite("2863", "3.1.6", "Interface Numbering"),
			},
		},
		{
			ID:        "interface-config",
			Trigger:   "configuration mismatch",
			Check:     "Review the configuration of {interface}",
			Result:    "Speed, duplex or encapsulation differs from the far end",
			Fix:       "Match link parameters with the neighbor",
			Commands:  []string{"show_interface_config"},
			Citations: []citation.Citation{cite("2863", "3.1.1", "Interface Sub-Layers and Sub-Types")},
		},
		{
			ID:        "interface-mtu",
			Condition: "ctx.mtu > 0",
			Trigger:   "MTU mismatch on the link",
			Check:     "Compare MTU {mtu} on {interface} with the far end",
			Result:    "Large frames are dropped across {interface}",
			Commands:  []string{"show_interface_mtu"},
			Citations: []citation.Citation{cite("894", "1", "Frame Format")},
		},
		{
			ID:        "interface-lldp",
			Trigger:   "cabled to the wrong port",
			Check:     "Identify the far-end device on {interface}",
			Result:    "LLDP shows an unexpected neighbor or none",
			Fix:       "Correct the cabling on {interface}",
			Commands:  []string{"show_lldp"},
			Citations: []citation.Citation{cite("2863", "3.1.1", "Interface Sub-Layers and Sub-Types")},
		},
		{
			ID:        "interface-flap-log",
			Trigger:   "link flapping",
			Check:     "Read link up/down events for {interface}",
			Result:    "Log shows repeated state changes on {interface}",
			Verify:    "No new link events after the fix",
			Commands:  []string{"show_log_interface"},
			Citations: []citation.Citation{cite("5424", "6", "Syslog Message Format")},
		},
	},
}

var mtuBlackhole = Scenario{
	ID:    ScenarioMTUBlackhole,
	Title: "Path MTU black hole",
	Rules: []Rule{
		{
			ID:       "mtu-df-ping",
			Trigger:  "large packets lost, small ones pass",
			Check:    "Ping {destination} with DF set at size {mtu}",
			Result:   "Full-size DF pings fail while smaller pings succeed",
			Verify:   "DF pings at {mtu} succeed",
			Commands: []string{"ping_df"},
			Citations: []citation.Citation{
				cite("1191", "3", "Protocol Overview"),
				cite("1191", "4", "Router Specification"),
			},
		},
		{
			ID:        "mtu-path-trace",
			Trigger:   "hop with smaller MTU",
			Check:     "Trace the path to {destination}",
			Result:    "The hop where large packets stop is identified",
			Commands:  []string{"traceroute_dest"},
			Citations: []citation.Citation{cite("1191", "3", "Protocol Overview")},
		},
		{
			ID:        "mtu-route",
			Trigger:   "traffic takes an unexpected path",
			Check:     "Check the route to {destination}",
			Result:    "Traffic to {destination} leaves through a tunnel or low-MTU link",
			Commands:  []string{"show_route_dest"},
			Citations: []citation.Citation{cite("1812", "5.2", "Forwarding Walk-through")},
		},
		{
			ID:        "mtu-interface",
			Trigger:   "egress MTU below expected",
			Check:     "Check MTU on {interface}",
			Result:    "{interface} MTU is below {mtu}",
			Fix:       "Raise the MTU on {interface} or lower it consistently end to end",
			Commands:  []string{"show_interface_mtu"},
			Citations: []citation.Citation{cite("791", "2.3", "Function Description")},
		},
		{
			ID:        "mtu-tunnel-overhead",
			Trigger:   "encapsulation overhead",
			Check:     "Check tunnel interfaces on the path to {destination}",
			Result:    "Tunnel headers push packets over the underlay MTU",
			Fix:       "Lower the tunnel IP MTU by the encapsulation overhead",
			Commands:  []string{"show_tunnel"},
			Citations: []citation.Citation{cite("4459", "2", "Summary of MTU Issues")},
		},
		{
			ID:        "mtu-tcp-mss",
			Trigger:   "TCP stalls after handshake",
			Check:     "Check TCP MSS clamping towards {destination}",
			Result:    "No MSS adjustment where the path MTU shrinks",
			Fix:       "Clamp TCP MSS to {mtu_payload} or lower on the tunnel edge",
			Verify:    "Large TCP transfers to {destination} complete",
			Commands:  []string{"show_mss"},
			Citations: []citation.Citation{cite("879", "3", "The TCP Maximum Segment Size Option")},
		},
		{
			ID:       "mtu-icmp-filter",
			Trigger:  "PTB messages filtered",
			Check:    "Check filters for ICMP unreachable / fragmentation needed",
			Result:   "A filter drops ICMP type 3 code 4 so senders never learn the path MTU",
			Fix:      "Permit ICMP fragmentation-needed messages",
			Commands: []string{"show_icmp_filter"},
			Citations: []citation.Citation{
				cite("2923", "2.1", "Black Hole Detection"),
				cite("1191", "4", "Router Specification"),
			},
		},
		{
			ID:        "mtu-icmp-stats",
			Trigger:   "no PTB generated",
			Check:     "Check ICMP unreachable counters",
			Result:    "Fragmentation-needed messages are not sent or are rate-limited",
			Verify:    "Counters increase when DF pings at {mtu} fail",
			Commands:  []string{"show_icmp_stats"},
			Citations: []citation.Citation{cite("4821", "1", "Introduction")},
		},
	},
}
