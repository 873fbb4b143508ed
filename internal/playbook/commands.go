package playbook

import (
	"fmt"

	"github.com/aescanero/netqa-router/internal/lexicon"
)

// CommandKey addresses one vendor rendering of a command intent
type CommandKey struct {
	Intent string
	Vendor string
}

// CommandTable maps (intent, vendor) to a {param} template. Extend it by
// adding rows; lookups that miss render MissingCommand.
type CommandTable map[CommandKey]string

// MissingCommand is the visible placeholder for an unknown (intent, vendor)
func MissingCommand(intent, vendor string) string {
	return fmt.Sprintf("<no template: %s/%s>", intent, vendor)
}

const (
	iosxe = lexicon.VendorIOSXE
	junos = lexicon.VendorJunos
)

// DefaultCommands covers the iosxe and junos dialects
var DefaultCommands = CommandTable{
	// BGP
	{"show_bgp_summary", iosxe}:  "show ip bgp summary",
	{"show_bgp_summary", junos}:  "show bgp summary",
	{"show_bgp_neighbor", iosxe}: "show ip bgp neighbors {peer}",
	{"show_bgp_neighbor", junos}: "show bgp neighbor {peer}",
	{"show_bgp_config", iosxe}:   "show running-config | section router bgp",
	{"show_bgp_config", junos}:   "show configuration protocols bgp",
	{"show_bgp_auth", iosxe}:     "show running-config | include neighbor {peer} password",
	{"show_bgp_auth", junos}:     "show configuration protocols bgp | match authentication",
	{"show_bgp_timers", iosxe}:   "show ip bgp neighbors {peer} | include hold time",
	{"show_bgp_timers", junos}:   "show bgp neighbor {peer} | match Holdtime",
	{"show_log_bgp", iosxe}:      "show logging | include BGP",
	{"show_log_bgp", junos}:      "show log messages | match bgp",
	{"clear_bgp_soft", iosxe}:    "clear ip bgp {peer} soft",
	{"clear_bgp_soft", junos}:    "clear bgp neighbor {peer} soft",

	// reachability
	{"ping_peer", iosxe}:       "ping {peer} source {interface}",
	{"ping_peer", junos}:       "ping {peer} interface {interface} count 5",
	{"traceroute_peer", iosxe}: "traceroute {peer}",
	{"traceroute_peer", junos}: "traceroute {peer}",
	{"show_route_peer", iosxe}: "show ip route {peer}",
	{"show_route_peer", junos}: "show route {peer}",
	{"show_tcp_port", iosxe}:   "show tcp brief all | include {port}",
	{"show_tcp_port", junos}:   "show system connections | match {port}",
	{"show_acl", iosxe}:        "show ip access-lists",
	{"show_acl", junos}:        "show firewall",

	// OSPF
	{"show_ospf_neighbor", iosxe}:  "show ip ospf neighbor",
	{"show_ospf_neighbor", junos}:  "show ospf neighbor",
	{"show_ospf_interface", iosxe}: "show ip ospf interface {interface}",
	{"show_ospf_interface", junos}: "show ospf interface {interface} detail",
	{"show_ospf_config", iosxe}:    "show running-config | section router ospf",
	{"show_ospf_config", junos}:    "show configuration protocols ospf",
	{"show_ospf_database", iosxe}:  "show ip ospf database",
	{"show_ospf_database", junos}:  "show ospf database",
	{"show_ospf_auth", iosxe}:      "show ip ospf interface {interface} | include authentication",
	{"show_ospf_auth", junos}:      "show configuration protocols ospf area {area} interface {interface} authentication",
	{"show_ospf_router_id", iosxe}: "show ip ospf | include Router ID",
	{"show_ospf_router_id", junos}: `show ospf overview | match "Router ID"`,
	{"debug_ospf_adj", iosxe}:      "debug ip ospf adj",
	{"debug_ospf_adj", junos}:      "monitor traffic interface {interface} matching ospf",

	// interfaces
	{"show_interface", iosxe}:        "show interfaces {interface}",
	{"show_interface", junos}:        "show interfaces {interface} extensive",
	{"show_interface_status", iosxe}: "show interfaces status",
	{"show_interface_status", junos}: "show interfaces terse",
	{"show_interface_errors", iosxe}: "show interfaces {interface} counters errors",
	{"show_interface_errors", junos}: "show interfaces {interface} extensive | match error",
	{"show_interface_config", iosxe}: "show running-config interface {interface}",
	{"show_interface_config", junos}: "show configuration interfaces {interface}",
	{"show_interface_mtu", iosxe}:    "show interfaces {interface} | include MTU",
	{"show_interface_mtu", junos}:    "show interfaces {interface} | match MTU",
	{"show_optics", iosxe}:           "show interfaces {interface} transceiver detail",
	{"show_optics", junos}:           "show interfaces diagnostics optics {interface}",
	{"show_errdisable", iosxe}:       "show interfaces status err-disabled",
	{"show_errdisable", junos}:       "show ethernet-switching interface {interface}",
	{"show_lldp", iosxe}:             "show lldp neighbors {interface} detail",
	{"show_lldp", junos}:             "show lldp neighbors interface {interface}",
	{"show_log_interface", iosxe}:    "show logging | include {interface}",
	{"show_log_interface", junos}:    "show log messages | match {interface}",

	// path MTU
	{"ping_df", iosxe}:          "ping {destination} size {mtu} df-bit",
	{"ping_df", junos}:          "ping {destination} size {mtu_payload} do-not-fragment",
	{"traceroute_dest", iosxe}:  "traceroute {destination}",
	{"traceroute_dest", junos}:  "traceroute {destination}",
	{"show_route_dest", iosxe}:  "show ip route {destination}",
	{"show_route_dest", junos}:  "show route {destination}",
	{"show_tunnel", iosxe}:      "show interfaces | include Tunnel|MTU",
	{"show_tunnel", junos}:      "show interfaces terse | match gr-",
	{"show_mss", iosxe}:         "show running-config | include ip tcp adjust-mss",
	{"show_mss", junos}:         "show configuration | display set | match tcp-mss",
	{"show_icmp_filter", iosxe}: "show ip access-lists | include icmp",
	{"show_icmp_filter", junos}: "show configuration firewall | match icmp",
	{"show_icmp_stats", iosxe}:  "show ip traffic | section ICMP",
	{"show_icmp_stats", junos}:  "show system statistics icmp",
}

// Vendors returns the dialects present in the table
func (t CommandTable) Vendors() map[string]bool {
	out := make(map[string]bool)
	for k := range t {
		out[k.Vendor] = true
	}
	return out
}
