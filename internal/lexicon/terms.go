package lexicon

// DefaultDefineTarget is returned when no define term matches:
// RFC 1812, Requirements for IP Version 4 Routers.
const DefaultDefineTarget = "1812"

// DefineTerms maps protocol and technology names to the RFC that defines them.
var DefineTerms = map[string]string{
	"arp":                      "826",
	"bfd":                      "5880",
	"bgp":                      "4271",
	"bgp communities":          "1997",
	"bgp-4":                    "4271",
	"border gateway protocol":  "4271",
	"cidr":                     "4632",
	"dhcp":                     "2131",
	"dns":                      "1035",
	"evpn":                     "7432",
	"gre":                      "2784",
	"icmp":                     "792",
	"icmpv6":                   "4443",
	"igmp":                     "3376",
	"ipsec":                    "4301",
	"ipv4":                     "791",
	"ipv6":                     "8200",
	"is-is":                    "1195",
	"isis":                     "1195",
	"ldp":                      "5036",
	"mpls":                     "3031",
	"nat":                      "3022",
	"ntp":                      "5905",
	"open shortest path first": "2328",
	"ospf":                     "2328",
	"ospfv3":                   "5340",
	"path mtu discovery":       "1191",
	"pim":                      "7761",
	"pmtud":                    "1191",
	"rip":                      "2453",
	"ripng":                    "2080",
	"route reflector":          "4456",
	"rsvp":                     "2205",
	"rsvp-te":                  "3209",
	"segment routing":          "8402",
	"snmp":                     "3411",
	"tcp":                      "9293",
	"udp":                      "768",
	"vrrp":                     "5798",
	"vxlan":                    "7348",
}

// ConceptIntents mark a query as asking for an explanation rather than a
// definition.
var ConceptIntents = []string{
	"compare",
	"concept",
	"difference between",
	"explain",
	"how do",
	"how does",
	"versus",
	"vs",
	"walk me through",
	"why do",
	"why does",
}

// ConceptTerms maps concept phrases to concept-card slugs.
var ConceptTerms = map[string]string{
	"802.1q":                  "vlan-tagging",
	"administrative distance": "administrative-distance",
	"best path":               "bgp-best-path",
	"bestpath":                "bgp-best-path",
	"bgp path selection":      "bgp-best-path",
	"distance vector":         "link-state-vs-distance-vector",
	"ecmp":                    "ecmp",
	"equal cost multipath":    "ecmp",
	"label switching":         "mpls-label-switching",
	"link state":              "link-state-vs-distance-vector",
	"lsa types":               "ospf-lsa-types",
	"mpls label":              "mpls-label-switching",
	"ospf area":               "ospf-areas",
	"ospf areas":              "ospf-areas",
	"ospf lsa":                "ospf-lsa-types",
	"route reflection":        "bgp-route-reflection",
	"route reflector":         "bgp-route-reflection",
	"spanning tree":           "spanning-tree",
	"stp":                     "spanning-tree",
	"vlan":                    "vlan-tagging",
	"vlans":                   "vlan-tagging",
}

// NetworkingTerms is the general vocabulary that, together with every other
// table in this package, decides whether a query is on topic.
var NetworkingTerms = []string{
	"acl",
	"address",
	"adjacency",
	"autonomous system",
	"bandwidth",
	"ethernet",
	"firewall",
	"gateway",
	"interface",
	"ip",
	"latency",
	"link",
	"loopback",
	"neighbor",
	"network",
	"networking",
	"next hop",
	"nexthop",
	"packet",
	"packets",
	"peering",
	"prefix",
	"protocol",
	"route",
	"router",
	"routes",
	"routing",
	"subnet",
	"switch",
	"switching",
}
