package playbook

import (
	"strconv"

	"github.com/aescanero/netqa-router/internal/lexicon"
)

// Context defaults
const (
	DefaultPeer        = "<peer-ip>"
	DefaultDestination = "<destination>"
	DefaultArea        = "0.0.0.0"
	DefaultAuth        = "unknown"
	DefaultMTU         = 1500

	// icmpOverhead is the IPv4 + ICMP header size subtracted from the MTU
	// for payload-sized pings.
	icmpOverhead = 28
)

// defaultInterfaces is the interface assumed per vendor when none is given
var defaultInterfaces = map[string]string{
	lexicon.VendorIOSXE: "GigabitEthernet0/0",
	lexicon.VendorJunos: "ge-0/0/0",
}

// Context holds the optional inputs of a playbook run. Zero values take the
// documented defaults:
//
//	Vendor      iosxe
//	Interface   GigabitEthernet0/0 (iosxe), ge-0/0/0 (junos)
//	Peer        <peer-ip>
//	Destination <destination>
//	Port        the scenario default (179 for BGP), otherwise rendered <port>
//	Area        0.0.0.0
//	Auth        unknown
//	MTU         1500
type Context struct {
	Vendor      string
	Interface   string
	Peer        string
	Destination string
	Port        int
	Area        string
	Auth        string
	MTU         int
}

// resolved is a Context after defaults, plus the names of defaulted fields
type resolved struct {
	Context
	defaulted []string
}

func (c Context) withDefaults(s Scenario) resolved {
	r := resolved{Context: c}
	def := func(name string) { r.defaulted = append(r.defaulted, name) }

	if r.Vendor == "" {
		r.Vendor = lexicon.DefaultVendor
		def("vendor")
	}
	if r.Interface == "" {
		r.Interface = defaultInterfaces[r.Vendor]
		def("interface")
	}
	if r.Peer == "" {
		r.Peer = DefaultPeer
		def("peer")
	}
	if r.Destination == "" {
		r.Destination = DefaultDestination
		def("destination")
	}
	if r.Port <= 0 {
		r.Port = s.DefaultPort
		def("port")
	}
	if r.Area == "" {
		r.Area = DefaultArea
		def("area")
	}
	if r.Auth == "" {
		r.Auth = DefaultAuth
		def("auth")
	}
	if r.MTU <= 0 {
		r.MTU = DefaultMTU
		def("mtu")
	}
	return r
}

func (r resolved) isDefaulted(field string) bool {
	for _, f := range r.defaulted {
		if f == field {
			return true
		}
	}
	return false
}

// params feeds {param} placeholders
func (r resolved) params() map[string]string {
	port := ""
	if r.Port > 0 {
		port = strconv.Itoa(r.Port)
	}
	payload := r.MTU - icmpOverhead
	if payload < 0 {
		payload = 0
	}
	return map[string]string{
		"vendor":      r.Vendor,
		"interface":   r.Interface,
		"peer":        r.Peer,
		"destination": r.Destination,
		"port":        port,
		"area":        r.Area,
		"auth":        r.Auth,
		"mtu":         strconv.Itoa(r.MTU),
		"mtu_payload": strconv.Itoa(payload),
	}
}

// celVars feeds rule conditions
func (r resolved) celVars() map[string]interface{} {
	return map[string]interface{}{
		"ctx": map[string]interface{}{
			"vendor":      r.Vendor,
			"interface":   r.Interface,
			"peer":        r.Peer,
			"destination": r.Destination,
			"port":        int64(r.Port),
			"area":        r.Area,
			"auth":        r.Auth,
			"mtu":         int64(r.MTU),
			"peer_known":  !r.isDefaulted("peer"),
		},
	}
}
