package lexicon

import "sort"

// Vendor dialect identifiers
const (
	VendorEOS   = "eos"
	VendorIOSXE = "iosxe"
	VendorJunos = "junos"
	VendorNXOS  = "nxos"
)

// DefaultVendor is used when a troubleshooting query names no vendor and none
// can be inferred.
const DefaultVendor = VendorIOSXE

// VendorHint lists the evidence that votes for a vendor
type VendorHint struct {
	Vendor string
	// Tokens are whole words or phrases matched against the normalized text.
	Tokens []string
	// InterfacePrefixes match interface tokens such as "gigabitethernet0/1"
	// or "ge-0/0/0" when the prefix is followed by a digit.
	InterfacePrefixes []string
}

// VendorHints is ordered by vendor name.
var VendorHints = []VendorHint{
	{
		Vendor: VendorEOS,
		Tokens: []string{"eos", "arista"},
	},
	{
		Vendor:            VendorIOSXE,
		Tokens:            []string{"iosxe", "cisco", "ios", "show ip", "router ospf", "router bgp", "ip route"},
		InterfacePrefixes: []string{"gigabitethernet", "tengigabitethernet", "fastethernet", "port-channel"},
	},
	{
		Vendor:            VendorJunos,
		Tokens:            []string{"junos", "juniper", "show route", "set protocols", "commit confirmed"},
		InterfacePrefixes: []string{"ge-", "xe-", "et-", "ae"},
	},
	{
		Vendor:            VendorNXOS,
		Tokens:            []string{"nxos", "nexus"},
		InterfacePrefixes: []string{"ethernet"},
	},
}

var supportedVendors = map[string]bool{
	VendorIOSXE: true,
	VendorJunos: true,
}

var knownVendors = func() map[string]bool {
	m := make(map[string]bool, len(VendorHints))
	for _, h := range VendorHints {
		m[h.Vendor] = true
	}
	return m
}()

// IsSupportedVendor reports whether playbook commands exist for the vendor
func IsSupportedVendor(vendor string) bool {
	return supportedVendors[vendor]
}

// IsKnownVendor reports whether the vendor appears in VendorHints
func IsKnownVendor(vendor string) bool {
	return knownVendors[vendor]
}

// SupportedVendors returns the supported dialects in sorted order
func SupportedVendors() []string {
	out := make([]string, 0, len(supportedVendors))
	for v := range supportedVendors {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// VendorForToken maps a single word that names a vendor to its dialect
func VendorForToken(token string) (string, bool) {
	v, ok := vendorTokens[token]
	return v, ok
}

var vendorTokens = map[string]string{
	"eos":     VendorEOS,
	"arista":  VendorEOS,
	"iosxe":   VendorIOSXE,
	"cisco":   VendorIOSXE,
	"ios":     VendorIOSXE,
	"junos":   VendorJunos,
	"juniper": VendorJunos,
	"nxos":    VendorNXOS,
	"nexus":   VendorNXOS,
}
