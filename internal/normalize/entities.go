package normalize

import (
	"net/netip"
	"regexp"
	"strconv"
	"strings"
)

// Auth hints recognized in queries
const (
	AuthMD5  = "md5"
	AuthSHA  = "sha"
	AuthNone = "none"
)

// Entities are the structured values found in a normalized query. Every
// slice keeps first-seen order without duplicates.
type Entities struct {
	PeerIPs    []string `json:"peer_ips,omitempty"`
	Interfaces []string `json:"interfaces,omitempty"`
	Ports      []int    `json:"ports,omitempty"`
	Areas      []string `json:"areas,omitempty"`
	MTU        int      `json:"mtu,omitempty"`
	Auth       string   `json:"auth,omitempty"`
}

var (
	ipv4Pattern      = regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`)
	areaPattern      = regexp.MustCompile(`\barea (\d+(?:\.\d+\.\d+\.\d+)?)\b`)
	portPattern      = regexp.MustCompile(`\b(?:port |tcp/|udp/|tcp |udp )(\d{1,5})\b`)
	mtuPattern       = regexp.MustCompile(`\bmtu (?:of )?(\d{3,5})\b`)
	junosIfPattern   = regexp.MustCompile(`^(?:ge|xe|et)-\d+/\d+/\d+(?:\.\d+)?$`)
	aggregatePattern = regexp.MustCompile(`^ae\d+(?:\.\d+)?$`)
)

var interfacePrefixes = []string{
	"gigabitethernet",
	"tengigabitethernet",
	"fastethernet",
	"ethernet",
	"port-channel",
	"loopback",
}

// ExtractEntities finds peer addresses, interfaces, ports, OSPF areas, MTU
// and authentication hints in q.
func ExtractEntities(q Query) Entities {
	text := q.Text
	var e Entities

	areaSpans := areaPattern.FindAllStringSubmatchIndex(text, -1)
	for _, m := range areaSpans {
		e.Areas = appendUnique(e.Areas, text[m[2]:m[3]])
	}

	for _, m := range ipv4Pattern.FindAllStringIndex(text, -1) {
		if insideSpans(m[0], areaSpans) {
			continue
		}
		addr, err := netip.ParseAddr(text[m[0]:m[1]])
		if err != nil || !addr.Is4() {
			continue
		}
		e.PeerIPs = appendUnique(e.PeerIPs, addr.String())
	}

	for _, m := range portPattern.FindAllStringSubmatch(text, -1) {
		port, err := strconv.Atoi(m[1])
		if err != nil || port <= 0 || port > 65535 {
			continue
		}
		if !containsInt(e.Ports, port) {
			e.Ports = append(e.Ports, port)
		}
	}

	if m := mtuPattern.FindStringSubmatch(text); m != nil {
		if mtu, err := strconv.Atoi(m[1]); err == nil && mtu >= 68 && mtu <= 65535 {
			e.MTU = mtu
		}
	}

	for _, tok := range q.Tokens {
		if isInterfaceToken(tok) {
			e.Interfaces = appendUnique(e.Interfaces, tok)
		}
	}

	e.Auth = authHint(q)
	return e
}

func isInterfaceToken(tok string) bool {
	for _, p := range interfacePrefixes {
		if hasInterfacePrefix(tok, p) {
			return true
		}
	}
	return junosIfPattern.MatchString(tok) || aggregatePattern.MatchString(tok)
}

func authHint(q Query) string {
	switch {
	case q.Has("no auth"), q.Has("no authentication"), q.Has("without authentication"):
		return AuthNone
	case q.Has("md5"):
		return AuthMD5
	case q.Has("sha"), q.Has("hmac-sha-256"), q.Has("sha256"):
		return AuthSHA
	}
	return ""
}

// insideSpans reports whether pos falls inside the first capture group of
// any submatch span.
func insideSpans(pos int, spans [][]int) bool {
	for _, s := range spans {
		if pos >= s[2] && pos < s[3] {
			return true
		}
	}
	return false
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if strings.EqualFold(x, v) {
			return list
		}
	}
	return append(list, v)
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
