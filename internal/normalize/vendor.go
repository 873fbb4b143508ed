package normalize

import (
	"strings"

	"github.com/aescanero/netqa-router/internal/lexicon"
)

// VendorVote is the evidence collected for one vendor
type VendorVote struct {
	Vendor        string   `json:"vendor"`
	TokenHits     []string `json:"token_hits,omitempty"`
	InterfaceHits []string `json:"interface_hits,omitempty"`
	Votes         int      `json:"votes"`
}

// VendorEvidence lists the votes of every vendor with at least one hit,
// ordered by vendor name.
type VendorEvidence struct {
	Votes []VendorVote `json:"votes,omitempty"`
}

// InferVendor tallies token and interface-prefix hints per vendor. The vendor
// with the most votes wins; ties go to the lexicographically smallest name.
// An empty vendor is returned when nothing matched.
func InferVendor(normalized string) (string, VendorEvidence) {
	padded := " " + normalized + " "
	tokens := strings.Fields(normalized)

	var evidence VendorEvidence
	winner := ""
	best := 0

	// VendorHints is sorted by vendor, so a strict > keeps the smallest name
	// on ties.
	for _, hint := range lexicon.VendorHints {
		vote := VendorVote{Vendor: hint.Vendor}

		for _, t := range hint.Tokens {
			if n := countPhrase(padded, t); n > 0 {
				vote.TokenHits = append(vote.TokenHits, t)
				vote.Votes += n
			}
		}
		for _, tok := range tokens {
			for _, prefix := range hint.InterfacePrefixes {
				if hasInterfacePrefix(tok, prefix) {
					vote.InterfaceHits = append(vote.InterfaceHits, tok)
					vote.Votes++
					break
				}
			}
		}

		if vote.Votes == 0 {
			continue
		}
		evidence.Votes = append(evidence.Votes, vote)
		if vote.Votes > best {
			best = vote.Votes
			winner = hint.Vendor
		}
	}

	return winner, evidence
}

// hasInterfacePrefix reports whether tok is prefix followed by a digit
func hasInterfacePrefix(tok, prefix string) bool {
	if len(tok) <= len(prefix) || !strings.HasPrefix(tok, prefix) {
		return false
	}
	c := tok[len(prefix)]
	return c >= '0' && c <= '9'
}
