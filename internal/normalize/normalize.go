// Package normalize canonicalizes free-text network questions and infers the
// vendor dialect they are written in.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Query is a normalized question. It is immutable after Normalize returns.
type Query struct {
	Original string         `json:"original"`
	Text     string         `json:"normalized"`
	Tokens   []string       `json:"tokens"`
	Vendor   string         `json:"vendor,omitempty"`
	Evidence VendorEvidence `json:"vendor_evidence"`

	padded string
}

type substitution struct {
	pattern     *regexp.Regexp
	replacement string
}

// substitutions run in order on lowercased, whitespace-collapsed text.
var substitutions = []substitution{
	{regexp.MustCompile(`neighbour`), "neighbor"},
	{regexp.MustCompile(`\bios[- ]xe\b`), "iosxe"},
	{regexp.MustCompile(`\bnx-os\b`), "nxos"},
	{regexp.MustCompile(`\barea 0(\s|$)`), "area 0.0.0.0$1"},
	{regexp.MustCompile(`\b(?:gig|gi) ?(\d+(?:/\d+)+)`), "gigabitethernet$1"},
	{regexp.MustCompile(`\b(?:ten|te) ?(\d+(?:/\d+)+)`), "tengigabitethernet$1"},
	{regexp.MustCompile(`\bfa ?(\d+(?:/\d+)+)`), "fastethernet$1"},
	{regexp.MustCompile(`\blo ?(\d+)\b`), "loopback$1"},
	{regexp.MustCompile(`\bpo ?(\d+)\b`), "port-channel$1"},
}

// Normalize collapses whitespace, lowercases, applies the fixed
// substitutions and infers the vendor.
func Normalize(text string) Query {
	folded := norm.NFKC.String(text)
	folded = strings.ToLower(strings.Join(strings.Fields(folded), " "))

	for _, s := range substitutions {
		folded = s.pattern.ReplaceAllString(folded, s.replacement)
	}

	tokens := Tokens(folded)
	q := Query{
		Original: text,
		Text:     strings.Join(tokens, " "),
		Tokens:   tokens,
	}
	q.padded = " " + q.Text + " "
	q.Vendor, q.Evidence = InferVendor(q.Text)
	return q
}

// Tokens splits text on whitespace and trims punctuation from both ends of
// every token. Dots, slashes, hyphens and colons inside a token are kept so
// addresses and interface names survive.
func Tokens(text string) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		t := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Count returns how many times phrase occurs on token boundaries
func (q Query) Count(phrase string) int {
	if phrase == "" {
		return 0
	}
	padded := q.padded
	if padded == "" {
		padded = " " + q.Text + " "
	}
	return countPhrase(padded, phrase)
}

// Has reports whether phrase occurs on token boundaries
func (q Query) Has(phrase string) bool {
	return q.Count(phrase) > 0
}

func countPhrase(padded, phrase string) int {
	needle := " " + phrase + " "
	n := 0
	for i := 0; i+len(needle) <= len(padded); {
		j := strings.Index(padded[i:], needle)
		if j < 0 {
			break
		}
		n++
		// advance past the phrase but keep the trailing space as the next
		// leading boundary
		i += j + len(needle) - 1
	}
	return n
}
