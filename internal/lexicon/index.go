package lexicon

import "sort"

var (
	protocolTerms   map[string]bool
	vocabularyTerms []string
)

func init() {
	protocolTerms = make(map[string]bool)
	vocab := make(map[string]bool)

	for term := range DefineTerms {
		protocolTerms[term] = true
		vocab[term] = true
	}
	for _, f := range Families {
		for _, kw := range f.Protocol {
			protocolTerms[kw.Term] = true
			vocab[kw.Term] = true
		}
		for _, kw := range f.State {
			vocab[kw.Term] = true
		}
	}
	for term := range ConceptTerms {
		vocab[term] = true
	}
	for _, term := range NetworkingTerms {
		vocab[term] = true
	}
	for _, h := range VendorHints {
		for _, t := range h.Tokens {
			vocab[t] = true
		}
	}

	vocabularyTerms = make([]string, 0, len(vocab))
	for term := range vocab {
		vocabularyTerms = append(vocabularyTerms, term)
	}
	sort.Strings(vocabularyTerms)
}

// IsProtocolTerm reports whether term names a protocol or a protocol keyword
func IsProtocolTerm(term string) bool {
	return protocolTerms[term]
}

// Vocabulary returns every on-topic term in sorted order. The returned slice
// must not be modified.
func Vocabulary() []string {
	return vocabularyTerms
}
