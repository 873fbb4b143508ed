package router

import (
	"fmt"
	"math"
	"sort"

	"github.com/aescanero/netqa-router/internal/lexicon"
	"github.com/aescanero/netqa-router/internal/normalize"
	"go.uber.org/zap"
)

// definePhrases raise confidence that the user wants a definition
var definePhrases = []string{"what is", "what are", "define", "definition of", "meaning of", "overview of"}

// routeConcept returns a CONCEPT decision, or a reduced-confidence DEFINE
// fallback when the card is missing. ok is false when the query has no
// concept intent.
func (r *Router) routeConcept(q normalize.Query) (RouteDecision, bool) {
	var intents []string
	for _, kw := range lexicon.ConceptIntents {
		if q.Has(kw) {
			intents = append(intents, kw)
		}
	}
	if len(intents) == 0 {
		return RouteDecision{}, false
	}

	terms := matchTerms(q, lexicon.ConceptTerms)
	if len(terms) == 0 {
		return RouteDecision{}, false
	}
	term := mostSpecific(terms)
	slug := lexicon.ConceptTerms[term]

	if r.concepts != nil && r.concepts.Exists(slug) {
		matches := len(intents) + len(terms)
		return RouteDecision{
			Intent:        IntentConcept,
			Target:        slug,
			Confidence:    math.Min(1, 0.5+0.1*float64(matches)),
			MatchedTokens: append(append([]string{}, intents...), terms...),
			Reasons: []string{
				fmt.Sprintf("concept intent matched: %v", intents),
				fmt.Sprintf("concept term %q resolves to card %s", term, slug),
			},
			Vendor: q.Vendor,
			Notes: Notes{
				Message:        fmt.Sprintf("concept card %s", slug),
				VendorEvidence: q.Evidence,
			},
		}, true
	}

	r.logger.Debug("concept card missing, falling back to define",
		zap.String("slug", slug),
	)

	d := r.routeDefine(q)
	if d.Intent == IntentAbstain {
		return d, true
	}
	d.Confidence = confidenceConceptMissing
	d.Reasons = append([]string{fmt.Sprintf("concept card %s not available", slug)}, d.Reasons...)
	d.Notes.Message = fmt.Sprintf("concept card %s not found; answering with a definition instead", slug)
	return d, true
}

// routeDefine resolves the most specific define term to its RFC number
func (r *Router) routeDefine(q normalize.Query) RouteDecision {
	terms := matchTerms(q, lexicon.DefineTerms)

	target := lexicon.DefaultDefineTarget
	confidence := confidenceDefineDefault
	var reasons, matched []string

	if len(terms) > 0 {
		term := mostSpecific(terms)
		target = lexicon.DefineTerms[term]
		matched = []string{term}
		confidence = confidenceDefineTerm
		reasons = append(reasons, fmt.Sprintf("term %q resolves to RFC %s", term, target))
		if phrase := firstPhrase(q, definePhrases); phrase != "" {
			confidence = confidenceDefinePhrase
			matched = append(matched, phrase)
			reasons = append(reasons, fmt.Sprintf("definitional phrase %q", phrase))
		}
	} else {
		reasons = append(reasons, fmt.Sprintf("no specific term matched; default RFC %s", target))
	}

	if r.docs != nil && !r.docs.HasDocument(target) {
		d := abstain(ReasonMissingEvidence, q,
			fmt.Sprintf("corpus has no sections for RFC %s", target),
			append(reasons, fmt.Sprintf("RFC %s is not indexed", target))...,
		)
		d.MatchedTokens = matched
		return d
	}

	return RouteDecision{
		Intent:        IntentDefine,
		Target:        target,
		Confidence:    confidence,
		MatchedTokens: matched,
		Reasons:       reasons,
		Vendor:        q.Vendor,
		Notes: Notes{
			Message:        fmt.Sprintf("definition from RFC %s", target),
			VendorEvidence: q.Evidence,
		},
	}
}

// matchTerms returns the keys of table present in q, sorted
func matchTerms(q normalize.Query, table map[string]string) []string {
	var out []string
	for term := range table {
		if q.Has(term) {
			out = append(out, term)
		}
	}
	sort.Strings(out)
	return out
}

// mostSpecific picks the longest term; equal lengths go to the
// lexicographically smallest. terms must be sorted and non-empty.
func mostSpecific(terms []string) string {
	best := terms[0]
	for _, t := range terms[1:] {
		if len(t) > len(best) {
			best = t
		}
	}
	return best
}

func firstPhrase(q normalize.Query, phrases []string) string {
	for _, p := range phrases {
		if q.Has(p) {
			return p
		}
	}
	return ""
}
