// Package router classifies network-engineering questions into a response
// strategy.
//
// The router evaluates four paths in a fixed order and returns exactly one
// RouteDecision:
//   - Troubleshoot: troubleshooting vocabulary present; protocol families are
//     scored by CandidateScorer and the best playbook wins
//   - Short / off-topic guards: abstain early on queries that carry no signal
//   - Concept: explanation keywords plus a concept term with an existing card
//   - Define: the most specific protocol term resolves to an RFC number
//
// Ambiguity is never an error. Unrouteable queries produce an ABSTAIN decision
// carrying one of the closed reason codes.
//
// Example usage:
//
//	decisions := cache.New[string, router.RouteDecision](1024, 10*time.Minute)
//	r := router.NewRouter(retriever, conceptStore, decisions, logger)
//
//	d := r.Route(normalize.Normalize("iosxe bgp neighbor down 192.0.2.1"), router.Options{})
//	// d.Intent == router.IntentTroubleshoot
//	// d.Target == "bgp-neighbor-down"
//
// Example explicit vendor:
//
//	d := r.Route(q, router.Options{Vendor: "junos"})
//
// Decisions that do not abstain are memoized in the injected cache keyed by
// the normalized text and the explicit vendor, so repeated calls return the
// same decision.
package router
