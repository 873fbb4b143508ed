package router

import (
	"fmt"
	"strings"

	"github.com/aescanero/netqa-router/internal/lexicon"
	"github.com/aescanero/netqa-router/internal/normalize"
	"go.uber.org/zap"
)

// routeTroubleshoot scores the protocol families and picks a playbook
func (r *Router) routeTroubleshoot(q normalize.Query, entities normalize.Entities, explicitVendor string, triggers []string) RouteDecision {
	vendor, source := resolveVendor(explicitVendor, q.Vendor)

	if !lexicon.IsSupportedVendor(vendor) {
		r.logger.Info("unsupported vendor",
			zap.String("vendor", vendor),
			zap.String("source", source),
		)
		d := abstain(ReasonUnsupportedVendor, q,
			fmt.Sprintf("vendor %q has no playbook command dialect", vendor),
			fmt.Sprintf("vendor %s (%s) is not one of: %s", vendor, source, strings.Join(lexicon.SupportedVendors(), ", ")),
		)
		d.Vendor = vendor
		return d
	}

	cands := BuildCandidates(Signals{
		Query:         q,
		Entities:      entities,
		VendorPresent: source != vendorSourceDefault,
		Vendor:        vendor,
	})
	RankCandidates(cands)

	for i, c := range cands {
		r.logger.Debug("scored candidate",
			zap.Int("rank", i),
			zap.String("target", c.Target),
			zap.Float64("score", c.Score),
			zap.Strings("triggered_rules", c.TriggeredRules),
		)
	}

	winner := cands[0]
	notes := Notes{
		TokenHits:      TokenHitTable(cands),
		RunnerUps:      runnerUps(cands),
		VendorEvidence: q.Evidence,
	}
	reasons := troubleshootReasons(winner, cands, triggers, vendor, source)

	if winner.Score < MinTroubleshootConfidence {
		notes.Message = fmt.Sprintf("best candidate %s scored %.4f, below %.2f",
			winner.Target, winner.Score, MinTroubleshootConfidence)
		notes.RunnerUps = append([]RunnerUp{{
			Target:         winner.Target,
			Score:          winner.Score,
			TriggeredRules: len(winner.TriggeredRules),
		}}, notes.RunnerUps...)
		if len(notes.RunnerUps) > maxRunnerUps {
			notes.RunnerUps = notes.RunnerUps[:maxRunnerUps]
		}
		return RouteDecision{
			Intent:        IntentAbstain,
			Confidence:    winner.Score,
			MatchedTokens: winner.Matched,
			Reasons:       reasons,
			ReasonCode:    ReasonLowConfidence,
			Vendor:        vendor,
			Notes:         notes,
		}
	}

	notes.Message = fmt.Sprintf("routed to playbook %s", winner.Target)
	return RouteDecision{
		Intent:        IntentTroubleshoot,
		Target:        winner.Target,
		Confidence:    winner.Score,
		MatchedTokens: winner.Matched,
		Reasons:       reasons,
		Vendor:        vendor,
		Notes:         notes,
	}
}

const (
	vendorSourceExplicit = "explicit"
	vendorSourceInferred = "inferred"
	vendorSourceDefault  = "default"
)

// resolveVendor prefers the explicit vendor, then the inferred one, then the
// default dialect.
func resolveVendor(explicit, inferred string) (string, string) {
	switch {
	case explicit != "":
		return explicit, vendorSourceExplicit
	case inferred != "":
		return inferred, vendorSourceInferred
	}
	return lexicon.DefaultVendor, vendorSourceDefault
}

func troubleshootReasons(winner Candidate, ranked []Candidate, triggers []string, vendor, source string) []string {
	reasons := []string{
		fmt.Sprintf("troubleshooting vocabulary matched: %s", strings.Join(triggers, ", ")),
		fmt.Sprintf("%s scored %.4f from %d signals", winner.Target, winner.Score, len(winner.TriggeredRules)),
	}
	if key, v := strongestSignal(winner); key != "" {
		reasons = append(reasons, fmt.Sprintf("strongest signal %s contributed %.2f", key, v))
	}
	reasons = append(reasons, fmt.Sprintf("vendor %s (%s)", vendor, source))
	if len(ranked) > 1 {
		next := ranked[1]
		reasons = append(reasons, fmt.Sprintf("runner-up %s scored %.4f", next.Target, next.Score))
	}
	return reasons
}
