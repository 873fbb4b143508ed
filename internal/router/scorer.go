package router

import (
	"fmt"
	"math"
	"sort"

	"github.com/aescanero/netqa-router/internal/lexicon"
	"github.com/aescanero/netqa-router/internal/normalize"
)

// scoreDivisor scales the weighted token sum into [0,1].
const scoreDivisor = 4.0

// maxRunnerUps bounds the losing candidates reported in Notes.
const maxRunnerUps = 3

// Candidate is one scored interpretation of a troubleshooting query
type Candidate struct {
	Target         string             `json:"target"`
	Weights        map[string]float64 `json:"weights"`
	Counts         map[string]int     `json:"counts"`
	TriggeredRules []string           `json:"triggered_rules"`
	Matched        []string           `json:"matched"`
	Score          float64            `json:"score"`
}

// TokenHit is one row of the token-hit table
type TokenHit struct {
	Target string  `json:"target"`
	Token  string  `json:"token"`
	Weight float64 `json:"weight"`
	Count  int     `json:"count"`
}

// Signals are the inputs shared by every family when building candidates
type Signals struct {
	Query         normalize.Query
	Entities      normalize.Entities
	VendorPresent bool
	Vendor        string
}

// Score computes min(1, round(Σ weight·count / 4, 4)), clamped to [0,1] for
// any weights including negative, infinite or NaN values.
func Score(weights map[string]float64, counts map[string]int) float64 {
	// sum in key order so float addition is reproducible
	keys := make([]string, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sum := 0.0
	for _, k := range keys {
		sum += weights[k] * float64(counts[k])
	}

	s := math.Round(sum/scoreDivisor*1e4) / 1e4
	switch {
	case math.IsNaN(s):
		return 0
	case s > 1:
		return 1
	case s < 0:
		return 0
	}
	return s
}

// BuildCandidates scores every protocol family against the signals. The
// result is in lexicon.Families order; use RankCandidates to order it.
func BuildCandidates(sig Signals) []Candidate {
	out := make([]Candidate, 0, len(lexicon.Families))
	for _, fam := range lexicon.Families {
		out = append(out, buildCandidate(fam, sig))
	}
	return out
}

func buildCandidate(fam lexicon.Family, sig Signals) Candidate {
	c := Candidate{
		Target:  fam.Target,
		Weights: make(map[string]float64),
		Counts:  make(map[string]int),
	}

	add := func(key string, weight float64, count int, matched ...string) {
		c.Weights[key] = weight
		c.Counts[key] = count
		if count > 0 {
			c.TriggeredRules = append(c.TriggeredRules, key)
			c.Matched = append(c.Matched, matched...)
		}
	}

	for _, kw := range fam.Protocol {
		n := sig.Query.Count(kw.Term)
		add("protocol:"+kw.Term, kw.Weight, n, kw.Term)
	}
	for _, kw := range fam.State {
		n := sig.Query.Count(kw.Term)
		add("state:"+kw.Term, kw.Weight, n, kw.Term)
	}

	vendorCount := 0
	if sig.VendorPresent {
		vendorCount = 1
	}
	add("vendor", lexicon.VendorPresentWeight, vendorCount, sig.Vendor)

	structured := map[string][]string{
		lexicon.StructuredPeerIP:    sig.Entities.PeerIPs,
		lexicon.StructuredInterface: sig.Entities.Interfaces,
		lexicon.StructuredArea:      sig.Entities.Areas,
		lexicon.StructuredPort:      portStrings(sig.Entities.Ports),
	}
	kinds := make([]string, 0, len(fam.Structured))
	for kind := range fam.Structured {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		values := structured[kind]
		add("structured:"+kind, fam.Structured[kind], len(values), values...)
	}

	sort.Strings(c.TriggeredRules)
	c.Score = Score(c.Weights, c.Counts)
	return c
}

// RankCandidates sorts by score descending, then target name ascending, then
// number of triggered rules descending.
func RankCandidates(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return candidateLess(cands[i], cands[j])
	})
}

func candidateLess(a, b Candidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Target != b.Target {
		return a.Target < b.Target
	}
	return len(a.TriggeredRules) > len(b.TriggeredRules)
}

// TokenHitTable flattens every non-zero hit of every candidate, ordered by
// target then token.
func TokenHitTable(cands []Candidate) []TokenHit {
	var rows []TokenHit
	for _, c := range cands {
		for _, key := range c.TriggeredRules {
			rows = append(rows, TokenHit{
				Target: c.Target,
				Token:  key,
				Weight: c.Weights[key],
				Count:  c.Counts[key],
			})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Target != rows[j].Target {
			return rows[i].Target < rows[j].Target
		}
		return rows[i].Token < rows[j].Token
	})
	return rows
}

// strongestSignal returns the triggered key with the largest weight·count,
// ties going to the smaller key.
func strongestSignal(c Candidate) (string, float64) {
	best, bestVal := "", -1.0
	for _, key := range c.TriggeredRules {
		v := c.Weights[key] * float64(c.Counts[key])
		if v > bestVal {
			best, bestVal = key, v
		}
	}
	return best, bestVal
}

func runnerUps(ranked []Candidate) []RunnerUp {
	var out []RunnerUp
	for _, c := range ranked[1:] {
		if len(out) == maxRunnerUps {
			break
		}
		out = append(out, RunnerUp{
			Target:         c.Target,
			Score:          c.Score,
			TriggeredRules: len(c.TriggeredRules),
		})
	}
	return out
}

func portStrings(ports []int) []string {
	out := make([]string, 0, len(ports))
	for _, p := range ports {
		out = append(out, fmt.Sprintf("%d", p))
	}
	return out
}
