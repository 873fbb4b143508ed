package router

import (
	"strings"
	"sync/atomic"

	"github.com/aescanero/netqa-router/internal/cache"
	"github.com/aescanero/netqa-router/internal/lexicon"
	"github.com/aescanero/netqa-router/internal/normalize"
	"go.uber.org/zap"
)

// Intent is the coarse category of a query
type Intent string

const (
	// IntentDefine answers with a definitional corpus lookup
	IntentDefine Intent = "DEFINE"

	// IntentConcept answers with a concept card
	IntentConcept Intent = "CONCEPT"

	// IntentTroubleshoot answers with a playbook run
	IntentTroubleshoot Intent = "TROUBLESHOOT"

	// IntentAbstain declines to answer
	IntentAbstain Intent = "ABSTAIN"
)

// ReasonCode explains an abstention
type ReasonCode string

const (
	ReasonUnsupportedVendor ReasonCode = "UNSUPPORTED_VENDOR"
	ReasonLowConfidence     ReasonCode = "LOW_CONFIDENCE"
	ReasonShortQuery        ReasonCode = "SHORT_QUERY"
	ReasonOffTopic          ReasonCode = "OFFTOPIC"
	ReasonMissingEvidence   ReasonCode = "MISSING_EVIDENCE"
)

// ReasonCodes lists every abstention reason
var ReasonCodes = []ReasonCode{
	ReasonUnsupportedVendor,
	ReasonLowConfidence,
	ReasonShortQuery,
	ReasonOffTopic,
	ReasonMissingEvidence,
}

// MinTroubleshootConfidence is the lowest winning candidate score that still
// routes to a playbook.
const MinTroubleshootConfidence = 0.60

// Confidence assigned outside the troubleshooting path
const (
	confidenceDefinePhrase   = 0.85
	confidenceDefineTerm     = 0.75
	confidenceDefineDefault  = 0.5
	confidenceConceptMissing = 0.4
)

// RouteDecision is the outcome of routing one query. It is immutable once
// returned; callers must not modify its slices.
type RouteDecision struct {
	Intent        Intent     `json:"intent"`
	Target        string     `json:"target,omitempty"`
	Confidence    float64    `json:"confidence"`
	MatchedTokens []string   `json:"matched_tokens,omitempty"`
	Reasons       []string   `json:"reasons,omitempty"`
	ReasonCode    ReasonCode `json:"reason_code,omitempty"`
	Vendor        string     `json:"vendor,omitempty"`
	Notes         Notes      `json:"notes"`
}

// Notes carries the observability trail of a decision
type Notes struct {
	Message        string                   `json:"message,omitempty"`
	TokenHits      []TokenHit               `json:"token_hits,omitempty"`
	RunnerUps      []RunnerUp               `json:"runner_ups,omitempty"`
	VendorEvidence normalize.VendorEvidence `json:"vendor_evidence"`
}

// RunnerUp summarizes a losing candidate
type RunnerUp struct {
	Target         string  `json:"target"`
	Score          float64 `json:"score"`
	TriggeredRules int     `json:"triggered_rules"`
}

// Options are per-call routing inputs
type Options struct {
	// Vendor overrides the inferred vendor when set.
	Vendor string
}

// DocumentIndex is the corpus handle used to confirm a definition target has
// evidence.
type DocumentIndex interface {
	HasDocument(docNumber string) bool
}

// ConceptIndex is the concept-store handle
type ConceptIndex interface {
	Exists(slug string) bool
}

// sweepEvery is how many cache writes pass between expired-entry sweeps
const sweepEvery = 64

// Router handles routing decisions
type Router struct {
	docs      DocumentIndex
	concepts  ConceptIndex
	decisions *cache.Cache[string, RouteDecision]
	sets      atomic.Uint64
	logger    *zap.Logger
}

// NewRouter creates a new router. Any collaborator may be nil: a nil docs
// index skips the evidence check, a nil concept index treats every card as
// missing, and a nil cache disables memoization.
func NewRouter(docs DocumentIndex, concepts ConceptIndex, decisions *cache.Cache[string, RouteDecision], logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		docs:      docs,
		concepts:  concepts,
		decisions: decisions,
		logger:    logger,
	}
}

// RouteText normalizes text and routes it
func (r *Router) RouteText(text string, opts Options) RouteDecision {
	return r.Route(normalize.Normalize(text), opts)
}

// Route classifies a normalized query. It never fails: ambiguity and bad
// input become ABSTAIN decisions.
func (r *Router) Route(q normalize.Query, opts Options) RouteDecision {
	explicit := strings.ToLower(strings.TrimSpace(opts.Vendor))
	key := q.Text + "|" + explicit

	if r.decisions != nil {
		if d, ok := r.decisions.Get(key); ok {
			r.logger.Debug("routing cache hit", zap.String("key", key))
			return d
		}
	}

	d := r.route(q, explicit)

	if d.Intent != IntentAbstain && r.decisions != nil {
		r.decisions.Set(key, d)
		r.sweep()
	}

	r.logger.Info("routing decision",
		zap.String("query", q.Text),
		zap.String("intent", string(d.Intent)),
		zap.String("target", d.Target),
		zap.Float64("confidence", d.Confidence),
		zap.String("reason_code", string(d.ReasonCode)),
	)

	return d
}

// sweep drops expired decisions once every sweepEvery writes, so entries
// that are never read again do not hold capacity until LRU eviction.
func (r *Router) sweep() {
	if r.sets.Add(1)%sweepEvery != 0 {
		return
	}
	if removed := r.decisions.CleanupExpired(); removed > 0 {
		r.logger.Debug("expired routing decisions removed", zap.Int("removed", removed))
	}
}

// ClearCache drops every memoized decision
func (r *Router) ClearCache() {
	if r.decisions != nil {
		r.decisions.Clear()
	}
}

func (r *Router) route(q normalize.Query, explicitVendor string) RouteDecision {
	entities := normalize.ExtractEntities(q)

	if triggers := troubleshootTriggers(q); len(triggers) > 0 {
		return r.routeTroubleshoot(q, entities, explicitVendor, triggers)
	}

	if len(q.Tokens) <= 2 && !vendorAndProtocol(q.Tokens) {
		return abstain(ReasonShortQuery, q,
			"query has too few tokens to route",
			"queries of two tokens or fewer must name a vendor and a protocol")
	}

	if !onTopic(q, entities) {
		return abstain(ReasonOffTopic, q,
			"no networking vocabulary recognized",
			"query does not mention a protocol, device or networking term")
	}

	if d, ok := r.routeConcept(q); ok {
		return d
	}

	return r.routeDefine(q)
}

func troubleshootTriggers(q normalize.Query) []string {
	var hits []string
	for _, t := range lexicon.TroubleshootTriggers {
		if q.Has(t) {
			hits = append(hits, t)
		}
	}
	return hits
}

func vendorAndProtocol(tokens []string) bool {
	vendor, protocol := false, false
	for _, t := range tokens {
		if _, ok := lexicon.VendorForToken(t); ok {
			vendor = true
		} else if lexicon.IsProtocolTerm(t) {
			protocol = true
		}
	}
	return vendor && protocol
}

func onTopic(q normalize.Query, e normalize.Entities) bool {
	if len(e.PeerIPs) > 0 || len(e.Interfaces) > 0 {
		return true
	}
	for _, term := range lexicon.Vocabulary() {
		if q.Has(term) {
			return true
		}
	}
	return false
}

func abstain(code ReasonCode, q normalize.Query, message string, reasons ...string) RouteDecision {
	return RouteDecision{
		Intent:     IntentAbstain,
		ReasonCode: code,
		Reasons:    reasons,
		Notes: Notes{
			Message:        message,
			VendorEvidence: q.Evidence,
		},
	}
}
