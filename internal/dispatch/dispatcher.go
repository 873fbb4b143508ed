package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aescanero/netqa-router/internal/citation"
	"github.com/aescanero/netqa-router/internal/concepts"
	"github.com/aescanero/netqa-router/internal/normalize"
	"github.com/aescanero/netqa-router/internal/playbook"
	"github.com/aescanero/netqa-router/internal/retrieval"
	"github.com/aescanero/netqa-router/internal/router"
)

// Defaults
const (
	DefaultBudget   = 150 * time.Millisecond
	DefaultMinSteps = 8
	DefaultTopK     = retrieval.DefaultTopK

	fallbackSection = "1"
)

// Router classifies normalized queries
type Router interface {
	Route(q normalize.Query, opts router.Options) router.RouteDecision
}

// Retriever serves corpus sections
type Retriever interface {
	Search(query string, opts retrieval.Options) []retrieval.RetrievedSection
	GetSection(doc, section string) (retrieval.Section, bool)
}

// ConceptStore loads concept cards by slug
type ConceptStore interface {
	Load(slug string) (*concepts.Card, error)
}

// PlaybookRunner runs troubleshooting scenarios
type PlaybookRunner interface {
	Run(ctx context.Context, scenarioID string, in playbook.Context) (*playbook.Result, error)
}

// Config tunes the dispatcher. Zero values take the defaults.
type Config struct {
	TopK        int
	BlendWeight float64
	// Budget is a soft latency budget; exceeding it marks the envelope
	// degraded but never cancels work.
	Budget time.Duration
	// MinSteps is the completeness floor for troubleshooting answers,
	// independent of the playbook engine's own floor.
	MinSteps int
}

// Options are per-request inputs
type Options struct {
	Vendor    string
	RequestID string
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

// Dispatcher routes a query and builds the matching response envelope
type Dispatcher struct {
	router    Router
	retriever Retriever
	concepts  ConceptStore
	playbooks PlaybookRunner
	cfg       Config
	logger    *zap.Logger
	now       func() time.Time
}

// NewDispatcher creates a dispatcher. The router and playbook runner are
// required; a nil retriever or concept store makes those intents abstain
// with MISSING_EVIDENCE.
func NewDispatcher(r Router, retriever Retriever, store ConceptStore, playbooks PlaybookRunner, cfg Config, logger *zap.Logger, opts ...Option) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.Budget <= 0 {
		cfg.Budget = DefaultBudget
	}
	if cfg.MinSteps <= 0 {
		cfg.MinSteps = DefaultMinSteps
	}

	d := &Dispatcher{
		router:    r,
		retriever: retriever,
		concepts:  store,
		playbooks: playbooks,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch answers one query. It never fails: every problem becomes an
// ABSTAIN envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, text string, opts Options) Envelope {
	start := d.now()

	requestID := opts.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	q := normalize.Normalize(text)
	decision := d.router.Route(q, router.Options{Vendor: opts.Vendor})

	env := Envelope{
		RequestID: requestID,
		Query:     text,
		Intent:    decision.Intent,
	}

	switch decision.Intent {
	case router.IntentDefine:
		d.define(&env, q, decision)
	case router.IntentConcept:
		d.concept(&env, decision)
	case router.IntentTroubleshoot:
		d.troubleshoot(ctx, &env, q, decision)
	default:
		setAbstain(&env, decision.ReasonCode, decision.Notes.Message, decision)
	}

	elapsed := d.now().Sub(start)
	env.ProcessingTimeMS = elapsed.Milliseconds()
	if elapsed > d.cfg.Budget {
		env.Degraded = true
		env.Annotations = append(env.Annotations,
			fmt.Sprintf("latency budget exceeded: %dms > %dms", elapsed.Milliseconds(), d.cfg.Budget.Milliseconds()))
		d.logger.Warn("latency budget exceeded",
			zap.String("request_id", requestID),
			zap.Duration("elapsed", elapsed),
			zap.Duration("budget", d.cfg.Budget),
		)
	}

	d.logger.Info("query dispatched",
		zap.String("request_id", requestID),
		zap.String("intent", string(env.Intent)),
		zap.String("target", decision.Target),
		zap.Int64("processing_time_ms", env.ProcessingTimeMS),
		zap.Bool("degraded", env.Degraded),
	)
	return env
}

func (d *Dispatcher) define(env *Envelope, q normalize.Query, decision router.RouteDecision) {
	if d.retriever == nil {
		setAbstain(env, router.ReasonMissingEvidence, "no corpus configured", decision)
		return
	}

	sections := d.retriever.Search(q.Text, retrieval.Options{
		TopK:        d.cfg.TopK,
		Documents:   []string{decision.Target},
		BlendWeight: d.cfg.BlendWeight,
	})
	if len(sections) == 0 {
		s, ok := d.retriever.GetSection(decision.Target, fallbackSection)
		if !ok {
			setAbstain(env, router.ReasonMissingEvidence,
				fmt.Sprintf("no section of document %s matches the query", decision.Target), decision)
			return
		}
		sections = []retrieval.RetrievedSection{retrieval.Hit(s)}
		env.Annotations = append(env.Annotations,
			fmt.Sprintf("no ranked match in %s; answered from section %s", decision.Target, fallbackSection))
	}

	cites := make([]citation.Citation, len(sections))
	for i, s := range sections {
		cites[i] = s.Citation()
	}

	best := sections[0]
	env.Define = &DefineBody{
		Answer:     best.Title + ": " + best.Excerpt,
		Target:     decision.Target,
		Confidence: decision.Confidence,
		Citations:  citation.Dedupe(cites),
		Sections:   sections,
	}
}

func (d *Dispatcher) concept(env *Envelope, decision router.RouteDecision) {
	if d.concepts == nil {
		setAbstain(env, router.ReasonMissingEvidence, "no concept store configured", decision)
		return
	}

	card, err := d.concepts.Load(decision.Target)
	if err != nil {
		msg := fmt.Sprintf("concept card %s unavailable", decision.Target)
		if errors.Is(err, concepts.ErrNotFound) {
			msg = fmt.Sprintf("no concept card for %s", decision.Target)
		} else {
			d.logger.Error("concept card load failed",
				zap.String("slug", decision.Target),
				zap.Error(err),
			)
		}
		setAbstain(env, router.ReasonMissingEvidence, msg, decision)
		return
	}

	env.Concept = &ConceptBody{
		Card:       card,
		Confidence: decision.Confidence,
		Citations:  card.AllCitations(),
	}
}

func (d *Dispatcher) troubleshoot(ctx context.Context, env *Envelope, q normalize.Query, decision router.RouteDecision) {
	in := playbookContext(normalize.ExtractEntities(q), decision.Vendor)

	res, err := d.playbooks.Run(ctx, decision.Target, in)
	if err != nil {
		d.logger.Error("playbook run failed",
			zap.String("playbook_id", decision.Target),
			zap.Error(err),
		)
		setAbstain(env, router.ReasonMissingEvidence,
			fmt.Sprintf("playbook %s unavailable", decision.Target), decision)
		return
	}

	if res.Status != playbook.StatusOK || len(res.Steps) < d.cfg.MinSteps {
		setAbstain(env, router.ReasonMissingEvidence,
			fmt.Sprintf("playbook %s rendered %d steps, need %d", res.PlaybookID, len(res.Steps), d.cfg.MinSteps),
			decision)
		if res.Insufficient != nil {
			env.Abstain.Reasons = append(env.Abstain.Reasons, res.Insufficient.Evidence...)
		}
		return
	}

	env.Troubleshoot = &TroubleshootBody{
		PlaybookID:    res.PlaybookID,
		Title:         res.Title,
		Steps:         res.Steps,
		StepHash:      res.StepHash,
		Citations:     res.Citations(),
		Confidence:    decision.Confidence,
		Deterministic: true,
		Provenance: Provenance{
			RouterTarget:  decision.Target,
			Vendor:        res.Vendor,
			MatchedTokens: decision.MatchedTokens,
			RuleIDs:       res.RuleIDs(),
			PlaybookID:    res.PlaybookID,
		},
		Ledger: res.Ledger,
	}
}

// setAbstain turns env into an ABSTAIN envelope, keeping the router's notes
func setAbstain(env *Envelope, code router.ReasonCode, message string, decision router.RouteDecision) {
	env.Intent = router.IntentAbstain
	env.Define = nil
	env.Concept = nil
	env.Troubleshoot = nil
	env.Abstain = &AbstainBody{
		ReasonCode: code,
		Message:    message,
		Reasons:    append([]string(nil), decision.Reasons...),
		Notes:      decision.Notes,
	}
}

// playbookContext maps extracted entities onto a playbook run context.
// The first address is the peer; the second, when present, the destination.
func playbookContext(e normalize.Entities, vendor string) playbook.Context {
	in := playbook.Context{
		Vendor: vendor,
		MTU:    e.MTU,
		Auth:   e.Auth,
	}
	if len(e.Interfaces) > 0 {
		in.Interface = displayInterface(e.Interfaces[0])
	}
	switch len(e.PeerIPs) {
	case 0:
	case 1:
		in.Peer = e.PeerIPs[0]
		in.Destination = e.PeerIPs[0]
	default:
		in.Peer = e.PeerIPs[0]
		in.Destination = e.PeerIPs[1]
	}
	if len(e.Ports) > 0 {
		in.Port = e.Ports[0]
	}
	if len(e.Areas) > 0 {
		in.Area = e.Areas[0]
	}
	return in
}

// interfaceNames maps normalized interface prefixes to their iosxe display form
var interfaceNames = []struct{ prefix, display string }{
	{"tengigabitethernet", "TenGigabitEthernet"},
	{"gigabitethernet", "GigabitEthernet"},
	{"fastethernet", "FastEthernet"},
	{"ethernet", "Ethernet"},
	{"port-channel", "Port-channel"},
	{"loopback", "Loopback"},
}

// displayInterface restores vendor casing to a normalized interface name.
// Junos names are already lowercase.
func displayInterface(name string) string {
	for _, n := range interfaceNames {
		if rest, ok := strings.CutPrefix(name, n.prefix); ok {
			return n.display + rest
		}
	}
	return name
}
