package dispatch

import (
	"github.com/aescanero/netqa-router/internal/citation"
	"github.com/aescanero/netqa-router/internal/concepts"
	"github.com/aescanero/netqa-router/internal/playbook"
	"github.com/aescanero/netqa-router/internal/retrieval"
	"github.com/aescanero/netqa-router/internal/router"
)

// Envelope is the response to one query. Exactly one body is set, matching
// Intent.
type Envelope struct {
	RequestID        string        `json:"request_id"`
	Query            string        `json:"query"`
	Intent           router.Intent `json:"intent"`
	ProcessingTimeMS int64         `json:"processing_time_ms"`
	Degraded         bool          `json:"degraded"`
	Annotations      []string      `json:"annotations,omitempty"`

	Define       *DefineBody       `json:"define,omitempty"`
	Concept      *ConceptBody      `json:"concept,omitempty"`
	Troubleshoot *TroubleshootBody `json:"troubleshoot,omitempty"`
	Abstain      *AbstainBody      `json:"abstain,omitempty"`
}

// DefineBody answers a definitional query from the corpus
type DefineBody struct {
	Answer     string                       `json:"answer"`
	Target     string                       `json:"target"`
	Confidence float64                      `json:"confidence"`
	Citations  []citation.Citation          `json:"citations"`
	Sections   []retrieval.RetrievedSection `json:"sections"`
}

// ConceptBody returns a concept card
type ConceptBody struct {
	Card       *concepts.Card      `json:"card"`
	Confidence float64             `json:"confidence"`
	Citations  []citation.Citation `json:"citations"`
}

// TroubleshootBody carries a rendered playbook
type TroubleshootBody struct {
	PlaybookID    string              `json:"playbook_id"`
	Title         string              `json:"title"`
	Steps         []playbook.Step     `json:"steps"`
	StepHash      string              `json:"step_hash"`
	Citations     []citation.Citation `json:"citations"`
	Confidence    float64             `json:"confidence"`
	Deterministic bool                `json:"deterministic"`
	Provenance    Provenance          `json:"provenance"`
	Ledger        *playbook.Ledger    `json:"ledger,omitempty"`
}

// Provenance records how a playbook answer was reached
type Provenance struct {
	RouterTarget  string   `json:"router_target"`
	Vendor        string   `json:"vendor"`
	MatchedTokens []string `json:"matched_tokens"`
	RuleIDs       []string `json:"rule_ids"`
	PlaybookID    string   `json:"playbook_id"`
}

// AbstainBody explains why no answer was given
type AbstainBody struct {
	ReasonCode router.ReasonCode `json:"reason_code"`
	Message    string            `json:"message"`
	Reasons    []string          `json:"reasons,omitempty"`
	Notes      router.Notes      `json:"notes"`
}
