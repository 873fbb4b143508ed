package playbook

import "fmt"

// Ledger tags
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"

	PriorityP1 = "p1"
	PriorityP2 = "p2"
	PriorityP3 = "p3"
)

// LedgerEntry is a free-text advisory line with a confidence or priority tag
type LedgerEntry struct {
	Text string `json:"text" yaml:"text"`
	Tag  string `json:"tag" yaml:"tag"`
}

// Ledger is advisory output attached to a run. It never feeds the step hash.
type Ledger struct {
	Facts           []LedgerEntry `json:"facts" yaml:"facts"`
	Assumptions     []LedgerEntry `json:"assumptions" yaml:"assumptions"`
	OperatorActions []LedgerEntry `json:"operator_actions" yaml:"operator_actions"`
}

// contextFields lists fields in the order they are reported
var contextFields = []string{"vendor", "interface", "peer", "destination", "port", "area", "auth", "mtu"}

// buildLedger reports supplied inputs as facts, defaulted inputs as
// assumptions and rendered fixes as prioritized operator actions.
func buildLedger(r resolved, steps []Step) *Ledger {
	l := &Ledger{}
	params := r.params()

	for _, f := range contextFields {
		v := params[f]
		if r.isDefaulted(f) {
			tag := ConfidenceMedium
			if v == "" || (len(v) > 0 && v[0] == '<') {
				tag = ConfidenceLow
			}
			if v == "" {
				v = "<" + f + ">"
			}
			l.Assumptions = append(l.Assumptions, LedgerEntry{
				Text: fmt.Sprintf("%s assumed %s", f, v),
				Tag:  tag,
			})
			continue
		}
		l.Facts = append(l.Facts, LedgerEntry{
			Text: fmt.Sprintf("%s is %s", f, v),
			Tag:  ConfidenceHigh,
		})
	}

	for _, s := range steps {
		if s.Fix == "" {
			continue
		}
		tag := PriorityP3
		switch len(l.OperatorActions) {
		case 0:
			tag = PriorityP1
		case 1:
			tag = PriorityP2
		}
		l.OperatorActions = append(l.OperatorActions, LedgerEntry{
			Text: fmt.Sprintf("[%s] %s", s.RuleID, s.Fix),
			Tag:  tag,
		})
	}

	return l
}
