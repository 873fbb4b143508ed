package playbook

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/aescanero/netqa-router/internal/citation"
	"github.com/aescanero/netqa-router/internal/eval/cel"
	"github.com/aescanero/netqa-router/internal/eval/template"
)

// ErrUnknownScenario is returned by Run for ids not in the rule tables
var ErrUnknownScenario = errors.New("unknown playbook scenario")

// DefaultMinSteps is the engine floor below which a run is insufficient
const DefaultMinSteps = 3

// Run statuses
const (
	StatusOK                = "ok"
	StatusInsufficientSteps = "insufficient_steps"
)

// Step is one rendered rule
type Step struct {
	RuleID    string              `json:"rule_id"`
	Check     string              `json:"check"`
	Result    string              `json:"result"`
	Fix       string              `json:"fix,omitempty"`
	Verify    string              `json:"verify,omitempty"`
	Commands  []string            `json:"commands"`
	Citations []citation.Citation `json:"citations"`
}

// Insufficient explains a run that rendered fewer steps than the floor
type Insufficient struct {
	Count    int      `json:"count"`
	Minimum  int      `json:"minimum"`
	Evidence []string `json:"evidence"`
}

// Result is the output of one playbook run. Steps keep table order.
type Result struct {
	PlaybookID   string        `json:"playbook_id"`
	Title        string        `json:"title"`
	Vendor       string        `json:"vendor"`
	Status       string        `json:"status"`
	Steps        []Step        `json:"steps"`
	StepHash     string        `json:"step_hash"`
	Ledger       *Ledger       `json:"ledger,omitempty"`
	Insufficient *Insufficient `json:"insufficient,omitempty"`
}

// Citations returns the step citations deduplicated in step order
func (r *Result) Citations() []citation.Citation {
	var all []citation.Citation
	for _, s := range r.Steps {
		all = append(all, s.Citations...)
	}
	return citation.Dedupe(all)
}

// RuleIDs returns the ids of the rendered steps
func (r *Result) RuleIDs() []string {
	ids := make([]string, len(r.Steps))
	for i, s := range r.Steps {
		ids[i] = s.RuleID
	}
	return ids
}

type compiledRule struct {
	rule      Rule
	condition *cel.Condition
	check     *template.Template
	result    *template.Template
	fix       *template.Template
	verify    *template.Template
}

type compiledScenario struct {
	scenario Scenario
	rules    []compiledRule
}

// Engine executes playbooks. All CEL programs and templates are compiled in
// NewEngine; Run only reads them and is safe for concurrent use.
type Engine struct {
	logger    *zap.Logger
	scenarios map[string]*compiledScenario
	order     []string
	commands  map[CommandKey]*template.Template
	minSteps  int
}

type options struct {
	scenarios []Scenario
	commands  CommandTable
	minSteps  int
}

// Option configures an Engine
type Option func(*options)

// WithScenarios replaces the built-in rule tables
func WithScenarios(scenarios ...Scenario) Option {
	return func(o *options) { o.scenarios = scenarios }
}

// WithCommands replaces the built-in vendor command table
func WithCommands(commands CommandTable) Option {
	return func(o *options) { o.commands = commands }
}

// WithMinSteps sets the engine floor
func WithMinSteps(n int) Option {
	return func(o *options) { o.minSteps = n }
}

// NewEngine compiles the rule tables and command table. Any compile error is
// a table bug and is returned.
func NewEngine(logger *zap.Logger, opts ...Option) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	o := options{
		scenarios: DefaultScenarios,
		commands:  DefaultCommands,
		minSteps:  DefaultMinSteps,
	}
	for _, opt := range opts {
		opt(&o)
	}

	evaluator := cel.NewEvaluator()
	templates := template.NewEngine()

	e := &Engine{
		logger:    logger,
		scenarios: make(map[string]*compiledScenario, len(o.scenarios)),
		commands:  make(map[CommandKey]*template.Template, len(o.commands)),
		minSteps:  o.minSteps,
	}

	for key, src := range o.commands {
		tmpl, err := templates.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("command %s/%s: %w", key.Intent, key.Vendor, err)
		}
		e.commands[key] = tmpl
	}

	for _, s := range o.scenarios {
		if _, dup := e.scenarios[s.ID]; dup {
			return nil, fmt.Errorf("duplicate scenario %q", s.ID)
		}
		cs, err := compileScenario(evaluator, templates, s)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.ID, err)
		}
		e.scenarios[s.ID] = cs
		e.order = append(e.order, s.ID)
	}
	sort.Strings(e.order)

	return e, nil
}

func compileScenario(evaluator *cel.Evaluator, templates *template.Engine, s Scenario) (*compiledScenario, error) {
	cs := &compiledScenario{scenario: s}
	for _, rule := range s.Rules {
		if len(rule.Commands) > 4 {
			return nil, fmt.Errorf("rule %s: %d commands, at most 4 allowed", rule.ID, len(rule.Commands))
		}
		if n := len(rule.Citations); n < 1 || n > 3 {
			return nil, fmt.Errorf("rule %s: %d citations, want 1 to 3", rule.ID, n)
		}

		cr := compiledRule{rule: rule}
		if rule.Condition != "" {
			cond, err := evaluator.Compile(rule.Condition)
			if err != nil {
				return nil, fmt.Errorf("rule %s condition: %w", rule.ID, err)
			}
			cr.condition = cond
		}

		for _, f := range []struct {
			src string
			dst **template.Template
		}{
			{rule.Check, &cr.check},
			{rule.Result, &cr.result},
			{rule.Fix, &cr.fix},
			{rule.Verify, &cr.verify},
		} {
			if f.src == "" {
				continue
			}
			tmpl, err := templates.Compile(f.src)
			if err != nil {
				return nil, fmt.Errorf("rule %s text: %w", rule.ID, err)
			}
			*f.dst = tmpl
		}

		cs.rules = append(cs.rules, cr)
	}
	return cs, nil
}

// Scenarios lists scenario ids in sorted order
func (e *Engine) Scenarios() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// Rules returns a copy of a scenario's rule table
func (e *Engine) Rules(scenarioID string) ([]Rule, bool) {
	cs, ok := e.scenarios[scenarioID]
	if !ok {
		return nil, false
	}
	out := make([]Rule, len(cs.scenario.Rules))
	copy(out, cs.scenario.Rules)
	return out, true
}

// MinSteps returns the engine floor
func (e *Engine) MinSteps() int {
	return e.minSteps
}

// Run executes a scenario against in. Rules run in table order; a rule
// whose condition is false or fails to evaluate is skipped.
func (e *Engine) Run(ctx context.Context, scenarioID string, in Context) (*Result, error) {
	cs, ok := e.scenarios[scenarioID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, scenarioID)
	}

	r := in.withDefaults(cs.scenario)
	params := r.params()
	vars := r.celVars()

	var (
		steps   []Step
		skipped []string
	)

	for i, cr := range cs.rules {
		if cr.condition != nil {
			matched, err := cr.condition.Eval(ctx, vars)
			if err != nil {
				e.logger.Warn("rule evaluation error",
					zap.String("playbook", scenarioID),
					zap.String("rule_id", cr.rule.ID),
					zap.String("condition", cr.rule.Condition),
					zap.Error(err),
				)
				skipped = append(skipped, fmt.Sprintf("%s: condition error", cr.rule.ID))
				continue
			}
			if !matched {
				e.logger.Debug("rule skipped",
					zap.Int("rule_index", i),
					zap.String("rule_id", cr.rule.ID),
					zap.String("condition", cr.rule.Condition),
				)
				skipped = append(skipped, fmt.Sprintf("%s: condition false (%s)", cr.rule.ID, cr.rule.Condition))
				continue
			}
		}

		step, err := e.renderStep(cr, r.Vendor, params)
		if err != nil {
			e.logger.Warn("rule render error",
				zap.String("playbook", scenarioID),
				zap.String("rule_id", cr.rule.ID),
				zap.Error(err),
			)
			skipped = append(skipped, fmt.Sprintf("%s: render error", cr.rule.ID))
			continue
		}
		steps = append(steps, step)
	}

	res := &Result{
		PlaybookID: scenarioID,
		Title:      cs.scenario.Title,
		Vendor:     r.Vendor,
		Status:     StatusOK,
		Steps:      steps,
		StepHash:   StepHash(steps),
		Ledger:     buildLedger(r, steps),
	}

	if len(steps) < e.minSteps {
		evidence := append([]string{}, skipped...)
		for _, f := range r.defaulted {
			evidence = append(evidence, "defaulted: "+f)
		}
		res.Status = StatusInsufficientSteps
		res.Insufficient = &Insufficient{
			Count:    len(steps),
			Minimum:  e.minSteps,
			Evidence: evidence,
		}
	}

	e.logger.Debug("playbook executed",
		zap.String("playbook", scenarioID),
		zap.String("vendor", r.Vendor),
		zap.Int("steps", len(steps)),
		zap.String("status", res.Status),
		zap.String("step_hash", res.StepHash),
	)

	return res, nil
}

func (e *Engine) renderStep(cr compiledRule, vendor string, params map[string]string) (Step, error) {
	step := Step{
		RuleID:    cr.rule.ID,
		Commands:  make([]string, 0, len(cr.rule.Commands)),
		Citations: append([]citation.Citation(nil), cr.rule.Citations...),
	}

	for _, f := range []struct {
		tmpl *template.Template
		dst  *string
	}{
		{cr.check, &step.Check},
		{cr.result, &step.Result},
		{cr.fix, &step.Fix},
		{cr.verify, &step.Verify},
	} {
		if f.tmpl == nil {
			continue
		}
		out, err := f.tmpl.Render(params)
		if err != nil {
			return Step{}, err
		}
		*f.dst = out
	}

	for _, intent := range cr.rule.Commands {
		cmd, err := e.renderCommand(intent, vendor, params)
		if err != nil {
			return Step{}, err
		}
		step.Commands = append(step.Commands, cmd)
	}

	return step, nil
}

// renderCommand looks up (intent, vendor). A miss renders MissingCommand.
func (e *Engine) renderCommand(intent, vendor string, params map[string]string) (string, error) {
	tmpl, ok := e.commands[CommandKey{Intent: intent, Vendor: vendor}]
	if !ok {
		return MissingCommand(intent, vendor), nil
	}
	return tmpl.Render(params)
}
