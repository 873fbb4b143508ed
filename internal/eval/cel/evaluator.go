package cel

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"
)

// VarName is the single variable visible to conditions
const VarName = "ctx"

// Evaluator compiles CEL conditions over the playbook context
type Evaluator struct {
	env *cel.Env
}

// Condition is a compiled boolean expression. It holds no mutable state and
// may be evaluated concurrently.
type Condition struct {
	expression string
	program    cel.Program
}

// NewEvaluator creates a new CEL evaluator
func NewEvaluator() *Evaluator {
	env, err := cel.NewEnv(
		cel.Variable(VarName, cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		panic(fmt.Sprintf("failed to create CEL environment: %v", err))
	}

	return &Evaluator{env: env}
}

// Compile parses and checks expression. Expressions whose checked type is
// not bool are rejected.
func (e *Evaluator) Compile(expression string) (*Condition, error) {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("parse error: %w", issues.Err())
	}

	if out := ast.OutputType(); out.String() != cel.BoolType.String() && out.String() != cel.DynType.String() {
		return nil, fmt.Errorf("condition %q returns %s, want bool", expression, out)
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program generation error: %w", err)
	}

	return &Condition{expression: expression, program: program}, nil
}

// Evaluate compiles and evaluates expression once
func (e *Evaluator) Evaluate(ctx context.Context, expression string, vars map[string]interface{}) (bool, error) {
	cond, err := e.Compile(expression)
	if err != nil {
		return false, fmt.Errorf("failed to compile expression: %w", err)
	}
	return cond.Eval(ctx, vars)
}

// ValidateExpression validates a condition without evaluating it
func (e *Evaluator) ValidateExpression(expression string) error {
	_, err := e.Compile(expression)
	return err
}

// Expression returns the source text
func (c *Condition) Expression() string {
	return c.expression
}

// Eval evaluates the condition. vars maps variable names to values, normally
// {"ctx": map[string]interface{}{...}}.
func (c *Condition) Eval(ctx context.Context, vars map[string]interface{}) (bool, error) {
	out, _, err := c.program.ContextEval(ctx, vars)
	if err != nil {
		return false, fmt.Errorf("evaluation failed: %w", err)
	}

	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("condition %q did not return boolean: %v", c.expression, out.Value())
	}

	return matched, nil
}
