// Package cel provides a CEL (Common Expression Language) evaluator for playbook
// rule conditions.
//
// CEL is a non-Turing complete expression language that provides fast, safe evaluation
// of the conditions that decide whether a rule contributes a step.
//
// Example usage:
//
//	evaluator := cel.NewEvaluator()
//
//	cond, err := evaluator.Compile("ctx.auth != 'none' && ctx.port > 0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	vars := map[string]interface{}{
//	    "ctx": map[string]interface{}{
//	        "auth": "md5",
//	        "port": int64(179),
//	    },
//	}
//
//	matched, err := cond.Eval(ctx, vars) // true
//
// Conditions are compiled once when rule tables load; a compiled Condition is
// immutable and safe to evaluate from many goroutines.
//
// Supported operations:
//   - Comparisons: ==, !=, <, <=, >, >=
//   - Boolean logic: &&, ||, !
//   - String operations: contains, startsWith, endsWith, matches
//   - List operations: in, size
//   - Map access: ctx.field, ctx["field"]
package cel
