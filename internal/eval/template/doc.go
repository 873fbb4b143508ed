// Package template renders {param} command and check templates.
//
// Placeholders are written as {name} in rule and command tables. Compile
// rewrites them into unescaped Handlebars expressions ({{{name}}}) so
// interface names and addresses pass through verbatim.
//
// Example usage:
//
//	engine := template.NewEngine()
//
//	tmpl, err := engine.Compile("show ip bgp neighbors {peer}")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, _ := tmpl.Render(map[string]string{"peer": "192.0.2.1"})
//	// Output: show ip bgp neighbors 192.0.2.1
//
// Missing parameters render as <name>:
//
//	out, _ = tmpl.Render(nil)
//	// Output: show ip bgp neighbors <peer>
package template
