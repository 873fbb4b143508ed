// Package playbook executes troubleshooting playbooks.
//
// A playbook is a named, ordered rule table. Each rule may carry a CEL
// condition over the run context, renders check/result text and up to four
// vendor commands, and cites one to three document sections. Rules always
// run in table order.
//
// Every result carries a step hash: the SHA-256 of the normalized steps with
// commands and citation refs sorted, so the same inputs always produce the
// same hash.
//
// Example usage:
//
//	engine, err := playbook.NewEngine(logger)
//	if err != nil {
//	    return err
//	}
//
//	res, err := engine.Run(ctx, "bgp-neighbor-down", playbook.Context{
//	    Vendor: "junos",
//	    Peer:   "192.0.2.1",
//	})
//	// res.Status == playbook.StatusOK
//	// len(res.Steps) == 8
//
// Example custom table:
//
//	engine, err := playbook.NewEngine(logger,
//	    playbook.WithScenarios(myScenario),
//	    playbook.WithMinSteps(2),
//	)
package playbook
