// Package dispatch turns a routing decision into a response envelope.
//
// DEFINE decisions are answered from corpus sections of the target
// document, CONCEPT decisions from a concept card, and TROUBLESHOOT
// decisions from a playbook run. Anything that cannot be backed by evidence
// becomes an ABSTAIN envelope with reason MISSING_EVIDENCE.
//
// Example usage:
//
//	d := dispatch.NewDispatcher(rtr, retriever, store, engine, dispatch.Config{
//	    Budget:   150 * time.Millisecond,
//	    MinSteps: 8,
//	}, logger)
//
//	env := d.Dispatch(ctx, "iosxe bgp neighbor down 192.0.2.1", dispatch.Options{})
//	// env.Intent == router.IntentTroubleshoot
//	// len(env.Troubleshoot.Steps) == 8
package dispatch
