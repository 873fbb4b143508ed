// Package concepts is the concept-card store: structured definitions with
// evidence-backed claims, kept as one YAML file per slug.
//
// Cards are read on first use and held in memory afterwards. Warm preloads
// a set of slugs through a small bounded pool; one broken card never
// prevents the others from loading.
//
// Example usage:
//
//	store := concepts.NewFileStore("data/concepts", 4, logger)
//	failures := store.Warm(ctx, slugs)
//
//	card, err := store.Load("ospf-areas")
//	if errors.Is(err, concepts.ErrNotFound) {
//	    // no card for this slug
//	}
package concepts
