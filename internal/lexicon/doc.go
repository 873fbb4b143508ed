// Package lexicon holds the static vocabularies shared by the normalizer, the
// intent router and the dispatcher.
//
// Every table in this package is read-only after package initialization and
// safe for concurrent use. Terms are stored in normalized form (lowercase,
// single spaces) so they can be matched directly against normalize.Query.
//
// Tables:
//   - VendorHints - token and interface-prefix hints per vendor dialect
//   - Families - troubleshooting protocol families with weighted keywords
//   - TroubleshootTriggers - vocabulary that selects the troubleshooting path
//   - DefineTerms - term to RFC document number table
//   - ConceptTerms / ConceptIntents - concept-card lookup vocabulary
//   - NetworkingTerms - general vocabulary used for off-topic detection
package lexicon
