// Package citation defines the citation record shared by retrieval, concept
// cards and playbook steps.
package citation

import (
	"fmt"
	"sort"
	"strings"
)

// Citation points at one section of a source document
type Citation struct {
	DocumentNumber string `json:"document_number" yaml:"document_number"`
	SectionID      string `json:"section_id" yaml:"section_id"`
	Title          string `json:"title" yaml:"title"`
	URL            string `json:"url" yaml:"url"`
}

// New builds an RFC citation, deriving the URL when none is known.
func New(doc, section, title string) Citation {
	return Citation{
		DocumentNumber: doc,
		SectionID:      section,
		Title:          title,
		URL:            RFCURL(doc, section),
	}
}

// Ref returns "docnum:section", the form used in step hashes
func (c Citation) Ref() string {
	return c.DocumentNumber + ":" + c.SectionID
}

// RFCURL links to a section of an RFC on rfc-editor.org. Lettered sections
// are appendices.
func RFCURL(doc, section string) string {
	base := fmt.Sprintf("https://www.rfc-editor.org/rfc/rfc%s", doc)
	if section == "" {
		return base
	}
	anchor := "section"
	if c := section[0]; c >= 'A' && c <= 'Z' {
		anchor = "appendix"
	}
	return fmt.Sprintf("%s#%s-%s", base, anchor, section)
}

// Dedupe removes repeated refs keeping first occurrence order
func Dedupe(cites []Citation) []Citation {
	seen := make(map[string]bool, len(cites))
	out := make([]Citation, 0, len(cites))
	for _, c := range cites {
		if seen[c.Ref()] {
			continue
		}
		seen[c.Ref()] = true
		out = append(out, c)
	}
	return out
}

// SortedRefs returns the refs of cites sorted, joined by sep
func SortedRefs(cites []Citation, sep string) string {
	refs := make([]string, len(cites))
	for i, c := range cites {
		refs[i] = c.Ref()
	}
	sort.Strings(refs)
	return strings.Join(refs, sep)
}
