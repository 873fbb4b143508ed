package retrieval

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// BM25 parameters
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// stopwords are dropped from both sections and queries
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "be": true, "by": true,
	"do": true, "does": true, "for": true, "how": true, "in": true, "is": true,
	"of": true, "on": true, "or": true, "the": true, "to": true, "what": true,
	"with": true,
}

// tokenize lowercases text and splits it on anything that is not a letter
// or digit, dropping stopwords.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if !stopwords[f] {
			out = append(out, f)
		}
	}
	return out
}

func termFreqs(tokens []string) map[string]int {
	tf := make(map[string]int, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}

// sortedTerms fixes the summation order of every score so identical inputs
// give bit-identical floats.
func sortedTerms(tf map[string]int) []string {
	terms := make([]string, 0, len(tf))
	for t := range tf {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// termWeight is one component of a tf-idf vector
type termWeight struct {
	term   string
	weight float64
}

// index holds per-section lexical statistics. Built once, read-only.
type index struct {
	idf     map[string]float64
	bm25IDF map[string]float64
	vectors []map[string]float64 // L2-normalized tf-idf per section, for lookup
	tfs     []map[string]int
	lengths []int
	avgLen  float64
}

func buildIndex(sections []Section) *index {
	n := len(sections)
	idx := &index{
		idf:     make(map[string]float64),
		bm25IDF: make(map[string]float64),
		vectors: make([]map[string]float64, n),
		tfs:     make([]map[string]int, n),
		lengths: make([]int, n),
	}

	df := make(map[string]int)
	total := 0
	for i, s := range sections {
		tokens := tokenize(s.Title + " " + s.Text)
		idx.tfs[i] = termFreqs(tokens)
		idx.lengths[i] = len(tokens)
		total += len(tokens)
		for t := range idx.tfs[i] {
			df[t]++
		}
	}
	if n > 0 {
		idx.avgLen = float64(total) / float64(n)
	}

	for t, d := range df {
		idx.idf[t] = math.Log(float64(n+1)/float64(d+1)) + 1
		idx.bm25IDF[t] = math.Log(1 + (float64(n-d)+0.5)/(float64(d)+0.5))
	}

	for i, tf := range idx.tfs {
		vec := idx.weigh(tf)
		idx.vectors[i] = make(map[string]float64, len(vec))
		for _, tw := range vec {
			idx.vectors[i][tw.term] = tw.weight
		}
	}
	return idx
}

// weigh builds an L2-normalized sublinear tf-idf vector ordered by term.
// Terms unknown to the corpus are dropped.
func (idx *index) weigh(tf map[string]int) []termWeight {
	vec := make([]termWeight, 0, len(tf))
	var norm float64
	for _, t := range sortedTerms(tf) {
		idf, ok := idx.idf[t]
		if !ok {
			continue
		}
		w := (1 + math.Log(float64(tf[t]))) * idf
		vec = append(vec, termWeight{term: t, weight: w})
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i].weight /= norm
	}
	return vec
}

// cosine of a normalized query vector against section i, summed in query
// term order
func (idx *index) cosine(query []termWeight, i int) float64 {
	sec := idx.vectors[i]
	var dot float64
	for _, tw := range query {
		dot += tw.weight * sec[tw.term]
	}
	return dot
}

// bm25 scores section i for the query terms. terms must be sorted.
func (idx *index) bm25(terms []string, i int) float64 {
	if idx.avgLen == 0 {
		return 0
	}
	tf := idx.tfs[i]
	norm := bm25K1 * (1 - bm25B + bm25B*float64(idx.lengths[i])/idx.avgLen)
	var score float64
	for _, t := range terms {
		f := float64(tf[t])
		if f == 0 {
			continue
		}
		score += idx.bm25IDF[t] * f * (bm25K1 + 1) / (f + norm)
	}
	return score
}
