package retrieval

import (
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/aescanero/netqa-router/internal/citation"
)

// Search defaults
const (
	DefaultTopK  = 3
	RerankWindow = 200

	titleBoost   = 0.05
	sectionBoost = 0.03
	blendEpsilon = 1e-9
	excerptLen   = 280
)

// definitionalPhrases mark a query asking for an overview
var definitionalPhrases = []string{"what is", "overview", "definition", "intro"}

// Options controls one search
type Options struct {
	TopK int
	// Documents restricts results to these document numbers
	Documents []string
	// BlendWeight mixes min-max normalized BM25 into the tf-idf score.
	// 0 ranks by tf-idf cosine alone; values are clamped to [0,1].
	BlendWeight float64
}

// Subscores are the per-signal components of a result
type Subscores struct {
	TFIDF float64 `json:"tfidf"`
	BM25  float64 `json:"bm25"`
	Boost float64 `json:"boost"`
}

// RetrievedSection is one ranked search hit
type RetrievedSection struct {
	DocumentNumber string    `json:"document_number"`
	SectionID      string    `json:"section_id"`
	Title          string    `json:"title"`
	Excerpt        string    `json:"excerpt"`
	URL            string    `json:"url"`
	Score          float64   `json:"score"`
	Subscores      Subscores `json:"subscores"`
}

// Citation returns the citation record for the hit
func (r RetrievedSection) Citation() citation.Citation {
	return citation.Citation{
		DocumentNumber: r.DocumentNumber,
		SectionID:      r.SectionID,
		Title:          r.Title,
		URL:            r.URL,
	}
}

// Retriever ranks corpus sections. The corpus and index are immutable after
// NewRetriever, so Search is safe for concurrent use.
type Retriever struct {
	logger   *zap.Logger
	sections []Section
	index    *index
	byKey    map[string]int
	docs     map[string]bool
}

// NewRetriever indexes sections. Corpus order is kept as the final
// tie-breaker.
func NewRetriever(sections []Section, logger *zap.Logger) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Retriever{
		logger:   logger,
		sections: sections,
		index:    buildIndex(sections),
		byKey:    make(map[string]int, len(sections)),
		docs:     make(map[string]bool),
	}
	for i, s := range sections {
		r.byKey[s.DocumentNumber+":"+s.SectionID] = i
		r.docs[s.DocumentNumber] = true
	}

	logger.Info("corpus indexed",
		zap.Int("sections", len(sections)),
		zap.Int("documents", len(r.docs)),
		zap.Int("terms", len(r.index.idf)),
	)
	return r
}

// Len returns the number of indexed sections
func (r *Retriever) Len() int {
	return len(r.sections)
}

// HasDocument reports whether any section belongs to doc
func (r *Retriever) HasDocument(doc string) bool {
	return r.docs[doc]
}

// GetSection looks up one section
func (r *Retriever) GetSection(doc, section string) (Section, bool) {
	i, ok := r.byKey[doc+":"+section]
	if !ok {
		return Section{}, false
	}
	return r.sections[i], true
}

type scored struct {
	pos   int
	tfidf float64
	bm25  float64
	boost float64
	final float64
}

// Search ranks sections for query:
//  1. cosine between the query tf-idf vector and each section vector
//  2. the top RerankWindow sections by cosine are reranked
//  3. definitional queries boost introduction/overview sections
//  4. with BlendWeight > 0, min-max normalized tf-idf and BM25 are blended
//
// Only sections sharing at least one term with the query are returned.
// Ties keep corpus order.
func (r *Retriever) Search(query string, opts Options) []RetrievedSection {
	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	w := clamp01(opts.BlendWeight)

	tf := termFreqs(tokenize(query))
	qvec := r.index.weigh(tf)
	if len(qvec) == 0 {
		return nil
	}

	var allowed map[string]bool
	if len(opts.Documents) > 0 {
		allowed = make(map[string]bool, len(opts.Documents))
		for _, d := range opts.Documents {
			allowed[d] = true
		}
	}

	var window []scored
	for i, s := range r.sections {
		if allowed != nil && !allowed[s.DocumentNumber] {
			continue
		}
		cos := r.index.cosine(qvec, i)
		if cos <= 0 {
			continue
		}
		window = append(window, scored{pos: i, tfidf: cos})
	}
	sortScored(window, func(s scored) float64 { return s.tfidf })
	if len(window) > RerankWindow {
		window = window[:RerankWindow]
	}

	terms := sortedTerms(tf)
	definitional := isDefinitional(query)
	for i := range window {
		sc := &window[i]
		sc.bm25 = r.index.bm25(terms, sc.pos)
		if definitional {
			sc.boost = definitionalBoost(r.sections[sc.pos])
		}
	}

	if w > 0 {
		tMin, tMax := bounds(window, func(s scored) float64 { return s.tfidf })
		bMin, bMax := bounds(window, func(s scored) float64 { return s.bm25 })
		for i := range window {
			sc := &window[i]
			t := (sc.tfidf - tMin) / (tMax - tMin + blendEpsilon)
			b := (sc.bm25 - bMin) / (bMax - bMin + blendEpsilon)
			sc.final = (1-w)*t + w*b + sc.boost
		}
	} else {
		for i := range window {
			window[i].final = window[i].tfidf + window[i].boost
		}
	}

	sortScored(window, func(s scored) float64 { return s.final })
	if len(window) > topK {
		window = window[:topK]
	}

	out := make([]RetrievedSection, len(window))
	for i, sc := range window {
		s := r.sections[sc.pos]
		out[i] = RetrievedSection{
			DocumentNumber: s.DocumentNumber,
			SectionID:      s.SectionID,
			Title:          s.Title,
			Excerpt:        excerpt(s.Text, excerptLen),
			URL:            s.Citation().URL,
			Score:          round(sc.final),
			Subscores: Subscores{
				TFIDF: round(sc.tfidf),
				BM25:  round(sc.bm25),
				Boost: round(sc.boost),
			},
		}
	}

	r.logger.Debug("search",
		zap.String("query", query),
		zap.Int("results", len(out)),
		zap.Float64("blend_weight", w),
		zap.Bool("definitional", definitional),
	)
	return out
}

// sortScored orders by key descending, then corpus position
func sortScored(s []scored, key func(scored) float64) {
	sort.SliceStable(s, func(i, j int) bool {
		ki, kj := key(s[i]), key(s[j])
		if ki != kj {
			return ki > kj
		}
		return s[i].pos < s[j].pos
	})
}

func bounds(s []scored, key func(scored) float64) (lo, hi float64) {
	for i, sc := range s {
		v := key(sc)
		if i == 0 || v < lo {
			lo = v
		}
		if i == 0 || v > hi {
			hi = v
		}
	}
	return lo, hi
}

func isDefinitional(query string) bool {
	q := strings.ToLower(query)
	for _, p := range definitionalPhrases {
		if strings.Contains(q, p) {
			return true
		}
	}
	return false
}

// definitionalBoost favours introduction and overview sections, and the
// first numbered section of a document.
func definitionalBoost(s Section) float64 {
	var boost float64
	title := strings.ToLower(strings.TrimSpace(s.Title))
	if strings.HasPrefix(title, "introduction") || strings.Contains(title, "overview") {
		boost += titleBoost
	}
	if s.SectionID == "1" || strings.HasPrefix(s.SectionID, "1.") {
		boost += sectionBoost
	}
	return boost
}

func excerpt(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= limit {
		return text
	}
	cut := strings.LastIndexByte(text[:limit], ' ')
	if cut <= 0 {
		cut = limit
	}
	return text[:cut] + "..."
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func round(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// Hit wraps a section looked up directly, outside any ranking
func Hit(s Section) RetrievedSection {
	c := s.Citation()
	return RetrievedSection{
		DocumentNumber: s.DocumentNumber,
		SectionID:      s.SectionID,
		Title:          s.Title,
		Excerpt:        excerpt(s.Text, excerptLen),
		URL:            c.URL,
	}
}
