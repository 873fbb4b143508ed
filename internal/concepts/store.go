package concepts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/aescanero/netqa-router/internal/citation"
)

// ErrNotFound is returned when no card exists for a slug
var ErrNotFound = errors.New("concept card not found")

// DefaultWorkers bounds concurrent card loads during Warm
const DefaultWorkers = 4

const cardExt = ".yaml"

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Claim is one evidence-backed statement on a card
type Claim struct {
	Text      string              `yaml:"text" json:"text"`
	Citations []citation.Citation `yaml:"citations" json:"citations"`
}

// Card is a structured definition looked up by slug
type Card struct {
	Slug       string              `yaml:"slug" json:"slug"`
	Term       string              `yaml:"term" json:"term"`
	Definition string              `yaml:"definition" json:"definition"`
	Claims     []Claim             `yaml:"claims" json:"claims"`
	Citations  []citation.Citation `yaml:"citations" json:"citations"`
}

// AllCitations returns card and claim citations deduplicated, card first
func (c *Card) AllCitations() []citation.Citation {
	all := append([]citation.Citation(nil), c.Citations...)
	for _, cl := range c.Claims {
		all = append(all, cl.Citations...)
	}
	for i := range all {
		if all[i].URL == "" {
			all[i].URL = citation.RFCURL(all[i].DocumentNumber, all[i].SectionID)
		}
	}
	return citation.Dedupe(all)
}

// FileStore serves cards from <dir>/<slug>.yaml. Cards are parsed on first
// use and kept in memory.
type FileStore struct {
	dir     string
	workers int
	logger  *zap.Logger

	mu    sync.RWMutex
	cards map[string]*Card
}

// NewFileStore creates a store over dir. workers bounds Warm concurrency.
func NewFileStore(dir string, workers int, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &FileStore{
		dir:     dir,
		workers: workers,
		logger:  logger,
		cards:   make(map[string]*Card),
	}
}

// Load returns the card for slug, reading it from disk on first use
func (s *FileStore) Load(slug string) (*Card, error) {
	s.mu.RLock()
	card, ok := s.cards[slug]
	s.mu.RUnlock()
	if ok {
		return card, nil
	}

	card, err := s.read(slug)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if existing, ok := s.cards[slug]; ok {
		card = existing
	} else {
		s.cards[slug] = card
	}
	s.mu.Unlock()

	return card, nil
}

// Exists reports whether a card is loaded or present on disk
func (s *FileStore) Exists(slug string) bool {
	s.mu.RLock()
	_, ok := s.cards[slug]
	s.mu.RUnlock()
	if ok {
		return true
	}
	if !slugPattern.MatchString(slug) {
		return false
	}
	info, err := os.Stat(s.path(slug))
	return err == nil && !info.IsDir()
}

// Len returns the number of cards held in memory
func (s *FileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cards)
}

// Slugs lists the card files in the store directory, sorted
func (s *FileStore) Slugs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, eris.Wrapf(err, "concepts: list %s", s.dir)
	}
	var slugs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != cardExt {
			continue
		}
		slug := strings.TrimSuffix(name, cardExt)
		if slugPattern.MatchString(slug) {
			slugs = append(slugs, slug)
		}
	}
	sort.Strings(slugs)
	return slugs, nil
}

// Warm loads slugs with at most workers loads in flight. A failing card
// never stops the others; failures are returned keyed by slug.
func (s *FileStore) Warm(ctx context.Context, slugs []string) map[string]error {
	var (
		mu       sync.Mutex
		failures = make(map[string]error)
	)
	fail := func(slug string, err error) {
		mu.Lock()
		failures[slug] = err
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, slug := range slugs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				fail(slug, err)
				return nil
			}
			if _, err := s.Load(slug); err != nil {
				s.logger.Warn("concept card failed to load",
					zap.String("slug", slug),
					zap.Error(err),
				)
				fail(slug, err)
			}
			return nil // don't abort siblings
		})
	}
	_ = g.Wait()

	s.logger.Info("concept cards warmed",
		zap.Int("requested", len(slugs)),
		zap.Int("loaded", s.Len()),
		zap.Int("failed", len(failures)),
	)
	return failures
}

func (s *FileStore) path(slug string) string {
	return filepath.Join(s.dir, slug+cardExt)
}

func (s *FileStore) read(slug string) (*Card, error) {
	if !slugPattern.MatchString(slug) {
		return nil, eris.Wrapf(ErrNotFound, "concepts: invalid slug %q", slug)
	}

	data, err := os.ReadFile(s.path(slug))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, eris.Wrapf(ErrNotFound, "concepts: %s", slug)
		}
		return nil, eris.Wrapf(err, "concepts: read %s", slug)
	}

	card, err := ParseCard(data)
	if err != nil {
		return nil, eris.Wrapf(err, "concepts: %s", slug)
	}
	if card.Slug == "" {
		card.Slug = slug
	}
	if card.Slug != slug {
		return nil, eris.Errorf("concepts: file %s holds card %q", slug, card.Slug)
	}
	return card, nil
}

// ParseCard decodes one YAML card. A card needs a term and a definition.
func ParseCard(data []byte) (*Card, error) {
	var card Card
	if err := yaml.Unmarshal(data, &card); err != nil {
		return nil, eris.Wrap(err, "parse card")
	}
	if card.Term == "" || card.Definition == "" {
		return nil, eris.New("card needs term and definition")
	}
	return &card, nil
}
