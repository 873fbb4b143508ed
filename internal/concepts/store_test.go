package concepts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const areasCard = `
slug: ospf-areas
term: OSPF areas
definition: Areas split an OSPF domain so topology detail stays local.
citations:
  - document_number: "2328"
    section_id: "3"
    title: Splitting the AS into Areas
claims:
  - text: Area 0 is the backbone.
    citations:
      - document_number: "2328"
        section_id: "3.1"
        title: The backbone of the Autonomous System
      - document_number: "2328"
        section_id: "3"
        title: Splitting the AS into Areas
`

func writeCard(t *testing.T, dir, slug, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, slug+".yaml"), []byte(body), 0o600))
}

func TestFileStore_Load(t *testing.T) {
	dir := t.TempDir()
	writeCard(t, dir, "ospf-areas", areasCard)
	s := NewFileStore(dir, 0, zaptest.NewLogger(t))

	assert.True(t, s.Exists("ospf-areas"))
	assert.Equal(t, 0, s.Len())

	card, err := s.Load("ospf-areas")
	require.NoError(t, err)
	assert.Equal(t, "OSPF areas", card.Term)
	assert.Len(t, card.Claims, 1)
	assert.Equal(t, 1, s.Len())

	again, err := s.Load("ospf-areas")
	require.NoError(t, err)
	assert.Same(t, card, again)

	cites := card.AllCitations()
	require.Len(t, cites, 2)
	assert.Equal(t, "2328:3", cites[0].Ref())
	assert.Equal(t, "2328:3.1", cites[1].Ref())
	assert.Equal(t, "https://www.rfc-editor.org/rfc/rfc2328#section-3.1", cites[1].URL)
}

func TestFileStore_NotFound(t *testing.T) {
	s := NewFileStore(t.TempDir(), 0, nil)

	assert.False(t, s.Exists("bgp-communities"))
	_, err := s.Load("bgp-communities")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.False(t, s.Exists("../etc/passwd"))
	_, err = s.Load("../etc/passwd")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFileStore_InvalidCards(t *testing.T) {
	dir := t.TempDir()
	writeCard(t, dir, "broken", "term: [")
	writeCard(t, dir, "empty", "term: Empty\n")
	writeCard(t, dir, "renamed", "slug: other\nterm: X\ndefinition: Y\n")
	s := NewFileStore(dir, 0, nil)

	for _, slug := range []string{"broken", "empty", "renamed"} {
		_, err := s.Load(slug)
		assert.Error(t, err, slug)
		assert.False(t, errors.Is(err, ErrNotFound), slug)
	}
}

func TestFileStore_Slugs(t *testing.T) {
	dir := t.TempDir()
	writeCard(t, dir, "ospf-areas", areasCard)
	writeCard(t, dir, "bgp-route-reflection", "term: RR\ndefinition: d\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "drafts.yaml"), 0o700))

	slugs, err := NewFileStore(dir, 0, nil).Slugs()
	require.NoError(t, err)
	assert.Equal(t, []string{"bgp-route-reflection", "ospf-areas"}, slugs)

	_, err = NewFileStore(filepath.Join(dir, "missing"), 0, nil).Slugs()
	assert.Error(t, err)
}

func TestFileStore_WarmIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	var slugs []string
	for i := 0; i < 10; i++ {
		slug := fmt.Sprintf("card-%d", i)
		writeCard(t, dir, slug, fmt.Sprintf("term: T%d\ndefinition: D%d\n", i, i))
		slugs = append(slugs, slug)
	}
	writeCard(t, dir, "bad", "term: [")
	slugs = append(slugs, "bad", "absent")

	s := NewFileStore(dir, 4, zaptest.NewLogger(t))
	failures := s.Warm(context.Background(), slugs)

	assert.Len(t, failures, 2)
	assert.Error(t, failures["bad"])
	assert.True(t, errors.Is(failures["absent"], ErrNotFound))
	assert.Equal(t, 10, s.Len())
}

func TestFileStore_WarmCancelled(t *testing.T) {
	dir := t.TempDir()
	writeCard(t, dir, "ospf-areas", areasCard)
	s := NewFileStore(dir, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	failures := s.Warm(ctx, []string{"ospf-areas"})
	assert.True(t, errors.Is(failures["ospf-areas"], context.Canceled))
	assert.Equal(t, 0, s.Len())
}

func TestFileStore_ConcurrentLoad(t *testing.T) {
	dir := t.TempDir()
	writeCard(t, dir, "ospf-areas", areasCard)
	s := NewFileStore(dir, 0, nil)

	var wg sync.WaitGroup
	cards := make([]*Card, 20)
	for i := range cards {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cards[i], _ = s.Load("ospf-areas")
		}(i)
	}
	wg.Wait()

	for _, c := range cards {
		assert.Same(t, cards[0], c)
	}
}
