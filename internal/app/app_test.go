package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/aescanero/netqa-router/internal/config"
	"github.com/aescanero/netqa-router/internal/dispatch"
	"github.com/aescanero/netqa-router/internal/router"
)

func testConfig(conceptsDir string) *config.Config {
	return &config.Config{
		CorpusPath:       filepath.Join("..", "..", "data", "corpus.yaml"),
		ConceptsDir:      conceptsDir,
		ConceptWorkers:   4,
		CacheSize:        64,
		CacheTTL:         time.Minute,
		TopK:             3,
		LatencyBudget:    time.Minute,
		MinPlaybookSteps: 8,
	}
}

func TestBuild_SampleData(t *testing.T) {
	svc, err := Build(context.Background(), testConfig(filepath.Join("..", "..", "data", "concepts")), zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Greater(t, svc.Retriever.Len(), 30)
	assert.Equal(t, 3, svc.ConceptCount())

	ctx := context.Background()

	env := svc.Dispatcher.Dispatch(ctx, "what is ospf", dispatch.Options{})
	require.Equal(t, router.IntentDefine, env.Intent)
	assert.Equal(t, "2328", env.Define.Target)
	assert.Equal(t, "1", env.Define.Sections[0].SectionID)

	env = svc.Dispatcher.Dispatch(ctx, "explain ospf areas", dispatch.Options{})
	require.Equal(t, router.IntentConcept, env.Intent)
	assert.Equal(t, "ospf-areas", env.Concept.Card.Slug)

	env = svc.Dispatcher.Dispatch(ctx, "iosxe bgp neighbor down 192.0.2.1", dispatch.Options{})
	require.Equal(t, router.IntentTroubleshoot, env.Intent)
	assert.Len(t, env.Troubleshoot.Steps, 8)

	// every playbook citation resolves to a corpus section
	for _, c := range env.Troubleshoot.Citations {
		_, ok := svc.Retriever.GetSection(c.DocumentNumber, c.SectionID)
		assert.True(t, ok, c.Ref())
	}
}

func TestBuild_WithoutConcepts(t *testing.T) {
	svc, err := Build(context.Background(), testConfig(""), nil)
	require.NoError(t, err)
	assert.Nil(t, svc.Concepts)
	assert.Zero(t, svc.ConceptCount())

	// the card lookup falls back to a definition
	env := svc.Dispatcher.Dispatch(context.Background(), "explain ospf areas", dispatch.Options{})
	assert.Equal(t, router.IntentDefine, env.Intent)
}

func TestBuild_Errors(t *testing.T) {
	cfg := testConfig("")
	cfg.CorpusPath = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := Build(context.Background(), cfg, nil)
	assert.Error(t, err)

	cfg = testConfig(filepath.Join(t.TempDir(), "no-such-dir"))
	_, err = Build(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		logger, err := NewLogger(level, "stderr")
		require.NoError(t, err, level)
		assert.NotNil(t, logger)
	}
}
