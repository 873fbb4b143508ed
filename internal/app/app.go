// Package app assembles the query pipeline from configuration: corpus,
// concept cards, routing cache, router, playbook engine and dispatcher.
//
// Example usage:
//
//	svc, err := app.Build(ctx, cfg, logger)
//	if err != nil {
//	    return err
//	}
//	env := svc.Dispatcher.Dispatch(ctx, "what is ospf", dispatch.Options{})
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aescanero/netqa-router/internal/cache"
	"github.com/aescanero/netqa-router/internal/concepts"
	"github.com/aescanero/netqa-router/internal/config"
	"github.com/aescanero/netqa-router/internal/dispatch"
	"github.com/aescanero/netqa-router/internal/playbook"
	"github.com/aescanero/netqa-router/internal/retrieval"
	"github.com/aescanero/netqa-router/internal/router"
)

// Services are the assembled pipeline components
type Services struct {
	Retriever  *retrieval.Retriever
	Concepts   *concepts.FileStore // nil when no concepts directory is set
	Router     *router.Router
	Engine     *playbook.Engine
	Dispatcher *dispatch.Dispatcher
}

// ConceptCount returns the number of warmed concept cards
func (s *Services) ConceptCount() int {
	if s.Concepts == nil {
		return 0
	}
	return s.Concepts.Len()
}

// Build loads evidence sources and wires the pipeline. Corpus errors are
// fatal; individual concept cards that fail to load are logged and skipped.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Services, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	sections, err := retrieval.LoadCorpus(cfg.CorpusPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	svc := &Services{
		Retriever: retrieval.NewRetriever(sections, logger.Named("retrieval")),
	}

	// typed nils must not leak into the interfaces below
	var (
		conceptIndex router.ConceptIndex
		conceptStore dispatch.ConceptStore
	)
	if cfg.ConceptsDir != "" {
		store := concepts.NewFileStore(cfg.ConceptsDir, cfg.ConceptWorkers, logger.Named("concepts"))
		slugs, err := store.Slugs()
		if err != nil {
			return nil, fmt.Errorf("failed to list concept cards: %w", err)
		}
		for slug, err := range store.Warm(ctx, slugs) {
			logger.Warn("concept card skipped", zap.String("slug", slug), zap.Error(err))
		}
		svc.Concepts = store
		conceptIndex = store
		conceptStore = store
	}

	decisions := cache.New[string, router.RouteDecision](cfg.CacheSize, cfg.CacheTTL)
	svc.Router = router.NewRouter(svc.Retriever, conceptIndex, decisions, logger.Named("router"))

	svc.Engine, err = playbook.NewEngine(logger.Named("playbook"))
	if err != nil {
		return nil, fmt.Errorf("failed to build playbook engine: %w", err)
	}

	svc.Dispatcher = dispatch.NewDispatcher(svc.Router, svc.Retriever, conceptStore, svc.Engine, dispatch.Config{
		TopK:        cfg.TopK,
		BlendWeight: cfg.BlendWeight,
		Budget:      cfg.LatencyBudget,
		MinSteps:    cfg.MinPlaybookSteps,
	}, logger.Named("dispatch"))

	logger.Info("pipeline ready",
		zap.Int("corpus_sections", svc.Retriever.Len()),
		zap.Int("concept_cards", svc.ConceptCount()),
		zap.Strings("playbooks", svc.Engine.Scenarios()),
	)
	return svc, nil
}

// NewLogger builds a JSON production logger at level, writing to outputs
// (stdout when none are given).
func NewLogger(level string, outputs ...string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	if len(outputs) == 0 {
		outputs = []string{"stdout"}
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
