package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the query worker
type Config struct {
	// Worker configuration
	WorkerID string `env:"WORKER_ID" envDefault:"netqa-1"`

	// Redis configuration
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASS" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Stream configuration
	StreamKey     string        `env:"STREAM_KEY" envDefault:"netqa.queries"`
	ConsumerGroup string        `env:"CONSUMER_GROUP" envDefault:"netqa-workers"`
	ResultStream  string        `env:"RESULT_STREAM" envDefault:"netqa.answers"`
	BlockTime     time.Duration `env:"BLOCK_TIME" envDefault:"1s"`
	MaxRetries    int           `env:"MAX_RETRIES" envDefault:"3"`

	// Evidence sources
	CorpusPath     string `env:"CORPUS_PATH" envDefault:"data/corpus.yaml"`
	ConceptsDir    string `env:"CONCEPTS_DIR" envDefault:"data/concepts"`
	ConceptWorkers int    `env:"CONCEPT_WORKERS" envDefault:"4"`

	// Routing cache
	CacheSize int           `env:"CACHE_SIZE" envDefault:"1024"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"10m"`

	// Retrieval
	BlendWeight float64 `env:"RETRIEVAL_BLEND_WEIGHT" envDefault:"0"`
	TopK        int     `env:"RETRIEVAL_TOP_K" envDefault:"3"`

	// Response shaping
	LatencyBudget    time.Duration `env:"LATENCY_BUDGET" envDefault:"150ms"`
	MinPlaybookSteps int           `env:"MIN_PLAYBOOK_STEPS" envDefault:"8"`

	// Health check configuration
	HealthPort int `env:"HEALTH_PORT" envDefault:"8082"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.WorkerID == "" {
		return fmt.Errorf("WORKER_ID is required")
	}

	if c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}

	if c.StreamKey == "" {
		return fmt.Errorf("STREAM_KEY is required")
	}

	if c.ConsumerGroup == "" {
		return fmt.Errorf("CONSUMER_GROUP is required")
	}

	if c.ResultStream == "" {
		return fmt.Errorf("RESULT_STREAM is required")
	}

	if c.BlockTime <= 0 {
		return fmt.Errorf("BLOCK_TIME must be positive")
	}

	if c.MaxRetries < 0 {
		return fmt.Errorf("MAX_RETRIES must be non-negative")
	}

	if c.CorpusPath == "" {
		return fmt.Errorf("CORPUS_PATH is required")
	}

	// CONCEPTS_DIR may be empty: concept queries then fall back to definitions

	if c.ConceptWorkers <= 0 {
		return fmt.Errorf("CONCEPT_WORKERS must be positive")
	}

	if c.CacheSize <= 0 {
		return fmt.Errorf("CACHE_SIZE must be positive")
	}

	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must be non-negative")
	}

	if c.BlendWeight < 0 || c.BlendWeight > 1 {
		return fmt.Errorf("RETRIEVAL_BLEND_WEIGHT must be between 0 and 1")
	}

	if c.TopK <= 0 {
		return fmt.Errorf("RETRIEVAL_TOP_K must be positive")
	}

	if c.LatencyBudget <= 0 {
		return fmt.Errorf("LATENCY_BUDGET must be positive")
	}

	if c.MinPlaybookSteps <= 0 {
		return fmt.Errorf("MIN_PLAYBOOK_STEPS must be positive")
	}

	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		return fmt.Errorf("HEALTH_PORT must be between 1 and 65535")
	}

	if !isValidLogLevel(c.LogLevel) {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}

	return nil
}

// isValidLogLevel checks if the log level is valid
func isValidLogLevel(level string) bool {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	return validLevels[level]
}

// String returns a string representation of the config (without sensitive data)
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{WorkerID=%s, RedisAddr=%s, RedisDB=%d, StreamKey=%s, ConsumerGroup=%s, "+
			"CorpusPath=%s, ConceptsDir=%s, CacheSize=%d, CacheTTL=%s, BlendWeight=%g, "+
			"LatencyBudget=%s, MinPlaybookSteps=%d, HealthPort=%d, LogLevel=%s}",
		c.WorkerID,
		c.RedisAddr,
		c.RedisDB,
		c.StreamKey,
		c.ConsumerGroup,
		c.CorpusPath,
		c.ConceptsDir,
		c.CacheSize,
		c.CacheTTL,
		c.BlendWeight,
		c.LatencyBudget,
		c.MinPlaybookSteps,
		c.HealthPort,
		c.LogLevel,
	)
}
