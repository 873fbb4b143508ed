package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "netqa.queries", cfg.StreamKey)
	assert.Equal(t, "netqa.answers", cfg.ResultStream)
	assert.Equal(t, 4, cfg.ConceptWorkers)
	assert.Equal(t, 1024, cfg.CacheSize)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Zero(t, cfg.BlendWeight)
	assert.Equal(t, 3, cfg.TopK)
	assert.Equal(t, 150*time.Millisecond, cfg.LatencyBudget)
	assert.Equal(t, 8, cfg.MinPlaybookSteps)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("RETRIEVAL_BLEND_WEIGHT", "0.3")
	t.Setenv("MIN_PLAYBOOK_STEPS", "7")
	t.Setenv("LATENCY_BUDGET", "250ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.3, cfg.BlendWeight)
	assert.Equal(t, 7, cfg.MinPlaybookSteps)
	assert.Equal(t, 250*time.Millisecond, cfg.LatencyBudget)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"RETRIEVAL_BLEND_WEIGHT": "1.5",
		"MIN_PLAYBOOK_STEPS":     "0",
		"CACHE_SIZE":             "-1",
		"LOG_LEVEL":              "verbose",
		"HEALTH_PORT":            "70000",
		"BLOCK_TIME":             "not-a-duration",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestString_OmitsPassword(t *testing.T) {
	cfg := &Config{RedisPassword: "hunter2", WorkerID: "w"}
	assert.NotContains(t, cfg.String(), "hunter2")
	assert.Contains(t, cfg.String(), "WorkerID=w")
}
