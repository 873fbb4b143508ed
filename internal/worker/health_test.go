package worker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", f.err)
}

type count int

func (c count) Len() int { return int(c) }

func get(t *testing.T, hs *HealthServer, path string) (int, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	hs.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestHealth(t *testing.T) {
	hs := NewHealthServer(0, fakePinger{}, count(3), count(2), zaptest.NewLogger(t))
	code, resp := get(t, hs, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "healthy", resp.Checks["redis"])

	down := NewHealthServer(0, fakePinger{err: errors.New("connection refused")}, count(3), nil, zaptest.NewLogger(t))
	code, resp = get(t, down, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", resp.Status)
}

func TestReady(t *testing.T) {
	hs := NewHealthServer(0, fakePinger{}, count(42), count(5), zaptest.NewLogger(t))
	code, resp := get(t, hs, "/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", resp.Status)
	assert.Equal(t, 42, resp.Sections)
	assert.Equal(t, 5, resp.Cards)

	empty := NewHealthServer(0, fakePinger{}, count(0), nil, zaptest.NewLogger(t))
	code, resp = get(t, empty, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not ready", resp.Status)

	down := NewHealthServer(0, fakePinger{err: errors.New("timeout")}, count(42), nil, zaptest.NewLogger(t))
	code, _ = get(t, down, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}
