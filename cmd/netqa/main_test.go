package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aescanero/netqa-router/internal/dispatch"
	"github.com/aescanero/netqa-router/internal/playbook"
	"github.com/aescanero/netqa-router/internal/retrieval"
	"github.com/aescanero/netqa-router/internal/router"
)

func run(t *testing.T, args ...string) []byte {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{
		"--corpus", filepath.Join("..", "..", "data", "corpus.yaml"),
		"--concepts", filepath.Join("..", "..", "data", "concepts"),
		"--log-level", "error",
	}, args...))
	require.NoError(t, rootCmd.Execute())
	return out.Bytes()
}

func TestAsk(t *testing.T) {
	var env dispatch.Envelope
	require.NoError(t, json.Unmarshal(run(t, "ask", "what", "is", "ospf"), &env))
	assert.Equal(t, router.IntentDefine, env.Intent)
	require.NotNil(t, env.Define)
	assert.Equal(t, "2328", env.Define.Target)
}

func TestRoute(t *testing.T) {
	var d router.RouteDecision
	require.NoError(t, json.Unmarshal(run(t, "route", "--vendor", "junos", "bgp", "neighbor", "down"), &d))
	assert.Equal(t, router.IntentTroubleshoot, d.Intent)
	assert.Equal(t, "junos", d.Vendor)
}

func TestPlaybook(t *testing.T) {
	var ids []string
	require.NoError(t, json.Unmarshal(run(t, "playbook"), &ids))
	assert.Contains(t, ids, playbook.ScenarioMTUBlackhole)

	var res playbook.Result
	require.NoError(t, json.Unmarshal(run(t, "playbook", "mtu-blackhole", "--destination", "198.51.100.7", "--mtu", "9000"), &res))
	assert.Equal(t, playbook.StatusOK, res.Status)
	assert.Equal(t, []string{"ping 198.51.100.7 size 9000 df-bit"}, res.Steps[0].Commands)
}

func TestSearch(t *testing.T) {
	var hits []retrieval.RetrievedSection
	require.NoError(t, json.Unmarshal(run(t, "search", "--top-k", "2", "--doc", "4271", "hold", "timer"), &hits))
	require.NotEmpty(t, hits)
	assert.LessOrEqual(t, len(hits), 2)
	assert.Equal(t, "10", hits[0].SectionID)
}
