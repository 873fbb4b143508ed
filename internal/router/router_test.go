package router

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aescanero/netqa-router/internal/cache"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDocs map[string]bool

func (f fakeDocs) HasDocument(doc string) bool { return f[doc] }

type fakeConcepts map[string]bool

func (f fakeConcepts) Exists(slug string) bool { return f[slug] }

func newTestRouter(docs DocumentIndex, concepts ConceptIndex) *Router {
	return NewRouter(docs, concepts, cache.New[string, RouteDecision](64, time.Minute), nil)
}

func TestRoute_DefineOSPF(t *testing.T) {
	r := newTestRouter(nil, nil)
	d := r.RouteText("what is ospf", Options{})

	assert.Equal(t, IntentDefine, d.Intent)
	assert.Equal(t, "2328", d.Target)
	assert.Equal(t, confidenceDefinePhrase, d.Confidence)
	assert.Empty(t, d.ReasonCode)
	assert.Contains(t, d.MatchedTokens, "ospf")
}

func TestRoute_TroubleshootBGP(t *testing.T) {
	r := newTestRouter(nil, nil)
	d := r.RouteText("iosxe bgp neighbor down 192.0.2.1", Options{})

	require.Equal(t, IntentTroubleshoot, d.Intent)
	assert.Equal(t, "bgp-neighbor-down", d.Target)
	assert.GreaterOrEqual(t, d.Confidence, MinTroubleshootConfidence)
	assert.Equal(t, 1.0, d.Confidence)
	assert.Equal(t, "iosxe", d.Vendor)
	assert.Subset(t, d.MatchedTokens, []string{"bgp", "neighbor", "down", "iosxe", "192.0.2.1"})
	assert.NotEmpty(t, d.Notes.TokenHits)
	assert.LessOrEqual(t, len(d.Notes.RunnerUps), maxRunnerUps)
	assert.NotEmpty(t, d.Reasons)
}

func TestRoute_AbstentionCodes(t *testing.T) {
	tests := []struct {
		name  string
		query string
		opts  Options
		docs  DocumentIndex
		want  ReasonCode
	}{
		{"offtopic", "weather in paris", Options{}, nil, ReasonOffTopic},
		{"short", "ip", Options{}, nil, ReasonShortQuery},
		{"empty", "   ", Options{}, nil, ReasonShortQuery},
		{"unsupported inferred", "arista bgp neighbor down", Options{}, nil, ReasonUnsupportedVendor},
		{"unsupported explicit", "bgp neighbor down 192.0.2.1", Options{Vendor: "fortinet"}, nil, ReasonUnsupportedVendor},
		{"low confidence", "link flapping", Options{}, nil, ReasonLowConfidence},
		{"missing evidence", "what is ospf", Options{}, fakeDocs{"4271": true}, ReasonMissingEvidence},
	}

	seen := make(map[ReasonCode]bool)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(tt.docs, nil)
			d := r.RouteText(tt.query, tt.opts)
			assert.Equal(t, IntentAbstain, d.Intent)
			assert.Equal(t, tt.want, d.ReasonCode)
			assert.Empty(t, d.Target)
			seen[d.ReasonCode] = true
		})
	}

	for _, code := range ReasonCodes {
		assert.True(t, seen[code], "reason code %s not reached", code)
	}
}

func TestRoute_LowConfidenceReportsBestCandidate(t *testing.T) {
	r := newTestRouter(nil, nil)
	d := r.RouteText("link flapping", Options{})

	require.Equal(t, ReasonLowConfidence, d.ReasonCode)
	assert.Equal(t, 0.375, d.Confidence)
	require.NotEmpty(t, d.Notes.RunnerUps)
	assert.Equal(t, "interface-down", d.Notes.RunnerUps[0].Target)
	assert.LessOrEqual(t, len(d.Notes.RunnerUps), maxRunnerUps)
}

func TestRoute_ShortQueryWithVendorAndProtocol(t *testing.T) {
	r := newTestRouter(nil, nil)
	d := r.RouteText("junos ospf", Options{})

	assert.Equal(t, IntentDefine, d.Intent)
	assert.Equal(t, "2328", d.Target)
	assert.Equal(t, "junos", d.Vendor)
}

func TestRoute_ExplicitVendorWins(t *testing.T) {
	r := newTestRouter(nil, nil)
	d := r.RouteText("iosxe bgp neighbor down 192.0.2.1", Options{Vendor: "JunOS"})

	require.Equal(t, IntentTroubleshoot, d.Intent)
	assert.Equal(t, "junos", d.Vendor)
}

func TestRoute_DefaultVendorDoesNotCountAsPresent(t *testing.T) {
	r := newTestRouter(nil, nil)
	d := r.RouteText("bgp neighbor down 192.0.2.1", Options{})

	require.Equal(t, IntentTroubleshoot, d.Intent)
	assert.Equal(t, "iosxe", d.Vendor)
	// 1.5 + 0.5 + 0.75 + 0.75 = 3.5
	assert.Equal(t, 0.875, d.Confidence)
}

func TestRoute_Concept(t *testing.T) {
	r := newTestRouter(nil, fakeConcepts{"ospf-areas": true})
	d := r.RouteText("explain ospf areas", Options{})

	assert.Equal(t, IntentConcept, d.Intent)
	assert.Equal(t, "ospf-areas", d.Target)
	assert.InDelta(t, 0.7, d.Confidence, 1e-9)
}

func TestRoute_ConceptMissingFallsBackToDefine(t *testing.T) {
	r := newTestRouter(nil, fakeConcepts{})
	d := r.RouteText("explain ospf areas", Options{})

	assert.Equal(t, IntentDefine, d.Intent)
	assert.Equal(t, "2328", d.Target)
	assert.Equal(t, confidenceConceptMissing, d.Confidence)
	assert.Contains(t, d.Notes.Message, "ospf-areas")
}

func TestRoute_MostSpecificDefineTerm(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"what is ospfv3", "5340"},
		{"what is a route reflector in bgp", "4456"},
		{"what is bgp", "4271"},
		{"tell me about routing protocols", "1812"},
	}

	r := newTestRouter(nil, nil)
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			d := r.RouteText(tt.query, Options{})
			assert.Equal(t, IntentDefine, d.Intent)
			assert.Equal(t, tt.want, d.Target)
		})
	}
}

func TestRoute_DefaultDefineConfidence(t *testing.T) {
	r := newTestRouter(nil, nil)
	d := r.RouteText("tell me about routing protocols", Options{})
	assert.Equal(t, confidenceDefineDefault, d.Confidence)
}

func TestRoute_Deterministic(t *testing.T) {
	queries := []string{
		"what is ospf",
		"iosxe bgp neighbor down 192.0.2.1",
		"junos ospf adjacency stuck in exstart area 0 on ge-0/0/1",
		"link flapping",
		"weather in paris",
	}

	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			fresh := NewRouter(nil, nil, nil, nil)
			cached := newTestRouter(nil, nil)

			first := cached.RouteText(q, Options{})
			second := cached.RouteText(q, Options{})
			third := fresh.RouteText(q, Options{})

			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("cached decision differs (-first +second):\n%s", diff)
			}
			if diff := cmp.Diff(first, third); diff != "" {
				t.Errorf("uncached decision differs (-cached +fresh):\n%s", diff)
			}
		})
	}
}

func TestRoute_CachePopulatedOnlyForNonAbstain(t *testing.T) {
	decisions := cache.New[string, RouteDecision](64, time.Minute)
	r := NewRouter(nil, nil, decisions, nil)

	r.RouteText("what is ospf", Options{})
	r.RouteText("weather in paris", Options{})
	assert.Equal(t, 1, decisions.Len())

	_, ok := decisions.Get("what is ospf|")
	assert.True(t, ok)

	r.ClearCache()
	assert.Equal(t, 0, decisions.Len())
}

func TestRoute_CacheKeyIncludesExplicitVendor(t *testing.T) {
	r := newTestRouter(nil, nil)
	a := r.RouteText("bgp neighbor down 192.0.2.1", Options{})
	b := r.RouteText("bgp neighbor down 192.0.2.1", Options{Vendor: "junos"})

	assert.Equal(t, "iosxe", a.Vendor)
	assert.Equal(t, "junos", b.Vendor)
}

func TestRoute_ConcurrentCallers(t *testing.T) {
	r := newTestRouter(nil, nil)
	want := r.RouteText("iosxe bgp neighbor down 192.0.2.1", Options{})

	var wg sync.WaitGroup
	errs := make(chan string, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := r.RouteText("iosxe bgp neighbor down 192.0.2.1", Options{})
			if diff := cmp.Diff(want, got); diff != "" {
				errs <- diff
			}
		}()
	}
	wg.Wait()
	close(errs)

	for diff := range errs {
		t.Errorf("concurrent decision differs:\n%s", diff)
	}
}

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestRoute_SweepsExpiredDecisions(t *testing.T) {
	clock := &stepClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	decisions := cache.New[string, RouteDecision](1024, time.Minute, cache.WithClock(clock.Now))
	r := NewRouter(nil, nil, decisions, nil)

	for i := 0; i < sweepEvery-1; i++ {
		d := r.RouteText(fmt.Sprintf("iosxe bgp neighbor down 192.0.2.%d", i+1), Options{})
		require.NotEqual(t, IntentAbstain, d.Intent)
	}
	assert.Equal(t, sweepEvery-1, decisions.Len())

	clock.Advance(2 * time.Minute)

	// the next write triggers the sweep and only the fresh entry survives
	r.RouteText("iosxe bgp neighbor down 198.51.100.1", Options{})
	assert.Equal(t, 1, decisions.Len())
}
