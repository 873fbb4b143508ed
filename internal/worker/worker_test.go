package worker

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aescanero/netqa-router/internal/dispatch"
	"github.com/aescanero/netqa-router/internal/router"
)

func TestParseQueryRequest(t *testing.T) {
	req, err := ParseQueryRequest(map[string]interface{}{
		"data": `{"request_id":"abc","query":"what is ospf","vendor":"junos"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, &QueryRequest{RequestID: "abc", Query: "what is ospf", Vendor: "junos"}, req)
}

func TestParseQueryRequest_FillsRequestID(t *testing.T) {
	req, err := ParseQueryRequest(map[string]interface{}{
		"data": `{"query":"iosxe bgp neighbor down"}`,
	})
	require.NoError(t, err)
	_, err = uuid.Parse(req.RequestID)
	assert.NoError(t, err)
}

func TestParseQueryRequest_Rejects(t *testing.T) {
	tests := map[string]map[string]interface{}{
		"missing data": {},
		"not a string": {"data": 42},
		"bad json":     {"data": "{"},
		"empty query":  {"data": `{"request_id":"r1","query":"  "}`},
	}
	for name, values := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseQueryRequest(values)
			assert.Error(t, err)
		})
	}
}

func TestAnswerValues(t *testing.T) {
	env := dispatch.Envelope{
		RequestID: "r1",
		Query:     "weather in paris",
		Intent:    router.IntentAbstain,
		Abstain:   &dispatch.AbstainBody{ReasonCode: router.ReasonOffTopic},
	}

	values, err := answerValues(env)
	require.NoError(t, err)
	assert.Equal(t, "r1", values["request_id"])
	assert.Equal(t, "ABSTAIN", values["intent"])

	var decoded dispatch.Envelope
	require.NoError(t, json.Unmarshal([]byte(values["data"].(string)), &decoded))
	assert.Equal(t, router.ReasonOffTopic, decoded.Abstain.ReasonCode)
	assert.Nil(t, decoded.Define)
}

func TestErrorEvent(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	bare := errorEvent("1-0", nil, errors.New("missing or invalid 'data' field"), now)
	assert.Equal(t, "1-0", bare["message_id"])
	assert.NotContains(t, bare, "request_id")

	withReq := errorEvent("2-0", &QueryRequest{RequestID: "r2", Query: " "}, errors.New("query is empty"), now)
	assert.Equal(t, "r2", withReq["request_id"])
	assert.Equal(t, "query is empty", withReq["error"])
	assert.Equal(t, now, withReq["timestamp"])
}
