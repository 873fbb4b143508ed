package cel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vars(fields map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{VarName: fields}
}

func TestCondition_Eval(t *testing.T) {
	e := NewEvaluator()

	tests := []struct {
		expr   string
		fields map[string]interface{}
		want   bool
	}{
		{"ctx.auth != 'none'", map[string]interface{}{"auth": "md5"}, true},
		{"ctx.auth != 'none'", map[string]interface{}{"auth": "none"}, false},
		{"ctx.port > 0", map[string]interface{}{"port": int64(179)}, true},
		{"ctx.port > 0", map[string]interface{}{"port": int64(0)}, false},
		{"ctx.vendor in ['iosxe', 'junos']", map[string]interface{}{"vendor": "junos"}, true},
		{"ctx.peer.startsWith('192.0.2.')", map[string]interface{}{"peer": "192.0.2.1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			cond, err := e.Compile(tt.expr)
			require.NoError(t, err)
			got, err := cond.Eval(context.Background(), vars(tt.fields))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.expr, cond.Expression())
		})
	}
}

func TestCompile_RejectsBadExpressions(t *testing.T) {
	e := NewEvaluator()

	_, err := e.Compile("ctx.port >")
	assert.Error(t, err)

	_, err = e.Compile("1 + 2")
	assert.Error(t, err, "non-boolean expressions are rejected")

	assert.NoError(t, e.ValidateExpression("ctx.mtu > 1400"))
}

func TestCondition_MissingFieldIsError(t *testing.T) {
	e := NewEvaluator()
	ok, err := e.Evaluate(context.Background(), "ctx.missing == 'x'", vars(map[string]interface{}{}))
	assert.Error(t, err)
	assert.False(t, ok)
}
