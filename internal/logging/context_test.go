package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextWith_Accumulates(t *testing.T) {
	ctx := ContextWith(context.Background(), "command", "open")
	ctx = ContextWith(ctx, "doc", "b1")

	assert.Equal(t, []any{"command", "open", "doc", "b1"}, fieldsFrom(ctx))
	assert.Nil(t, fieldsFrom(context.Background()))

	same := context.Background()
	assert.Equal(t, same, ContextWith(same))
}

func TestSlogLogger_ContextFields(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := ContextWith(context.Background(), "command", "find")

	log.Info(ctx, "document searched", "matches", 3)

	out := buf.String()
	assert.Contains(t, out, "command=find")
	assert.Contains(t, out, "matches=3")
}

func TestSlogLogger_LevelGateSkipsContextFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "error", Output: &buf})
	require.NoError(t, err)

	log.Warn(ContextWith(context.Background(), "command", "sync"), "dropped")
	assert.Empty(t, buf.String())
}

func TestZapLogger_ContextFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Backend: "zap", Output: &buf})
	require.NoError(t, err)

	log.Info(ContextWith(context.Background(), "command", "open"), "document opened", "pages", 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "open", rec["command"])
	assert.EqualValues(t, 2, rec["pages"])
}
