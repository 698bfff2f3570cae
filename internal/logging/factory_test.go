package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SlogText(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "warn", Output: &buf})
	require.NoError(t, err)

	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "k=v")
}

func TestNew_SlogJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Backend: "slog", Format: "json", Output: &buf})
	require.NoError(t, err)

	log.Info(context.Background(), "hello", "pages", 5)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.EqualValues(t, 5, rec["pages"])
}

func TestNew_Zap(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Backend: "zap", Level: "debug", Output: &buf})
	require.NoError(t, err)

	log.With("doc", "d1").Debug(context.Background(), "indexed", "pages", 3)

	line := strings.TrimSpace(buf.String())
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &rec))
	assert.Equal(t, "indexed", rec["msg"])
	assert.Equal(t, "debug", rec["level"])
	assert.Equal(t, "d1", rec["doc"])
	assert.EqualValues(t, 3, rec["pages"])
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Options{Backend: "logrus"})
	require.Error(t, err)

	_, err = New(Options{Level: "loud", Output: &bytes.Buffer{}})
	require.Error(t, err)

	_, err = New(Options{Backend: "zap", Level: "loud", Output: &bytes.Buffer{}})
	require.Error(t, err)

	_, err = New(Options{Format: "xml", Output: &bytes.Buffer{}})
	require.Error(t, err)
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	log.With("a", 1).Error(context.Background(), "ignored")
}
