package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSlogLoggerWritesAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := New(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	l.With("component", "test").Debug(context.Background(), "hello", "n", 3, Redacted("argv"))

	out := buf.String()
	assert.Contains(t, out, "msg=hello")
	assert.Contains(t, out, "component=test")
	assert.Contains(t, out, "n=3")
	assert.Contains(t, out, "argv="+redactedPlaceholder)
}

func TestZapLoggerFlattensAttrs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewZap(zap.New(core)).With("backend", "detached")

	l.Info(context.Background(), "bound", Redacted("secret"), "caps", 3)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "bound", entries[0].Message)
	assert.Equal(t, "detached", fields["backend"])
	assert.Equal(t, redactedPlaceholder, fields["secret"])
	assert.EqualValues(t, 3, fields["caps"])
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	l.Error(context.Background(), "ignored", "k", "v")
	assert.NotNil(t, l.With("a", 1))
	assert.NotNil(t, NewZap(nil))
}
