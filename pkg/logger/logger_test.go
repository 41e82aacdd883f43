package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	appctx "linkarchive/internal/core/context"
)

func TestFromContext_AddsRequestFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{zap.New(core).Sugar()}

	ctx := appctx.WithRequest(context.Background(), &appctx.Request{TraceID: "t-1", RequestID: "r-1"})
	ctx = appctx.WithSearch(ctx, "title = go")
	ctx = WithLogger(ctx, l)

	Info(ctx, "search evaluated", "errors", 0)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "search evaluated", entries[0].Message)
		assert.Equal(t, "t-1", fields["trace_id"])
		assert.Equal(t, "r-1", fields["request_id"])
		assert.Equal(t, "title = go", fields["search"])
		assert.Equal(t, int64(0), fields["errors"])
	}
}

func TestFromContext_WithoutRequest(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := &Logger{zap.New(core).Sugar()}

	Debug(WithLogger(context.Background(), l), "dropped")
	Warn(WithLogger(context.Background(), l), "kept")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "kept", entries[0].Message)
		assert.Empty(t, entries[0].ContextMap())
	}
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	l, err := New(Config{Level: "loud", OutputPaths: []string{"stderr"}})
	assert.NoError(t, err)
	assert.NotNil(t, l)
	assert.False(t, l.Desugar().Core().Enabled(zap.DebugLevel))
}

func TestWithComponent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := (&Logger{zap.New(core).Sugar()}).WithComponent("http")

	Info(WithLogger(context.Background(), l), "request")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "http", entries[0].ContextMap()["component"])
	}
}
