package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize_ValidLevels(t *testing.T) {
	prev := Log
	defer func() { Log = prev }()

	levels := []string{"debug", "info", "warn", "error", "dpanic", "panic", "fatal"}

	for _, lvl := range levels {
		t.Run(lvl, func(t *testing.T) {
			err := Initialize(lvl, "service", "gw-freelance-escrow")
			assert.NoError(t, err, "expected no error for level %s", lvl)
			assert.NotNil(t, Log, "Log should be initialized")

			assert.NotPanics(t, func() {
				Log.Infow("test log", "level", lvl)
			})
		})
	}
}

func TestInitialize_InvalidLevel(t *testing.T) {
	prev := Log
	defer func() { Log = prev }()

	err := Initialize("not-a-level")
	assert.Error(t, err, "expected error for invalid log level")
	assert.Same(t, prev, Log, "failed Initialize must keep the previous logger")
}

func TestLog_NopBeforeInitialize(t *testing.T) {
	assert.NotNil(t, Log)
	assert.IsType(t, &zap.SugaredLogger{}, Log)

	assert.NotPanics(t, func() {
		Log.Infow("nop logger test")
	})
}

func TestFromContext(t *testing.T) {
	prev := Log
	defer func() { Log = prev }()

	core, logs := observer.New(zap.InfoLevel)
	Log = zap.New(core).Sugar()

	t.Run("falls back to global", func(t *testing.T) {
		assert.Same(t, Log, FromContext(context.Background()))
	})

	t.Run("request scoped", func(t *testing.T) {
		ctx := WithContext(context.Background(), Log.With("request_id", "req-1"))
		FromContext(ctx).Infow("funded", "project_id", "p-1")

		entries := logs.FilterMessage("funded").All()
		if assert.Len(t, entries, 1) {
			assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
			assert.Equal(t, "p-1", entries[0].ContextMap()["project_id"])
		}
	})
}
