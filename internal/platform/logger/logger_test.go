package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_WithMergesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewFromZap(zap.New(core)).With(map[string]any{"request_id": "r-1"})

	log.Info("bill created", map[string]any{"bill_id": "b-1", "": "ignored"})
	log.Error("persist failed", map[string]any{"error": errors.New("boom")})

	require.Equal(t, 2, logs.Len())

	first := logs.All()[0]
	assert.Equal(t, "bill created", first.Message)
	assert.Equal(t, "r-1", first.ContextMap()["request_id"])
	assert.Equal(t, "b-1", first.ContextMap()["bill_id"])
	assert.NotContains(t, first.ContextMap(), "")

	second := logs.All()[1]
	assert.Equal(t, zapcore.ErrorLevel, second.Level)
	assert.Equal(t, "boom", second.ContextMap()["error"])
}

func TestParseLevelAndFormat(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel("DEBUG"))
	assert.Equal(t, Warn, ParseLevel("warning"))
	assert.Equal(t, Info, ParseLevel("nonsense"))
	assert.Equal(t, FormatJSON, ParseFormat(" json "))
	assert.Equal(t, FormatText, ParseFormat("console"))
}
