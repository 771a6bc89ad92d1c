package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewZapLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	log, err := NewZapLogger(ZapLoggerConfig{Level: "chatty", Encoding: "console"})
	require.NoError(t, err)
	require.NotNil(t, log)

	zl, ok := log.(*zapLogger)
	require.True(t, ok)
	assert.False(t, zl.sugar.Desugar().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, zl.sugar.Desugar().Core().Enabled(zapcore.InfoLevel))
}

func TestFromZap_WithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core))

	log.With("component", "cart").Infof("saved %d items", 3)
	log.Warn("plain")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "saved 3 items", entries[0].Message)
	assert.Equal(t, "cart", entries[0].ContextMap()["component"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Empty(t, entries[1].ContextMap())
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	log.With("k", "v").Errorf("ignored %s", "value")
	assert.NoError(t, log.Sync())
}
