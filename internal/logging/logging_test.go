package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestReplace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := Replace(zap.New(core))
	defer restore()

	Debug("built folder cache", Int("folders", 3))
	Warn("authorization required", String("account", "a@x.com"), Err(errors.New("expired")))

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "built folder cache", entries[0].Message)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, int64(3), entries[0].ContextMap()["folders"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "a@x.com", entries[1].ContextMap()["account"])
	assert.Equal(t, "expired", entries[1].ContextMap()["error"])
}

func TestInit(t *testing.T) {
	restore := Replace(nil)
	defer restore()
	defer SetLevel("info")

	require.NoError(t, Init(Config{Level: "warn", Format: "console", OutputPath: "stderr"}))
	assert.False(t, L().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, L().Core().Enabled(zapcore.WarnLevel))

	SetLevel("debug")
	assert.True(t, L().Core().Enabled(zapcore.DebugLevel))

	SetLevel("no-such-level")
	assert.True(t, L().Core().Enabled(zapcore.DebugLevel))
}

func TestL_Default(t *testing.T) {
	restore := Replace(nil)
	defer restore()

	assert.NotNil(t, L())
	assert.NotNil(t, S())
	assert.False(t, L().Core().Enabled(zapcore.ErrorLevel), "nothing is logged before Init")
}
