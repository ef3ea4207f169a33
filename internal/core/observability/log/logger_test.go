package log

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerWritesTypedFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core), LevelDebug)

	l.Named("bt").With(String("tree", "minion")).Info("tick",
		Int("nodes", 4),
		Float64("dt", 0.02),
		Duration("elapsed", time.Second),
		Bool("active", true),
		Error(errors.New("boom")),
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	e := entries[0]
	require.Equal(t, "tick", e.Message)
	require.Equal(t, "bt", e.LoggerName)

	ctx := e.ContextMap()
	require.Equal(t, "minion", ctx["tree"])
	require.EqualValues(t, 4, ctx["nodes"])
	require.Equal(t, 0.02, ctx["dt"])
	require.Equal(t, true, ctx["active"])
	require.Equal(t, "boom", ctx["error"])
}

func TestLoggerLevelFiltering(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core), LevelWarn)

	l.Debug("dropped")
	l.Info("dropped")
	l.Warn("kept")
	require.Equal(t, 1, logs.Len())

	child := l.Named("child")
	l.SetLevel(LevelDebug)
	require.Equal(t, LevelDebug, child.GetLevel())
	child.Debug("kept too")
	require.Equal(t, 2, logs.Len())
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"":        LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	l.Error("nothing happens")
	require.NotNil(t, l.With(String("k", "v")))
}
