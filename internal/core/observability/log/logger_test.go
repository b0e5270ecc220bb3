package log

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"":        LevelInfo,
		" warn ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"fatal":   LevelFatal,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	require.ErrorIs(t, err, ErrUnknownLevel)
}

func TestLevelString(t *testing.T) {
	require.Equal(t, "info", LevelInfo.String())
	require.Equal(t, "level(42)", Level(42).String())
}

func TestNewWithConfig_UnknownEncoding(t *testing.T) {
	_, err := NewWithConfig(Config{Encoding: "xml"})
	require.ErrorIs(t, err, ErrUnknownEncoding)
}

func TestLogger_NamedAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewWithCore(core)

	logger.Named("metrics").With(String("component", "reporter")).Info("hello",
		Int("n", 3),
		Float64("ms", 1.5),
		Error(errors.New("boom")),
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "metrics", entries[0].LoggerName)
	require.Equal(t, zapcore.InfoLevel, entries[0].Level)

	ctx := entries[0].ContextMap()
	require.Equal(t, "reporter", ctx["component"])
	require.Equal(t, int64(3), ctx["n"])
	require.Equal(t, 1.5, ctx["ms"])
	require.Equal(t, "boom", ctx["error"])
}

func TestLogger_SetLevelSharedWithChildren(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewWithCore(core)
	child := logger.Named("metrics")

	logger.SetLevel(LevelWarn)
	require.Equal(t, LevelWarn, child.GetLevel())

	child.Info("dropped")
	child.Warn("kept")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "kept", entries[0].Message)
}
