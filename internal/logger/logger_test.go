package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel maps --log-level values in any case and rejects unknown ones.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":  zapcore.DebugLevel,
		" Info ": zapcore.InfoLevel,
		"WARN":   zapcore.WarnLevel,
		"Error":  zapcore.ErrorLevel,
		"fatal":  zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok, s)
		require.Equal(t, lvl, got, s)
	}

	got, ok := ParseLogLevel("verbose")
	require.False(t, ok)
	require.Equal(t, zapcore.InfoLevel, got)
}

// TestNewWithOutput_Format writes named, leveled console lines with fields.
func TestNewWithOutput_Format(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := NewWithOutput(zapcore.AddSync(&buf), zapcore.InfoLevel)
	ctx := WithName(ToContext(context.Background(), l), "gateway")

	DebugKV(ctx, "hidden")
	InfoKV(ctx, "Gateway listening", "resource", "ASRL1::INSTR")
	Warnf(ctx, "retry %d", 2)

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "gateway Gateway listening")
	require.Contains(t, out, `{"resource": "ASRL1::INSTR"}`)
	require.Contains(t, out, "retry 2")
}
