package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestFromContext_FallsBackToGlobal ensures a bare context yields the global logger.
func TestFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))
}

// TestWithKV_PropagatesFields verifies fields added to the context reach the log entry.
func TestWithKV_PropagatesFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())

	ctx = WithName(ctx, "scpi")
	ctx = WithKV(ctx, "resource", "ASRL1::INSTR")
	ctx = WithFields(ctx, "request_id", "abc")

	InfoKV(ctx, "Query sent", "message", "*IDN?")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "scpi", entries[0].LoggerName)

	fields := entries[0].ContextMap()
	require.Equal(t, "ASRL1::INSTR", fields["resource"])
	require.Equal(t, "abc", fields["request_id"])
	require.Equal(t, "*IDN?", fields["message"])
}
