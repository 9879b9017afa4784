//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/easy-scpi/internal/config"
	"github.com/oshokin/easy-scpi/internal/scpi"
)

// TestConnectInstrument builds and connects a simulated instrument from settings.
func TestConnectInstrument(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Instrument.Backend = "@sim"
	cfg.Instrument.Resource = "TCPIP0::localhost::5025::SOCKET"
	cfg.Instrument.Handshake = scpi.DefaultHandshake

	inst, err := ConnectInstrument(context.Background(), cfg)
	require.NoError(t, err)

	t.Cleanup(func() { _ = inst.Close() })

	require.True(t, inst.IsConnected())

	value, err := inst.Value(context.Background())
	require.NoError(t, err)
	require.Equal(t, "42", value)
}

// TestConnectInstrument_NoResource fails before touching the backend.
func TestConnectInstrument_NoResource(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Instrument.Backend = "@sim"

	_, err := ConnectInstrument(context.Background(), cfg)
	require.ErrorIs(t, err, scpi.ErrNoResourceID)
}
