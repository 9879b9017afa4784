package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/easy-scpi/internal/visa"
)

// TestValidate checks exclusive fields, format validations and defaults.
func TestValidate(t *testing.T) {
	t.Parallel()

	require.Error(t, Validate(nil))

	// Port and resource together.
	settings := &Config{
		Instrument: Instrument{Port: "COM3", Resource: "ASRL3::INSTR"},
	}

	require.Error(t, Validate(settings))

	// Unknown resource parameter.
	settings = &Config{
		Instrument: Instrument{Params: map[string]string{"colour": "blue"}},
	}

	require.ErrorIs(t, Validate(settings), visa.ErrUnknownParam)

	// Bad listen address.
	settings = &Config{
		Gateway: Gateway{ListenAddress: "bad:address"},
	}

	require.Error(t, Validate(settings))

	// Defaults.
	settings = new(Config)
	require.NoError(t, Validate(settings))
	require.Equal(t, DefaultTimeout, settings.Timeout)
	require.Equal(t, DefaultListenAddress, settings.Gateway.ListenAddress)
	require.Equal(t, DefaultStateFilename, settings.Gateway.StateFile)
	require.Equal(t, ",", settings.Instrument.ArgSeparator)
	require.True(t, settings.Instrument.MatchPort())
	require.Equal(t, settings, Default())
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	match := false
	settings := &Config{
		Instrument: Instrument{
			Port:      "/dev/ttyUSB0",
			PortMatch: &match,
			Backend:   "@sim",
			Handshake: "OK",
			Params:    map[string]string{"timeout": "500", "read_termination": `\r\n`},
		},
		Gateway: Gateway{ListenAddress: "127.0.0.1:50051"},
		Timeout: 3 * time.Second,
	}

	require.NoError(t, Save(path, settings))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings, loaded)
	require.False(t, loaded.Instrument.MatchPort())

	params, err := loaded.Instrument.ResourceParams()
	require.NoError(t, err)
	require.Equal(t, 500*time.Millisecond, params.Timeout)
	require.Equal(t, "\r\n", params.ReadTermination)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestLoadOptional returns defaults only for missing files.
func TestLoadOptional(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, err := LoadOptional(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("instrument: ["), 0o600))

	_, err = LoadOptional(broken)
	require.Error(t, err)
}

// TestInstrumentMerge overlays flag values onto file values.
func TestInstrumentMerge(t *testing.T) {
	t.Parallel()

	match := false
	base := Instrument{
		Resource: "ASRL1::INSTR",
		Backend:  "@sim",
		Params:   map[string]string{"timeout": "500"},
	}

	base.Merge(&Instrument{
		Port:      "COM3",
		PortMatch: &match,
		Handshake: "OK",
		Params:    map[string]string{"baud_rate": "115200"},
	})

	require.Equal(t, Instrument{
		Port:      "COM3",
		PortMatch: &match,
		Backend:   "@sim",
		Handshake: "OK",
		Params:    map[string]string{"timeout": "500", "baud_rate": "115200"},
	}, base)

	base.Merge(nil)
	require.Equal(t, "COM3", base.Port)
}
