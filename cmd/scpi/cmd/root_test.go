package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/easy-scpi/internal/config"
)

// execute runs the CLI with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())

	return out.String(), err
}

// TestRoot_ConsoleActions drives the simulator through the subcommands.
func TestRoot_ConsoleActions(t *testing.T) {
	t.Parallel()

	sim := []string{"--backend", "@sim", "--resource", "ASRL1::INSTR"}

	out, err := execute(t, append([]string{"id"}, sim...)...)
	require.NoError(t, err)
	require.Equal(t, "EASY-SCPI,SIM-PSU,0001,1.0\n", out)

	out, err = execute(t, append([]string{"query", "SOUR:CURR?"}, sim...)...)
	require.NoError(t, err)
	require.Equal(t, "0.100\n", out)

	out, err = execute(t, append([]string{"ascii", "MEAS:ARR?"}, sim...)...)
	require.NoError(t, err)
	require.Equal(t, "0.5\n1.5\n2.5\n", out)

	out, err = execute(t, append([]string{"binary", "TRAC:DATA?"}, sim...)...)
	require.NoError(t, err)
	require.Equal(t, "0.5\n1.5\n2.5\n", out)

	out, err = execute(t, "list", "--backend", "@sim")
	require.NoError(t, err)
	require.Contains(t, out, "ASRL1::INSTR\n")

	_, err = execute(t, append([]string{"query"}, sim...)...)
	require.Error(t, err)
}

// TestRoot_Set pushes a value that reads back immediately.
func TestRoot_Set(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "set", "SOUR:VOLT", "5", "--backend", "@sim", "--resource", "GPIB0::8::65535::INSTR")
	require.NoError(t, err)
	require.Contains(t, out, "5.000")
}

// TestRoot_Monitor stops after the requested number of samples.
func TestRoot_Monitor(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "monitor", "--count", "1", "--backend", "@sim", "--resource", "ASRL3::INSTR")
	require.NoError(t, err)
	require.Contains(t, out, "\t1.2345\n")
}

// TestRoot_Settings merges flags over the configuration file.
func TestRoot_Settings(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	cfg := config.Default()
	cfg.Instrument.Backend = "@sim"
	cfg.Instrument.Port = "/dev/ttyUSB0"
	require.NoError(t, config.Save(path, cfg))

	out, err := execute(t, "id", "--config", path, "--resource", "ASRL3::INSTR", "--param", "timeout=250")
	require.NoError(t, err)
	require.Equal(t, "EASY-SCPI,SIM-PSU,0001,1.0\n", out)

	_, err = execute(t, "id", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = execute(t, "id", "--log-level", "loud")
	require.Error(t, err)
}
