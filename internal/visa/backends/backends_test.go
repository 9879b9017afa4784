package backends

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSplit separates arguments from backend names.
func TestSplit(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		argument string
		name     string
	}{
		"":                     {name: NameDefault},
		"@py":                  {name: NamePy},
		"@SIM":                 {name: NameSim},
		"devices.yaml@sim":     {argument: "devices.yaml", name: NameSim},
		"10.0.0.2:5050@remote": {argument: "10.0.0.2:5050", name: NameRemote},
		"bogus":                {argument: "bogus"},
	}

	for selector, tc := range cases {
		argument, name := Split(selector)
		require.Equal(t, tc.argument, argument, selector)
		require.Equal(t, tc.name, name, selector)
	}
}

// TestOpen builds managers for every known selector and rejects the rest.
func TestOpen(t *testing.T) {
	t.Parallel()

	for _, selector := range []string{"", "@py", "@default", "@sim"} {
		rm, err := Open(selector)
		require.NoError(t, err, selector)
		require.Equal(t, selector, rm.Backend())
		require.NoError(t, rm.Close())
	}

	path := filepath.Join(t.TempDir(), "one.yaml")
	require.NoError(t, os.WriteFile(path, []byte("devices:\n  d: {}\nresources:\n  ASRL5::INSTR:\n    device: d\n"), 0o600))

	rm, err := Open(path + "@sim")
	require.NoError(t, err)

	resources, err := rm.ListResources(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"ASRL5::INSTR"}, resources)

	rm, err = Open("127.0.0.1:1@remote")
	require.NoError(t, err)
	require.NoError(t, rm.Close())

	_, err = Open("@remote")
	require.ErrorIs(t, err, errRemoteAddress)

	_, err = Open("@ni")
	require.ErrorIs(t, err, ErrUnknownBackend)

	_, err = Open("bogus")
	require.ErrorIs(t, err, ErrUnknownBackend)

	_, err = Open("x@py")
	require.ErrorIs(t, err, ErrUnknownBackend)

	_, err = Open(filepath.Join(t.TempDir(), "missing.yaml") + "@sim")
	require.Error(t, err)
}
