package version

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// TestVersionStrings ensures Short, Full and UserAgent return consistent information.
func TestVersionStrings(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Short())
	require.Contains(t, Full(), "version: "+Short())
	require.Contains(t, Full(), Name)
	require.Equal(t, Name+"/"+Short(), UserAgent())
}

// TestAttachCobraVersionCommand runs the subcommand and the flag.
func TestAttachCobraVersionCommand(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		args []string
		want string
	}{
		"subcommand": {args: []string{"version"}, want: Full() + "\n"},
		"short":      {args: []string{"version", "--short"}, want: Short() + "\n"},
		"flag":       {args: []string{"--version"}, want: Short() + "\n"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			root := &cobra.Command{Use: "scpi", Run: func(*cobra.Command, []string) {}}
			AttachCobraVersionCommand(root)

			var out bytes.Buffer

			root.SetOut(&out)
			root.SetArgs(tc.args)

			require.NoError(t, root.Execute())
			require.Equal(t, tc.want, out.String())
		})
	}
}
