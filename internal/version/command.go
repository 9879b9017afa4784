package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AttachCobraVersionCommand adds a `version` subcommand and a --version flag to root.
// The subcommand prints Full, or Short with --short.
func AttachCobraVersionCommand(root *cobra.Command) {
	root.Version = Short()
	root.SetVersionTemplate("{{.Version}}\n")

	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information.",
		Long:  "Print the easy-scpi version together with the commit hash and build timestamp.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			banner := Full()
			if short {
				banner = Short()
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), banner)
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print the semantic version only")

	root.AddCommand(cmd)
}
