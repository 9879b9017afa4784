package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/easy-scpi/internal/service/gateway"
)

func newServeCommand(flags *globalFlags) *cobra.Command {
	var stateFile string

	cmd := &cobra.Command{
		Use:   "serve [listen-address]",
		Short: "Share the instrument with remote clients over gRPC.",
		Long: `Connects the instrument and serves it to "host:port@remote" backends.

The listen address comes from the argument or the gateway section of the
configuration file (":5050" by default). Every write and query is recorded
with its caller and persisted to the state file for recovery across restarts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.settings(cmd)
			if err != nil {
				return err
			}

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			return gateway.Run(cmd.Context(), &gateway.Options{
				Config:        cfg,
				ListenAddress: listenAddress,
				StateFile:     stateFile,
			})
		},
	}

	cmd.Flags().StringVarP(&stateFile, "state-file", "s", "", "path to persist gateway state")

	return cmd
}
