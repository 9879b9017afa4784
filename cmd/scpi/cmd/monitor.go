package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/oshokin/easy-scpi/internal/service/monitor"
)

func newMonitorCommand(flags *globalFlags) *cobra.Command {
	opts := new(monitor.Options)

	cmd := &cobra.Command{
		Use:   "monitor [command]...",
		Short: "Poll a query and print timestamped values.",
		Long: `Polls the instrument with the given query (READ? by default) and prints
one tab separated "timestamp value" line per sample until interrupted or
--count samples were printed. Failed polls are logged and polling continues.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.settings(cmd)
			if err != nil {
				return err
			}

			opts.Config = cfg
			opts.Query = strings.Join(args, " ")
			opts.Out = cmd.OutOrStdout()

			return monitor.Run(cmd.Context(), opts)
		},
	}

	cmd.Flags().DurationVarP(&opts.PollInterval, "interval", "i", monitor.DefaultPollInterval, "polling interval")
	cmd.Flags().IntVarP(&opts.Count, "count", "n", 0, "stop after that many samples (0 polls forever)")

	return cmd
}
