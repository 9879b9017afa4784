package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/easy-scpi/internal/service/setter"
)

func newSetCommand(flags *globalFlags) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "set <path> <value>",
		Short: "Write a setting and retry until it reads back.",
		Long: `Writes "<path> <value>", reads "<path>?" back and retries on an interval
until both agree or the command is interrupted. Numbers are compared by value,
so 12.5 matches 12.500; text is compared case-insensitively.`,
		Args: cobra.ExactArgs(2), //nolint:mnd // Path and value.
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.settings(cmd)
			if err != nil {
				return err
			}

			return setter.Run(cmd.Context(), &setter.Options{
				Config:   cfg,
				Path:     args[0],
				Value:    args[1],
				Interval: interval,
				Out:      cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "i", time.Second, "delay between attempts")

	return cmd
}
