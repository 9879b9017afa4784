package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/oshokin/easy-scpi/internal/service/console"
	"github.com/oshokin/easy-scpi/internal/visa"
)

// actionSpec describes one console subcommand.
type actionSpec struct {
	use   string
	short string
	long  string
	// takesMessage joins the arguments into the sent message.
	takesMessage bool
}

// newActionCommands builds one subcommand per console action.
func newActionCommands(flags *globalFlags) []*cobra.Command {
	specs := []actionSpec{
		{use: console.ActionList, short: "List the resources of the backend."},
		{use: console.ActionID, short: "Query *IDN?."},
		{use: console.ActionQuery, short: "Send a command and print the response.", takesMessage: true},
		{use: console.ActionWrite, short: "Send a command and print the bytes written.", takesMessage: true},
		{
			use:   console.ActionRead,
			short: "Read one pending response.",
			long: `Reads one message the instrument has already queued. Connecting reads the
*IDN? answer first, so this only returns output the instrument sends on its
own, e.g. talk-only meters. Use query to send a command and read its answer.`,
		},
		{use: console.ActionReset, short: "Send *RST."},
		{use: console.ActionInit, short: "Send INIT."},
		{use: console.ActionValue, short: "Query READ?."},
	}

	commands := make([]*cobra.Command, 0, len(specs)+2)
	for _, spec := range specs {
		commands = append(commands, newActionCommand(flags, spec))
	}

	return append(commands, newASCIICommand(flags), newBinaryCommand(flags))
}

func newActionCommand(flags *globalFlags, spec actionSpec) *cobra.Command {
	cmd := &cobra.Command{
		Use:   spec.use,
		Short: spec.short,
		Long:  spec.long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.settings(cmd)
			if err != nil {
				return err
			}

			return console.Run(cmd.Context(), &console.Options{
				Config:  cfg,
				Action:  spec.use,
				Message: strings.Join(args, " "),
				Out:     cmd.OutOrStdout(),
			})
		},
	}

	if spec.takesMessage {
		cmd.Use += " <command>..."
		cmd.Args = cobra.MinimumNArgs(1)
	}

	return cmd
}

func newASCIICommand(flags *globalFlags) *cobra.Command {
	var separator string

	cmd := &cobra.Command{
		Use:   console.ActionASCII + " <command>...",
		Short: "Query separated numbers and print one per line.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.settings(cmd)
			if err != nil {
				return err
			}

			return console.Run(cmd.Context(), &console.Options{
				Config:    cfg,
				Action:    console.ActionASCII,
				Message:   strings.Join(args, " "),
				Separator: separator,
				Out:       cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVar(&separator, "values-separator", ",", "separator between returned values")

	return cmd
}

func newBinaryCommand(flags *globalFlags) *cobra.Command {
	binary := visa.DefaultBinaryOptions()

	cmd := &cobra.Command{
		Use:   console.ActionBinary + " <command>...",
		Short: "Query an IEEE 488.2 binary block and print one value per line.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.settings(cmd)
			if err != nil {
				return err
			}

			return console.Run(cmd.Context(), &console.Options{
				Config:  cfg,
				Action:  console.ActionBinary,
				Message: strings.Join(args, " "),
				Binary:  binary,
				Out:     cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVar(&binary.Datatype, "datatype", visa.DefaultDatatype, "value type: b B h H i I l L q Q f d")
	cmd.Flags().BoolVar(&binary.BigEndian, "big-endian", false, "decode big endian values")
	cmd.Flags().BoolVar(&binary.ExpectTermination, "expect-termination", true, "consume the termination after the block")

	return cmd
}
