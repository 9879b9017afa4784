package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/easy-scpi/internal/config"
	"github.com/oshokin/easy-scpi/internal/logger"
	"github.com/oshokin/easy-scpi/internal/scpi"
	"github.com/oshokin/easy-scpi/internal/version"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	// configPath to the configuration YAML file.
	configPath string
	// port overrides the instrument port.
	port string
	// resource overrides the instrument resource id.
	resource string
	// backend overrides the backend selector.
	backend string
	// handshake overrides the handshake message.
	handshake string
	// separator overrides the argument separator.
	separator string
	// prefix enables colon prefixed root commands.
	prefix bool
	// params override resource attributes.
	params map[string]string
	// noPortMatch skips port verification.
	noPortMatch bool
	// logLevel sets the minimum log level.
	logLevel string
}

// newRootCommand builds the scpi command tree.
func newRootCommand() *cobra.Command {
	flags := new(globalFlags)

	root := &cobra.Command{
		Use:   "scpi",
		Short: "Talk to test and measurement instruments with SCPI commands.",
		Long: `Sends SCPI commands to instruments over serial ports, TCP sockets or a gateway.

The instrument is chosen with --port (COM3, /dev/ttyUSB0, GPIB0::8, ...) or
--resource (a full VISA resource name) and reached through --backend:
the default backend, "@sim" for simulated instruments, "devices.yaml@sim"
for custom simulations or "host:port@remote" for a gateway.

Settings are read from the configuration file when it exists; flags win.`,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			level, ok := logger.ParseLogLevel(flags.logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", flags.logLevel)
			}

			logger.SetLevel(level)

			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	pf.StringVarP(&flags.port, "port", "p", "", "instrument port, e.g. COM3, /dev/ttyUSB0, GPIB0::8")
	pf.StringVarP(&flags.resource, "resource", "r", "", "full resource name, e.g. TCPIP0::10.0.0.5::5025::SOCKET")
	pf.StringVarP(&flags.backend, "backend", "b", "", `backend: "", "@sim", "file.yaml@sim", "host:port@remote"`)
	pf.StringVar(&flags.handshake, "handshake", "", "message the instrument sends after every command")
	pf.Lookup("handshake").NoOptDefVal = scpi.DefaultHandshake
	pf.StringVar(&flags.separator, "separator", "", "argument separator (default \",\")")
	pf.BoolVar(&flags.prefix, "prefix", false, "prefix root commands with a colon")
	pf.StringToStringVar(&flags.params, "param", nil, "resource attribute, e.g. --param timeout=500 --param read_termination='\\r\\n'")
	pf.BoolVar(&flags.noPortMatch, "no-port-match", false, "use the port pattern as resource id without listing resources")
	pf.StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(newActionCommands(flags)...)
	root.AddCommand(
		newSetCommand(flags),
		newMonitorCommand(flags),
		newServeCommand(flags),
	)

	version.AttachCobraVersionCommand(root)

	return root
}

// settings loads the configuration file and applies flag overrides.
// A missing file is only an error when --config was given explicitly.
func (f *globalFlags) settings(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)

	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(f.configPath)
	} else {
		cfg, err = config.LoadOptional(f.configPath)
	}

	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	override := &config.Instrument{
		Port:           f.port,
		Resource:       f.resource,
		Backend:        f.backend,
		Handshake:      f.handshake,
		ArgSeparator:   f.separator,
		PrefixCommands: f.prefix,
		Params:         f.params,
	}

	if f.noPortMatch {
		match := false
		override.PortMatch = &match
	}

	cfg.Instrument.Merge(override)

	if err = config.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Execute runs the scpi CLI and exits with non-zero status on error.
func Execute() {
	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)

	err := newRootCommand().ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}
