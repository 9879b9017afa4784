package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/oshokin/easy-scpi/internal/config"
	"github.com/oshokin/easy-scpi/internal/logger"
	"github.com/oshokin/easy-scpi/internal/scpi"
	"github.com/oshokin/easy-scpi/internal/service/common"
	"github.com/oshokin/easy-scpi/internal/visa"
)

// Actions.
const (
	ActionList   = "list"
	ActionID     = "id"
	ActionQuery  = "query"
	ActionWrite  = "write"
	ActionRead   = "read"
	ActionReset  = "reset"
	ActionInit   = "init"
	ActionValue  = "value"
	ActionASCII  = "ascii"
	ActionBinary = "binary"
)

// Options configures a console action.
type Options struct {
	// ConfigPath specifies the path to settings YAML file; used when Config is nil.
	ConfigPath string
	// Config provides already loaded settings.
	Config *config.Config
	// Action is one of the Action constants.
	Action string
	// Message is the command sent by query, write, ascii and binary.
	Message string
	// Separator splits ascii values.
	Separator string
	// Binary controls decoding of binary values.
	Binary visa.BinaryOptions
	// Out receives the result; defaults to stdout.
	Out io.Writer
}

var (
	// errUnknownAction is returned for actions not listed above.
	errUnknownAction = errors.New("unknown action")
	// errMessageRequired is returned when an action needs a message.
	errMessageRequired = errors.New("message is required")
	// errNothingToRead is returned when a one-shot read finds no pending output.
	errNothingToRead = errors.New("no pending output, use query to send a command and read its answer")
)

// action runs against a connected instrument and returns the printed lines.
type action func(ctx context.Context, inst *scpi.Instrument, opts *Options) ([]string, error)

// actions maps names to implementations; list is handled separately.
var actions = map[string]action{
	ActionID: func(ctx context.Context, inst *scpi.Instrument, _ *Options) ([]string, error) {
		return single(inst.ID(ctx))
	},
	ActionQuery: func(ctx context.Context, inst *scpi.Instrument, opts *Options) ([]string, error) {
		return single(inst.Query(ctx, opts.Message))
	},
	ActionWrite: func(ctx context.Context, inst *scpi.Instrument, opts *Options) ([]string, error) {
		return written(inst.Write(ctx, opts.Message))
	},
	// Connect already read the *IDN? answer, so a one-shot read only sees
	// output the instrument sends unprompted.
	ActionRead: func(ctx context.Context, inst *scpi.Instrument, _ *Options) ([]string, error) {
		resp, err := inst.Read(ctx)
		if errors.Is(err, visa.ErrTimeout) {
			return nil, fmt.Errorf("%w: %w", errNothingToRead, err)
		}

		return single(resp, err)
	},
	ActionReset: func(ctx context.Context, inst *scpi.Instrument, _ *Options) ([]string, error) {
		return written(inst.Reset(ctx))
	},
	ActionInit: func(ctx context.Context, inst *scpi.Instrument, _ *Options) ([]string, error) {
		return written(inst.Init(ctx))
	},
	ActionValue: func(ctx context.Context, inst *scpi.Instrument, _ *Options) ([]string, error) {
		return single(inst.Value(ctx))
	},
	ActionASCII: func(ctx context.Context, inst *scpi.Instrument, opts *Options) ([]string, error) {
		return numbers(inst.QueryASCIIValues(ctx, opts.Message, opts.Separator))
	},
	ActionBinary: func(ctx context.Context, inst *scpi.Instrument, opts *Options) ([]string, error) {
		return numbers(inst.QueryBinaryValues(ctx, opts.Message, opts.Binary))
	},
}

// needsMessage lists the actions that send Message.
var needsMessage = map[string]bool{
	ActionQuery:  true,
	ActionWrite:  true,
	ActionASCII:  true,
	ActionBinary: true,
}

// Run executes opts.Action and prints one result per line.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "console")

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	cfg := opts.Config
	if cfg == nil {
		var err error

		if cfg, err = config.LoadOptional(opts.ConfigPath); err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
	}

	lines, err := run(ctx, cfg, opts)
	if err != nil {
		return err
	}

	for _, line := range lines {
		if _, err = fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("print result: %w", err)
		}
	}

	return nil
}

func run(ctx context.Context, cfg *config.Config, opts *Options) ([]string, error) {
	if opts.Action == ActionList {
		return list(ctx, cfg)
	}

	act, ok := actions[opts.Action]
	if !ok {
		return nil, fmt.Errorf("%w %q", errUnknownAction, opts.Action)
	}

	if needsMessage[opts.Action] && strings.TrimSpace(opts.Message) == "" {
		return nil, fmt.Errorf("%s: %w", opts.Action, errMessageRequired)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	inst, err := common.ConnectInstrument(ctx, cfg)
	if err != nil {
		return nil, err
	}

	defer func() {
		if closeErr := inst.Close(); closeErr != nil {
			logger.WarnKV(ctx, "Failed to close instrument", "error", closeErr)
		}
	}()

	return act(ctx, inst, opts)
}

// list prints the resources of the backend, ignoring the configured port.
func list(ctx context.Context, cfg *config.Config) ([]string, error) {
	listCfg := *cfg
	listCfg.Instrument.Port = ""
	listCfg.Instrument.Resource = ""

	inst, err := common.OpenInstrument(ctx, &listCfg)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = inst.Close()
	}()

	return inst.ResourceManager().ListResources(ctx)
}

func single(resp string, err error) ([]string, error) {
	if err != nil {
		return nil, err
	}

	return []string{resp}, nil
}

func written(n int, err error) ([]string, error) {
	if err != nil {
		return nil, err
	}

	return []string{strconv.Itoa(n)}, nil
}

func numbers(values []float64, err error) ([]string, error) {
	if err != nil {
		return nil, err
	}

	lines := make([]string, len(values))
	for i, v := range values {
		lines[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}

	return lines, nil
}
