package monitor

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/oshokin/easy-scpi/internal/config"
	"github.com/oshokin/easy-scpi/internal/logger"
	"github.com/oshokin/easy-scpi/internal/scpi"
	"github.com/oshokin/easy-scpi/internal/service/common"
)

// Options controls the polling behavior and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file; used when Config is nil.
	ConfigPath string
	// Config provides already loaded settings.
	Config *config.Config
	// Query is the polled command; defaults to READ?.
	Query string
	// PollInterval defines the interval between polls.
	PollInterval time.Duration
	// Count stops after that many successful samples; zero polls forever.
	Count int
	// Out receives one "timestamp<TAB>value" line per sample; defaults to stdout.
	Out io.Writer
}

// DefaultPollInterval defines the polling interval when none is given.
const DefaultPollInterval = 1 * time.Second

// Run connects the instrument and polls it.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "monitor")

	cfg := opts.Config
	if cfg == nil {
		var err error

		if cfg, err = config.LoadOptional(opts.ConfigPath); err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
	}

	inst, err := common.ConnectInstrument(ctx, cfg)
	if err != nil {
		return err
	}

	defer func() {
		_ = inst.Close()
	}()

	return Poll(ctx, inst, opts)
}

// Poll samples cmd.Query every interval. Failed polls are logged and
// polling continues; it returns nil when ctx ends or Count is reached.
func Poll(ctx context.Context, cmd scpi.Commander, opts *Options) error {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	query := opts.Query
	if query == "" {
		query = scpi.CommandRead
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	logger.InfoKV(ctx, "Polling instrument", "query", query, "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	samples := 0

	for {
		value, err := cmd.Query(ctx, query)
		if err != nil {
			logger.ErrorKV(ctx, "Poll failed", "query", query, "error", err)
		} else {
			if _, err = fmt.Fprintf(out, "%s\t%s\n", time.Now().Format(time.RFC3339Nano), value); err != nil {
				return fmt.Errorf("print sample: %w", err)
			}

			samples++
			if opts.Count > 0 && samples >= opts.Count {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")
			return nil
		case <-ticker.C:
		}
	}
}
