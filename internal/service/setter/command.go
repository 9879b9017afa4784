package setter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/oshokin/easy-scpi/internal/config"
	"github.com/oshokin/easy-scpi/internal/logger"
	"github.com/oshokin/easy-scpi/internal/scpi"
	"github.com/oshokin/easy-scpi/internal/service/common"
)

// Options configures a set operation.
type Options struct {
	// ConfigPath specifies the path to settings YAML file; used when Config is nil.
	ConfigPath string
	// Config provides already loaded settings.
	Config *config.Config
	// Path is the command path, e.g. "SOUR:VOLT".
	Path string
	// Value is the desired value.
	Value string
	// Interval is the retry delay; defaults to one second.
	Interval time.Duration
	// Out receives the confirmed value; defaults to stdout.
	Out io.Writer
}

// defaultPushInterval defines retry delay when the read back value differs.
const defaultPushInterval = 1 * time.Second

// errPathRequired is returned when no command path is given.
var errPathRequired = errors.New("command path is required")

// Run writes the value and retries until it is read back or ctx ends.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "setter")

	if strings.TrimSpace(opts.Path) == "" {
		return errPathRequired
	}

	cfg := opts.Config
	if cfg == nil {
		var err error

		if cfg, err = config.LoadOptional(opts.ConfigPath); err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
	}

	inst, err := common.ConnectInstrument(ctx, cfg)
	if err != nil {
		return err
	}

	defer func() {
		_ = inst.Close()
	}()

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	confirmed, err := Push(ctx, inst.Property(opts.Path), opts.Value, opts.Interval)
	if err != nil {
		return err
	}

	if _, err = fmt.Fprintln(out, confirmed); err != nil {
		return fmt.Errorf("print result: %w", err)
	}

	return nil
}

// Push writes value to prop and reads it back, retrying every interval until
// the values agree or ctx ends. It returns the confirmed read back.
func Push(ctx context.Context, prop *scpi.Property, value string, interval time.Duration) (string, error) {
	if interval <= 0 {
		interval = defaultPushInterval
	}

	logger.InfoKV(ctx, "Pushing desired value", "path", prop.Name(), "value", value)

	// attempt tries once to set the value, returns (read back, completed).
	attempt := func() (string, bool) {
		if _, err := prop.Write(ctx, value); err != nil {
			// Log error but continue retrying for transient failures.
			logger.ErrorKV(ctx, "Write failed", "path", prop.Name(), "error", err)
			return "", false
		}

		got, err := prop.Query(ctx)
		if err != nil {
			logger.ErrorKV(ctx, "Read back failed", "path", prop.Name(), "error", err)
			return "", false
		}

		if !Equal(got, value) {
			logger.WarnKV(ctx, "Value not applied yet", "path", prop.Name(), "want", value, "got", got)
			return got, false
		}

		logger.InfoKV(ctx, "Value applied", "path", prop.Name(), "value", got)

		return got, true
	}

	// Attempt immediately before starting retry loop.
	if got, done := attempt(); done {
		return got, nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("set %s: %w", prop.Name(), ctx.Err())
		case <-ticker.C:
			if got, done := attempt(); done {
				return got, nil
			}
		}
	}
}

// Equal compares instrument values: numerically when both parse as numbers,
// case-insensitively otherwise.
func Equal(got, want string) bool {
	got, want = strings.TrimSpace(got), strings.TrimSpace(want)

	g, gErr := strconv.ParseFloat(got, 64)
	w, wErr := strconv.ParseFloat(want, 64)

	if gErr == nil && wErr == nil {
		return g == w
	}

	return strings.EqualFold(got, want)
}
