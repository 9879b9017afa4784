package monitor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/easy-scpi/internal/config"
)

var errTestPoll = errors.New("test poll error")

// flakyInstrument fails every other query.
type flakyInstrument struct {
	// calls counts the queries.
	calls int
	// queries records the polled commands.
	queries []string
}

func (f *flakyInstrument) Write(context.Context, string) (int, error) { return 0, nil }

func (f *flakyInstrument) Query(_ context.Context, msg string) (string, error) {
	f.calls++
	f.queries = append(f.queries, msg)

	if f.calls%2 == 0 {
		return "", errTestPoll
	}

	return "1.5", nil
}

// TestPoll_SkipsFailures keeps polling after failed queries and stops at Count.
func TestPoll_SkipsFailures(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		var out bytes.Buffer

		inst := new(flakyInstrument)
		started := time.Now()

		err := Poll(context.Background(), inst, &Options{
			PollInterval: 2 * time.Second,
			Count:        3,
			Out:          &out,
		})
		require.NoError(t, err)

		// Samples at 0s, 4s and 8s; failures at 2s and 6s.
		require.Equal(t, 5, inst.calls)
		require.Equal(t, 8*time.Second, time.Since(started))
		require.Equal(t, "READ?", inst.queries[0])

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 3)

		for _, line := range lines {
			require.True(t, strings.HasSuffix(line, "\t1.5"), line)
		}
	})
}

// TestPoll_StopsOnCancel returns nil when the context ends.
func TestPoll_StopsOnCancel(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
		defer cancel()

		inst := new(flakyInstrument)

		require.NoError(t, Poll(ctx, inst, &Options{Query: "MEAS:VOLT?", Out: new(bytes.Buffer)}))
		require.Equal(t, 3, inst.calls)
		require.Equal(t, "MEAS:VOLT?", inst.queries[2])
	})
}

// TestRun_Simulator polls the simulated power supply.
func TestRun_Simulator(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Instrument.Backend = "@sim"
	cfg.Instrument.Resource = "ASRL1::INSTR"

	var out bytes.Buffer

	err := Run(context.Background(), &Options{
		Config:       cfg,
		PollInterval: time.Millisecond,
		Count:        2,
		Out:          &out,
	})
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(out.String(), "\t1.2345\n"))
}
