package integration

import (
	"bytes"
	"context"
	"net"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/easy-scpi/internal/config"
	repository "github.com/oshokin/easy-scpi/internal/repository/state"
	"github.com/oshokin/easy-scpi/internal/scpi"
	"github.com/oshokin/easy-scpi/internal/service/console"
	"github.com/oshokin/easy-scpi/internal/service/gateway"
	"github.com/oshokin/easy-scpi/internal/visa/remote"
)

// startGateway serves the simulated power supply on a free local port.
// Returns the bound address and a stop function waiting for shutdown.
func startGateway(t *testing.T, statePath string) (addr string, stop func()) {
	t.Helper()

	// Create cancellable context for gateway lifecycle.
	ctx, cancel := context.WithCancel(context.Background())

	cfg := config.Default()
	cfg.Instrument.Backend = "@sim"
	cfg.Instrument.Resource = "ASRL1::INSTR"

	listening := make(chan net.Addr, 1)
	done := make(chan error, 1)

	// Start gateway in background goroutine.
	go func() {
		done <- gateway.Run(ctx, &gateway.Options{
			Config:        cfg,
			ListenAddress: "127.0.0.1:0",
			StateFile:     statePath,
			OnListen: func(addr net.Addr) {
				listening <- addr
			},
		})
	}()

	select {
	case bound := <-listening:
		addr = bound.String()
	case err := <-done:
		cancel()
		t.Fatalf("gateway exited early: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("gateway did not start listening")
	}

	return addr, func() {
		cancel()
		require.NoError(t, <-done)
	}
}

// TestGateway_RemoteRoundTrip drives a served instrument through the remote backend
// and checks the persisted state names the caller.
func TestGateway_RemoteRoundTrip(t *testing.T) {
	t.Parallel()

	statePath := filepath.Join(t.TempDir(), "state.json")

	addr, stop := startGateway(t, statePath)
	defer stop()

	ctx := context.Background()

	inst, err := scpi.New(ctx,
		scpi.WithBackend(addr+"@remote"),
		scpi.WithResourceID("ASRL1::INSTR"),
		scpi.WithRemoteOptions(
			remote.WithCallTimeout(3*time.Second),
			remote.WithActor("bench-7", "alice"),
		),
	)
	require.NoError(t, err)

	defer func() {
		require.NoError(t, inst.Close())
	}()

	require.NoError(t, inst.Connect(ctx))

	id, err := inst.ID(ctx)
	require.NoError(t, err)
	require.Equal(t, "EASY-SCPI,SIM-PSU,0001,1.0", id)

	_, err = inst.Write(ctx, "SOUR:VOLT 7.5")
	require.NoError(t, err)

	voltage := inst.Property("sour").Child("volt")

	got, err := voltage.Call(ctx)
	require.NoError(t, err)
	require.Equal(t, "7.500", got)

	values, err := inst.QueryASCIIValues(ctx, "MEAS:ARR?", ",")
	require.NoError(t, err)
	require.Equal(t, []float64{0.5, 1.5, 2.5}, values)

	// The last recorded command is persisted together with its caller.
	state, err := repository.NewFileRepository(statePath).Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "ASRL1::INSTR", state.ResourceID)
	require.Equal(t, "SIM-PSU", state.Identity.Model)
	require.Equal(t, "MEAS:ARR?", state.LastCommand)
	require.Equal(t, "alice@bench-7", state.LastActor.String())

	// Unknown resources are rejected by the gateway.
	other, err := scpi.New(ctx,
		scpi.WithBackend(addr+"@remote"),
		scpi.WithResourceID("ASRL3::INSTR"),
	)
	require.NoError(t, err)
	require.Error(t, other.Connect(ctx))
	require.NoError(t, other.Close())
}

// TestGateway_Console runs console actions against a gateway.
func TestGateway_Console(t *testing.T) {
	t.Parallel()

	addr, stop := startGateway(t, filepath.Join(t.TempDir(), "state.json"))
	defer stop()

	cfg := config.Default()
	cfg.Instrument.Backend = addr + "@remote"
	cfg.Instrument.Resource = "ASRL1::INSTR"

	var out bytes.Buffer

	require.NoError(t, console.Run(context.Background(), &console.Options{
		Config: cfg,
		Action: console.ActionList,
		Out:    &out,
	}))
	require.Equal(t, "ASRL1::INSTR\n", out.String())

	out.Reset()

	require.NoError(t, console.Run(context.Background(), &console.Options{
		Config:  cfg,
		Action:  console.ActionQuery,
		Message: "SOUR:CURR?",
		Out:     &out,
	}))
	require.Equal(t, "0.100\n", out.String())
}

// TestGateway_ConcurrentClients shares one gateway between clients querying
// different commands; every client must get the answer to its own query.
func TestGateway_ConcurrentClients(t *testing.T) {
	t.Parallel()

	addr, stop := startGateway(t, filepath.Join(t.TempDir(), "state.json"))
	defer stop()

	const (
		clients    = 4
		iterations = 300
	)

	queries := map[string]string{
		"*IDN?":      "EASY-SCPI,SIM-PSU,0001,1.0",
		"SOUR:CURR?": "0.100",
	}

	ctx := context.Background()

	var (
		wg         sync.WaitGroup
		mismatched atomic.Int64
	)

	for i := range clients {
		query := "*IDN?"
		if i%2 == 1 {
			query = "SOUR:CURR?"
		}

		inst, err := scpi.New(ctx,
			scpi.WithBackend(addr+"@remote"),
			scpi.WithResourceID("ASRL1::INSTR"),
			scpi.WithRemoteOptions(remote.WithCallTimeout(3*time.Second)),
		)
		require.NoError(t, err)
		require.NoError(t, inst.Connect(ctx))

		t.Cleanup(func() {
			_ = inst.Close()
		})

		wg.Go(func() {
			for range iterations {
				if resp, err := inst.Query(ctx, query); err != nil || resp != queries[query] {
					mismatched.Add(1)
				}
			}
		})
	}

	wg.Wait()

	require.Zero(t, mismatched.Load(), "queries answered with another client's response or failed")
}
