//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"fmt"

	"github.com/oshokin/easy-scpi/internal/config"
	"github.com/oshokin/easy-scpi/internal/logger"
	"github.com/oshokin/easy-scpi/internal/scpi"
	"github.com/oshokin/easy-scpi/internal/visa/remote"
)

// InstrumentOptions translates the instrument settings into scpi options.
// Remote backends get the call timeout and the detected actor.
func InstrumentOptions(ctx context.Context, cfg *config.Config) []scpi.Option {
	inst := cfg.Instrument

	opts := []scpi.Option{
		scpi.WithBackend(inst.Backend),
		scpi.WithPortMatch(inst.MatchPort()),
		scpi.WithHandshakeMessage(inst.Handshake),
		scpi.WithSeparator(inst.ArgSeparator),
		scpi.WithPrefixCommands(inst.PrefixCommands),
		scpi.WithParams(inst.Params),
		scpi.WithExplicitRemote(inst.ExplicitRemote),
	}

	switch {
	case inst.Port != "":
		opts = append(opts, scpi.WithPort(inst.Port))
	case inst.Resource != "":
		opts = append(opts, scpi.WithResourceID(inst.Resource))
	}

	remoteOpts := []remote.Option{remote.WithCallTimeout(cfg.Timeout)}

	actor, err := DetectActor()
	if err != nil {
		logger.WarnKV(ctx, "Failed to detect actor", "error", err)
	} else {
		remoteOpts = append(remoteOpts, remote.WithActor(actor.Hostname, actor.Username))
	}

	return append(opts, scpi.WithRemoteOptions(remoteOpts...))
}

// OpenInstrument builds an instrument from cfg without connecting it.
func OpenInstrument(ctx context.Context, cfg *config.Config) (*scpi.Instrument, error) {
	inst, err := scpi.New(ctx, InstrumentOptions(ctx, cfg)...)
	if err != nil {
		return nil, fmt.Errorf("open instrument: %w", err)
	}

	return inst, nil
}

// ConnectInstrument builds an instrument from cfg and connects it.
func ConnectInstrument(ctx context.Context, cfg *config.Config) (*scpi.Instrument, error) {
	inst, err := OpenInstrument(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err = inst.Connect(ctx); err != nil {
		_ = inst.Close()

		return nil, fmt.Errorf("connect instrument %s: %w", inst.RID(), err)
	}

	logger.InfoKV(ctx, "Instrument connected", "resource", inst.RID(), "backend", inst.Backend())

	return inst, nil
}
