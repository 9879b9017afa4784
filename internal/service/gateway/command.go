package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"

	api "github.com/oshokin/easy-scpi/internal/api/grpc/instrument"
	"github.com/oshokin/easy-scpi/internal/config"
	"github.com/oshokin/easy-scpi/internal/logger"
	pb "github.com/oshokin/easy-scpi/internal/pb/v1"
	repository "github.com/oshokin/easy-scpi/internal/repository/state"
	"github.com/oshokin/easy-scpi/internal/service/common"
	"github.com/oshokin/easy-scpi/internal/visa"
)

// Options controls the gateway process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file; used when Config is nil.
	ConfigPath string
	// Config provides already loaded settings.
	Config *config.Config
	// ListenAddress provides an optional listen address override.
	ListenAddress string
	// StateFile provides an optional state file override.
	StateFile string
	// OnListen is called with the bound address once the gateway accepts calls.
	OnListen func(addr net.Addr)
}

// Run connects the instrument and serves it until ctx is canceled.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "gateway")

	cfg := opts.Config
	if cfg == nil {
		var err error

		if cfg, err = config.LoadOptional(opts.ConfigPath); err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
	}

	listenAddress := cfg.Gateway.ListenAddress
	if opts.ListenAddress != "" {
		listenAddress = opts.ListenAddress
	}

	stateFile := cfg.Gateway.StateFile
	if opts.StateFile != "" {
		stateFile = opts.StateFile
	}

	inst, err := common.ConnectInstrument(ctx, cfg)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := inst.Close(); closeErr != nil {
			logger.WarnKV(ctx, "Failed to close instrument", "error", closeErr)
		}
	}()

	svc, err := newService(ctx, inst, repository.NewFileRepository(stateFile))
	if err != nil {
		return fmt.Errorf("initialise service: %w", err)
	}

	readTermination := visa.DefaultTermination
	if mb, ok := inst.Resource().(visa.MessageBased); ok {
		readTermination = mb.Params().ReadTermination
	}

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(requestLogger(ctx)))
	pb.RegisterInstrumentServiceServer(grpcServer, api.NewServer(svc, readTermination))

	logger.InfoKV(ctx, "Gateway listening",
		"listen_address", lis.Addr().String(),
		"resource", inst.RID(),
		"state_file", stateFile,
	)

	if opts.OnListen != nil {
		opts.OnListen(lis.Addr())
	}

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down gateway")
		grpcServer.GracefulStop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "Gateway stopped")

	return nil
}
