package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domain "github.com/oshokin/easy-scpi/internal/domain/instrument"
	"github.com/oshokin/easy-scpi/internal/logger"
	repo "github.com/oshokin/easy-scpi/internal/repository/state"
)

// Instrument is the subset of scpi.Instrument the gateway drives.
type Instrument interface {
	RID() string
	Write(ctx context.Context, msg string) (int, error)
	Read(ctx context.Context) (string, error)
	Query(ctx context.Context, msg string) (string, error)
	ReadRaw(ctx context.Context, size int) ([]byte, error)
	Identity(ctx context.Context) (domain.Identity, error)
}

// service serializes access to the instrument and records what callers did.
// It is unexported to keep the transport decoupled from the implementation.
type service struct {
	// inst is the connected instrument.
	inst Instrument
	// repo handles persistent storage of the gateway state.
	repo repo.Repository
	// state is the current in-memory gateway state.
	state *domain.State
	// mu protects concurrent access to the state.
	mu sync.RWMutex
}

// newService loads the previous state, then refreshes the resource id and identity.
func newService(ctx context.Context, inst Instrument, repository repo.Repository) (*service, error) {
	s := &service{
		inst: inst,
		repo: repository,
		state: &domain.State{
			Timestamp: time.Now(),
		},
	}

	if repository != nil {
		state, err := repository.Load(ctx)
		switch {
		case err == nil:
			if state != nil {
				s.state = state
			}
		case errors.Is(err, repo.ErrNotFound):
			// Keep default state.
		default:
			return nil, fmt.Errorf("load state: %w", err)
		}
	}

	identity, err := inst.Identity(ctx)
	if err != nil {
		return nil, fmt.Errorf("identify instrument: %w", err)
	}

	s.state.ResourceID = inst.RID()
	s.state.Identity = identity

	return s, nil
}

// Write sends msg and records it.
func (s *service) Write(ctx context.Context, actor *domain.Actor, msg string) (int, error) {
	n, err := s.inst.Write(ctx, msg)
	if err != nil {
		return n, err
	}

	s.record(ctx, actor, msg)

	return n, nil
}

// Read returns the next response.
func (s *service) Read(ctx context.Context, _ *domain.Actor) (string, error) {
	return s.inst.Read(ctx)
}

// Query sends msg, records it and returns the response.
func (s *service) Query(ctx context.Context, actor *domain.Actor, msg string) (string, error) {
	resp, err := s.inst.Query(ctx, msg)
	if err != nil {
		return "", err
	}

	s.record(ctx, actor, msg)

	return resp, nil
}

// ReadRaw reads raw bytes.
func (s *service) ReadRaw(ctx context.Context, _ *domain.Actor, size int) ([]byte, error) {
	return s.inst.ReadRaw(ctx, size)
}

// Identify returns the state, which carries the resource id and identity.
func (s *service) Identify(ctx context.Context) *domain.State {
	return s.GetState(ctx)
}

// GetState returns what the gateway last did.
func (s *service) GetState(ctx context.Context) *domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logger.DebugKV(ctx, "Gateway state requested", "last_command", s.state.LastCommand, "actor", s.state.LastActor)

	return s.state.Clone()
}

// record updates and persists the state. Persistence failures are logged:
// the command already reached the instrument.
func (s *service) record(ctx context.Context, actor *domain.Actor, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Timestamp = time.Now()
	s.state.LastActor = actor.Clone()
	s.state.LastCommand = msg

	if s.repo != nil {
		if err := s.repo.Save(ctx, s.state); err != nil {
			logger.Errorf(ctx, "Failed to persist gateway state: %v", err)
		}
	}

	logger.InfoKV(ctx, "Instrument command", "command", msg, "actor", s.state.LastActor.String())
}
