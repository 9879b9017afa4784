package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/easy-scpi/internal/domain/instrument"
	repo "github.com/oshokin/easy-scpi/internal/repository/state"
)

var (
	errTestLoad  = errors.New("test load error")
	errTestWrite = errors.New("test write error")
)

// memoryRepository is a minimal in-memory Repository implementation for tests.
type memoryRepository struct {
	// state is the gateway state to return from Load operations.
	state *domain.State
	// loadErr is the error to return from Load operations.
	loadErr error
	// saved stores the last state passed to Save operations.
	saved *domain.State
}

// Load retrieves the current state from the memory repository.
func (m *memoryRepository) Load(context.Context) (*domain.State, error) {
	return m.state, m.loadErr
}

// Save stores a copy of the provided state.
func (m *memoryRepository) Save(_ context.Context, s *domain.State) error {
	m.saved = s.Clone()

	return nil
}

// fakeInstrument answers every query with the same response.
type fakeInstrument struct {
	// err is returned by Write and Query when set.
	err error
	// writes records the written messages.
	writes []string
}

func (f *fakeInstrument) RID() string { return "ASRL1::INSTR" }

func (f *fakeInstrument) Write(_ context.Context, msg string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}

	f.writes = append(f.writes, msg)

	return len(msg) + 1, nil
}

func (f *fakeInstrument) Read(context.Context) (string, error) { return "0.5", nil }

func (f *fakeInstrument) Query(_ context.Context, msg string) (string, error) {
	if f.err != nil {
		return "", f.err
	}

	f.writes = append(f.writes, msg)

	return "1.0", nil
}

func (f *fakeInstrument) ReadRaw(_ context.Context, size int) ([]byte, error) {
	return make([]byte, size), nil
}

func (f *fakeInstrument) Identity(context.Context) (domain.Identity, error) {
	return domain.ParseIdentity("ACME,PSU,7,2.0"), nil
}

// TestNewService_LoadsStateOrDefaults asserts newService behavior on existing, missing, and error states.
func TestNewService_LoadsStateOrDefaults(t *testing.T) {
	t.Parallel()

	// Existing state.
	old := &domain.State{
		Timestamp: time.Unix(100, 0),
		LastActor: &domain.Actor{
			Hostname: "bench-02",
			Username: "o.shokin",
		},
		ResourceID:  "ASRL9::INSTR",
		LastCommand: "OUTP ON",
	}

	s, err := newService(context.Background(), new(fakeInstrument), &memoryRepository{state: old})

	require.NoError(t, err)
	require.Equal(t, old.LastActor, s.state.LastActor)
	require.Equal(t, "OUTP ON", s.state.LastCommand)
	// The live instrument wins over the stored resource and identity.
	require.Equal(t, "ASRL1::INSTR", s.state.ResourceID)
	require.Equal(t, "PSU", s.state.Identity.Model)

	// Not found -> default.
	s, err = newService(context.Background(), new(fakeInstrument), &memoryRepository{loadErr: repo.ErrNotFound})

	require.NoError(t, err)
	require.Empty(t, s.state.LastCommand)

	// Other error.
	s, err = newService(context.Background(), new(fakeInstrument), &memoryRepository{loadErr: errTestLoad})

	require.Error(t, err)
	require.Nil(t, s)
}

// TestService_RecordsCommands verifies writes and queries are persisted while reads are not.
func TestService_RecordsCommands(t *testing.T) {
	t.Parallel()

	repository := new(memoryRepository)
	inst := new(fakeInstrument)

	s, err := newService(context.Background(), inst, repository)
	require.NoError(t, err)

	actor := &domain.Actor{Hostname: "bench-02", Username: "o.shokin"}
	ctx := context.Background()

	_, err = s.Write(ctx, actor, "SOUR:VOLT 5")
	require.NoError(t, err)
	require.Equal(t, "SOUR:VOLT 5", repository.saved.LastCommand)
	require.Equal(t, actor, repository.saved.LastActor)
	require.NotSame(t, actor, repository.saved.LastActor)

	resp, err := s.Query(ctx, nil, "SOUR:VOLT?")
	require.NoError(t, err)
	require.Equal(t, "1.0", resp)
	require.Nil(t, repository.saved.LastActor)

	_, err = s.Read(ctx, actor)
	require.NoError(t, err)

	_, err = s.ReadRaw(ctx, actor, 4)
	require.NoError(t, err)

	state := s.GetState(ctx)
	require.Equal(t, "SOUR:VOLT?", state.LastCommand)
	require.Equal(t, []string{"SOUR:VOLT 5", "SOUR:VOLT?"}, inst.writes)
	require.Equal(t, "ASRL1::INSTR", s.Identify(ctx).ResourceID)

	// Failed commands are not recorded.
	inst.err = errTestWrite

	_, err = s.Write(ctx, actor, "OUTP ON")
	require.ErrorIs(t, err, errTestWrite)
	require.Equal(t, "SOUR:VOLT?", s.GetState(ctx).LastCommand)
}
