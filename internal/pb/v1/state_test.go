package pb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/easy-scpi/internal/domain/instrument"
)

// TestStateStruct_Roundtrip converts a full state back and forth.
func TestStateStruct_Roundtrip(t *testing.T) {
	t.Parallel()

	want := &domain.State{
		Timestamp:   time.Date(2026, 3, 1, 12, 30, 0, 5000, time.UTC),
		LastActor:   &domain.Actor{Hostname: "bench-02", Username: "o.shokin"},
		ResourceID:  "ASRL1::INSTR",
		Identity:    domain.ParseIdentity("ACME,PSU,1,2.0"),
		LastCommand: "OUTP ON",
	}

	got, err := StateFromStruct(StateToStruct(want))
	require.NoError(t, err)
	require.Equal(t, want, got)
}

// TestStateStruct_Empty omits optional fields and tolerates nil.
func TestStateStruct_Empty(t *testing.T) {
	t.Parallel()

	s := StateToStruct(&domain.State{})
	require.NotContains(t, s.GetFields(), FieldTimestamp)
	require.NotContains(t, s.GetFields(), FieldLastActor)

	got, err := StateFromStruct(nil)
	require.NoError(t, err)
	require.Equal(t, &domain.State{}, got)

	_, err = StateFromStruct(&structpb.Struct{Fields: map[string]*structpb.Value{
		FieldTimestamp: structpb.NewStringValue("yesterday"),
	}})
	require.Error(t, err)
}
