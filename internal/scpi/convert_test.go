package scpi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValToBool covers strings, numbers, bools and rejects.
func TestValToBool(t *testing.T) {
	t.Parallel()

	truthy := []any{"on", "ON", "1", 1, 2.5, true, uint8(1)}
	for _, v := range truthy {
		got, err := ValToBool(v)
		require.NoError(t, err, "%v", v)
		require.True(t, got, "%v", v)
	}

	falsy := []any{"off", "Off", "0", 0, 0.0, false, nil}
	for _, v := range falsy {
		got, err := ValToBool(v)
		require.NoError(t, err, "%v", v)
		require.False(t, got, "%v", v)
	}

	_, err := ValToBool("maybe")
	require.ErrorIs(t, err, ErrInvalidValue)

	_, err = ValToBool([]int{1})
	require.ErrorIs(t, err, ErrInvalidValue)
}

// TestValToState maps inputs to ON and OFF.
func TestValToState(t *testing.T) {
	t.Parallel()

	state, err := ValToState("1")
	require.NoError(t, err)
	require.Equal(t, StateOn, state)

	state, err = ValToState(false)
	require.NoError(t, err)
	require.Equal(t, StateOff, state)

	_, err = ValToState("yes")
	require.ErrorIs(t, err, ErrInvalidValue)
}
