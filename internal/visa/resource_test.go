package visa

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// queryingResource answers Query itself and fails Write and Read.
type queryingResource struct {
	// queries records the messages passed to Query.
	queries []string
}

func (r *queryingResource) Name() string { return "TCPIP0::gateway::5025::SOCKET" }
func (r *queryingResource) Open(context.Context) error { return nil }
func (r *queryingResource) Close() error { return nil }
func (r *queryingResource) IsOpen() bool { return true }

func (r *queryingResource) Write(context.Context, string) (int, error) {
	return 0, ErrClosed
}

func (r *queryingResource) Read(context.Context) (string, error) {
	return "", ErrClosed
}

func (r *queryingResource) Query(_ context.Context, msg string) (string, error) {
	r.queries = append(r.queries, msg)

	if msg == "MEAS?" {
		return "1.5,2.5", nil
	}

	return "answer to " + msg, nil
}

// TestQuery_UsesQuerier sends the whole exchange through Querier when available.
func TestQuery_UsesQuerier(t *testing.T) {
	t.Parallel()

	res := new(queryingResource)

	resp, err := Query(context.Background(), res, "*IDN?", 0)
	require.NoError(t, err)
	require.Equal(t, "answer to *IDN?", resp)

	values, err := QueryASCIIValues(context.Background(), res, "MEAS?", ",", 0)
	require.NoError(t, err)
	require.Equal(t, []float64{1.5, 2.5}, values)
	require.Equal(t, []string{"*IDN?", "MEAS?"}, res.queries)
}
