package scpi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestResourcePattern covers both rule sets.
func TestResourcePattern(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		port string
		goos string
		want string
		err  error
	}{
		"windows com":            {port: "COM3", goos: "windows", want: "ASRL((?:COM)?3)::INSTR"},
		"windows lower com":      {port: "com12", goos: "windows", want: "ASRL((?:COM)?12)::INSTR"},
		"windows usb partial":    {port: "USB0::0x1111", goos: "windows", want: "USB0::0x1111::.*::INSTR"},
		"windows socket":         {port: "TCPIP0::h::5025::SOCKET", goos: "windows", want: "TCPIP0::h::5025::SOCKET"},
		"windows device path":    {port: "/dev/ttyS0", goos: "windows", err: ErrInvalidPort},
		"linux gpib partial":     {port: "GPIB0::8", goos: "linux", want: "GPIB0::8::.*::INSTR"},
		"linux usb full":         {port: "usb0::1::2::3::INSTR", goos: "linux", want: "usb0::1::2::3::INSTR"},
		"linux absolute path":    {port: "/dev/ttyUSB0", goos: "linux", want: "ASRL/dev/ttyUSB0::INSTR"},
		"linux relative path":    {port: "ttyUSB0", goos: "linux", want: "ASRL/ttyUSB0::INSTR"},
		"linux asrl":             {port: "ASRL1", goos: "linux", want: "ASRL1::INSTR"},
		"linux asrl with class":  {port: "ASRL1::INSTR", goos: "linux", want: "ASRL1::INSTR"},
		"darwin uses linux rule": {port: "/dev/cu.usbserial", goos: "darwin", want: "ASRL/dev/cu.usbserial::INSTR"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := ResourcePattern(tc.port, tc.goos)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

// TestMatchResource checks anchoring, case folding and match counts.
func TestMatchResource(t *testing.T) {
	t.Parallel()

	resources := []string{
		"ASRL1::INSTR",
		"ASRL3::INSTR",
		"ASRLCOM4::INSTR",
		"GPIB0::8::65535::INSTR",
	}

	got, err := MatchResource("ASRL((?:COM)?3)::INSTR", resources)
	require.NoError(t, err)
	require.Equal(t, "ASRL3::INSTR", got)

	got, err = MatchResource("ASRL((?:COM)?4)::INSTR", resources)
	require.NoError(t, err)
	require.Equal(t, "ASRLCOM4::INSTR", got)

	got, err = MatchResource("gpib0::8::.*::instr", resources)
	require.NoError(t, err)
	require.Equal(t, "GPIB0::8::65535::INSTR", got)

	// Matches are anchored at the start only; the matched prefix is returned.
	got, err = MatchResource("GPIB0::8", resources)
	require.NoError(t, err)
	require.Equal(t, "GPIB0::8", got)

	_, err = MatchResource("8::65535", resources)
	require.ErrorIs(t, err, ErrNoMatchingResource)

	_, err = MatchResource("ASRL.*::INSTR", resources)
	require.ErrorIs(t, err, ErrMultipleResources)

	_, err = MatchResource("ASRL(", resources)
	require.ErrorIs(t, err, ErrInvalidPort)
}
