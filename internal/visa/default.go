package visa

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"go.bug.st/serial"
)

// defaultBackend opens TCP socket and serial resources directly.
type defaultBackend struct{}

// NewDefaultBackend returns the backend used when no other backend is selected.
// It opens TCPIP SOCKET resources over TCP and ASRL resources over serial ports.
func NewDefaultBackend() Backend {
	return defaultBackend{}
}

// ListResources enumerates the serial ports of the machine. Socket resources
// cannot be discovered and must be addressed by name.
func (defaultBackend) ListResources(_ context.Context) ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerate serial ports: %w", err)
	}

	resources := make([]string, 0, len(ports))
	for _, port := range ports {
		resources = append(resources, InterfaceASRL+port+resourceSeparator+ClassInstr)
	}

	return resources, nil
}

// Open parses name and opens a socket or serial resource.
func (defaultBackend) Open(ctx context.Context, name string, params Params) (Resource, error) {
	rn, err := ParseResourceName(name)
	if err != nil {
		return nil, err
	}

	var dial dialFunc

	switch {
	case rn.Interface == InterfaceTCPIP && rn.Class == ClassSocket:
		dial = socketDialer(net.JoinHostPort(rn.Host(), rn.Port()), params)
	case rn.Interface == InterfaceASRL:
		dial = serialDialer(rn.SerialPort(), params)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedResource, rn.String())
	}

	res := newStreamResource(name, params, dial)
	if err = res.Open(ctx); err != nil {
		return nil, err
	}

	return res, nil
}

// Close is a no-op, the default backend holds no shared state.
func (defaultBackend) Close() error {
	return nil
}

// socketDialer connects to a raw SCPI socket.
func socketDialer(address string, params Params) dialFunc {
	return func(ctx context.Context) (transport, error) {
		dialer := net.Dialer{Timeout: params.Timeout}

		conn, err := dialer.DialContext(ctx, "tcp", address)
		if err != nil {
			return nil, err
		}

		return conn, nil
	}
}

// serialDialer opens a serial port with the line settings of params.
func serialDialer(port string, params Params) dialFunc {
	return func(_ context.Context) (transport, error) {
		mode := &serial.Mode{
			BaudRate: params.BaudRate,
			DataBits: params.DataBits,
			Parity:   serialParity(params.Parity),
			StopBits: serialStopBits(params.StopBits),
		}

		p, err := serial.Open(port, mode)
		if err != nil {
			return nil, err
		}

		return &serialTransport{port: p}, nil
	}
}

// serialParity maps a parity name onto the serial package constant.
func serialParity(parity string) serial.Parity {
	switch parity {
	case ParityOdd:
		return serial.OddParity
	case ParityEven:
		return serial.EvenParity
	case ParityMark:
		return serial.MarkParity
	case ParitySpace:
		return serial.SpaceParity
	default:
		return serial.NoParity
	}
}

// serialStopBits maps a stop bit count onto the serial package constant.
func serialStopBits(bits float64) serial.StopBits {
	switch bits {
	case 1.5:
		return serial.OnePointFiveStopBits
	case 2:
		return serial.TwoStopBits
	default:
		return serial.OneStopBit
	}
}

// serialTransport adapts a serial port, which reports timeouts as empty
// reads, to deadline based reads.
type serialTransport struct {
	// port is the open serial port.
	port serial.Port

	// mu guards deadline, which is moved by context cancellation.
	mu sync.Mutex
	// deadline is the read deadline; zero means none.
	deadline time.Time
}

// SetReadDeadline records the deadline applied to subsequent reads.
func (s *serialTransport) SetReadDeadline(t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deadline = t

	return nil
}

// Read reads from the port until data arrives or the deadline passes.
func (s *serialTransport) Read(p []byte) (int, error) {
	for {
		s.mu.Lock()
		deadline := s.deadline
		s.mu.Unlock()

		timeout := serial.NoTimeout

		if !deadline.IsZero() {
			timeout = time.Until(deadline)
			if timeout <= 0 {
				return 0, os.ErrDeadlineExceeded
			}
		}

		if err := s.port.SetReadTimeout(timeout); err != nil {
			return 0, err
		}

		n, err := s.port.Read(p)
		if n > 0 || err != nil {
			return n, err
		}
	}
}

// Write writes to the port.
func (s *serialTransport) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

// Close closes the port.
func (s *serialTransport) Close() error {
	return s.port.Close()
}
