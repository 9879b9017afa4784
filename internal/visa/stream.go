package visa

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/oshokin/easy-scpi/internal/logger"
)

// transport is a byte stream with read deadlines, implemented by TCP
// connections and by the serial port adapter.
type transport interface {
	io.ReadWriteCloser
	SetReadDeadline(t time.Time) error
}

// dialFunc opens a fresh transport for a stream resource.
type dialFunc func(ctx context.Context) (transport, error)

// streamResource is a message-based resource over a byte stream where
// messages are delimited by termination strings.
type streamResource struct {
	// name is the resource name.
	name string
	// params are the resource attributes.
	params Params
	// dial opens the transport on Open.
	dial dialFunc

	// mu serializes I/O and guards conn and reader.
	mu sync.Mutex
	// conn is the open transport or nil when closed.
	conn transport
	// reader buffers conn.
	reader *bufio.Reader
}

// newStreamResource creates a closed stream resource.
func newStreamResource(name string, params Params, dial dialFunc) *streamResource {
	return &streamResource{
		name:   name,
		params: params,
		dial:   dial,
	}
}

// Name returns the resource name.
func (s *streamResource) Name() string {
	return s.name
}

// Params returns the resource attributes.
func (s *streamResource) Params() Params {
	return s.params
}

// Open dials the transport unless it is already open.
func (s *streamResource) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return nil
	}

	conn, err := s.dial(ctx)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.name, err)
	}

	s.conn = conn
	s.reader = bufio.NewReaderSize(conn, s.params.ChunkSize)

	return nil
}

// Close closes the transport. Closing a closed resource is a no-op.
func (s *streamResource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}

	err := s.conn.Close()
	s.conn = nil
	s.reader = nil

	if err != nil {
		return fmt.Errorf("close %s: %w", s.name, err)
	}

	return nil
}

// IsOpen reports whether the transport is open.
func (s *streamResource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.conn != nil
}

// Write sends msg with the write termination.
func (s *streamResource) Write(ctx context.Context, msg string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return 0, ErrClosed
	}

	n, err := s.conn.Write([]byte(msg + s.params.WriteTermination))
	if err != nil {
		return n, fmt.Errorf("write %s: %w", s.name, err)
	}

	logger.DebugKV(ctx, "Message written", "resource", s.name, "message", msg, "bytes", n)

	return n, nil
}

// Read returns the next message without its termination.
func (s *streamResource) Read(ctx context.Context) (string, error) {
	raw, err := s.ReadRaw(ctx, 0)
	if err != nil {
		return "", err
	}

	msg := string(bytes.TrimSuffix(raw, []byte(s.params.ReadTermination)))

	logger.DebugKV(ctx, "Message read", "resource", s.name, "message", msg)

	return msg, nil
}

// ReadRaw reads size bytes, or up to and including the termination when size <= 0.
func (s *streamResource) ReadRaw(ctx context.Context, size int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil, ErrClosed
	}

	if size > MaxReadSize {
		return nil, fmt.Errorf("read %s: %w: %d bytes", s.name, ErrReadTooLarge, size)
	}

	deadline := time.Now().Add(s.params.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := s.conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set read deadline: %w", err)
	}

	// Unblock the pending read as soon as the caller gives up.
	conn := s.conn
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	var (
		data []byte
		err  error
	)

	if size > 0 {
		data = make([]byte, size)
		_, err = io.ReadFull(s.reader, data)
	} else {
		data, err = readUntil(s.reader, []byte(s.params.ReadTermination), MaxReadSize)
	}

	if err != nil {
		return nil, s.readError(ctx, err)
	}

	return data, nil
}

// readError converts transport errors into package errors.
func (s *streamResource) readError(ctx context.Context, err error) error {
	switch {
	case ctx.Err() != nil:
		return fmt.Errorf("read %s: %w", s.name, ctx.Err())
	case errors.Is(err, os.ErrDeadlineExceeded):
		return fmt.Errorf("read %s: %w", s.name, ErrTimeout)
	default:
		return fmt.Errorf("read %s: %w", s.name, err)
	}
}

// readUntil reads from r until the accumulated data ends with term.
// Messages growing past limit bytes fail with ErrReadTooLarge.
func readUntil(r *bufio.Reader, term []byte, limit int) ([]byte, error) {
	if len(term) == 0 {
		return nil, errors.New("read termination is empty")
	}

	var (
		last = term[len(term)-1]
		data []byte
	)

	for {
		chunk, err := r.ReadSlice(last)
		data = append(data, chunk...)

		if len(data) > limit {
			return nil, fmt.Errorf("%w: no termination within %d bytes", ErrReadTooLarge, limit)
		}

		switch {
		case err == nil:
			if bytes.HasSuffix(data, term) {
				return data, nil
			}
		case errors.Is(err, bufio.ErrBufferFull):
			// Keep reading, the message is longer than the buffer.
		default:
			return nil, err
		}
	}
}
