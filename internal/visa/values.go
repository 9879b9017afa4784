package visa

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultDatatype is the binary datatype used when none is given: float32.
const DefaultDatatype = "f"

// maxBlockPreamble bounds the bytes skipped while looking for a block header.
const maxBlockPreamble = 64

// BinaryOptions control how binary values are read and decoded.
type BinaryOptions struct {
	// Datatype is a single struct-style code: b B h H i I l L q Q f d.
	Datatype string
	// BigEndian selects big endian decoding; instruments default to little endian.
	BigEndian bool
	// ExpectTermination consumes the read termination after the block.
	ExpectTermination bool
}

// DefaultBinaryOptions returns little endian float32 values followed by a termination.
func DefaultBinaryOptions() BinaryOptions {
	return BinaryOptions{
		Datatype:          DefaultDatatype,
		ExpectTermination: true,
	}
}

// datatypeSize returns the byte width of a datatype code.
func datatypeSize(datatype string) (int, error) {
	switch datatype {
	case "b", "B":
		return 1, nil
	case "h", "H":
		return 2, nil
	case "i", "I", "l", "L", "f":
		return 4, nil
	case "q", "Q", "d":
		return 8, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDatatype, datatype)
	}
}

// byteOrder picks the byte order for bigEndian.
func byteOrder(bigEndian bool) binary.ByteOrder {
	if bigEndian {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// ParseASCIIValues splits text by separator and parses every item as a float.
// Blank items are skipped.
func ParseASCIIValues(text, separator string) ([]float64, error) {
	if separator == "" {
		separator = ","
	}

	items := strings.Split(strings.TrimSpace(text), separator)
	values := make([]float64, 0, len(items))

	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		v, err := strconv.ParseFloat(item, 64)
		if err != nil {
			return nil, fmt.Errorf("parse value %q: %w", item, err)
		}

		values = append(values, v)
	}

	return values, nil
}

// EncodeIEEEBlock wraps payload in a definite length IEEE 488.2 block header.
func EncodeIEEEBlock(payload []byte) []byte {
	length := strconv.Itoa(len(payload))

	block := make([]byte, 0, 2+len(length)+len(payload))
	block = append(block, '#', byte('0'+len(length)))
	block = append(block, length...)
	block = append(block, payload...)

	return block
}

// ParseIEEEBlock extracts the payload of an IEEE 488.2 block held in data.
// Leading bytes before '#' are ignored. For an indefinite block (#0) the
// payload runs to the end of data.
func ParseIEEEBlock(data []byte) ([]byte, error) {
	start := bytes.IndexByte(data, '#')
	if start < 0 || start+2 > len(data) {
		return nil, fmt.Errorf("%w: header not found", ErrInvalidBlock)
	}

	digits := int(data[start+1] - '0')
	if digits < 0 || digits > 9 {
		return nil, fmt.Errorf("%w: bad length digit %q", ErrInvalidBlock, data[start+1])
	}

	body := data[start+2:]
	if digits == 0 {
		return body, nil
	}

	if len(body) < digits {
		return nil, fmt.Errorf("%w: truncated length", ErrInvalidBlock)
	}

	length, err := parseBlockLength(body[:digits])
	if err != nil {
		return nil, err
	}

	body = body[digits:]
	if len(body) < length {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidBlock, length, len(body))
	}

	return body[:length], nil
}

// DecodeBinary converts packed values of datatype into floats.
//
//nolint:cyclop // One case per datatype.
func DecodeBinary(data []byte, datatype string, bigEndian bool) ([]float64, error) {
	if datatype == "" {
		datatype = DefaultDatatype
	}

	size, err := datatypeSize(datatype)
	if err != nil {
		return nil, err
	}

	if len(data)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrInvalidBlock, len(data), size)
	}

	order := byteOrder(bigEndian)
	values := make([]float64, 0, len(data)/size)

	for offset := 0; offset < len(data); offset += size {
		chunk := data[offset : offset+size]

		var v float64

		switch datatype {
		case "b":
			v = float64(int8(chunk[0]))
		case "B":
			v = float64(chunk[0])
		case "h":
			v = float64(int16(order.Uint16(chunk)))
		case "H":
			v = float64(order.Uint16(chunk))
		case "i", "l":
			v = float64(int32(order.Uint32(chunk)))
		case "I", "L":
			v = float64(order.Uint32(chunk))
		case "q":
			v = float64(int64(order.Uint64(chunk)))
		case "Q":
			v = float64(order.Uint64(chunk))
		case "f":
			v = float64(math.Float32frombits(order.Uint32(chunk)))
		case "d":
			v = math.Float64frombits(order.Uint64(chunk))
		}

		values = append(values, v)
	}

	return values, nil
}

// EncodeBinary packs values as datatype, the inverse of DecodeBinary.
//
//nolint:cyclop // One case per datatype.
func EncodeBinary(values []float64, datatype string, bigEndian bool) ([]byte, error) {
	if datatype == "" {
		datatype = DefaultDatatype
	}

	size, err := datatypeSize(datatype)
	if err != nil {
		return nil, err
	}

	order := byteOrder(bigEndian)
	data := make([]byte, len(values)*size)

	for i, v := range values {
		chunk := data[i*size : (i+1)*size]

		switch datatype {
		case "b":
			chunk[0] = byte(int8(v))
		case "B":
			chunk[0] = byte(v)
		case "h":
			order.PutUint16(chunk, uint16(int16(v)))
		case "H":
			order.PutUint16(chunk, uint16(v))
		case "i", "l":
			order.PutUint32(chunk, uint32(int32(v)))
		case "I", "L":
			order.PutUint32(chunk, uint32(v))
		case "q":
			order.PutUint64(chunk, uint64(int64(v)))
		case "Q":
			order.PutUint64(chunk, uint64(v))
		case "f":
			order.PutUint32(chunk, math.Float32bits(float32(v)))
		case "d":
			order.PutUint64(chunk, math.Float64bits(v))
		}
	}

	return data, nil
}

// QueryASCIIValues sends msg and parses the separated numeric response.
func QueryASCIIValues(
	ctx context.Context,
	r Resource,
	msg string,
	separator string,
	delay time.Duration,
) ([]float64, error) {
	resp, err := Query(ctx, r, msg, delay)
	if err != nil {
		return nil, err
	}

	return ParseASCIIValues(resp, separator)
}

// QueryBinaryValues sends msg and reads an IEEE 488.2 block response.
func QueryBinaryValues(
	ctx context.Context,
	r MessageBased,
	msg string,
	opts BinaryOptions,
	delay time.Duration,
) ([]float64, error) {
	if _, err := r.Write(ctx, msg); err != nil {
		return nil, err
	}

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return ReadBinaryValues(ctx, r, opts)
}

// parseBlockLength parses the decimal payload length of a definite block.
// Only digits are accepted and the length is bounded by MaxReadSize.
func parseBlockLength(text []byte) (int, error) {
	length, err := strconv.ParseUint(string(text), 10, 31)
	if err != nil {
		return 0, fmt.Errorf("%w: bad length %q", ErrInvalidBlock, text)
	}

	if length > MaxReadSize {
		return 0, fmt.Errorf("%w: length %d exceeds %d bytes", ErrInvalidBlock, length, MaxReadSize)
	}

	return int(length), nil
}

// ReadBinaryValues reads one IEEE 488.2 block from r and decodes it.
//
//nolint:cyclop // Header parsing is sequential by nature.
func ReadBinaryValues(ctx context.Context, r MessageBased, opts BinaryOptions) ([]float64, error) {
	// Skip whitespace left over from a previous message.
	for skipped := 0; ; skipped++ {
		if skipped > maxBlockPreamble {
			return nil, fmt.Errorf("%w: header not found", ErrInvalidBlock)
		}

		b, err := r.ReadRaw(ctx, 1)
		if err != nil {
			return nil, fmt.Errorf("read block header: %w", err)
		}

		if b[0] == '#' {
			break
		}

		if b[0] != ' ' && b[0] != '\r' && b[0] != '\n' && b[0] != '\t' {
			return nil, fmt.Errorf("%w: unexpected byte %q before header", ErrInvalidBlock, b[0])
		}
	}

	digit, err := r.ReadRaw(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("read block header: %w", err)
	}

	digits := int(digit[0] - '0')
	if digits < 0 || digits > 9 {
		return nil, fmt.Errorf("%w: bad length digit %q", ErrInvalidBlock, digit[0])
	}

	var payload []byte

	if digits == 0 {
		raw, err := r.ReadRaw(ctx, 0)
		if err != nil {
			return nil, fmt.Errorf("read indefinite block: %w", err)
		}

		payload = bytes.TrimSuffix(raw, []byte(r.Params().ReadTermination))
	} else {
		lengthText, err := r.ReadRaw(ctx, digits)
		if err != nil {
			return nil, fmt.Errorf("read block length: %w", err)
		}

		length, err := parseBlockLength(lengthText)
		if err != nil {
			return nil, err
		}

		if length > 0 {
			if payload, err = r.ReadRaw(ctx, length); err != nil {
				return nil, fmt.Errorf("read block payload: %w", err)
			}
		}

		if opts.ExpectTermination {
			if _, err = r.ReadRaw(ctx, 0); err != nil {
				return nil, fmt.Errorf("read block termination: %w", err)
			}
		}
	}

	return DecodeBinary(payload, opts.Datatype, opts.BigEndian)
}
