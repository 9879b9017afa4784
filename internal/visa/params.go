package visa

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parity values accepted for serial resources.
const (
	ParityNone  = "none"
	ParityOdd   = "odd"
	ParityEven  = "even"
	ParityMark  = "mark"
	ParitySpace = "space"
)

// Default resource parameter values.
const (
	DefaultTimeout     = 2 * time.Second
	DefaultTermination = "\n"
	DefaultChunkSize   = 20 * 1024
	DefaultBaudRate    = 9600
	DefaultDataBits    = 8
	DefaultStopBits    = 1.0
)

// Params are the attributes applied to a resource when it is opened.
type Params struct {
	// Timeout bounds every read when the context carries no deadline.
	Timeout time.Duration `yaml:"timeout,omitempty"`
	// ReadTermination marks the end of a response and is stripped by Read.
	ReadTermination string `yaml:"read_termination,omitempty"`
	// WriteTermination is appended to every written message.
	WriteTermination string `yaml:"write_termination,omitempty"`
	// QueryDelay is the pause between the write and the read of a query.
	QueryDelay time.Duration `yaml:"query_delay,omitempty"`
	// ChunkSize is the size of a single transport read.
	ChunkSize int `yaml:"chunk_size,omitempty"`
	// BaudRate is the serial line speed.
	BaudRate int `yaml:"baud_rate,omitempty"`
	// DataBits is the serial character size.
	DataBits int `yaml:"data_bits,omitempty"`
	// Parity is the serial parity mode (none, odd, even, mark, space).
	Parity string `yaml:"parity,omitempty"`
	// StopBits is the number of serial stop bits (1, 1.5, 2).
	StopBits float64 `yaml:"stop_bits,omitempty"`
}

// DefaultParams returns parameters filled with default values.
func DefaultParams() Params {
	return Params{
		Timeout:          DefaultTimeout,
		ReadTermination:  DefaultTermination,
		WriteTermination: DefaultTermination,
		ChunkSize:        DefaultChunkSize,
		BaudRate:         DefaultBaudRate,
		DataBits:         DefaultDataBits,
		Parity:           ParityNone,
		StopBits:         DefaultStopBits,
	}
}

// WithDefaults returns a copy of p where every zero value is replaced by its default.
// An empty termination therefore always means the default newline.
func (p Params) WithDefaults() Params {
	def := DefaultParams()

	if p.Timeout <= 0 {
		p.Timeout = def.Timeout
	}

	if p.ReadTermination == "" {
		p.ReadTermination = def.ReadTermination
	}

	if p.WriteTermination == "" {
		p.WriteTermination = def.WriteTermination
	}

	if p.ChunkSize <= 0 {
		p.ChunkSize = def.ChunkSize
	}

	if p.BaudRate <= 0 {
		p.BaudRate = def.BaudRate
	}

	if p.DataBits <= 0 {
		p.DataBits = def.DataBits
	}

	if p.Parity == "" {
		p.Parity = def.Parity
	}

	if p.StopBits <= 0 {
		p.StopBits = def.StopBits
	}

	return p
}

// Set assigns a parameter by its attribute name, parsing value as needed.
//
//nolint:cyclop // Flat attribute switch.
func (p *Params) Set(name, value string) error {
	var err error

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "timeout":
		p.Timeout, err = parseDuration(value)
	case "read_termination":
		p.ReadTermination = Unescape(value)
	case "write_termination":
		p.WriteTermination = Unescape(value)
	case "query_delay":
		p.QueryDelay, err = parseDuration(value)
	case "chunk_size":
		p.ChunkSize, err = strconv.Atoi(value)
	case "baud_rate":
		p.BaudRate, err = strconv.Atoi(value)
	case "data_bits":
		p.DataBits, err = strconv.Atoi(value)
	case "parity":
		p.Parity, err = parseParity(value)
	case "stop_bits":
		p.StopBits, err = strconv.ParseFloat(value, 64)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}

	if err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}

	return nil
}

// Unescape turns the escape sequences \n, \r and \t into control characters,
// which lets terminations be written on a command line.
func Unescape(s string) string {
	return strings.NewReplacer(`\r`, "\r", `\n`, "\n", `\t`, "\t").Replace(s)
}

// parseDuration accepts Go durations and bare integers in milliseconds,
// the unit VISA uses for timeouts.
func parseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}

	return time.ParseDuration(value)
}

// parseParity validates a parity name.
func parseParity(value string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case ParityNone, ParityOdd, ParityEven, ParityMark, ParitySpace:
		return v, nil
	default:
		return "", fmt.Errorf("unknown parity %q", value)
	}
}
