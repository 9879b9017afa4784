package sim

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/oshokin/easy-scpi/internal/visa"
)

// placeholder matches {} and {:spec} in message templates.
var placeholder = regexp.MustCompile(`\{(?::([^}]*))?\}`)

// errRejected marks a setter value that failed its specs.
var errRejected = errors.New("value rejected")

// device is the runtime state of a simulated instrument.
type device struct {
	// def is the static behavior.
	def *Device
	// propertyNames lists properties in a stable order.
	propertyNames []string

	// mu guards values and output.
	mu sync.Mutex
	// values holds the current property values.
	values map[string]string
	// output holds responses not read yet.
	output []byte
}

// newDevice initializes property values from their defaults.
func newDevice(def *Device) *device {
	d := &device{
		def:    def,
		values: make(map[string]string, len(def.Properties)),
	}

	for name, prop := range def.Properties {
		d.propertyNames = append(d.propertyNames, name)
		d.values[name] = prop.Default
	}

	slices.Sort(d.propertyNames)

	return d
}

// handle processes one incoming message and queues the responses.
func (d *device) handle(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	msg = strings.TrimSpace(strings.TrimSuffix(msg, d.def.EOM.Query))

	for _, resp := range d.respond(msg) {
		d.output = append(d.output, resp...)
		d.output = append(d.output, d.def.EOM.Response...)
	}

	if d.def.Handshake != "" {
		d.output = append(d.output, d.def.Handshake...)
		d.output = append(d.output, d.def.EOM.Response...)
	}
}

// respond returns the responses to msg, without terminations.
func (d *device) respond(msg string) [][]byte {
	for _, dlg := range d.def.Dialogues {
		if !strings.EqualFold(dlg.Query, msg) {
			continue
		}

		if dlg.Block != nil {
			payload, err := visa.EncodeBinary(dlg.Block, dlg.Datatype, false)
			if err != nil {
				return d.errorResponse("")
			}

			return [][]byte{visa.EncodeIEEEBlock(payload)}
		}

		if dlg.Response == "" {
			return nil
		}

		return [][]byte{[]byte(dlg.Response)}
	}

	for _, name := range d.propertyNames {
		prop := d.def.Properties[name]

		if prop.Getter.Query != "" && strings.EqualFold(prop.Getter.Query, msg) {
			return [][]byte{[]byte(formatTemplate(prop.Getter.Response, d.values[name]))}
		}

		value, ok := matchTemplate(prop.Setter.Query, msg)
		if !ok {
			continue
		}

		accepted, err := prop.Specs.accept(value)
		if err != nil {
			return d.errorResponse(prop.Setter.Error)
		}

		d.values[name] = accepted

		if prop.Setter.Response == "" {
			return nil
		}

		return [][]byte{[]byte(formatTemplate(prop.Setter.Response, accepted))}
	}

	return d.errorResponse("")
}

// errorResponse answers with override, else the device error, else nothing.
func (d *device) errorResponse(override string) [][]byte {
	switch {
	case override != "":
		return [][]byte{[]byte(override)}
	case d.def.Error != "":
		return [][]byte{[]byte(d.def.Error)}
	default:
		return nil
	}
}

// next removes and returns queued output: size bytes when size > 0,
// otherwise up to and including the response termination.
// It reports false when not enough output is queued.
func (d *device) next(size int) ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.output) == 0 {
		return nil, false
	}

	end := len(d.output)

	if size > 0 {
		if len(d.output) < size {
			return nil, false
		}

		end = size
	} else if idx := bytes.Index(d.output, []byte(d.def.EOM.Response)); idx >= 0 {
		end = idx + len(d.def.EOM.Response)
	}

	out := slices.Clone(d.output[:end])
	d.output = d.output[end:]

	return out, true
}

// value returns the current value of a property.
func (d *device) value(name string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	v, ok := d.values[name]

	return v, ok
}

// accept validates value against the specs and returns its stored form.
func (s Specs) accept(value string) (string, error) {
	if len(s.Valid) > 0 {
		idx := slices.IndexFunc(s.Valid, func(v string) bool {
			return strings.EqualFold(v, value)
		})
		if idx < 0 {
			return "", fmt.Errorf("%w: %q is not one of %v", errRejected, value, s.Valid)
		}

		value = s.Valid[idx]
	}

	switch s.Type {
	case "int", "float":
		number, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "", fmt.Errorf("%w: %q is not a number", errRejected, value)
		}

		if s.Type == "int" && number != math.Trunc(number) {
			return "", fmt.Errorf("%w: %q is not an integer", errRejected, value)
		}

		if s.Min != nil && number < *s.Min {
			return "", fmt.Errorf("%w: %q is below %v", errRejected, value, *s.Min)
		}

		if s.Max != nil && number > *s.Max {
			return "", fmt.Errorf("%w: %q is above %v", errRejected, value, *s.Max)
		}
	}

	return value, nil
}

// formatTemplate renders value into the first placeholder of tpl.
func formatTemplate(tpl, value string) string {
	loc := placeholder.FindStringSubmatchIndex(tpl)
	if loc == nil {
		return tpl
	}

	spec := ""
	if loc[2] >= 0 {
		spec = tpl[loc[2]:loc[3]]
	}

	return tpl[:loc[0]] + formatValue(spec, value) + tpl[loc[1]:]
}

// formatValue applies a format spec such as d, .2f or e to value.
func formatValue(spec, value string) string {
	if spec == "" || spec == "s" {
		return value
	}

	number, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}

	switch {
	case spec == "d":
		return strconv.FormatInt(int64(number), 10)
	case spec == "e":
		return fmt.Sprintf("%e", number)
	case strings.HasSuffix(spec, "f"):
		return fmt.Sprintf("%"+spec, number)
	default:
		return value
	}
}

// matchTemplate matches msg against a setter template and extracts the value.
func matchTemplate(tpl, msg string) (string, bool) {
	if tpl == "" {
		return "", false
	}

	loc := placeholder.FindStringIndex(tpl)
	if loc == nil {
		return "", false
	}

	prefix, suffix := tpl[:loc[0]], tpl[loc[1]:]
	if len(msg) < len(prefix)+len(suffix) {
		return "", false
	}

	if !strings.EqualFold(msg[:len(prefix)], prefix) || !strings.EqualFold(msg[len(msg)-len(suffix):], suffix) {
		return "", false
	}

	value := strings.TrimSpace(msg[len(prefix) : len(msg)-len(suffix)])
	if value == "" {
		return "", false
	}

	return value, true
}
