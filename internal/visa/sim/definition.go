package sim

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/easy-scpi/internal/visa"
)

//go:embed default.yaml
var defaultDefinition []byte

// defaultEOM terminates queries and responses when a device sets none.
const defaultEOM = "\n"

// Definition describes simulated devices and the resources exposing them.
type Definition struct {
	// Spec is the version of the definition format.
	Spec string `yaml:"spec"`
	// Devices maps a device name to its behavior.
	Devices map[string]*Device `yaml:"devices"`
	// Resources maps a resource name to the device behind it.
	Resources map[string]Resource `yaml:"resources"`
}

// Device describes how one simulated instrument answers messages.
type Device struct {
	// EOM holds the query and response terminations.
	EOM EOM `yaml:"eom"`
	// Error is the response to unknown or rejected messages; empty means silence.
	Error string `yaml:"error"`
	// Handshake is an extra response sent after every processed message.
	Handshake string `yaml:"handshake"`
	// Dialogues are fixed query/response pairs.
	Dialogues []Dialogue `yaml:"dialogues"`
	// Properties are named values with getter and setter messages.
	Properties map[string]*Property `yaml:"properties"`
}

// EOM holds end-of-message strings.
type EOM struct {
	// Query terminates incoming messages.
	Query string `yaml:"q"`
	// Response terminates outgoing responses.
	Response string `yaml:"r"`
}

// Dialogue is a fixed query and its response.
type Dialogue struct {
	// Query is the message to match, compared case-insensitively.
	Query string `yaml:"q"`
	// Response is the text answer; empty means no answer.
	Response string `yaml:"r"`
	// Block, when set, is answered as an IEEE 488.2 binary block instead of Response.
	Block []float64 `yaml:"block"`
	// Datatype encodes Block values; defaults to float32.
	Datatype string `yaml:"datatype"`
}

// Property is a device value readable and writable through messages.
type Property struct {
	// Default is the initial value.
	Default string `yaml:"default"`
	// Getter answers the current value, formatted by its response template.
	Getter Message `yaml:"getter"`
	// Setter accepts a new value through its query template.
	Setter Message `yaml:"setter"`
	// Specs restrict accepted values.
	Specs Specs `yaml:"specs"`
}

// Message is a getter or setter template.
type Message struct {
	// Query is the message template with at most one {} placeholder.
	Query string `yaml:"q"`
	// Response is the answer template.
	Response string `yaml:"r"`
	// Error is the answer when a value is rejected.
	Error string `yaml:"e"`
}

// Specs restrict the values a property accepts.
type Specs struct {
	// Type is one of int, float or str.
	Type string `yaml:"type"`
	// Min is the inclusive lower bound of numeric values.
	Min *float64 `yaml:"min"`
	// Max is the inclusive upper bound of numeric values.
	Max *float64 `yaml:"max"`
	// Valid lists the accepted values, compared case-insensitively.
	Valid []string `yaml:"valid"`
}

// Resource binds a resource name to a device.
type Resource struct {
	// Device is the key of the device in Definition.Devices.
	Device string `yaml:"device"`
}

var (
	// errNoResources is returned for definitions exposing nothing.
	errNoResources = errors.New("definition has no resources")
	// errUnknownDevice is returned when a resource points at a missing device.
	errUnknownDevice = errors.New("unknown device")
)

// DefaultDefinition returns the built-in set of simulated instruments.
func DefaultDefinition() (*Definition, error) {
	return ParseDefinition(defaultDefinition)
}

// LoadDefinition reads a definition from a YAML file.
func LoadDefinition(path string) (*Definition, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read simulation definition: %w", err)
	}

	return ParseDefinition(contents)
}

// ParseDefinition decodes and validates a YAML definition.
func ParseDefinition(contents []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(contents, &def); err != nil {
		return nil, fmt.Errorf("unmarshal simulation definition: %w", err)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return &def, nil
}

// Validate checks resource names and device references and fills default terminations.
func (d *Definition) Validate() error {
	if len(d.Resources) == 0 {
		return errNoResources
	}

	for name, res := range d.Resources {
		if _, err := visa.ParseResourceName(name); err != nil {
			return err
		}

		if _, ok := d.Devices[res.Device]; !ok {
			return fmt.Errorf("resource %s: %w %q", name, errUnknownDevice, res.Device)
		}
	}

	for name, dev := range d.Devices {
		if dev == nil {
			return fmt.Errorf("device %s: %w", name, errUnknownDevice)
		}

		if dev.EOM.Query == "" {
			dev.EOM.Query = defaultEOM
		}

		if dev.EOM.Response == "" {
			dev.EOM.Response = defaultEOM
		}

		for propName, prop := range dev.Properties {
			if prop == nil {
				return fmt.Errorf("device %s: property %s is empty", name, propName)
			}

			if prop.Setter.Query != "" && placeholder.FindStringIndex(prop.Setter.Query) == nil {
				return fmt.Errorf("device %s: setter of %s has no placeholder", name, propName)
			}
		}
	}

	return nil
}
