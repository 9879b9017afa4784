package config

import (
	"errors"
	"fmt"
	"maps"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/easy-scpi/internal/visa"
)

// Config holds the settings shared by the scpi commands.
type Config struct {
	// Instrument describes how to reach the instrument.
	Instrument Instrument `yaml:"instrument"`
	// Gateway configures the serve command.
	Gateway Gateway `yaml:"gateway"`
	// Timeout bounds a single command and every gateway call.
	Timeout time.Duration `yaml:"timeout"`
}

// Instrument describes the instrument connection.
type Instrument struct {
	// Port is resolved into a resource id, e.g. "COM3" or "/dev/ttyUSB0".
	Port string `yaml:"port,omitempty"`
	// Resource is a full resource id, used when Port is empty.
	Resource string `yaml:"resource,omitempty"`
	// PortMatch verifies the port against listed resources; nil means true.
	PortMatch *bool `yaml:"port_match,omitempty"`
	// Backend selects the backend, e.g. "@sim" or "10.0.0.2:5050@remote".
	Backend string `yaml:"backend,omitempty"`
	// Handshake is read after every command when set.
	Handshake string `yaml:"handshake,omitempty"`
	// ArgSeparator joins command arguments.
	ArgSeparator string `yaml:"arg_separator,omitempty"`
	// PrefixCommands prefixes root commands with a colon.
	PrefixCommands bool `yaml:"prefix_commands,omitempty"`
	// ExplicitRemote replaces *IDN? as the command sent on connect.
	ExplicitRemote string `yaml:"explicit_remote,omitempty"`
	// Params are resource attributes such as timeout or read_termination.
	Params map[string]string `yaml:"params,omitempty"`
}

// Gateway configures the gRPC gateway.
type Gateway struct {
	// ListenAddress is the TCP address the gateway listens on.
	ListenAddress string `yaml:"listen_address"`
	// StateFile is the path to the JSON file storing the gateway state.
	StateFile string `yaml:"state_file"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "scpi-settings.yaml"

	// DefaultStateFilename is the default filename for the gateway state JSON.
	DefaultStateFilename = "scpi-gateway-state.json"

	// DefaultListenAddress is the default gateway listen address.
	DefaultListenAddress = ":5050"

	// DefaultTimeout is the default duration of a command or gateway call.
	DefaultTimeout = 5 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errPortAndResource is returned when both a port and a resource id are set.
	errPortAndResource = errors.New("instrument port and resource are mutually exclusive")
)

// Default returns a validated configuration with every default applied.
func Default() *Config {
	cfg := new(Config)

	// Validate only fills defaults on an empty config.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOptional behaves like Load but returns defaults when the file does not exist.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return cfg, err
}

// Save writes Settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings and fills defaults.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	inst := &settings.Instrument

	if inst.Port != "" && inst.Resource != "" {
		return errPortAndResource
	}

	if _, err := inst.ResourceParams(); err != nil {
		return err
	}

	if inst.ArgSeparator == "" {
		inst.ArgSeparator = ","
	}

	if settings.Gateway.ListenAddress == "" {
		settings.Gateway.ListenAddress = DefaultListenAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.Gateway.ListenAddress); err != nil {
		return fmt.Errorf("invalid gateway listen address: %w", err)
	}

	// Set default timeout if not specified
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	// Set default state file if not specified
	if settings.Gateway.StateFile == "" {
		settings.Gateway.StateFile = DefaultStateFilename
	}

	return nil
}

// MatchPort reports whether ports are verified against listed resources.
func (i *Instrument) MatchPort() bool {
	return i.PortMatch == nil || *i.PortMatch
}

// ResourceParams returns the default resource attributes with Params applied.
func (i *Instrument) ResourceParams() (visa.Params, error) {
	params := visa.DefaultParams()

	for name, value := range i.Params {
		if err := params.Set(name, value); err != nil {
			return visa.Params{}, fmt.Errorf("instrument params: %w", err)
		}
	}

	return params, nil
}

// Merge overlays the non-empty fields of override onto i.
// Params are merged key by key.
func (i *Instrument) Merge(override *Instrument) {
	if override == nil {
		return
	}

	if override.Port != "" || override.Resource != "" {
		i.Port = override.Port
		i.Resource = override.Resource
	}

	if override.PortMatch != nil {
		i.PortMatch = override.PortMatch
	}

	if override.Backend != "" {
		i.Backend = override.Backend
	}

	if override.Handshake != "" {
		i.Handshake = override.Handshake
	}

	if override.ArgSeparator != "" {
		i.ArgSeparator = override.ArgSeparator
	}

	if override.PrefixCommands {
		i.PrefixCommands = true
	}

	if override.ExplicitRemote != "" {
		i.ExplicitRemote = override.ExplicitRemote
	}

	if len(override.Params) > 0 {
		if i.Params == nil {
			i.Params = make(map[string]string, len(override.Params))
		}

		maps.Copy(i.Params, override.Params)
	}
}
