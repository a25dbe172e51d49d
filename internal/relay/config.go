package relay

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rmacdonaldsmith/txrelay-go/pkg/tags"
)

var (
	// ErrEmptyEndpoint is returned when the feed endpoint is empty
	ErrEmptyEndpoint = errors.New("feed endpoint cannot be empty")
	// ErrEmptyPrefix is returned when the tag prefix is empty
	ErrEmptyPrefix = errors.New("tag prefix cannot be empty")
	// ErrInvalidPrefix is returned when the tag prefix is not valid trytes
	ErrInvalidPrefix = errors.New("tag prefix must be valid trytes")
	// ErrPrefixTooLong is returned when the tag prefix leaves no room for a kind code
	ErrPrefixTooLong = errors.New("tag prefix is too long")
)

// Config represents configuration for a FeedRelay
type Config struct {
	// Endpoint is the upstream feed address the transport connects to.
	// Format depends on the transport (e.g. "tcp://node:5556" for ZeroMQ).
	Endpoint string `yaml:"endpoint"`

	// Prefix is the marketplace tag prefix. Only transactions whose tag
	// starts with this prefix are dispatched.
	Prefix string `yaml:"prefix"`

	// NodeURL is the node HTTP API used for bundle payload lookups.
	NodeURL string `yaml:"node_url"`

	// ExtractTimeout bounds a single payload extraction.
	ExtractTimeout time.Duration `yaml:"extract_timeout"`
}

// NewConfig creates a new relay configuration with safe defaults.
func NewConfig(endpoint, prefix string) *Config {
	c := &Config{
		Endpoint: endpoint,
		Prefix:   prefix,
	}
	c.SetDefaults()
	return c
}

// SetDefaults fills in default values for unset fields.
func (c *Config) SetDefaults() {
	if c.ExtractTimeout <= 0 {
		c.ExtractTimeout = 30 * time.Second
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return ErrEmptyEndpoint
	}
	if c.Prefix == "" {
		return ErrEmptyPrefix
	}
	if !tags.Valid(c.Prefix) {
		return ErrInvalidPrefix
	}
	if len(c.Prefix) > tags.MaxPrefixLength {
		return ErrPrefixTooLong
	}
	return nil
}

// UnmarshalYAML decodes the config, accepting Go duration strings such as
// "10s" for extract_timeout.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type rawConfig struct {
		Endpoint       string `yaml:"endpoint"`
		Prefix         string `yaml:"prefix"`
		NodeURL        string `yaml:"node_url"`
		ExtractTimeout string `yaml:"extract_timeout"`
	}

	var raw rawConfig
	if err := value.Decode(&raw); err != nil {
		return err
	}

	c.Endpoint = raw.Endpoint
	c.Prefix = raw.Prefix
	c.NodeURL = raw.NodeURL
	if raw.ExtractTimeout != "" {
		d, err := time.ParseDuration(raw.ExtractTimeout)
		if err != nil {
			return fmt.Errorf("invalid extract_timeout: %w", err)
		}
		c.ExtractTimeout = d
	}
	return nil
}

// LoadConfigFile reads a YAML config file, applies defaults and validates.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.SetDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %s: %w", path, err)
	}

	return &config, nil
}
