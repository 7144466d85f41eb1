// ABOUTME: Configuration loading and parsing for coven-control.
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing.

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/2389/coven-control/internal/actions"
	"github.com/2389/coven-control/internal/capability"
)

// Config represents the complete coven-control configuration.
type Config struct {
	Database     DatabaseConfig     `yaml:"database"`
	Catalog      CatalogConfig      `yaml:"catalog"`
	Capabilities CapabilitiesConfig `yaml:"capabilities"`
	Actions      ActionsConfig      `yaml:"actions"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// DatabaseConfig holds settings store configuration.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CatalogConfig points at the tool manifest seeded at startup.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// CapabilitiesConfig holds capability gate configuration.
type CapabilitiesConfig struct {
	CacheTTL time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	CacheTTLRaw string `yaml:"cache_ttl"`
}

// ActionsConfig holds pending action store configuration.
type ActionsConfig struct {
	TTL           time.Duration `yaml:"-"`
	SweepInterval time.Duration `yaml:"-"`

	// Raw string values for YAML unmarshaling
	TTLRaw           string `yaml:"ttl"`
	SweepIntervalRaw string `yaml:"sweep_interval"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyDefaults fills in defaults for optional settings.
func (c *Config) applyDefaults() {
	if c.Capabilities.CacheTTL == 0 {
		c.Capabilities.CacheTTL = capability.DefaultCacheTTL
	}
	if c.Actions.TTL == 0 {
		c.Actions.TTL = actions.DefaultTTL
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format)
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values.
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Capabilities.CacheTTLRaw != "" {
		cfg.Capabilities.CacheTTL, err = time.ParseDuration(cfg.Capabilities.CacheTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing cache_ttl %q: %w", cfg.Capabilities.CacheTTLRaw, err)
		}
	}

	if cfg.Actions.TTLRaw != "" {
		cfg.Actions.TTL, err = time.ParseDuration(cfg.Actions.TTLRaw)
		if err != nil {
			return fmt.Errorf("parsing ttl %q: %w", cfg.Actions.TTLRaw, err)
		}
	}

	if cfg.Actions.SweepIntervalRaw != "" {
		cfg.Actions.SweepInterval, err = time.ParseDuration(cfg.Actions.SweepIntervalRaw)
		if err != nil {
			return fmt.Errorf("parsing sweep_interval %q: %w", cfg.Actions.SweepIntervalRaw, err)
		}
	}

	return nil
}
