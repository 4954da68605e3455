// ABOUTME: Configuration loading and parsing for podctl
// ABOUTME: Supports YAML or TOML files with environment variable expansion and duration parsing

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Defaults applied when a field is left empty.
const (
	DefaultAPIVersion   = "v4.2.0"
	DefaultMaxIdleConns = 10
	DefaultMetricsAddr  = "127.0.0.1:9464"
	DefaultMetricsPath  = "/metrics"
	rootfulSocketPath   = "/run/podman/podman.sock"
)

// Config represents the complete podctl configuration
type Config struct {
	Socket   SocketConfig   `yaml:"socket" toml:"socket"`
	Client   ClientConfig   `yaml:"client" toml:"client"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics" toml:"metrics"`
	Registry RegistryConfig `yaml:"registry" toml:"registry"`
}

// SocketConfig locates the podman service
type SocketConfig struct {
	Path       string `yaml:"path" toml:"path"`
	APIVersion string `yaml:"api_version" toml:"api_version"`
}

// ClientConfig tunes the HTTP client used over the socket
type ClientConfig struct {
	Timeout      time.Duration `yaml:"-" toml:"-"`
	MaxIdleConns int           `yaml:"max_idle_conns" toml:"max_idle_conns"`

	// Raw string value for unmarshaling
	TimeoutRaw string `yaml:"timeout" toml:"timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// MetricsConfig holds metrics endpoint configuration
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Addr    string `yaml:"addr" toml:"addr"`
	Path    string `yaml:"path" toml:"path"`
}

// RegistryConfig holds registry credentials for pulls
type RegistryConfig struct {
	// Auth is a ready-made X-Registry-Auth header value.
	Auth string `yaml:"auth" toml:"auth"`
}

// Default returns a configuration that talks to the default socket.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Files ending in .toml are parsed as TOML, everything else as YAML.
// Environment variables in the format ${VAR_NAME} are expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads path when it exists. A missing file at the default
// location is not an error; a missing file the user named explicitly is.
func LoadOrDefault(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !explicit {
		return Default(), nil
	}
	return Load(path)
}

// DefaultConfigPath returns $PODCTL_CONFIG, or config.yaml under the XDG
// config directory.
func DefaultConfigPath() string {
	if p := os.Getenv("PODCTL_CONFIG"); p != "" {
		return p
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "podctl", "config.yaml")
}

// DefaultSocketPath returns $PODMAN_SOCKET, the rootless socket under
// $XDG_RUNTIME_DIR, or the rootful socket.
func DefaultSocketPath() string {
	if p := os.Getenv("PODMAN_SOCKET"); p != "" {
		return strings.TrimPrefix(p, "unix://")
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "podman", "podman.sock")
	}
	return rootfulSocketPath
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

func applyDefaults(cfg *Config) {
	if cfg.Socket.Path == "" {
		cfg.Socket.Path = DefaultSocketPath()
	}
	if cfg.Socket.APIVersion == "" {
		cfg.Socket.APIVersion = DefaultAPIVersion
	}
	if cfg.Client.MaxIdleConns == 0 {
		cfg.Client.MaxIdleConns = DefaultMaxIdleConns
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = DefaultMetricsAddr
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}

// Validate checks that all configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Socket.Path == "" {
		return fmt.Errorf("socket.path is required")
	}
	if !filepath.IsAbs(c.Socket.Path) {
		return fmt.Errorf("socket.path must be absolute, got %q", c.Socket.Path)
	}
	if !strings.HasPrefix(c.Socket.APIVersion, "v") {
		return fmt.Errorf("socket.api_version must look like v4.2.0, got %q", c.Socket.APIVersion)
	}

	if c.Client.Timeout < 0 {
		return fmt.Errorf("client.timeout must not be negative")
	}
	if c.Client.MaxIdleConns < 0 {
		return fmt.Errorf("client.max_idle_conns must not be negative")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format %q must be json or text", c.Logging.Format)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Client.TimeoutRaw != "" {
		cfg.Client.Timeout, err = time.ParseDuration(cfg.Client.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing timeout %q: %w", cfg.Client.TimeoutRaw, err)
		}
	}

	return nil
}
