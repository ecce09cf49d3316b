// Package config provides configuration management for wtr.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/wikitext-cli/pkg/wikitext"
)

// Defaults applied when a field is unset.
const (
	DefaultAddr        = "127.0.0.1:8420"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "console"
	DefaultConcurrency = 4
	DefaultCacheSize   = 256
)

// Config holds the wtr configuration.
type Config struct {
	// Rendering
	Mode          string            `yaml:"mode,omitempty"`
	MaxInputBytes int               `yaml:"max_input_bytes,omitempty"`
	MaxDepth      int               `yaml:"max_depth,omitempty"`
	Preprocess    bool              `yaml:"preprocess,omitempty"`
	StrictInline  bool              `yaml:"strict_inline,omitempty"`
	Severity      map[string]string `yaml:"severity,omitempty"`

	// Render worker
	Addr        string `yaml:"addr,omitempty"`
	ServerURL   string `yaml:"server_url,omitempty"`
	Concurrency int    `yaml:"concurrency,omitempty"`
	CacheSize   int    `yaml:"cache_size,omitempty"`

	// Output
	LogLevel     string `yaml:"log_level,omitempty"`
	LogFormat    string `yaml:"log_format,omitempty"`
	OutputFormat string `yaml:"output_format,omitempty"`
}

// Validate checks that all set fields hold usable values.
func (c *Config) Validate() error {
	if c.Mode != "" {
		if _, err := wikitext.ParseMode(c.Mode); err != nil {
			return fmt.Errorf("mode: %w", err)
		}
	}
	if c.MaxInputBytes < 0 {
		return errors.New("max_input_bytes must not be negative")
	}
	if c.MaxDepth < 0 {
		return errors.New("max_depth must not be negative")
	}
	if c.Concurrency < 0 {
		return errors.New("concurrency must not be negative")
	}
	if c.CacheSize < 0 {
		return errors.New("cache_size must not be negative")
	}
	for rule, kind := range c.Severity {
		if kind != wikitext.KindWarning && kind != wikitext.KindError {
			return fmt.Errorf("severity for %s must be %q or %q", rule, wikitext.KindWarning, wikitext.KindError)
		}
	}
	if c.ServerURL != "" && !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		return errors.New("server_url must use http or https")
	}
	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	if c.LogFormat != "" && c.LogFormat != "json" && c.LogFormat != "console" {
		return errors.New("log_format must be json or console")
	}

	return nil
}

// ApplyDefaults fills unset worker and logging fields.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.CacheSize == 0 {
		c.CacheSize = DefaultCacheSize
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
}

// Settings converts the rendering fields to engine settings. Unset limits
// keep the engine defaults.
func (c *Config) Settings() wikitext.Settings {
	s := wikitext.DefaultSettings()
	if c.Mode != "" {
		if m, err := wikitext.ParseMode(c.Mode); err == nil {
			s.Mode = m
		}
	}
	if c.MaxInputBytes > 0 {
		s.MaxInputBytes = c.MaxInputBytes
	}
	if c.MaxDepth > 0 {
		s.MaxDepth = c.MaxDepth
	}
	s.Preprocess = c.Preprocess
	s.StrictInline = c.StrictInline
	s.Severity = c.Severity
	return s
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("WTR_MODE"); v != "" {
		c.Mode = v
	}
	if n, ok := envInt("WTR_MAX_INPUT_BYTES"); ok {
		c.MaxInputBytes = n
	}
	if n, ok := envInt("WTR_MAX_DEPTH"); ok {
		c.MaxDepth = n
	}
	if b, ok := envBool("WTR_PREPROCESS"); ok {
		c.Preprocess = b
	}
	if b, ok := envBool("WTR_STRICT_INLINE"); ok {
		c.StrictInline = b
	}
	if v := os.Getenv("WTR_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("WTR_SERVER_URL"); v != "" {
		c.ServerURL = v
	}
	if n, ok := envInt("WTR_CONCURRENCY"); ok {
		c.Concurrency = n
	}
	if n, ok := envInt("WTR_CACHE_SIZE"); ok {
		c.CacheSize = n
	}
	if v := os.Getenv("WTR_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("WTR_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
}

// envInt returns the integer value of key; unparsable values are ignored.
func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	// Try XDG config directory first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "wtr", "config.yml")
	}

	// Fall back to ~/.config/wtr/config.yml
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".wtr", "config.yml")
	}

	return filepath.Join(home, ".config", "wtr", "config.yml")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		// If file doesn't exist, start with empty config
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	return cfg, nil
}

// Resolve loads the configuration a command runs with: the file at path (or
// the default path when empty) with environment overrides, validated.
func Resolve(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg, err := LoadWithEnv(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
