// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvConfig names the config file when no path is given on the command line.
const EnvConfig = "LARDER_CONFIG"

// Environment variables that override file settings.
const (
	EnvDatabase         = "LARDER_DATABASE"
	EnvLogLevel         = "LARDER_LOG_LEVEL"
	EnvPoolSize         = "LARDER_POOL_SIZE"
	EnvDescriptionLimit = "LARDER_DESCRIPTION_LIMIT"
	EnvListen           = "LARDER_LISTEN"
	EnvAllowedOrigins   = "LARDER_ALLOWED_ORIGINS"
)

// Config holds settings for the larder tools.
type Config struct {
	// Database is the directory of the BadgerDB store.
	Database string `yaml:"database"`

	// LogLevel is one of debug, info, warn or error.
	// Default: info
	LogLevel string `yaml:"log_level"`

	// PoolSize is the number of import validation workers.
	// Zero picks a size from the CPU count.
	PoolSize int `yaml:"pool_size"`

	// DescriptionLimit caps descriptions on recipe cards, in characters.
	// Zero disables the cap.
	// Default: 200
	DescriptionLimit int `yaml:"description_limit"`

	// Listen is the HTTP API address.
	// Default: "localhost:8080"
	Listen string `yaml:"listen"`

	// AllowedOrigins lists origins allowed to call the HTTP API from a
	// browser. Empty means same-origin only.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Option is a functional option for configuring a Config.
type Option func(*Config)

// WithDatabase sets the database directory.
func WithDatabase(path string) Option {
	return func(c *Config) {
		c.Database = path
	}
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) Option {
	return func(c *Config) {
		c.LogLevel = level
	}
}

// WithPoolSize sets the import worker pool size.
func WithPoolSize(size int) Option {
	return func(c *Config) {
		c.PoolSize = size
	}
}

// WithDescriptionLimit sets the recipe card description cap.
func WithDescriptionLimit(limit int) Option {
	return func(c *Config) {
		c.DescriptionLimit = limit
	}
}

// WithListen sets the HTTP API address.
func WithListen(addr string) Option {
	return func(c *Config) {
		c.Listen = addr
	}
}

// DefaultConfig returns a Config with defaults for local use.
func DefaultConfig() *Config {
	return &Config{
		Database:         "larder.db",
		LogLevel:         "info",
		DescriptionLimit: 200,
		Listen:           "localhost:8080",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
func NewConfig(opts ...Option) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Load reads a YAML config file over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads variables from .env files into the process environment
// without overriding variables already set. Missing files are ignored.
// With no paths it reads ".env" in the working directory.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDatabase); ok {
		c.Database = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvPoolSize); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvPoolSize, err)
		}
		c.PoolSize = n
	}
	if v, ok := lookup(EnvDescriptionLimit); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvDescriptionLimit, err)
		}
		c.DescriptionLimit = n
	}
	if v, ok := lookup(EnvListen); ok {
		c.Listen = v
	}
	if v, ok := lookup(EnvAllowedOrigins); ok {
		c.AllowedOrigins = strings.Split(v, ",")
	}
	return nil
}

// Normalize ensures the configuration is in a canonical form.
func (c *Config) Normalize() {
	c.Database = strings.TrimSpace(c.Database)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.Listen = strings.TrimSpace(c.Listen)

	var origins []string
	for _, o := range c.AllowedOrigins {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		if o != "" {
			origins = append(origins, o)
		}
	}
	c.AllowedOrigins = origins
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Database == "" {
		return errors.New("config: database is required")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.PoolSize < 0 {
		return errors.New("config: pool_size must not be negative")
	}
	if c.DescriptionLimit < 0 {
		return errors.New("config: description_limit must not be negative")
	}
	if c.Listen == "" {
		return errors.New("config: listen is required")
	}
	return nil
}

// SlogLevel converts LogLevel to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
}
