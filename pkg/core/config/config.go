// ============================================================================
// VibeScript (vbs) - Interpreter & Playground
// ============================================================================
//
// Package:     config
// Description: TOML configuration for the vibe CLI and playground server
// Author:      Mike Stoffels
// Created:     2026-09-21
// License:     MIT
// ============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the complete application configuration
type Config struct {
	General     GeneralConfig     `toml:"general"`
	Server      ServerConfig      `toml:"server"`
	Interpreter InterpreterConfig `toml:"interpreter"`
	Store       StoreConfig       `toml:"store"`
	Catalog     CatalogConfig     `toml:"catalog"`
	Logging     LoggingConfig     `toml:"logging"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name        string `toml:"name"`
	Environment string `toml:"environment"`
	DataDir     string `toml:"data_dir"`
}

// ServerConfig holds playground server configuration
type ServerConfig struct {
	Port           int        `toml:"port"`
	Host           string     `toml:"host"`
	ReadTimeout    Duration   `toml:"read_timeout"`
	WriteTimeout   Duration   `toml:"write_timeout"`
	RunTimeout     Duration   `toml:"run_timeout"`
	MaxRequestSize int64      `toml:"max_request_size"`
	CORS           CORSConfig `toml:"cors"`
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	Enabled        bool     `toml:"enabled"`
	AllowedOrigins []string `toml:"allowed_origins"`
	AllowedMethods []string `toml:"allowed_methods"`
}

// InterpreterConfig holds runtime limits and the parse cache
type InterpreterConfig struct {
	MaxSteps        int      `toml:"max_steps"`
	MaxCallDepth    int      `toml:"max_call_depth"`
	MaxSourceLength int      `toml:"max_source_length"`
	CacheSize       int      `toml:"cache_size"`
	CacheTTL        Duration `toml:"cache_ttl"`
}

// StoreConfig holds run history settings
type StoreConfig struct {
	Path          string   `toml:"path"`
	RetentionDays int      `toml:"retention_days"`
	PruneInterval Duration `toml:"prune_interval"`
}

// CatalogConfig holds example catalog settings
type CatalogConfig struct {
	Dir     string `toml:"dir"`
	Watch   bool   `toml:"watch"`
	RepoURL string `toml:"repo_url"`
	Ref     string `toml:"ref"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level       string   `toml:"level"`
	Format      string   `toml:"format"`
	ToStore     bool     `toml:"to_store"`
	BatchSize   int      `toml:"batch_size"`
	FlushPeriod Duration `toml:"flush_period"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with all defaults applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	return cfg
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()
	cfg.applyEnvOverrides()

	return &cfg, nil
}

// LoadFromEnv loads configuration from the VIBE_CONFIG environment variable
// or the first default location that exists
func LoadFromEnv() (*Config, error) {
	path := os.Getenv("VIBE_CONFIG")
	if path == "" {
		defaultPaths := []string{
			"./configs/config.toml",
			"./config.toml",
			filepath.Join(os.Getenv("HOME"), ".config/vibescript/config.toml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return nil, fmt.Errorf("no config file found, set VIBE_CONFIG or create configs/config.toml")
	}

	return Load(path)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "VibeScript"
	}
	if c.General.Environment == "" {
		c.General.Environment = "development"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}

	// Server
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 30 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 60 * time.Second
	}
	if c.Server.RunTimeout.Duration == 0 {
		c.Server.RunTimeout.Duration = 5 * time.Second
	}
	if c.Server.MaxRequestSize == 0 {
		c.Server.MaxRequestSize = 1 << 20
	}
	if len(c.Server.CORS.AllowedOrigins) == 0 {
		c.Server.CORS.AllowedOrigins = []string{"*"}
	}
	if len(c.Server.CORS.AllowedMethods) == 0 {
		c.Server.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}

	// Interpreter
	if c.Interpreter.MaxSteps == 0 {
		c.Interpreter.MaxSteps = 1_000_000
	}
	if c.Interpreter.MaxCallDepth == 0 {
		c.Interpreter.MaxCallDepth = 256
	}
	if c.Interpreter.MaxSourceLength == 0 {
		c.Interpreter.MaxSourceLength = 1 << 20
	}
	if c.Interpreter.CacheSize == 0 {
		c.Interpreter.CacheSize = 512
	}
	if c.Interpreter.CacheTTL.Duration == 0 {
		c.Interpreter.CacheTTL.Duration = 30 * time.Minute
	}

	// Store
	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(c.General.DataDir, "vibe.db")
	}
	if c.Store.RetentionDays == 0 {
		c.Store.RetentionDays = 30
	}
	if c.Store.PruneInterval.Duration == 0 {
		c.Store.PruneInterval.Duration = time.Hour
	}

	// Catalog
	if c.Catalog.Dir == "" {
		c.Catalog.Dir = "./examples"
	}

	// Logging
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.BatchSize == 0 {
		c.Logging.BatchSize = 100
	}
	if c.Logging.FlushPeriod.Duration == 0 {
		c.Logging.FlushPeriod.Duration = 5 * time.Second
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.Store.Path = os.ExpandEnv(c.Store.Path)
	c.Catalog.Dir = os.ExpandEnv(c.Catalog.Dir)
}

// applyEnvOverrides lets the environment override selected settings
func (c *Config) applyEnvOverrides() {
	if host := os.Getenv("VIBE_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("VIBE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 {
			c.Server.Port = p
		}
	}
	if level := os.Getenv("VIBE_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Address returns the listen address of the playground server
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// RetentionPeriod returns how long runs are kept in the store
func (c *Config) RetentionPeriod() time.Duration {
	return time.Duration(c.Store.RetentionDays) * 24 * time.Hour
}
