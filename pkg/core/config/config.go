// ============================================================================
// trump - expression language front-end
// ============================================================================
//
// Package:     config
// Description: Typed application configuration loaded from TOML or YAML
// Author:      abyanmajid
// Created:     2026-10-17
// License:     MIT
// ============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/abyanmajid/trump/foundation/core/error"
)

// EnvConfigPath names the environment variable holding the config path
const EnvConfigPath = "TRUMP_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Parser  ParserConfig  `toml:"parser" yaml:"parser"`
	Output  OutputConfig  `toml:"output" yaml:"output"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
	History HistoryConfig `toml:"history" yaml:"history"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name      string `toml:"name" yaml:"name"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// ParserConfig holds front-end settings
type ParserConfig struct {
	// PowerAssociativity is "right" (default) or "left"
	PowerAssociativity string `toml:"power_associativity" yaml:"power_associativity"`
	MaxSourceLength    int    `toml:"max_source_length" yaml:"max_source_length"`
}

// OutputConfig controls how results are printed
type OutputConfig struct {
	// Format is one of tree, json or yaml
	Format string `toml:"format" yaml:"format"`
	Color  bool   `toml:"color" yaml:"color"`
	Indent string `toml:"indent" yaml:"indent"`
}

// ServerConfig holds settings of the inspection server
type ServerConfig struct {
	Host             string   `toml:"host" yaml:"host"`
	HTTPPort         int      `toml:"http_port" yaml:"http_port"`
	GRPCPort         int      `toml:"grpc_port" yaml:"grpc_port"`
	ReadTimeout      Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout     Duration `toml:"write_timeout" yaml:"write_timeout"`
	EnableReflection bool     `toml:"enable_reflection" yaml:"enable_reflection"`
}

// HistoryConfig holds settings of the parse history store
type HistoryConfig struct {
	Enabled    bool   `toml:"enabled" yaml:"enabled"`
	Path       string `toml:"path" yaml:"path"`
	MaxEntries int    `toml:"max_entries" yaml:"max_entries"`
}

// Duration wraps time.Duration for text based config formats
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

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mdwerror.New(fmt.Sprintf("config file not found: %s", path)).
				WithCode(mdwerror.CodeNotFound).
				WithOperation("config.Load")
		}
		return nil, mdwerror.Wrap(err, "failed to read config").WithCode(mdwerror.CodeConfigError)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = toml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeConfigError).
			WithDetail("path", path)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads the file named by TRUMP_CONFIG or the first default
// location that exists. Without any file it returns the defaults.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return Load(path)
	}

	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

// DefaultPaths lists the locations searched by LoadFromEnv
func DefaultPaths() []string {
	paths := []string{
		"./trump.toml",
		"./trump.yaml",
		"./configs/trump.toml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "trump", "config.toml"))
	}
	return paths
}

// Validate checks values that have no sensible fallback
func (c *Config) Validate() error {
	switch strings.ToLower(c.Parser.PowerAssociativity) {
	case "left", "right":
	default:
		return invalid("parser.power_associativity", c.Parser.PowerAssociativity)
	}
	switch c.Output.Format {
	case "tree", "json", "yaml":
	default:
		return invalid("output.format", c.Output.Format)
	}
	if c.Server.HTTPPort < 0 || c.Server.HTTPPort > 65535 {
		return invalid("server.http_port", c.Server.HTTPPort)
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 {
		return invalid("server.grpc_port", c.Server.GRPCPort)
	}
	return nil
}

func invalid(key string, value interface{}) error {
	return mdwerror.New(fmt.Sprintf("invalid value for %s: %v", key, value)).
		WithCode(mdwerror.CodeInvalidConfig).
		WithOperation("config.Validate").
		WithDetail("key", key)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "trump"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "warn"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "console"
	}

	// Parser
	if c.Parser.PowerAssociativity == "" {
		c.Parser.PowerAssociativity = "right"
	}
	if c.Parser.MaxSourceLength == 0 {
		c.Parser.MaxSourceLength = 1 << 20
	}

	// Output
	if c.Output.Format == "" {
		c.Output.Format = "tree"
	}
	if c.Output.Indent == "" {
		c.Output.Indent = "  "
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.GRPCPort == 0 {
		c.Server.GRPCPort = 9090
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 15 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 15 * time.Second
	}

	// History
	if c.History.Path == "" {
		c.History.Path = "./data/history.db"
	}
	if c.History.MaxEntries == 0 {
		c.History.MaxEntries = 1000
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.History.Path = os.ExpandEnv(c.History.Path)
}

// HTTPAddress returns host:port of the HTTP listener
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
}

// GRPCAddress returns host:port of the gRPC listener
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
}
