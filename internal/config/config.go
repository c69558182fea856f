// Package config provides configuration management for recipechain.
//
// Config file locations (priority order):
//  1. $RECIPECHAIN_CONFIG
//  2. ./recipechain.yaml or ./recipechain.toml
//  3. $XDG_CONFIG_HOME/recipechain/config.yaml
//  4. ~/.config/recipechain/config.yaml
//  5. /etc/recipechain/config.yaml
//
// Files ending in .toml are decoded as TOML, everything else as YAML. A
// .env file in the working directory is loaded into the environment first
// and RECIPECHAIN_* variables override file values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"recipechain/internal/layout"
)

// ErrInvalid is returned when a loaded config fails validation
var ErrInvalid = errors.New("invalid config")

var validate = validator.New()

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	return LoadExplicit("")
}

// LoadExplicit loads the config at path, or searches like Load when path is
// empty. The .env file and environment overrides are applied either way.
func LoadExplicit(path string) (*Config, string, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, "", err
	}

	if path == "" {
		path = FindConfigPath()
	}

	var cfg *Config
	if path == "" {
		cfg = DefaultConfig()
	} else {
		var err error
		if cfg, _, err = LoadFromPath(path); err != nil {
			return nil, path, err
		}
	}

	ApplyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return cfg, path, nil
}

// Save writes config to the specified path in the format its extension names
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(c); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Server: ServerConfig{
			Addr:            ":3000",
			ReadTimeout:     Duration(15 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Data: DataConfig{
			Dir:      "./data",
			Watch:    true,
			Debounce: Duration(500 * time.Millisecond),
		},
		Database: DatabaseConfig{Path: "./recipechain.db"},
		Layout: LayoutConfig{
			Profile:       layout.ProfileBalanced,
			Width:         1000,
			Height:        600,
			FrameInterval: Duration(16 * time.Millisecond),
			MaxIterations: 300,
		},
	}
}

// applyDefaults fills in values a partial file left empty
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Version == 0 {
		c.Version = d.Version
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = d.Server.ShutdownTimeout
	}
	if c.Data.Dir == "" {
		c.Data.Dir = d.Data.Dir
	}
	if c.Database.Path == "" {
		c.Database.Path = d.Database.Path
	}
	if c.Layout.Profile == "" {
		c.Layout.Profile = d.Layout.Profile
	}
	if c.Layout.Width <= 0 {
		c.Layout.Width = d.Layout.Width
	}
	if c.Layout.Height <= 0 {
		c.Layout.Height = d.Layout.Height
	}
	if c.Layout.FrameInterval == 0 {
		c.Layout.FrameInterval = d.Layout.FrameInterval
	}
	if c.Layout.MaxIterations == 0 {
		c.Layout.MaxIterations = d.Layout.MaxIterations
	}
}

// Validate checks the config against its struct tags
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// EffectiveLayout returns the force parameters of the configured profile
// with overrides and canvas size applied
func (c *Config) EffectiveLayout() layout.Config {
	base := layout.ParseProfile(string(c.Layout.Profile)).Config()
	base.Width = c.Layout.Width
	base.Height = c.Layout.Height
	base.Seed = c.Layout.Seed

	o := c.Layout.Overrides
	if o == nil {
		return base
	}
	if o.LinkDistance != nil {
		base.LinkDistance = *o.LinkDistance
	}
	if o.LinkStrength != nil {
		base.LinkStrength = *o.LinkStrength
	}
	if o.Charge != nil {
		base.Charge = *o.Charge
	}
	if o.CollideRadius != nil {
		base.CollideRadius = *o.CollideRadius
	}
	if o.VelocityDecay != nil {
		base.VelocityDecay = *o.VelocityDecay
	}
	return base
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	l := c.EffectiveLayout()
	summary := fmt.Sprintf("Addr: %s, Data: %s (watch: %t), DB: %s\n",
		c.Server.Addr, c.Data.Dir, c.Data.Watch, c.Database.Path)
	summary += fmt.Sprintf("Layout: %s (link %.0f, charge %.0f, collide %.0f), canvas %.0fx%.0f",
		c.Layout.Profile, l.LinkDistance, l.Charge, l.CollideRadius, c.Layout.Width, c.Layout.Height)
	return summary
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
