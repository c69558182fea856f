package config

import (
	"time"

	"recipechain/internal/layout"
	"recipechain/internal/logger"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version" toml:"version"`
	Server   ServerConfig   `yaml:"server" toml:"server"`
	Data     DataConfig     `yaml:"data" toml:"data"`
	Database DatabaseConfig `yaml:"database" toml:"database"`
	Layout   LayoutConfig   `yaml:"layout" toml:"layout"`
	Log      logger.Config  `yaml:"log" toml:"log"`
}

// ServerConfig holds HTTP server settings. A zero WriteTimeout disables
// the write deadline so event streams stay open.
type ServerConfig struct {
	Addr            string   `yaml:"addr" toml:"addr" validate:"required"`
	ReadTimeout     Duration `yaml:"read_timeout" toml:"read_timeout" validate:"gte=0"`
	WriteTimeout    Duration `yaml:"write_timeout" toml:"write_timeout" validate:"gte=0"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout" validate:"gt=0"`
	CORSOrigins     []string `yaml:"cors_origins,omitempty" toml:"cors_origins,omitempty"`
}

// DataConfig locates the dataset directory
type DataConfig struct {
	Dir      string   `yaml:"dir" toml:"dir" validate:"required"`
	Watch    bool     `yaml:"watch" toml:"watch"`
	Debounce Duration `yaml:"debounce" toml:"debounce" validate:"gte=0"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path" toml:"path" validate:"required"`
}

// LayoutConfig selects a force profile and the canvas the chain is laid out on
type LayoutConfig struct {
	Profile       layout.Profile  `yaml:"profile" toml:"profile" validate:"omitempty,oneof=compact balanced spacious"`
	Overrides     *LayoutOverride `yaml:"overrides,omitempty" toml:"overrides,omitempty"`
	Width         float64         `yaml:"width" toml:"width" validate:"gt=0"`
	Height        float64         `yaml:"height" toml:"height" validate:"gt=0"`
	FrameInterval Duration        `yaml:"frame_interval" toml:"frame_interval" validate:"gt=0"`
	MaxIterations int             `yaml:"max_iterations" toml:"max_iterations" validate:"gt=0"`
	Seed          uint64          `yaml:"seed,omitempty" toml:"seed,omitempty"`
}

// LayoutOverride allows overriding profile defaults
type LayoutOverride struct {
	LinkDistance  *float64 `yaml:"link_distance,omitempty" toml:"link_distance,omitempty" validate:"omitempty,gt=0"`
	LinkStrength  *float64 `yaml:"link_strength,omitempty" toml:"link_strength,omitempty" validate:"omitempty,gte=0,lte=1"`
	Charge        *float64 `yaml:"charge,omitempty" toml:"charge,omitempty"`
	CollideRadius *float64 `yaml:"collide_radius,omitempty" toml:"collide_radius,omitempty" validate:"omitempty,gte=0"`
	VelocityDecay *float64 `yaml:"velocity_decay,omitempty" toml:"velocity_decay,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// Duration wraps time.Duration so it reads and writes as "500ms" in YAML and TOML
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, used by TOML
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler, used by TOML
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
