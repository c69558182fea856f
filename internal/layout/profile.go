package layout

import "math"

// Profile names a preset of force parameters
type Profile string

const (
	ProfileCompact  Profile = "compact"  // short links, weak repulsion
	ProfileBalanced Profile = "balanced" // default chain view
	ProfileSpacious Profile = "spacious" // long links, strong repulsion
)

// ParseProfile converts a string to Profile, defaulting to ProfileBalanced
func ParseProfile(s string) Profile {
	switch s {
	case "compact":
		return ProfileCompact
	case "balanced":
		return ProfileBalanced
	case "spacious":
		return ProfileSpacious
	default:
		return ProfileBalanced
	}
}

// Config holds the force and cooling parameters of a simulation
type Config struct {
	LinkDistance    float64 `yaml:"link_distance" toml:"link_distance" validate:"gt=0"`
	LinkStrength    float64 `yaml:"link_strength" toml:"link_strength" validate:"gte=0,lte=1"`
	Charge          float64 `yaml:"charge" toml:"charge"`
	DistanceMin     float64 `yaml:"distance_min" toml:"distance_min" validate:"gte=0"`
	CenterStrength  float64 `yaml:"center_strength" toml:"center_strength" validate:"gte=0,lte=1"`
	CollideRadius   float64 `yaml:"collide_radius" toml:"collide_radius" validate:"gte=0"`
	CollideStrength float64 `yaml:"collide_strength" toml:"collide_strength" validate:"gte=0,lte=1"`
	VelocityDecay   float64 `yaml:"velocity_decay" toml:"velocity_decay" validate:"gte=0,lte=1"`
	AlphaMin        float64 `yaml:"alpha_min" toml:"alpha_min" validate:"gt=0,lt=1"`
	AlphaDecay      float64 `yaml:"alpha_decay" toml:"alpha_decay" validate:"gte=0,lt=1"` // 0 derives it from AlphaMin
	Width           float64 `yaml:"width" toml:"width" validate:"gt=0"`
	Height          float64 `yaml:"height" toml:"height" validate:"gt=0"`
	Seed            uint64  `yaml:"seed" toml:"seed"`
}

// ProfileConfigs maps profiles to their force parameters
var ProfileConfigs = map[Profile]Config{
	ProfileCompact: {
		LinkDistance:    200,
		LinkStrength:    0.5,
		Charge:          -500,
		DistanceMin:     1,
		CenterStrength:  1,
		CollideRadius:   80,
		CollideStrength: 1,
		VelocityDecay:   0.4,
		AlphaMin:        0.001,
		Width:           1000,
		Height:          600,
	},
	ProfileBalanced: {
		LinkDistance:    300,
		LinkStrength:    0.5,
		Charge:          -800,
		DistanceMin:     1,
		CenterStrength:  1,
		CollideRadius:   80,
		CollideStrength: 1,
		VelocityDecay:   0.4,
		AlphaMin:        0.001,
		Width:           1000,
		Height:          600,
	},
	ProfileSpacious: {
		LinkDistance:    420,
		LinkStrength:    0.5,
		Charge:          -1200,
		DistanceMin:     1,
		CenterStrength:  1,
		CollideRadius:   100,
		CollideStrength: 1,
		VelocityDecay:   0.4,
		AlphaMin:        0.001,
		Width:           1000,
		Height:          600,
	},
}

// Config returns the parameters for a profile
func (p Profile) Config() Config {
	if cfg, ok := ProfileConfigs[p]; ok {
		return cfg
	}
	return ProfileConfigs[ProfileBalanced]
}

// DefaultConfig returns the balanced profile
func DefaultConfig() Config {
	return ProfileBalanced.Config()
}

// decay returns the per-tick alpha decay, deriving it so that alpha falls
// from 1 to AlphaMin in 300 ticks when AlphaDecay is unset
func (c Config) decay() float64 {
	if c.AlphaDecay > 0 {
		return c.AlphaDecay
	}
	return 1 - math.Pow(c.AlphaMin, 1.0/300)
}
