// Package config provides configuration loading and access for the layout
// engine. Defaults are embedded; a user file overlays them field by field.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Compute modes. Worker runs frames on a dedicated goroutine, inline runs
// them cooperatively in the caller's goroutine, and static skips the
// simulation entirely and publishes the initial placement as final.
const (
	ModeWorker = "worker"
	ModeInline = "inline"
	ModeStatic = "static"
)

// Config holds all engine tuning parameters.
type Config struct {
	Viewport  ViewportConfig  `yaml:"viewport"`
	Forces    ForcesConfig    `yaml:"forces"`
	Cooling   CoolingConfig   `yaml:"cooling"`
	Spatial   SpatialConfig   `yaml:"spatial"`
	Compute   ComputeConfig   `yaml:"compute"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ViewportConfig holds the default layout area, used when the caller does
// not supply one.
type ViewportConfig struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// ForcesConfig holds the force model parameters.
type ForcesConfig struct {
	Repulsion  float32 `yaml:"repulsion"`   // inverse-square push scale
	Spring     float32 `yaml:"spring"`      // Hookean constant for links
	RestLength float32 `yaml:"rest_length"` // natural link length
	Gravity    float32 `yaml:"gravity"`     // pull toward viewport center
	Damping    float32 `yaml:"damping"`     // velocity retention per frame, (0,1)
	Bounce     float32 `yaml:"bounce"`      // velocity retention after a boundary hit
	Epsilon    float32 `yaml:"epsilon"`     // minimum node separation for repulsion
}

// CoolingConfig holds the alpha schedule.
type CoolingConfig struct {
	InitialAlpha float32 `yaml:"initial_alpha"`
	DecayRate    float32 `yaml:"decay_rate"`
	Floor        float32 `yaml:"floor"`
	ReheatAlpha  float32 `yaml:"reheat_alpha"`
}

// SpatialConfig holds the neighbor grid parameters. Rings controls how many
// cell rings around a node's own cell are searched: 1 gives the classic 3x3
// neighborhood, larger values trade speed for a wider repulsion horizon.
type SpatialConfig struct {
	CellSize float32 `yaml:"cell_size"`
	Rings    int     `yaml:"rings"`
}

// ComputeConfig selects the frame execution strategy.
type ComputeConfig struct {
	Mode string `yaml:"mode"`
}

// TelemetryConfig controls per-frame statistics collection.
type TelemetryConfig struct {
	Enabled bool `yaml:"enabled"`
	Window  int  `yaml:"window"`
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// The embedded defaults are part of the build; failing to parse
		// them is a programming error.
		panic(err)
	}
	return cfg
}

// Load reads the embedded defaults and, if path is non-empty, overlays the
// fields present in that file.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into the same struct: only fields present in the
		// file overwrite the defaults.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks parameter ranges that the simulation depends on.
func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %gx%g", c.Viewport.Width, c.Viewport.Height)
	}
	if c.Forces.Damping <= 0 || c.Forces.Damping >= 1 {
		return fmt.Errorf("forces.damping must be in (0,1), got %g", c.Forces.Damping)
	}
	if c.Forces.Bounce < 0 || c.Forces.Bounce > 1 {
		return fmt.Errorf("forces.bounce must be in [0,1], got %g", c.Forces.Bounce)
	}
	if c.Forces.Epsilon <= 0 {
		return fmt.Errorf("forces.epsilon must be positive, got %g", c.Forces.Epsilon)
	}
	if c.Cooling.InitialAlpha <= 0 || c.Cooling.InitialAlpha > 1 {
		return fmt.Errorf("cooling.initial_alpha must be in (0,1], got %g", c.Cooling.InitialAlpha)
	}
	if c.Cooling.DecayRate <= 0 || c.Cooling.DecayRate >= 1 {
		return fmt.Errorf("cooling.decay_rate must be in (0,1), got %g", c.Cooling.DecayRate)
	}
	if c.Cooling.Floor <= 0 || c.Cooling.Floor >= c.Cooling.InitialAlpha {
		return fmt.Errorf("cooling.floor must be in (0, initial_alpha), got %g", c.Cooling.Floor)
	}
	if c.Cooling.ReheatAlpha <= c.Cooling.Floor || c.Cooling.ReheatAlpha > 1 {
		return fmt.Errorf("cooling.reheat_alpha must be in (floor, 1], got %g", c.Cooling.ReheatAlpha)
	}
	if c.Spatial.CellSize <= 0 {
		return fmt.Errorf("spatial.cell_size must be positive, got %g", c.Spatial.CellSize)
	}
	if c.Spatial.Rings < 1 {
		return fmt.Errorf("spatial.rings must be at least 1, got %d", c.Spatial.Rings)
	}
	switch c.Compute.Mode {
	case ModeWorker, ModeInline, ModeStatic:
	default:
		return fmt.Errorf("compute.mode must be one of worker, inline, static; got %q", c.Compute.Mode)
	}
	if c.Telemetry.Window < 1 {
		return fmt.Errorf("telemetry.window must be at least 1, got %d", c.Telemetry.Window)
	}
	return nil
}
