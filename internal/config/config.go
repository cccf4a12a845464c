// Package config centralizes all tunable simulation parameters.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure returned from Load.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	World    WorldConfig    `yaml:"world"`
	Physics  PhysicsConfig  `yaml:"physics"`
	Planet   PlanetConfig   `yaml:"planet"`
	Moon     MoonConfig     `yaml:"moon"`
	Cat      CatConfig      `yaml:"cat"`
	Mouse    MouseConfig    `yaml:"mouse"`
	Spawner  SpawnerConfig  `yaml:"spawner"`
	Score    ScoreConfig    `yaml:"score"`
	Preview  PreviewConfig  `yaml:"preview"`
	Server   ServerConfig   `yaml:"server"`
	Controls ControlsConfig `yaml:"controls"`
}

// WorldConfig is the size of the simulation area. The area is centred on the planet
// and mice spawn on its perimeter.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PhysicsConfig holds gravity and projectile integration parameters.
type PhysicsConfig struct {
	GravityK        float64 `yaml:"gravity_k"`
	DistanceDivisor float64 `yaml:"distance_divisor"`
	MinDistance     float64 `yaml:"min_distance"`
	UnitTime        float64 `yaml:"unit_time"`
	MaxCats         int     `yaml:"max_cats"`    // eviction starts above this count
	EvictBatch      int     `yaml:"evict_batch"` // oldest cats dropped per eviction round
}

// PlanetConfig describes the immovable central body.
type PlanetConfig struct {
	Radius float64 `yaml:"radius"`
}

// MoonConfig describes the orbiting body and its health budget.
type MoonConfig struct {
	OrbitRadius float64 `yaml:"orbit_radius"`
	Period      float64 `yaml:"period"`
	Radius      float64 `yaml:"radius"`
	Damage      float64 `yaml:"damage"`
}

// CatConfig describes the catapulted projectiles.
type CatConfig struct {
	Radius        float64 `yaml:"radius"`
	AttackRadius  float64 `yaml:"attack_radius"`
	MinPower      float64 `yaml:"min_power"`
	MaxPower      float64 `yaml:"max_power"`
	FixedTimestep bool    `yaml:"fixed_timestep"`
}

// MouseConfig describes the homing attackers.
type MouseConfig struct {
	Radius        float64 `yaml:"radius"`
	Speed         float64 `yaml:"speed"`
	FixedTimestep bool    `yaml:"fixed_timestep"`
}

// SpawnerConfig controls the mouse spawn cadence.
type SpawnerConfig struct {
	Interval    float64 `yaml:"interval"`     // seconds between spawns at start
	MinInterval float64 `yaml:"min_interval"` // floor for the ramped interval
	Ramp        float64 `yaml:"ramp"`         // multiplier applied after each spawn
}

// ScoreConfig controls the per-kill score, which grows with the cat's air time.
type ScoreConfig struct {
	Base      int     `yaml:"base"`
	PerSecond float64 `yaml:"per_second"`
	Cap       int     `yaml:"cap"`
}

// PreviewConfig controls trajectory preview length.
type PreviewConfig struct {
	Steps int `yaml:"steps"`
}

// ServerConfig controls the tick goroutine.
type ServerConfig struct {
	TickRate         int `yaml:"tick_rate"`
	FastForwardSteps int `yaml:"fast_forward_steps"`
}

// TickTime returns the wall-clock duration of one server tick.
func (s ServerConfig) TickTime() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

// ControlsConfig controls how held keys map to aim changes in terminal clients.
type ControlsConfig struct {
	TurnRate   float64 `yaml:"turn_rate"`
	ChargeRate float64 `yaml:"charge_rate"`
	FrameRate  int     `yaml:"frame_rate"`
}

// FrameTime returns the wall-clock duration of one client frame.
func (c ControlsConfig) FrameTime() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}

// Default returns the embedded defaults. It panics if they fail to parse,
// which can only happen if defaults.yaml is broken at build time.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
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
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every parameter is usable by the simulation.
func (c *Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"world.width", c.World.Width},
		{"world.height", c.World.Height},
		{"physics.distance_divisor", c.Physics.DistanceDivisor},
		{"physics.min_distance", c.Physics.MinDistance},
		{"physics.unit_time", c.Physics.UnitTime},
		{"planet.radius", c.Planet.Radius},
		{"moon.orbit_radius", c.Moon.OrbitRadius},
		{"moon.period", c.Moon.Period},
		{"moon.radius", c.Moon.Radius},
		{"cat.radius", c.Cat.Radius},
		{"cat.max_power", c.Cat.MaxPower},
		{"mouse.radius", c.Mouse.Radius},
		{"mouse.speed", c.Mouse.Speed},
		{"spawner.interval", c.Spawner.Interval},
		{"spawner.min_interval", c.Spawner.MinInterval},
		{"spawner.ramp", c.Spawner.Ramp},
		{"controls.turn_rate", c.Controls.TurnRate},
		{"controls.charge_rate", c.Controls.ChargeRate},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, p.name, p.value)
		}
	}

	switch {
	case c.Cat.AttackRadius < c.Cat.Radius:
		return fmt.Errorf("%w: cat.attack_radius (%v) below cat.radius (%v)", ErrInvalid, c.Cat.AttackRadius, c.Cat.Radius)
	case c.Cat.MinPower < 0 || c.Cat.MinPower > c.Cat.MaxPower:
		return fmt.Errorf("%w: cat.min_power must be in [0, max_power]", ErrInvalid)
	case c.Moon.Damage < 0 || c.Moon.Damage > 1:
		return fmt.Errorf("%w: moon.damage must be in [0, 1]", ErrInvalid)
	case c.Physics.MaxCats < 1 || c.Physics.EvictBatch < 1:
		return fmt.Errorf("%w: physics.max_cats and physics.evict_batch must be at least 1", ErrInvalid)
	case c.Spawner.MinInterval > c.Spawner.Interval:
		return fmt.Errorf("%w: spawner.min_interval must be in (0, interval]", ErrInvalid)
	case c.Score.Cap < c.Score.Base:
		return fmt.Errorf("%w: score.cap below score.base", ErrInvalid)
	case c.Preview.Steps < 1:
		return fmt.Errorf("%w: preview.steps must be at least 1", ErrInvalid)
	case c.Server.TickRate < 1 || c.Server.FastForwardSteps < 1:
		return fmt.Errorf("%w: server.tick_rate and server.fast_forward_steps must be at least 1", ErrInvalid)
	case c.Controls.FrameRate < 1:
		return fmt.Errorf("%w: controls.frame_rate must be at least 1", ErrInvalid)
	}
	return nil
}
