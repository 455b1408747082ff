package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/watersim/internal/physics"
)

const (
	DefaultTicks  = 600
	DefaultFPS    = 60
	DefaultLayout = "uniform"
)

type Config struct {
	Particles   int            `yaml:"particles"`
	Width       float64        `yaml:"width"`
	Height      float64        `yaml:"height"`
	Seed        int64          `yaml:"seed"`
	Layout      string         `yaml:"layout"`
	Ticks       int            `yaml:"ticks"`
	FPS         int            `yaml:"fps"`
	RecordEvery int            `yaml:"record_every"`
	Physics     physics.Params `yaml:"physics"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles: physics.DefaultParticles,
		Width:     physics.DefaultWidth,
		Height:    physics.DefaultHeight,
		Layout:    DefaultLayout,
		Ticks:     DefaultTicks,
		FPS:       DefaultFPS,
		Physics:   physics.DefaultParams(),
	}
}

// Load reads a YAML file over the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file over a copy of base. Only keys present in the
// file replace base values; base itself is left untouched.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Particles < 0 {
		return fmt.Errorf("particles must not be negative, got %d", c.Particles)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("width and height must be positive, got %.2fx%.2f", c.Width, c.Height)
	}
	if c.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", c.Ticks)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.RecordEvery < 0 {
		return fmt.Errorf("record_every must not be negative, got %d", c.RecordEvery)
	}
	if c.Physics.InteractionRadius < 0 {
		return fmt.Errorf("interaction_radius must not be negative, got %f", c.Physics.InteractionRadius)
	}
	return nil
}

func (c *Config) Bounds() physics.Bounds {
	return physics.Bounds{Width: c.Width, Height: c.Height}
}

func (c *Config) Params() physics.Params { return c.Physics }

// Clone returns an independent copy, used before overriding preset values.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// SetParam overrides one physics option by its YAML name.
func (c *Config) SetParam(name string, v float64) error {
	p, err := c.Physics.With(name, v)
	if err != nil {
		return err
	}
	c.Physics = p
	return nil
}
