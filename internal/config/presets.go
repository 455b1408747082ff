package config

import (
	"sort"

	"github.com/san-kum/watersim/internal/physics"
)

func preset(mod func(c *Config)) *Config {
	c := DefaultConfig()
	mod(c)
	return c
}

var Presets = map[string]*Config{
	"reference": DefaultConfig(),
	"zero_g": preset(func(c *Config) {
		c.Physics.Gravity = 0
	}),
	"bouncy": preset(func(c *Config) {
		c.Physics.Damping = 0.95
	}),
	"dense": preset(func(c *Config) {
		c.Particles = 1500
		c.Layout = "perlin"
	}),
	"sticky": preset(func(c *Config) {
		c.Physics = physics.Params{Gravity: 0.2, Damping: 0.1, InteractionRadius: 14, InteractionForce: 0.01}
	}),
}

// GetPreset returns a copy of the named preset, or nil if there is none.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
