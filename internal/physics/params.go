package physics

import (
	"fmt"
	"sort"
)

const (
	DefaultGravity           = 0.5
	DefaultDamping           = 0.5
	DefaultInteractionRadius = 10.0
	DefaultInteractionForce  = 0.05
)

// Params holds the simulation constants. It is passed by value into every
// step so a running simulation cannot observe a change mid-tick.
type Params struct {
	Gravity           float64 `yaml:"gravity" json:"gravity"`
	Damping           float64 `yaml:"damping" json:"damping"`
	InteractionRadius float64 `yaml:"interaction_radius" json:"interaction_radius"`
	InteractionForce  float64 `yaml:"interaction_force" json:"interaction_force"`
}

func DefaultParams() Params {
	return Params{
		Gravity:           DefaultGravity,
		Damping:           DefaultDamping,
		InteractionRadius: DefaultInteractionRadius,
		InteractionForce:  DefaultInteractionForce,
	}
}

// RenderRadius is the circle radius renderers draw particles with.
func (p Params) RenderRadius() float64 { return p.InteractionRadius / 2 }

func (p Params) GetParams() map[string]float64 {
	return map[string]float64{
		"gravity":            p.Gravity,
		"damping":            p.Damping,
		"interaction_radius": p.InteractionRadius,
		"interaction_force":  p.InteractionForce,
	}
}

// ParamNames lists the recognised option names in a stable order.
func ParamNames() []string {
	names := make([]string, 0, 4)
	for k := range DefaultParams().GetParams() {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (p Params) Get(name string) (float64, error) {
	v, ok := p.GetParams()[name]
	if !ok {
		return 0, fmt.Errorf("unknown parameter: %s", name)
	}
	return v, nil
}

// With returns a copy of p with the named option replaced.
func (p Params) With(name string, v float64) (Params, error) {
	switch name {
	case "gravity":
		p.Gravity = v
	case "damping":
		p.Damping = v
	case "interaction_radius":
		p.InteractionRadius = v
	case "interaction_force":
		p.InteractionForce = v
	default:
		return p, fmt.Errorf("unknown parameter: %s", name)
	}
	return p, nil
}
