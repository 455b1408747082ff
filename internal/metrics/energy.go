package metrics

import (
	"github.com/san-kum/watersim/internal/physics"
)

// velocityOf reads a particle velocity when the view carries one.
func velocityOf(v physics.View, i int) (physics.Vec2, bool) {
	vv, ok := v.(physics.Velocities)
	if !ok {
		return physics.Vec2{}, false
	}
	return vv.Vel(i), true
}

func kineticEnergy(v physics.View) float64 {
	ke := 0.0
	for i := 0; i < v.Len(); i++ {
		vel, ok := velocityOf(v, i)
		if !ok {
			return 0
		}
		ke += 0.5 * (vel.X*vel.X + vel.Y*vel.Y)
	}
	return ke
}

// Energy is the mean total kinetic energy over the observed ticks.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(v physics.View, tick int) {
	e.totalEnergy += kineticEnergy(v)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// Settling is the last observed kinetic energy relative to the first, so a
// value near zero means the fluid came to rest.
type Settling struct {
	name    string
	initial float64
	current float64
	samples int
}

func NewSettling() *Settling {
	return &Settling{name: "settling"}
}

func (s *Settling) Name() string { return s.name }

func (s *Settling) Observe(v physics.View, tick int) {
	ke := kineticEnergy(v)
	if s.samples == 0 {
		s.initial = ke
	}
	s.current = ke
	s.samples++
}

func (s *Settling) Value() float64 {
	if s.initial == 0 {
		return 0
	}
	return s.current / s.initial
}

func (s *Settling) Reset() {
	s.initial = 0
	s.current = 0
	s.samples = 0
}
