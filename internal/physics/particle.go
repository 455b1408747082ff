package physics

import "math"

type Vec2 struct {
	X, Y float64
}

func (v Vec2) Len() float64   { return math.Sqrt(v.X*v.X + v.Y*v.Y) }
func (v Vec2) IsFinite() bool { return isFinite(v.X) && isFinite(v.Y) }

func (b Bounds) Contains(p Vec2) bool {
	return p.X >= 0 && p.X <= b.Width && p.Y >= 0 && p.Y <= b.Height
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Particle is a unit point mass. It has no identity beyond its slot in a Set.
type Particle struct {
	Pos Vec2
	Vel Vec2
}

// Set is the ordered particle collection advanced by Step.
type Set []Particle

func (s Set) Len() int { return len(s) }

func (s Set) Clone() Set {
	c := make(Set, len(s))
	copy(c, s)
	return c
}

// Bounds is the viewport the walls are taken from, with the origin at the top left.
type Bounds struct {
	Width  float64
	Height float64
}

// View is the read-only face of a Set handed to renderers between ticks.
type View interface {
	Len() int
	Pos(i int) Vec2
	Each(fn func(i int, pos Vec2))
}

type setView struct{ s Set }

// ViewOf wraps s so renderers cannot mutate it.
func ViewOf(s Set) View { return setView{s} }

func (v setView) Len() int       { return len(v.s) }
func (v setView) Pos(i int) Vec2 { return v.s[i].Pos }

func (v setView) Each(fn func(i int, pos Vec2)) {
	for i := range v.s {
		fn(i, v.s[i].Pos)
	}
}

// Velocities lets diagnostics inside this module read velocity through a View
// without widening the renderer contract.
type Velocities interface {
	Vel(i int) Vec2
}

func (v setView) Vel(i int) Vec2 { return v.s[i].Vel }

func KineticEnergy(s Set) float64 {
	ke := 0.0
	for _, p := range s {
		ke += 0.5 * (p.Vel.X*p.Vel.X + p.Vel.Y*p.Vel.Y)
	}
	return ke
}

func Momentum(s Set) (px, py float64) {
	for _, p := range s {
		px += p.Vel.X
		py += p.Vel.Y
	}
	return
}

func MaxSpeed(s Set) float64 {
	m := 0.0
	for _, p := range s {
		m = math.Max(m, p.Vel.Len())
	}
	return m
}

// Contained reports whether every particle lies in the closed box [0,w]x[0,h].
func Contained(s Set, b Bounds) bool {
	for _, p := range s {
		if !b.Contains(p.Pos) {
			return false
		}
	}
	return true
}

// Finite reports whether no position or velocity is NaN or infinite.
func Finite(s Set) bool {
	for _, p := range s {
		if !p.Pos.IsFinite() || !p.Vel.IsFinite() {
			return false
		}
	}
	return true
}
