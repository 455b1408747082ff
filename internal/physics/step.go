package physics

import "math"

// Step advances ps by one tick in place.
//
// Particles are visited in index order. Each one takes gravity, then the
// repulsion of every later particle within the interaction radius (applied to
// both sides of the pair), then moves by its velocity and bounces off the
// walls of b. Because particle i writes the velocity of j > i before j is
// visited, results depend on slot order; that order is part of the contract.
func Step(ps Set, b Bounds, p Params) {
	r2 := p.InteractionRadius * p.InteractionRadius
	n := len(ps)

	for i := 0; i < n; i++ {
		pi := &ps[i]
		pi.Vel.Y += p.Gravity

		for j := i + 1; j < n; j++ {
			pj := &ps[j]

			dx := pj.Pos.X - pi.Pos.X
			dy := pj.Pos.Y - pi.Pos.Y
			d2 := dx*dx + dy*dy
			if d2 >= r2 || d2 == 0 {
				continue
			}

			dist := math.Sqrt(d2)
			force := (p.InteractionRadius - dist) * p.InteractionForce
			fx := force * (dx / dist)
			fy := force * (dy / dist)

			pi.Vel.X -= fx
			pi.Vel.Y -= fy
			pj.Vel.X += fx
			pj.Vel.Y += fy
		}

		pi.Pos.X += pi.Vel.X
		pi.Pos.Y += pi.Vel.Y

		collide(pi, b, p.Damping)
	}
}

func collide(pt *Particle, b Bounds, damping float64) {
	if pt.Pos.Y > b.Height {
		pt.Pos.Y = b.Height
		pt.Vel.Y *= -damping
	}
	if pt.Pos.Y < 0 {
		pt.Pos.Y = 0
		pt.Vel.Y *= -damping
	}
	if pt.Pos.X < 0 {
		pt.Pos.X = 0
		pt.Vel.X *= -damping
	}
	if pt.Pos.X > b.Width {
		pt.Pos.X = b.Width
		pt.Vel.X *= -damping
	}
}

// PairForce returns the repulsion magnitude between two particles dist apart,
// zero at or beyond the interaction radius and for coincident particles.
func (p Params) PairForce(dist float64) float64 {
	if dist <= 0 || dist >= p.InteractionRadius {
		return 0
	}
	return (p.InteractionRadius - dist) * p.InteractionForce
}

// Engine binds a fixed Params value for frame drivers that call Step once per frame.
type Engine struct {
	params Params
}

func NewEngine(p Params) *Engine { return &Engine{params: p} }

func (e *Engine) Params() Params { return e.params }

func (e *Engine) Step(ps Set, b Bounds) { Step(ps, b, e.params) }
