package physics

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var screen = Bounds{Width: 800, Height: 600}

func noGravity() Params {
	p := DefaultParams()
	p.Gravity = 0
	return p
}

// referenceStep is a literal transcription of the update order, kept separate
// from Step so a refactor of Step cannot silently change the accumulation order.
func referenceStep(ps Set, b Bounds, p Params) {
	for i := range ps {
		ps[i].Vel.Y += p.Gravity
		for j := i + 1; j < len(ps); j++ {
			dx := ps[j].Pos.X - ps[i].Pos.X
			dy := ps[j].Pos.Y - ps[i].Pos.Y
			distSq := dx*dx + dy*dy
			if distSq < p.InteractionRadius*p.InteractionRadius && distSq > 0 {
				dist := math.Sqrt(distSq)
				overlap := p.InteractionRadius - dist
				force := overlap * p.InteractionForce
				nx, ny := dx/dist, dy/dist
				fx, fy := force*nx, force*ny
				ps[i].Vel.X -= fx
				ps[i].Vel.Y -= fy
				ps[j].Vel.X += fx
				ps[j].Vel.Y += fy
			}
		}
		ps[i].Pos.X += ps[i].Vel.X
		ps[i].Pos.Y += ps[i].Vel.Y
		if ps[i].Pos.Y > b.Height {
			ps[i].Pos.Y = b.Height
			ps[i].Vel.Y *= -p.Damping
		}
		if ps[i].Pos.Y < 0 {
			ps[i].Pos.Y = 0
			ps[i].Vel.Y *= -p.Damping
		}
		if ps[i].Pos.X < 0 {
			ps[i].Pos.X = 0
			ps[i].Vel.X *= -p.Damping
		}
		if ps[i].Pos.X > b.Width {
			ps[i].Pos.X = b.Width
			ps[i].Vel.X *= -p.Damping
		}
	}
}

func randomSet(rng *rand.Rand, n int, b Bounds, maxVel float64) Set {
	s := Scatter(n, b, rng)
	for i := range s {
		s[i].Vel = Vec2{(rng.Float64()*2 - 1) * maxVel, (rng.Float64()*2 - 1) * maxVel}
	}
	return s
}

var _ = Describe("Step", func() {
	Context("two particles five units apart in the top left corner", func() {
		It("matches the reference tick exactly", func() {
			ps := Set{
				{Pos: Vec2{0, 0}},
				{Pos: Vec2{5, 0}},
			}
			Step(ps, screen, Params{Gravity: 0.5, Damping: 0.5, InteractionRadius: 10, InteractionForce: 0.05})

			// p0: gravity (0,0.5), push (-0.25,0), moves to (-0.25,0.5), left wall
			// clamps x and reflects vx to 0.125. p1: push (0.25,0), gravity, moves.
			Expect(ps[0].Pos).To(Equal(Vec2{0, 0.5}))
			Expect(ps[0].Vel).To(Equal(Vec2{0.125, 0.5}))
			Expect(ps[1].Pos).To(Equal(Vec2{5.25, 0.5}))
			Expect(ps[1].Vel).To(Equal(Vec2{0.25, 0.5}))
		})
	})

	It("pins the in-order velocity hand-off across a chain", func() {
		ps := Set{
			{Pos: Vec2{100, 100}},
			{Pos: Vec2{105, 100}},
			{Pos: Vec2{110, 100}},
		}
		Step(ps, screen, DefaultParams())

		Expect(ps[0].Vel).To(Equal(Vec2{-0.25, 0.5}))
		Expect(ps[0].Pos).To(Equal(Vec2{99.75, 100.5}))
		// p1 is pushed right by p0 before its turn, then left by p2 on its turn.
		Expect(ps[1].Vel).To(Equal(Vec2{0, 0.5}))
		Expect(ps[1].Pos).To(Equal(Vec2{105, 100.5}))
		Expect(ps[2].Vel).To(Equal(Vec2{0.25, 0.5}))
		Expect(ps[2].Pos).To(Equal(Vec2{110.25, 100.5}))
	})

	It("is bit-for-bit identical to the ordered transcription on a crowded set", func() {
		rng := rand.New(rand.NewSource(7))
		small := Bounds{Width: 120, Height: 90}
		got := randomSet(rng, 300, small, 3)
		want := got.Clone()

		for tick := 0; tick < 25; tick++ {
			Step(got, small, DefaultParams())
			referenceStep(want, small, DefaultParams())
		}
		Expect(got).To(Equal(want))
	})

	It("only adds gravity to a lone particle at rest", func() {
		ps := Set{{Pos: Vec2{400, 300}}}
		Step(ps, screen, DefaultParams())

		Expect(ps[0].Vel).To(Equal(Vec2{0, DefaultGravity}))
		Expect(ps[0].Pos).To(Equal(Vec2{400, 300 + DefaultGravity}))
	})

	It("clamps to the floor and reflects with damping", func() {
		ps := Set{{Pos: Vec2{400, 600.5}, Vel: Vec2{0, 2}}}
		Step(ps, screen, DefaultParams())

		vEff := 2 + DefaultGravity
		Expect(ps[0].Pos.Y).To(Equal(600.0))
		Expect(ps[0].Vel.Y).To(Equal(-vEff * DefaultDamping))
	})

	It("can trigger two walls at once in a corner", func() {
		ps := Set{{Pos: Vec2{799, 599}, Vel: Vec2{4, 4}}}
		Step(ps, screen, DefaultParams())

		Expect(ps[0].Pos).To(Equal(Vec2{800, 600}))
		Expect(ps[0].Vel).To(Equal(Vec2{-2, -2.25}))
	})

	It("bounces off the ceiling and the left wall", func() {
		p := noGravity()
		ps := Set{{Pos: Vec2{1, 1}, Vel: Vec2{-3, -5}}}
		Step(ps, screen, p)

		Expect(ps[0].Pos).To(Equal(Vec2{0, 0}))
		Expect(ps[0].Vel).To(Equal(Vec2{1.5, 2.5}))
	})

	Describe("pair repulsion", func() {
		It("is zero at exactly the interaction radius", func() {
			ps := Set{{Pos: Vec2{100, 100}}, {Pos: Vec2{110, 100}}}
			Step(ps, screen, noGravity())

			Expect(ps[0].Vel).To(Equal(Vec2{}))
			Expect(ps[1].Vel).To(Equal(Vec2{}))
			Expect(noGravity().PairForce(DefaultInteractionRadius)).To(BeZero())
		})

		It("equals K*R/2 at half the radius", func() {
			p := noGravity()
			ps := Set{{Pos: Vec2{100, 100}}, {Pos: Vec2{105, 100}}}
			Step(ps, screen, p)

			want := p.InteractionForce * p.InteractionRadius / 2
			Expect(ps[0].Vel.X).To(BeNumerically("~", -want, 1e-15))
			Expect(ps[1].Vel.X).To(BeNumerically("~", want, 1e-15))
			Expect(p.PairForce(p.InteractionRadius/2)).To(BeNumerically("~", want, 1e-15))
		})

		It("imparts equal and opposite velocity changes", func() {
			ps := Set{{Pos: Vec2{100, 100}}, {Pos: Vec2{103, 104}}}
			Step(ps, screen, noGravity())

			Expect(ps[0].Vel.X).To(Equal(-ps[1].Vel.X))
			Expect(ps[0].Vel.Y).To(Equal(-ps[1].Vel.Y))
			Expect(ps[1].Vel.Len()).To(BeNumerically("~", 0.25, 1e-12))
		})

		It("skips coincident particles", func() {
			ps := Set{{Pos: Vec2{50, 50}}, {Pos: Vec2{50, 50}}}
			Step(ps, screen, noGravity())

			Expect(ps[0]).To(Equal(Particle{Pos: Vec2{50, 50}}))
			Expect(ps[1]).To(Equal(Particle{Pos: Vec2{50, 50}}))
			Expect(Finite(ps)).To(BeTrue())
		})
	})

	Describe("invariants", func() {
		DescribeTable("keeps every particle inside the bounds",
			func(b Bounds, maxVel float64) {
				rng := rand.New(rand.NewSource(42))
				ps := randomSet(rng, 400, b, maxVel)
				for tick := 0; tick < 20; tick++ {
					Step(ps, b, DefaultParams())
					Expect(Contained(ps, b)).To(BeTrue(), "tick %d", tick)
				}
			},
			Entry("reference window", screen, 5.0),
			Entry("tiny box", Bounds{Width: 30, Height: 20}, 10.0),
			Entry("fast particles", screen, 500.0),
			Entry("tall strip", Bounds{Width: 5, Height: 1000}, 2.0),
		)

		It("uses the bounds of each call after a resize", func() {
			rng := rand.New(rand.NewSource(3))
			ps := Scatter(200, screen, rng)
			Step(ps, screen, DefaultParams())

			shrunk := Bounds{Width: 400, Height: 300}
			Step(ps, shrunk, DefaultParams())
			Expect(Contained(ps, shrunk)).To(BeTrue())
		})

		It("never changes the particle count", func() {
			for _, n := range []int{0, 1, 2, 57} {
				ps := Scatter(n, screen, rand.New(rand.NewSource(int64(n))))
				Step(ps, screen, DefaultParams())
				Expect(ps).To(HaveLen(n))
			}
		})
	})

	It("steps identically through an Engine bound to the same params", func() {
		rng := rand.New(rand.NewSource(11))
		a := Scatter(100, screen, rng)
		b := a.Clone()

		NewEngine(DefaultParams()).Step(a, screen)
		Step(b, screen, DefaultParams())
		Expect(a).To(Equal(b))
	})
})
