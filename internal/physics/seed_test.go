package physics

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Scatter", func() {
	DescribeTable("places particles at rest inside the half-open viewport",
		func(seed func(int, Bounds, *rand.Rand) Set) {
			b := Bounds{Width: DefaultWidth, Height: DefaultHeight}
			ps := seed(DefaultParticles, b, rand.New(rand.NewSource(1)))

			Expect(ps).To(HaveLen(DefaultParticles))
			for _, p := range ps {
				Expect(p.Vel).To(Equal(Vec2{}))
				Expect(p.Pos.X).To(And(BeNumerically(">=", 0), BeNumerically("<", b.Width)))
				Expect(p.Pos.Y).To(And(BeNumerically(">=", 0), BeNumerically("<", b.Height)))
			}
		},
		Entry("uniform", Scatter),
		Entry("perlin", PerlinScatter),
	)

	It("is reproducible for a seed", func() {
		b := Bounds{Width: 50, Height: 50}
		a := PerlinScatter(64, b, rand.New(rand.NewSource(9)))
		c := PerlinScatter(64, b, rand.New(rand.NewSource(9)))
		Expect(a).To(Equal(c))
	})
})

var _ = Describe("Params", func() {
	It("derives the render radius from the interaction radius", func() {
		Expect(DefaultParams().RenderRadius()).To(Equal(5.0))
	})

	It("replaces options by name without touching the receiver", func() {
		base := DefaultParams()
		p, err := base.With("gravity", 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Gravity).To(BeZero())
		Expect(base.Gravity).To(Equal(DefaultGravity))

		v, err := p.Get("interaction_force")
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(DefaultInteractionForce))
	})

	It("rejects unknown option names", func() {
		_, err := DefaultParams().With("viscosity", 1)
		Expect(err).To(MatchError(ContainSubstring("viscosity")))
		_, err = DefaultParams().Get("viscosity")
		Expect(err).To(HaveOccurred())
	})

	It("lists option names in a stable order", func() {
		Expect(ParamNames()).To(Equal([]string{"damping", "gravity", "interaction_force", "interaction_radius"}))
	})
})

var _ = Describe("diagnostics", func() {
	It("reports energy, momentum and speed of a set", func() {
		ps := Set{
			{Vel: Vec2{3, 4}},
			{Vel: Vec2{-1, 0}},
		}
		Expect(KineticEnergy(ps)).To(Equal(13.0))
		px, py := Momentum(ps)
		Expect(px).To(Equal(2.0))
		Expect(py).To(Equal(4.0))
		Expect(MaxSpeed(ps)).To(Equal(5.0))
	})

	It("exposes positions read-only through a view", func() {
		ps := Set{{Pos: Vec2{1, 2}}, {Pos: Vec2{3, 4}}}
		v := ViewOf(ps)
		Expect(v.Len()).To(Equal(2))
		Expect(v.Pos(1)).To(Equal(Vec2{3, 4}))

		var seen []Vec2
		v.Each(func(_ int, pos Vec2) { seen = append(seen, pos) })
		Expect(seen).To(Equal([]Vec2{{1, 2}, {3, 4}}))
	})
})
