package metrics

import (
	"github.com/san-kum/watersim/internal/physics"
)

// Containment is the fraction of ticks on which every particle was inside
// the bounds.
type Containment struct {
	name       string
	bounds     physics.Bounds
	violations int
	samples    int
}

func NewContainment(b physics.Bounds) *Containment {
	return &Containment{
		name:   "containment",
		bounds: b,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(v physics.View, tick int) {
	c.samples++
	for i := 0; i < v.Len(); i++ {
		if !c.bounds.Contains(v.Pos(i)) {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
