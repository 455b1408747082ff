package metrics

import (
	"math"

	"github.com/san-kum/watersim/internal/physics"
)

type MaxSpeed struct {
	name string
	peak float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(v physics.View, tick int) {
	for i := 0; i < v.Len(); i++ {
		vel, ok := velocityOf(v, i)
		if !ok {
			return
		}
		m.peak = math.Max(m.peak, vel.Len())
	}
}

func (m *MaxSpeed) Value() float64 { return m.peak }
func (m *MaxSpeed) Reset()         { m.peak = 0 }
