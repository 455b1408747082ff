package sim

import (
	"fmt"

	"github.com/san-kum/watersim/internal/physics"
)

// Metric accumulates a scalar over the ticks of a run.
type Metric interface {
	Name() string
	Observe(v physics.View, tick int)
	Value() float64
	Reset()
}

// Observer is called with a read-only view after every tick.
type Observer interface {
	OnTick(v physics.View, tick int)
}

type Config struct {
	Ticks         int
	Bounds        physics.Bounds
	RecordEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Ticks:  600,
		Bounds: physics.Bounds{Width: physics.DefaultWidth, Height: physics.DefaultHeight},
	}
}

type Frame struct {
	Tick      int
	Particles physics.Set
}

type Result struct {
	Initial    physics.Set
	Final      physics.Set
	Energy     []float64
	Frames     []Frame
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error

	pool *SetPool
}

// Release hands recorded frames back to the simulator that produced them.
// Frames must not be used afterwards; calling Release twice is harmless.
func (r *Result) Release() {
	if r.pool != nil {
		for _, f := range r.Frames {
			r.pool.Put(f.Particles)
		}
	}
	r.Frames = nil
}

type SimError struct {
	Tick     int
	Particle int
	Message  string
}

func (e SimError) Error() string {
	return fmt.Sprintf("tick %d (particle %d): %s", e.Tick, e.Particle, e.Message)
}
