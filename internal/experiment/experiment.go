package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/san-kum/watersim/internal/config"
	"github.com/san-kum/watersim/internal/physics"
	"github.com/san-kum/watersim/internal/sim"
)

type Experiment struct {
	cfg        config.Config
	simulator  *sim.Simulator
	randSource *rand.Rand
	initial    physics.Set
	validate   bool
}

func New(cfg config.Config) *Experiment {
	return &Experiment{
		cfg:        cfg,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Setup seeds the initial set with the configured layout and attaches metrics.
func (e *Experiment) Setup(registry *Registry, metrics []sim.Metric) error {
	seed, err := registry.GetLayout(e.cfg.Layout)
	if err != nil {
		return err
	}
	e.initial = seed(e.cfg.Particles, e.cfg.Bounds(), e.randSource)

	e.simulator = sim.New(physics.NewEngine(e.cfg.Params()))
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	simCfg := sim.Config{
		Ticks:         e.cfg.Ticks,
		Bounds:        e.cfg.Bounds(),
		RecordEvery:   e.cfg.RecordEvery,
		ValidateState: e.validate,
	}

	return e.simulator.Run(ctx, e.initial, simCfg)
}

// EnableValidation stops the run at the first particle that leaves the
// bounds or stops being finite.
func (e *Experiment) EnableValidation() { e.validate = true }

func (e *Experiment) Config() config.Config { return e.cfg }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
