package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/watersim/internal/physics"
)

// Simulator is the frame driver for batch and interactive runs. It owns the
// particle set through a Buffer and reads the bounds afresh on every tick.
type Simulator struct {
	engine    Stepper
	buf       *Buffer
	metrics   []Metric
	observers []Observer
	pools     map[int]*SetPool

	mu     sync.Mutex
	bounds physics.Bounds
}

func New(engine Stepper) *Simulator {
	return &Simulator{
		engine:    engine,
		buf:       NewBuffer(nil),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		pools:     make(map[int]*SetPool),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Resize changes the bounds used from the next tick on.
func (s *Simulator) Resize(b physics.Bounds) {
	s.mu.Lock()
	s.bounds = b
	s.mu.Unlock()
}

// framePool returns the pool for recorded frames of n particles, shared by
// every run of this simulator.
func (s *Simulator) framePool(n int) *SetPool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pools[n]
	if !ok {
		p = NewSetPool(n)
		s.pools[n] = p
	}
	return p
}

func (s *Simulator) currentBounds() physics.Bounds {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bounds
}

func (s *Simulator) Run(ctx context.Context, initial physics.Set, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Initial: initial.Clone(),
		Energy:  make([]float64, 0, cfg.Ticks),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}
	if cfg.RecordEvery > 0 {
		result.Frames = make([]Frame, 0, cfg.Ticks/cfg.RecordEvery)
		result.pool = s.framePool(len(initial))
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.Resize(cfg.Bounds)
	s.buf.Reset(initial)

	defer func() {
		result.Final = s.buf.Snapshot()
		for _, m := range s.metrics {
			result.Metrics[m.Name()] = m.Value()
		}
	}()

	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		bounds := s.currentBounds()
		s.buf.Advance(s.engine, bounds)
		result.StepsTaken++

		var stepErr error
		s.buf.inspect(func(ps physics.Set, tick int) {
			result.Energy = append(result.Energy, physics.KineticEnergy(ps))
			if cfg.RecordEvery > 0 && tick%cfg.RecordEvery == 0 {
				result.Frames = append(result.Frames, Frame{Tick: tick, Particles: result.pool.GetAndCopy(ps)})
			}
			if cfg.ValidateState {
				stepErr = validateSet(ps, bounds, tick)
			}
			s.notify(physics.ViewOf(ps), tick)
		})

		if stepErr != nil {
			result.Errors = append(result.Errors, stepErr)
			break
		}
	}

	return result, nil
}

func (s *Simulator) notify(v physics.View, tick int) {
	for _, m := range s.metrics {
		m.Observe(v, tick)
	}
	for _, obs := range s.observers {
		obs.OnTick(v, tick)
	}
}

func validateSet(ps physics.Set, b physics.Bounds, tick int) error {
	for i, p := range ps {
		if !p.Pos.IsFinite() || !p.Vel.IsFinite() {
			return SimError{Tick: tick, Particle: i, Message: "invalid state (NaN/Inf)"}
		}
		if !b.Contains(p.Pos) {
			return SimError{Tick: tick, Particle: i, Message: fmt.Sprintf("position (%.3f, %.3f) outside %.0fx%.0f", p.Pos.X, p.Pos.Y, b.Width, b.Height)}
		}
	}
	return nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", cfg.Ticks)
	}
	return validateBounds(cfg)
}

func validateBounds(cfg Config) error {
	if cfg.Bounds.Width <= 0 || cfg.Bounds.Height <= 0 {
		return fmt.Errorf("bounds must be positive, got %.2fx%.2f", cfg.Bounds.Width, cfg.Bounds.Height)
	}
	if cfg.RecordEvery < 0 {
		return fmt.Errorf("record interval must not be negative, got %d", cfg.RecordEvery)
	}
	return nil
}

// RunWithCallback steps until callback returns false, ctx is done, or
// cfg.Ticks ticks have run. A non-positive cfg.Ticks runs without limit.
func (s *Simulator) RunWithCallback(ctx context.Context, initial physics.Set, cfg Config, callback func(physics.View, int) bool) error {
	if err := validateBounds(cfg); err != nil {
		return err
	}

	s.Resize(cfg.Bounds)
	s.buf.Reset(initial)

	for i := 0; cfg.Ticks <= 0 || i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.buf.Advance(s.engine, s.currentBounds())

		keep := true
		s.buf.Read(func(v physics.View, tick int) {
			s.notify(v, tick)
			keep = callback(v, tick)
		})
		if !keep {
			return nil
		}
	}

	return nil
}
