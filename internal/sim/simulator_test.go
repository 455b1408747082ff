package sim

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/san-kum/watersim/internal/physics"
)

var window = physics.Bounds{Width: 800, Height: 600}

func restingSet(n int) physics.Set {
	return physics.Scatter(n, window, rand.New(rand.NewSource(5)))
}

type countingMetric struct {
	count    int
	lastTick int
}

func (c *countingMetric) Name() string { return "count" }
func (c *countingMetric) Observe(v physics.View, tick int) {
	c.count++
	c.lastTick = tick
}
func (c *countingMetric) Value() float64 { return float64(c.count) }
func (c *countingMetric) Reset()         { c.count = 0 }

func TestSimulatorRun(t *testing.T) {
	s := New(physics.NewEngine(physics.DefaultParams()))
	initial := restingSet(50)

	result, err := s.Run(context.Background(), initial, Config{Ticks: 10, Bounds: window})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}
	if len(result.Energy) != 10 {
		t.Errorf("expected 10 energy samples, got %d", len(result.Energy))
	}
	if len(result.Final) != len(initial) {
		t.Errorf("particle count changed: %d -> %d", len(initial), len(result.Final))
	}

	want := initial.Clone()
	for i := 0; i < 10; i++ {
		physics.Step(want, window, physics.DefaultParams())
	}
	for i := range want {
		if want[i] != result.Final[i] {
			t.Fatalf("particle %d: got %+v, want %+v", i, result.Final[i], want[i])
		}
	}
	if result.Initial[0] != initial[0] {
		t.Error("initial snapshot should be untouched")
	}
}

func TestSimulatorDoesNotMutateInput(t *testing.T) {
	s := New(physics.NewEngine(physics.DefaultParams()))
	initial := restingSet(20)
	before := initial.Clone()

	if _, err := s.Run(context.Background(), initial, Config{Ticks: 3, Bounds: window}); err != nil {
		t.Fatal(err)
	}
	for i := range initial {
		if initial[i] != before[i] {
			t.Fatalf("input particle %d was mutated", i)
		}
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := New(physics.NewEngine(physics.DefaultParams()))

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero ticks", Config{Ticks: 0, Bounds: window}},
		{"negative ticks", Config{Ticks: -1, Bounds: window}},
		{"zero width", Config{Ticks: 1, Bounds: physics.Bounds{Width: 0, Height: 10}}},
		{"negative height", Config{Ticks: 1, Bounds: physics.Bounds{Width: 10, Height: -1}}},
		{"negative record interval", Config{Ticks: 1, Bounds: window, RecordEvery: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Run(context.Background(), restingSet(2), tt.cfg)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSimulatorMetrics(t *testing.T) {
	s := New(physics.NewEngine(physics.DefaultParams()))
	metric := &countingMetric{}
	s.AddMetric(metric)

	result, err := s.Run(context.Background(), restingSet(5), Config{Ticks: 12, Bounds: window})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if got := result.Metrics["count"]; got != 12 {
		t.Errorf("expected 12 observations, got %v", got)
	}
	if metric.lastTick != 12 {
		t.Errorf("expected last tick 12, got %d", metric.lastTick)
	}
}

func TestSimulatorRecordsFrames(t *testing.T) {
	s := New(physics.NewEngine(physics.DefaultParams()))

	result, err := s.Run(context.Background(), restingSet(8), Config{Ticks: 10, Bounds: window, RecordEvery: 5})
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(result.Frames))
	}
	if result.Frames[1].Tick != 10 {
		t.Errorf("expected second frame at tick 10, got %d", result.Frames[1].Tick)
	}
	for i := range result.Final {
		if result.Frames[1].Particles[i] != result.Final[i] {
			t.Fatal("last frame should equal the final set")
		}
	}
}

func TestResultReleaseReturnsFramesToSimulator(t *testing.T) {
	s := New(physics.NewEngine(physics.DefaultParams()))
	cfg := Config{Ticks: 10, Bounds: window, RecordEvery: 5}

	first, err := s.Run(context.Background(), restingSet(8), cfg)
	if err != nil {
		t.Fatal(err)
	}
	released := first.Frames[0].Particles
	if released[0] == (physics.Particle{}) {
		t.Fatal("recorded frame should hold particle state")
	}

	first.Release()
	if first.Frames != nil {
		t.Error("release should drop the frames from the result")
	}
	if released[0] != (physics.Particle{}) {
		t.Error("released frame should be cleared by the pool")
	}
	first.Release()

	second, err := s.Run(context.Background(), restingSet(8), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if second.pool != first.pool {
		t.Error("runs of one simulator should share the frame pool for a set size")
	}
	for i := range second.Final {
		if second.Frames[1].Particles[i] != second.Final[i] {
			t.Fatal("frames taken from the pool must hold the recorded state")
		}
	}

	other, err := s.Run(context.Background(), restingSet(3), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if other.pool == first.pool {
		t.Error("a different set size needs its own pool")
	}
}

func TestResultReleaseWithoutFrames(t *testing.T) {
	s := New(physics.NewEngine(physics.DefaultParams()))
	result, err := s.Run(context.Background(), restingSet(4), Config{Ticks: 2, Bounds: window})
	if err != nil {
		t.Fatal(err)
	}
	result.Release()
	if result.Frames != nil || result.Final == nil {
		t.Error("release without frames should leave the rest of the result alone")
	}
}

func TestSimulatorCancel(t *testing.T) {
	s := New(physics.NewEngine(physics.DefaultParams()))
	ctx, cancel := context.WithCancel(context.Background())

	stop := &cancelAt{tick: 3, cancel: cancel}
	s.AddObserver(stop)

	result, err := s.Run(ctx, restingSet(10), Config{Ticks: 100, Bounds: window})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.StepsTaken != 3 {
		t.Errorf("expected 3 completed steps, got %d", result.StepsTaken)
	}
	if len(result.Final) != 10 {
		t.Errorf("expected final set of 10, got %d", len(result.Final))
	}
}

type cancelAt struct {
	tick   int
	cancel context.CancelFunc
}

func (c *cancelAt) OnTick(v physics.View, tick int) {
	if tick == c.tick {
		c.cancel()
	}
}

type resizeAt struct {
	tick int
	to   physics.Bounds
	sim  *Simulator
}

func (r *resizeAt) OnTick(v physics.View, tick int) {
	if tick == r.tick {
		r.sim.Resize(r.to)
	}
}

func TestSimulatorResize(t *testing.T) {
	s := New(physics.NewEngine(physics.DefaultParams()))
	small := physics.Bounds{Width: 200, Height: 150}
	s.AddObserver(&resizeAt{tick: 2, to: small, sim: s})

	result, err := s.Run(context.Background(), restingSet(100), Config{Ticks: 4, Bounds: window, ValidateState: true})
	if err != nil {
		t.Fatal(err)
	}
	if !physics.Contained(result.Final, small) {
		t.Error("particles should be inside the resized bounds")
	}
}

func TestSimulatorValidateState(t *testing.T) {
	s := New(explodingStepper{})

	result, err := s.Run(context.Background(), restingSet(3), Config{Ticks: 5, Bounds: window, ValidateState: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(result.Errors))
	}
	var simErr SimError
	if !errors.As(result.Errors[0], &simErr) || simErr.Tick != 1 {
		t.Errorf("expected SimError at tick 1, got %v", result.Errors[0])
	}
	if result.StepsTaken != 1 {
		t.Errorf("expected run to stop after 1 step, got %d", result.StepsTaken)
	}
}

type explodingStepper struct{}

func (explodingStepper) Step(ps physics.Set, b physics.Bounds) {
	ps[0].Pos.X = b.Width * 2
}

func TestRunWithCallback(t *testing.T) {
	s := New(physics.NewEngine(physics.DefaultParams()))

	var ticks []int
	err := s.RunWithCallback(context.Background(), restingSet(4), Config{Bounds: window}, func(v physics.View, tick int) bool {
		ticks = append(ticks, tick)
		return tick < 5
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(ticks) != 5 || ticks[4] != 5 {
		t.Errorf("expected ticks 1..5, got %v", ticks)
	}
}

func TestBufferReadersSeeWholeTicks(t *testing.T) {
	initial := restingSet(200)
	buf := NewBuffer(initial)
	engine := physics.NewEngine(physics.DefaultParams())

	// Replay the ticks serially so readers can check snapshots against them.
	expected := make([]physics.Set, 0, 21)
	ref := initial.Clone()
	expected = append(expected, ref.Clone())
	for i := 0; i < 20; i++ {
		physics.Step(ref, window, physics.DefaultParams())
		expected = append(expected, ref.Clone())
	}

	var wg sync.WaitGroup
	done := make(chan struct{})
	errs := make(chan string, 1)

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				buf.Read(func(v physics.View, tick int) {
					want := expected[tick]
					for i := 0; i < v.Len(); i++ {
						if v.Pos(i) != want[i].Pos {
							select {
							case errs <- "torn snapshot":
							default:
							}
							return
						}
					}
				})
			}
		}()
	}

	for i := 0; i < 20; i++ {
		buf.Advance(engine, window)
	}
	close(done)
	wg.Wait()

	select {
	case msg := <-errs:
		t.Fatal(msg)
	default:
	}
	if buf.Tick() != 20 {
		t.Errorf("expected tick 20, got %d", buf.Tick())
	}
}

func TestEnsembleIsDeterministicPerSeed(t *testing.T) {
	seed := func(s int64) physics.Set {
		return physics.Scatter(30, window, rand.New(rand.NewSource(s)))
	}
	metrics := func() []Metric { return []Metric{&countingMetric{}} }
	cfg := Config{Ticks: 5, Bounds: window}

	a, err := NewEnsemble(physics.DefaultParams(), seed, metrics, 4, 100).Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewEnsemble(physics.DefaultParams(), seed, metrics, 4, 100).Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	if len(a) != 4 {
		t.Fatalf("expected 4 results, got %d", len(a))
	}
	for i := range a {
		if a[i].Metrics["count"] != 5 {
			t.Errorf("run %d: expected 5 observations, got %v", i, a[i].Metrics["count"])
		}
		for j := range a[i].Final {
			if a[i].Final[j] != b[i].Final[j] {
				t.Fatalf("run %d differs between ensembles", i)
			}
		}
	}
	if a[0].Final[0] == a[1].Final[0] {
		t.Error("different seeds should give different runs")
	}
}
