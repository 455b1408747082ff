package experiment

import (
	"context"
	"testing"

	"github.com/san-kum/watersim/internal/config"
	"github.com/san-kum/watersim/internal/physics"
)

func smallConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Particles = 40
	cfg.Ticks = 30
	cfg.Seed = 7
	return *cfg
}

func TestExperimentRun(t *testing.T) {
	reg := NewRegistry()
	cfg := smallConfig()

	exp := New(cfg)
	if err := exp.Setup(reg, reg.DefaultMetrics(cfg.Bounds())); err != nil {
		t.Fatal(err)
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if result.StepsTaken != 30 {
		t.Errorf("expected 30 steps, got %d", result.StepsTaken)
	}
	for _, name := range reg.ListMetrics() {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("metric %s missing from result", name)
		}
	}
	if result.Metrics["containment"] != 1 {
		t.Errorf("expected full containment, got %f", result.Metrics["containment"])
	}
}

func TestExperimentIsReproducible(t *testing.T) {
	reg := NewRegistry()
	cfg := smallConfig()
	cfg.Layout = "perlin"

	run := func() physics.Set {
		exp := New(cfg)
		if err := exp.Setup(reg, nil); err != nil {
			t.Fatal(err)
		}
		res, err := exp.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		return res.Final
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("particle %d differs between identical runs", i)
		}
	}
}

func TestExperimentNotSetup(t *testing.T) {
	if _, err := New(smallConfig()).Run(context.Background()); err == nil {
		t.Error("expected error for experiment without setup")
	}
}

func TestRegistryUnknown(t *testing.T) {
	reg := NewRegistry()

	if _, err := reg.GetLayout("hexagonal"); err == nil {
		t.Error("expected error for unknown layout")
	}
	if _, err := reg.GetMetric("entropy", physics.Bounds{}); err == nil {
		t.Error("expected error for unknown metric")
	}

	cfg := smallConfig()
	cfg.Layout = "hexagonal"
	if err := New(cfg).Setup(reg, nil); err == nil {
		t.Error("expected setup to fail for unknown layout")
	}
}

func TestRegistryLists(t *testing.T) {
	reg := NewRegistry()
	if got := reg.ListLayouts(); len(got) != 2 || got[0] != "perlin" {
		t.Errorf("unexpected layouts: %v", got)
	}
	if got := reg.ListMetrics(); len(got) != 4 {
		t.Errorf("unexpected metrics: %v", got)
	}
}

func TestExperimentValidationFindsNothingOnHealthyRun(t *testing.T) {
	reg := NewRegistry()
	cfg := smallConfig()

	exp := New(cfg)
	if err := exp.Setup(reg, nil); err != nil {
		t.Fatal(err)
	}
	exp.EnableValidation()

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) != 0 {
		t.Errorf("expected no validation errors, got %v", result.Errors)
	}
	if result.StepsTaken != cfg.Ticks {
		t.Errorf("validation should not stop a healthy run, got %d steps", result.StepsTaken)
	}
}
