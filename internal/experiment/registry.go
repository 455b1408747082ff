package experiment

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/watersim/internal/metrics"
	"github.com/san-kum/watersim/internal/physics"
	"github.com/san-kum/watersim/internal/sim"
)

type Layout func(n int, b physics.Bounds, rng *rand.Rand) physics.Set

type Registry struct {
	layouts map[string]Layout
	metrics map[string]func(physics.Bounds) sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		layouts: make(map[string]Layout),
		metrics: make(map[string]func(physics.Bounds) sim.Metric),
	}

	r.layouts["uniform"] = physics.Scatter
	r.layouts["perlin"] = physics.PerlinScatter

	r.metrics["energy"] = func(physics.Bounds) sim.Metric { return metrics.NewEnergy() }
	r.metrics["settling"] = func(physics.Bounds) sim.Metric { return metrics.NewSettling() }
	r.metrics["max_speed"] = func(physics.Bounds) sim.Metric { return metrics.NewMaxSpeed() }
	r.metrics["containment"] = func(b physics.Bounds) sim.Metric { return metrics.NewContainment(b) }

	return r
}

func (r *Registry) GetLayout(name string) (Layout, error) {
	fn, ok := r.layouts[name]
	if !ok {
		return nil, fmt.Errorf("unknown layout: %s", name)
	}
	return fn, nil
}

func (r *Registry) GetMetric(name string, b physics.Bounds) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(b), nil
}

func (r *Registry) ListLayouts() []string { return sortedKeys(r.layouts) }
func (r *Registry) ListMetrics() []string { return sortedKeys(r.metrics) }

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics(b physics.Bounds) []sim.Metric {
	names := r.ListMetrics()
	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		out = append(out, r.metrics[name](b))
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
