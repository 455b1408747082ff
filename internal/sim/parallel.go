package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/watersim/internal/physics"
)

// Ensemble runs independent simulations of the same parameters from
// different seeds. Every run owns its own set, so runs share nothing.
type Ensemble struct {
	params    physics.Params
	seed      func(seed int64) physics.Set
	metrics   func() []Metric
	numRuns   int
	seedStart int64
}

func NewEnsemble(params physics.Params, seed func(int64) physics.Set, metrics func() []Metric, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{params: params, seed: seed, metrics: metrics, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		i := i
		g.Go(func() error {
			s := New(physics.NewEngine(e.params))
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(ctx, e.seed(e.seedStart+int64(i)), cfg)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
