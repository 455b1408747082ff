package automation

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/watersim/internal/config"
	"github.com/san-kum/watersim/internal/experiment"
	"github.com/san-kum/watersim/internal/sim"
	"github.com/san-kum/watersim/internal/storage"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. Zero fields fall back to the preset.
type ScenarioStep struct {
	Preset    string             `yaml:"preset"`
	Particles int                `yaml:"particles"`
	Ticks     int                `yaml:"ticks"`
	Seed      int64              `yaml:"seed"`
	Layout    string             `yaml:"layout"`
	Params    map[string]float64 `yaml:"params"`
	SaveAs    string             `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// StepConfig resolves the configuration a step runs with.
func (s ScenarioStep) StepConfig() (*config.Config, error) {
	name := s.Preset
	if name == "" {
		name = "reference"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}

	if s.Particles > 0 {
		cfg.Particles = s.Particles
	}
	if s.Ticks > 0 {
		cfg.Ticks = s.Ticks
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Layout != "" {
		cfg.Layout = s.Layout
	}
	for k, v := range s.Params {
		if err := cfg.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all steps in order. Steps with save_as are archived in
// st when st is not nil. Progress lines go to out.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, st *storage.Store, out io.Writer) ([]*sim.Result, error) {
	results := make([]*sim.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.StepConfig()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		fmt.Fprintf(out, "running step %d/%d: %d particles, %d ticks\n", i+1, len(scenario.Steps), cfg.Particles, cfg.Ticks)

		exp := experiment.New(*cfg)
		if err := exp.Setup(registry, registry.DefaultMetrics(cfg.Bounds())); err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		results = append(results, result)

		if step.SaveAs != "" && st != nil {
			id, err := st.Save(storage.RunMeta{
				Name:      step.SaveAs,
				Particles: cfg.Particles,
				Width:     cfg.Width,
				Height:    cfg.Height,
				Ticks:     cfg.Ticks,
				Seed:      cfg.Seed,
				Layout:    cfg.Layout,
				Params:    cfg.Params(),
			}, result)
			if err != nil {
				return results, fmt.Errorf("step %d: save: %w", i+1, err)
			}
			fmt.Fprintf(out, "  saved %s as %s\n", step.SaveAs, id)
		}
	}

	return results, nil
}
