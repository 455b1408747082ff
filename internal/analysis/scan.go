package analysis

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/watersim/internal/physics"
)

// ScanPoint holds the distinct settled values seen for one parameter value.
type ScanPoint struct {
	Param  float64
	Values []float64
}

// ScanConfig describes a one-parameter sweep.
type ScanConfig struct {
	Param     string
	Min, Max  float64
	Steps     int
	Transient int // ticks discarded before recording
	Record    int // ticks recorded per point
	Bounds    physics.Bounds
}

// Observable reduces a particle set to the value recorded each tick.
type Observable func(ps physics.Set) float64

// MeanKineticEnergy is the default observable.
func MeanKineticEnergy(ps physics.Set) float64 {
	if len(ps) == 0 {
		return 0
	}
	return physics.KineticEnergy(ps) / float64(len(ps))
}

// ParameterScan sweeps cfg.Param from Min to Max. Each point starts from a
// copy of initial, runs Transient ticks to let the fluid settle and then
// records the distinct values of obs over Record ticks, quantized to 1e-3.
func ParameterScan(ctx context.Context, initial physics.Set, base physics.Params, cfg ScanConfig, obs Observable) ([]ScanPoint, error) {
	if obs == nil {
		obs = MeanKineticEnergy
	}
	steps := cfg.Steps
	if steps <= 1 {
		steps = 2
	}
	if cfg.Record <= 0 {
		return nil, fmt.Errorf("record ticks must be positive")
	}
	stride := (cfg.Max - cfg.Min) / float64(steps-1)

	results := make([]ScanPoint, 0, steps)
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		value := cfg.Min + float64(i)*stride
		params, err := base.With(cfg.Param, value)
		if err != nil {
			return nil, err
		}

		ps := initial.Clone()
		for t := 0; t < cfg.Transient; t++ {
			physics.Step(ps, cfg.Bounds, params)
		}

		values := make([]float64, 0, 16)
		seen := make(map[int64]bool)
		for t := 0; t < cfg.Record; t++ {
			physics.Step(ps, cfg.Bounds, params)
			v := obs(ps)
			key := int64(math.Round(v * 1000))
			if !seen[key] {
				seen[key] = true
				values = append(values, v)
			}
		}

		results = append(results, ScanPoint{Param: value, Values: values})
	}

	return results, nil
}

// ScanToASCII plots scan points, parameter on x and recorded values on y.
func ScanToASCII(data []ScanPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var minVal, maxVal float64
	found := false
	for _, p := range data {
		for _, v := range p.Values {
			if !found {
				minVal, maxVal = v, v
				found = true
				continue
			}
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}
	if !found {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := blankCanvas(width, height)
	for i, p := range data {
		col := i * width / len(data)
		if col >= width {
			col = width - 1
		}
		for _, v := range p.Values {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			if row >= 0 && row < height {
				canvas[row][col] = '•'
			}
		}
	}

	return renderCanvas(canvas)
}

func blankCanvas(width, height int) [][]rune {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}
	return canvas
}

func renderCanvas(canvas [][]rune) string {
	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
