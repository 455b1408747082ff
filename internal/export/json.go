package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/watersim/internal/physics"
	"github.com/san-kum/watersim/internal/sim"
)

type FrameData struct {
	Tick      int         `json:"tick"`
	Particles [][]float64 `json:"particles"`
}

type ExportData struct {
	Particles int                `json:"particles"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Params    physics.Params     `json:"params"`
	Steps     int                `json:"steps"`
	Energy    []float64          `json:"energy"`
	Frames    []FrameData        `json:"frames"`
	Final     [][]float64        `json:"final"`
	Metrics   map[string]float64 `json:"metrics"`
}

func NewExportData(b physics.Bounds, p physics.Params, result *sim.Result) ExportData {
	data := ExportData{
		Particles: len(result.Final),
		Width:     b.Width,
		Height:    b.Height,
		Params:    p,
		Steps:     result.StepsTaken,
		Energy:    result.Energy,
		Frames:    make([]FrameData, len(result.Frames)),
		Final:     particleRows(result.Final),
		Metrics:   result.Metrics,
	}
	for i, f := range result.Frames {
		data.Frames[i] = FrameData{Tick: f.Tick, Particles: particleRows(f.Particles)}
	}
	return data
}

// particleRows flattens each particle to [x, y, vx, vy].
func particleRows(s physics.Set) [][]float64 {
	out := make([][]float64, len(s))
	for i, p := range s {
		out[i] = []float64{p.Pos.X, p.Pos.Y, p.Vel.X, p.Vel.Y}
	}
	return out
}

// WriteJSON encodes a run as indented JSON.
func WriteJSON(w io.Writer, b physics.Bounds, p physics.Params, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(b, p, result))
}

func ExportJSON(path string, b physics.Bounds, p physics.Params, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteJSON(file, b, p, result); err != nil {
		return err
	}
	return file.Close()
}
