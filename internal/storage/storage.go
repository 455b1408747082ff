package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/watersim/internal/physics"
	"github.com/san-kum/watersim/internal/sim"
)

const (
	metaFile   = "meta.json"
	energyFile = "energy.csv"
	finalFile  = "final.csv"
)

type RunMeta struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Particles  int                `json:"particles"`
	Width      float64            `json:"width"`
	Height     float64            `json:"height"`
	Ticks      int                `json:"ticks"`
	StepsTaken int                `json:"steps_taken"`
	Seed       int64              `json:"seed"`
	Layout     string             `json:"layout"`
	Params     physics.Params     `json:"params"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Store keeps one directory per run under <dir>/runs.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) runsDir() string         { return filepath.Join(s.dir, "runs") }
func (s *Store) runDir(id string) string { return filepath.Join(s.runsDir(), id) }

func (s *Store) Init() error {
	return os.MkdirAll(s.runsDir(), 0755)
}

// Save writes the run and returns its id. Timestamp, id, step count and
// metrics are filled in from result.
func (s *Store) Save(meta RunMeta, result *sim.Result) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	id, err := s.newID(meta.Timestamp)
	if err != nil {
		return "", err
	}
	meta.ID = id
	meta.StepsTaken = result.StepsTaken
	meta.Metrics = result.Metrics

	dir := s.runDir(id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, metaFile), data, 0644); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(dir, energyFile), func(w *csv.Writer) error {
		return writeEnergy(w, result.Energy)
	}); err != nil {
		return "", fmt.Errorf("write energy: %w", err)
	}
	if err := writeCSV(filepath.Join(dir, finalFile), func(w *csv.Writer) error {
		return WriteSet(w, result.Final)
	}); err != nil {
		return "", fmt.Errorf("write final set: %w", err)
	}

	return id, nil
}

func (s *Store) newID(ts time.Time) (string, error) {
	base := ts.Format("20060102-150405")
	id := base
	for n := 1; ; n++ {
		_, err := os.Stat(s.runDir(id))
		if os.IsNotExist(err) {
			return id, nil
		}
		if err != nil {
			return "", err
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
}

func (s *Store) List() ([]RunMeta, error) {
	entries, err := os.ReadDir(s.runsDir())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	runs := make([]RunMeta, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(id string) (*RunMeta, error) {
	data, err := os.ReadFile(filepath.Join(s.runDir(id), metaFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("run not found: %s", id)
		}
		return nil, err
	}
	var meta RunMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}
	return &meta, nil
}

func (s *Store) LoadEnergy(id string) ([]float64, error) {
	rows, err := readCSV(filepath.Join(s.runDir(id), energyFile))
	if err != nil {
		return nil, err
	}
	energy := make([]float64, 0, len(rows))
	for i, row := range rows {
		if len(row) != 2 {
			return nil, fmt.Errorf("energy row %d: expected 2 fields, got %d", i+1, len(row))
		}
		v, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("energy row %d: %w", i+1, err)
		}
		energy = append(energy, v)
	}
	return energy, nil
}

func (s *Store) LoadFrame(id string) (physics.Set, error) {
	f, err := os.Open(filepath.Join(s.runDir(id), finalFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSet(f)
}

func writeCSV(path string, fn func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := fn(w); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// readCSV returns every record after the header line.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

func writeEnergy(w *csv.Writer, energy []float64) error {
	if err := w.Write([]string{"tick", "kinetic_energy"}); err != nil {
		return err
	}
	for i, e := range energy {
		if err := w.Write([]string{strconv.Itoa(i + 1), formatFloat(e)}); err != nil {
			return err
		}
	}
	return nil
}

// WriteSet writes a header and one x,y,vx,vy row per particle.
func WriteSet(w *csv.Writer, s physics.Set) error {
	if err := w.Write([]string{"x", "y", "vx", "vy"}); err != nil {
		return err
	}
	for _, p := range s {
		row := []string{formatFloat(p.Pos.X), formatFloat(p.Pos.Y), formatFloat(p.Vel.X), formatFloat(p.Vel.Y)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func parseSet(rows [][]string) (physics.Set, error) {
	s := make(physics.Set, len(rows))
	for i, row := range rows {
		if len(row) != 4 {
			return nil, fmt.Errorf("particle row %d: expected 4 fields, got %d", i+1, len(row))
		}
		var vals [4]float64
		for k, field := range row {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("particle row %d: %w", i+1, err)
			}
			vals[k] = v
		}
		s[i] = physics.Particle{
			Pos: physics.Vec2{X: vals[0], Y: vals[1]},
			Vel: physics.Vec2{X: vals[2], Y: vals[3]},
		}
	}
	return s, nil
}

// ReadSet parses a set written by WriteSet.
func ReadSet(r io.Reader) (physics.Set, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return physics.Set{}, nil
	}
	return parseSet(records[1:])
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
