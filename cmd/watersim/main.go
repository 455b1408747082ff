package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/watersim/internal/analysis"
	"github.com/san-kum/watersim/internal/automation"
	"github.com/san-kum/watersim/internal/config"
	"github.com/san-kum/watersim/internal/experiment"
	"github.com/san-kum/watersim/internal/export"
	"github.com/san-kum/watersim/internal/gui"
	"github.com/san-kum/watersim/internal/optim"
	"github.com/san-kum/watersim/internal/physics"
	"github.com/san-kum/watersim/internal/sim"
	"github.com/san-kum/watersim/internal/storage"
	"github.com/san-kum/watersim/internal/tui"
)

var (
	dataDir string
	// config sources
	configFile string
	preset     string
	// config overrides
	particles   int
	width       float64
	height      float64
	seed        int64
	layout      string
	ticks       int
	recordEvery int
	gravity     float64
	damping     float64
	radius      float64
	force       float64
	// run options
	runName   string
	watch     bool
	frameRate int
	validate  bool
	jsonOut   string
	// output
	outFile    string
	plotEnergy bool
	// sweeps
	metricName string
	sweepSpecs []string
	numRuns    int
	scanParam  string
	scanMin    float64
	scanMax    float64
	scanSteps  int
	transient  int
	record     int
)

// main registers the watersim commands. With no subcommand it opens the window.
func main() {
	rootCmd := &cobra.Command{
		Use:   "watersim",
		Short: "2d particle water simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return gui.Run(cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".watersim", "data directory")
	addConfigFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().StringVar(&runName, "name", "", "run name")
	runCmd.Flags().BoolVar(&watch, "live", false, "print ANSI frames while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --live")
	runCmd.Flags().BoolVar(&validate, "validate", false, "stop at the first particle out of bounds or non-finite")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "also write the full result as JSON")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return tui.RunLive(cfg)
		},
	}
	addConfigFlags(liveCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive terminal menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.RunInteractive()
		},
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the simulation window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return gui.Run(cfg)
		},
	}
	addConfigFlags(guiCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot kinetic energy of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of kinetic energy",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the final particle set as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render the final particle set as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")
	svgCmd.Flags().BoolVar(&plotEnergy, "energy", false, "render the kinetic energy series instead")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE:  listPresets,
	}

	sweepCmd := &cobra.Command{
		Use:     "sweep",
		Short:   "grid search physics parameters",
		Example: "  watersim sweep --param gravity=0.25,0.5 --param damping=0.2,0.5,0.8 --metric settling",
		Args:    cobra.NoArgs,
		RunE:    runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepSpecs, "param", nil,
		"name=v1,v2,... (repeatable; names: "+strings.Join(physics.ParamNames(), ", ")+")")
	sweepCmd.Flags().StringVar(&metricName, "metric", "settling", "metric to minimize")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "sweep one parameter and plot settled kinetic energy",
		Args:  cobra.NoArgs,
		RunE:  runScan,
	}
	addConfigFlags(scanCmd)
	scanCmd.Flags().StringVar(&scanParam, "param", "damping",
		"parameter to sweep ("+strings.Join(physics.ParamNames(), ", ")+")")
	scanCmd.Flags().Float64Var(&scanMin, "min", 0, "first value")
	scanCmd.Flags().Float64Var(&scanMax, "max", 1, "last value")
	scanCmd.Flags().IntVar(&scanSteps, "steps", 40, "number of values")
	scanCmd.Flags().IntVar(&transient, "transient", 200, "ticks discarded per value")
	scanCmd.Flags().IntVar(&record, "record", 50, "ticks recorded per value")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run several seeds concurrently and summarize metrics",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addConfigFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of seeds")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the step at several particle counts",
		Args:  cobra.NoArgs,
		RunE:  benchStep,
	}

	rootCmd.AddCommand(runCmd, liveCmd, tuiCmd, guiCmd, listCmd, plotCmd, analyzeCmd,
		exportCmd, exportCSVCmd, svgCmd, presetsCmd, sweepCmd, scanCmd, ensembleCmd,
		scenarioCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.IntVarP(&particles, "particles", "n", def.Particles, "number of particles")
	f.Float64Var(&width, "width", def.Width, "window width")
	f.Float64Var(&height, "height", def.Height, "window height")
	f.Int64Var(&seed, "seed", def.Seed, "random seed")
	f.StringVar(&layout, "layout", def.Layout, "initial layout (uniform, perlin)")
	f.IntVar(&ticks, "ticks", def.Ticks, "ticks to run")
	f.IntVar(&recordEvery, "record-every", def.RecordEvery, "record a frame every n ticks (0 = never)")
	f.Float64Var(&gravity, "gravity", def.Physics.Gravity, "gravity added to vy each tick")
	f.Float64Var(&damping, "damping", def.Physics.Damping, "wall restitution factor")
	f.Float64Var(&radius, "radius", def.Physics.InteractionRadius, "interaction radius")
	f.Float64Var(&force, "force", def.Physics.InteractionForce, "repulsion stiffness")
}

// resolveConfig layers preset, config file and explicitly set flags, in that
// order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("particles") {
		cfg.Particles = particles
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("layout") {
		cfg.Layout = layout
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("record-every") {
		cfg.RecordEvery = recordEvery
	}
	if flags.Changed("gravity") {
		cfg.Physics.Gravity = gravity
	}
	if flags.Changed("damping") {
		cfg.Physics.Damping = damping
	}
	if flags.Changed("radius") {
		cfg.Physics.InteractionRadius = radius
	}
	if flags.Changed("force") {
		cfg.Physics.InteractionForce = force
	}

	return cfg, cfg.Validate()
}

// signalContext cancels on interrupt so long runs stop between ticks.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(*cfg)
	if err := exp.Setup(registry, registry.DefaultMetrics(cfg.Bounds())); err != nil {
		return err
	}

	if watch {
		live := tui.NewLiveRenderer(os.Stdout, runName, cfg.Bounds(), frameRate)
		live.Start()
		defer live.Stop()
		exp.GetSimulator().AddObserver(live)
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %d particles for %d ticks...\n", cfg.Particles, cfg.Ticks)
	start := time.Now()

	if validate {
		exp.EnableValidation()
	}
	result, err := exp.Run(ctx)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		fmt.Printf("stopped early: %v\n", err)
	}
	elapsed := time.Since(start)

	runID, saveErr := st.Save(storage.RunMeta{
		Name:      runName,
		Particles: cfg.Particles,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Ticks:     cfg.Ticks,
		Seed:      cfg.Seed,
		Layout:    cfg.Layout,
		Params:    cfg.Params(),
	}, result)
	if saveErr != nil {
		return saveErr
	}

	if jsonOut != "" {
		if err := export.ExportJSON(jsonOut, cfg.Bounds(), cfg.Params(), result); err != nil {
			return err
		}
	}
	result.Release()

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", result.StepsTaken)
	px, py := physics.Momentum(result.Final)
	fmt.Printf("momentum: (%.4f, %.4f)\n", px, py)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tN\tTICKS\tSIZE\tLAYOUT\tG\tD")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.0fx%.0f\t%s\t%.2f\t%.2f\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.StepsTaken,
			run.Width, run.Height,
			run.Layout,
			run.Params.Gravity,
			run.Params.Damping,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	energy, err := st.LoadEnergy(runID)
	if err != nil {
		return err
	}
	if len(energy) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d\n", meta.Particles)
	fmt.Printf("samples: %d\n\n", len(energy))

	graph := asciigraph.Plot(energy,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("kinetic energy vs tick"),
	)
	fmt.Println(graph)
	fmt.Println()

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	energy, err := st.LoadEnergy(runID)
	if err != nil {
		return err
	}
	if len(energy) < 2 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("particles: %d\n\n", meta.Particles)

	ps := analysis.PowerSpectrum(energy)
	plotData := ps
	if len(plotData) > 8 {
		plotData = ps[:len(ps)/2]
	}

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (kinetic energy)"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, bin := analysis.DominantFrequency(ps, len(energy))
	if bin == 0 {
		fmt.Println("no dominant oscillation")
		return nil
	}
	fmt.Printf("dominant frequency: %.4f cycles/tick (bin %d)\n", freq, bin)
	fmt.Printf("period: %.1f ticks\n", 1.0/freq)

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	set, err := st.LoadFrame(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	if err := storage.WriteSet(w, set); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	var svg string
	if plotEnergy {
		energy, err := st.LoadEnergy(runID)
		if err != nil {
			return err
		}
		svg = export.SeriesToSVG(energy, 800, 300, "#00ffff")
	} else {
		set, err := st.LoadFrame(runID)
		if err != nil {
			return err
		}
		bounds := physics.Bounds{Width: meta.Width, Height: meta.Height}
		svg = export.SnapshotToSVG(physics.ViewOf(set), bounds, meta.Params.RenderRadius())
	}

	if outFile == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tN\tLAYOUT\tGRAVITY\tDAMPING\tRADIUS\tFORCE")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%s\t%.2f\t%.2f\t%.1f\t%.3f\n",
			name, p.Particles, p.Layout,
			p.Physics.Gravity, p.Physics.Damping, p.Physics.InteractionRadius, p.Physics.InteractionForce)
	}
	return w.Flush()
}

// parseSweep turns "gravity=0,0.5,1" into a name and its values.
func parseSweep(spec string) (string, []float64, error) {
	name, list, ok := strings.Cut(spec, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("invalid --param %q, want name=v1,v2", spec)
	}
	if _, err := physics.DefaultParams().Get(name); err != nil {
		return "", nil, fmt.Errorf("%w (known: %s)", err, strings.Join(physics.ParamNames(), ", "))
	}

	var values []float64
	for _, s := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return "", nil, fmt.Errorf("invalid value in --param %q: %w", spec, err)
		}
		values = append(values, v)
	}
	return name, values, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(sweepSpecs) == 0 {
		return fmt.Errorf("at least one --param is required")
	}

	names := make([]string, 0, len(sweepSpecs))
	ranges := make([][]float64, 0, len(sweepSpecs))
	for _, spec := range sweepSpecs {
		name, values, err := parseSweep(spec)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	registry := experiment.NewRegistry()
	if _, err := registry.GetMetric(metricName, cfg.Bounds()); err != nil {
		return err
	}

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		c := cfg.Clone()
		for k, v := range params {
			if err := c.SetParam(k, v); err != nil {
				return nil, err
			}
		}
		exp := experiment.New(*c)
		m, err := registry.GetMetric(metricName, c.Bounds())
		if err != nil {
			return nil, err
		}
		return exp, exp.Setup(registry, []sim.Metric{m})
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("grid search over %s minimizing %s...\n", strings.Join(names, ", "), metricName)
	best, val, err := optim.NewGridSearch(names, ranges).Search(ctx, build, metricName)
	if err != nil {
		return err
	}

	fmt.Printf("best %s: %.6f\n", metricName, val)
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, best[name])
	}
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	seedFn, err := registry.GetLayout(cfg.Layout)
	if err != nil {
		return err
	}
	initial := seedFn(cfg.Particles, cfg.Bounds(), rand.New(rand.NewSource(cfg.Seed)))

	ctx, cancel := signalContext()
	defer cancel()

	points, err := analysis.ParameterScan(ctx, initial, cfg.Params(), analysis.ScanConfig{
		Param:     scanParam,
		Min:       scanMin,
		Max:       scanMax,
		Steps:     scanSteps,
		Transient: transient,
		Record:    record,
		Bounds:    cfg.Bounds(),
	}, analysis.MeanKineticEnergy)
	if err != nil {
		return err
	}

	fmt.Printf("mean kinetic energy per particle vs %s [%g, %g]\n\n", scanParam, scanMin, scanMax)
	fmt.Print(analysis.ScanToASCII(points, 80, 20))
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if numRuns <= 0 {
		return fmt.Errorf("runs must be positive, got %d", numRuns)
	}

	registry := experiment.NewRegistry()
	seedFn, err := registry.GetLayout(cfg.Layout)
	if err != nil {
		return err
	}
	bounds := cfg.Bounds()

	ens := sim.NewEnsemble(cfg.Params(),
		func(s int64) physics.Set {
			return seedFn(cfg.Particles, bounds, rand.New(rand.NewSource(s)))
		},
		func() []sim.Metric { return registry.DefaultMetrics(bounds) },
		numRuns, cfg.Seed)

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	results, err := ens.Run(ctx, sim.Config{Ticks: cfg.Ticks, Bounds: bounds})
	if err != nil {
		return err
	}
	fmt.Printf("%d runs of %d ticks in %v\n\n", numRuns, cfg.Ticks, time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTDDEV\tMIN\tMAX")
	for _, name := range registry.ListMetrics() {
		var sum, sumSq float64
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, r := range results {
			v := r.Metrics[name]
			sum += v
			sumSq += v * v
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
		n := float64(len(results))
		mean := sum / n
		std := math.Sqrt(math.Max(0, sumSq/n-mean*mean))
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.6f\t%.6f\n", name, mean, std, lo, hi)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}
	results, err := automation.RunScenario(ctx, scenario, experiment.NewRegistry(), st, os.Stdout)
	if err != nil {
		return err
	}

	for i, r := range results {
		fmt.Printf("\nstep %d:\n", i+1)
		printMetrics(r.Metrics)
	}
	return nil
}

func benchStep(cmd *cobra.Command, args []string) error {
	counts := []int{100, 250, 500, 1000, 2000}
	const benchTicks = 100

	bounds := physics.Bounds{Width: physics.DefaultWidth, Height: physics.DefaultHeight}
	params := physics.DefaultParams()

	fmt.Printf("benchmarking step, %d ticks per count\n\n", benchTicks)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tTICKS\tTIME\tTICKS/SEC\tPAIRS/SEC")

	for _, n := range counts {
		ps := physics.Scatter(n, bounds, rand.New(rand.NewSource(42)))

		start := time.Now()
		for t := 0; t < benchTicks; t++ {
			physics.Step(ps, bounds, params)
		}
		elapsed := time.Since(start)

		ticksPerSec := float64(benchTicks) / elapsed.Seconds()
		pairs := float64(n) * float64(n-1) / 2
		fmt.Fprintf(w, "%d\t%d\t%v\t%.1f\t%.3g\n",
			n, benchTicks, elapsed, ticksPerSec, pairs*ticksPerSec)
	}

	return w.Flush()
}
