package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/scenecore/internal/analysis"
	"github.com/san-kum/scenecore/internal/automation"
	"github.com/san-kum/scenecore/internal/config"
	"github.com/san-kum/scenecore/internal/experiment"
	"github.com/san-kum/scenecore/internal/export"
	"github.com/san-kum/scenecore/internal/loop"
	"github.com/san-kum/scenecore/internal/optim"
	"github.com/san-kum/scenecore/internal/sim"
	"github.com/san-kum/scenecore/internal/spatial"
	"github.com/san-kum/scenecore/internal/storage"
	"github.com/san-kum/scenecore/internal/viz"
	"github.com/san-kum/scenecore/internal/vmath"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	exp := experiment.New(cfg, experiment.WithLogger(logger))

	if ensemble > 0 {
		return runEnsemble(ctx, exp, cfg)
	}

	if err := exp.Setup(nil); err != nil {
		return err
	}

	if !jsonOut {
		fmt.Printf("running %s...\n", exp.Name())
	}
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	for _, e := range result.Errors {
		logger.Warn("component error", zap.Error(e))
	}

	if jsonOut {
		return storage.WriteJSON(os.Stdout, exp.RunInfo(), result)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(exp.RunInfo(), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d (dropped frames: %d)\n", result.Steps, result.Dropped)
	fmt.Printf("checksum: %016x\n", result.Checksum())
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

func runEnsemble(ctx context.Context, exp *experiment.Experiment, cfg *config.Config) error {
	fmt.Printf("running %d x %s...\n", ensemble, exp.Name())
	start := time.Now()

	results, err := sim.NewEnsemble(exp.Builder(), ensemble, cfg.Seed).Run(ctx, experiment.SimConfig(cfg))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tDROPPED\tENERGY\tCONTAINMENT\tCHECKSUM")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%.4f\t%.3f\t%016x\n",
			cfg.Seed+int64(i), r.Steps, r.Dropped, r.Metrics["energy"], r.Metrics["containment"], r.Checksum())
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ncompleted in %v\n", time.Since(start))
	return nil
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tSTEP\tSTEPS\tDROPPED\tCHECKSUM")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\t%s\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.FixedStep,
			run.Steps,
			run.Dropped,
			run.Checksum,
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

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(states))

	numEntities := min(len(states[0])/3, 6)

	for ent := 0; ent < numEntities; ent++ {
		col := ent*3 + 1
		data := make([]float64, 0, len(states))
		for _, row := range states {
			if col < len(row) && !math.IsNaN(row[col]) {
				data = append(data, row[col])
			}
		}
		if len(data) == 0 {
			continue
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("entity %d height", ent)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	if svgOut != "" {
		return exportTrajectories(st, meta.ID)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// exportTrajectories draws every entity column of states.csv as one path.
func exportTrajectories(st *storage.Store, runID string) error {
	// Offset of the second plotted axis within an entity's x, y, z columns.
	second := 1
	switch viewName {
	case "side":
	case "top":
		second = 2
	default:
		return fmt.Errorf("unknown trajectory view %q (side, top)", viewName)
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to export")
	}

	var paths []export.Path
	for ent := 0; ent < len(states[0])/3; ent++ {
		col := ent * 3
		path := export.Path{Name: fmt.Sprintf("entity %d", ent)}
		for _, row := range states {
			if col+second >= len(row) {
				continue
			}
			path.Points = append(path.Points, export.Point{X: row[col], Y: row[col+second]})
		}
		paths = append(paths, path)
	}

	f, err := os.Create(svgOut)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.WriteSVG(f, export.TrajectoriesToSVG(paths, 800, 600)); err != nil {
		return err
	}
	fmt.Printf("wrote %d trajectories to %s\n", len(paths), svgOut)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(meta.ID)
	if err != nil {
		return err
	}
	if len(times) < 2 {
		return fmt.Errorf("not enough samples to analyze")
	}
	dt := (times[len(times)-1] - times[0]) / float64(len(times)-1)

	fmt.Printf("run: %s (%d samples, dt %.4fs)\n\n", meta.ID, len(times), dt)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ENTITY\tFREQ (Hz)\tPERIOD (s)\tPEAK")
	for ent := 0; ent < len(states[0])/3; ent++ {
		col := ent*3 + 1
		heights := make([]float64, 0, len(states))
		for _, row := range states {
			if col < len(row) {
				heights = append(heights, row[col])
			}
		}
		hz, peak, ok := analysis.DominantFrequency(heights, dt)
		if !ok {
			fmt.Fprintf(w, "%d\t-\t-\t-\n", ent)
			continue
		}
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.3f\n", ent, hz, 1/hz, peak)
	}
	return w.Flush()
}

func snapshotScene(cmd *cobra.Command, args []string) error {
	view, err := viz.ParseView(viewName)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	w, err := experiment.New(cfg, experiment.WithLogger(logger)).BuildScene(cfg.Seed)
	if err != nil {
		return err
	}
	steps := int(math.Round(cfg.Duration / cfg.Engine.FixedStep))
	for i := 0; i < steps; i++ {
		if err := w.Step(cfg.Engine.FixedStep); err != nil {
			logger.Warn("step failed", zap.Int("step", i), zap.Error(err))
		}
	}

	cam := viz.NewCamera()
	cam.View = view
	canvas := viz.NewCanvas(120, 48)
	viz.DrawScene(canvas, cam, w)

	f, err := os.Create(snapshotOut)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.WriteSVG(f, export.CanvasToSVG(canvas, 4)); err != nil {
		return err
	}
	fmt.Printf("rendered %d entities after %d steps to %s\n", w.Len(), steps, snapshotOut)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	runner := automation.NewRunner(config.DefaultConfig(), automation.WithStore(st), automation.WithLogger(logger))
	results, err := runner.Run(ctx, sc)

	if sc.Name != "" {
		fmt.Printf("scenario: %s\n", sc.Name)
	}
	for _, r := range results {
		id := r.RunID
		if id == "" {
			id = "-"
		}
		fmt.Printf("step %d: %-12s steps %-6d checksum %016x run %s\n",
			r.Index+1, r.Scene, r.Result.Steps, r.Result.Checksum(), id)
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	sw := automation.Sweep{Param: sweepParam, Min: sweepMin, Max: sweepMax, Steps: sweepSteps}
	results, err := automation.NewRunner(cfg, automation.WithLogger(logger)).RunSweep(ctx, sw)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tENERGY\tDRIFT\tSPEED\tCONTAINMENT\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%.4f\t%.3e\t%.4f\t%.2f\n", r.Value,
			r.Metrics["energy"], r.Metrics["energy_drift"], r.Metrics["mean_speed"], r.Metrics["containment"])
	}
	return w.Flush()
}

// parseGrid reads "name=v1,v2" specs into parallel name and value slices.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("bad grid spec %q, want name=v1,v2", spec)
		}
		var values []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid %s: %w", name, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runTune(cmd *cobra.Command, args []string) error {
	if len(grid) == 0 {
		return fmt.Errorf("at least one --grid is required")
	}
	names, ranges, err := parseGrid(grid)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := cfg.Clone().SetParam(name, 0); err != nil {
			return err
		}
	}

	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("searching %d candidates for lowest %s...\n", g.Size(), metricName)
	runner := automation.NewRunner(cfg, automation.WithLogger(logger))
	best, value, err := g.Search(ctx, runner.Evaluate, metricName)
	if err != nil {
		return err
	}

	fmt.Printf("best %s: %.6g\n", metricName, value)
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, best[name])
	}
	return nil
}

func exportScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	w, err := experiment.New(cfg, experiment.WithLogger(logger)).BuildScene(cfg.Seed)
	if err != nil {
		return err
	}
	digest, err := storage.SaveScene(output, w)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d entities to %s (digest %016x)\n", w.Len(), output, digest)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	exp := experiment.New(cfg, experiment.WithLogger(logger))
	if err := exp.Setup(nil); err != nil {
		return err
	}

	// Reset replays the same seed.
	first := true
	factory := func() (*sim.Simulator, error) {
		if first {
			first = false
			return exp.Simulator(), nil
		}
		return exp.Builder()(cfg.Seed)
	}
	return viz.RunLive(exp.Name(), loopConfig(cfg), factory, viz.WithLogger(logger))
}

func runPicker(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()
	items := make([]viz.Item, 0)
	for _, name := range registry.ListScenes() {
		items = append(items, viz.Item{Name: name, Description: registry.Describe(name)})
	}

	base := config.DefaultConfig()
	defaults := viz.Params{
		Count:    float64(base.Count),
		Seed:     1,
		GravityY: base.Physics.Gravity[1],
		Damping:  base.Physics.Damping,
	}

	launch := func(name string, p viz.Params) (viz.Model, error) {
		cfg := config.DefaultConfig()
		cfg.Scene = name
		cfg.Count = int(p.Count)
		cfg.Seed = int64(p.Seed)
		cfg.Physics.Gravity[1] = p.GravityY
		cfg.Physics.Damping = p.Damping
		if err := cfg.Validate(); err != nil {
			return viz.Model{}, err
		}
		build := experiment.New(cfg, experiment.WithLogger(logger)).Builder()
		return viz.NewModel(name, loopConfig(cfg), func() (*sim.Simulator, error) {
			return build(cfg.Seed)
		}, viz.WithLogger(logger))
	}
	return viz.RunPicker(items, defaults, launch)
}

func loopConfig(cfg *config.Config) loop.Config {
	return loop.Config{
		FixedStep: cfg.Engine.FixedStep,
		MaxDelta:  cfg.Engine.MaxDelta,
		MaxSteps:  cfg.Engine.MaxSteps,
	}
}

func listPresets(cmd *cobra.Command, args []string) error {
	scenes := config.Scenes()
	if len(args) > 0 {
		scenes = args
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tPRESET\tDURATION\tSTEP\tFPS\tCOUNT\tGRAVITY")
	for _, scene := range scenes {
		for _, name := range config.ListPresets(scene) {
			p := config.GetPreset(scene, name)
			fmt.Fprintf(w, "%s\t%s\t%.1fs\t%.4fs\t%.0f\t%d\t%.2f\n",
				scene, name, p.Duration, p.Engine.FixedStep, p.FrameRate, p.Count, p.Physics.Gravity[1])
		}
	}
	return w.Flush()
}

func benchScene(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	durations := []float64{1.0, 5.0}
	steps := []float64{1.0 / 30, 1.0 / 60, 1.0 / 240}

	fmt.Printf("benchmarking %s\n\n", base.Scene)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tSTEP\tSTEPS\tDROPPED\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, dt := range steps {
			cfg := base.Clone()
			cfg.Duration = dur
			cfg.Engine.FixedStep = dt

			exp := experiment.New(cfg)
			if err := exp.Setup([]sim.Metric{}); err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%d\t%v\t%.0f\n",
				dur, dt, result.Steps, result.Dropped, elapsed, float64(result.Steps)/elapsed.Seconds())
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	n := runtime.GOMAXPROCS(0) * 2
	exp := experiment.New(base)
	start := time.Now()
	results, err := sim.NewEnsemble(exp.Builder(), n, base.Seed).Run(context.Background(), experiment.SimConfig(base))
	if err != nil {
		return err
	}
	total := 0
	for _, r := range results {
		total += r.Steps
	}
	elapsed := time.Since(start)
	fmt.Printf("\nensemble: %d worlds, %d steps in %v (%.0f steps/sec)\n", n, total, elapsed, float64(total)/elapsed.Seconds())
	return nil
}

func raycastScene(cmd *cobra.Command, args []string) error {
	if len(origin) != 3 || len(direction) != 3 {
		return fmt.Errorf("origin and dir need exactly three components")
	}
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	w, err := experiment.New(cfg, experiment.WithLogger(logger)).BuildScene(cfg.Seed)
	if err != nil {
		return err
	}
	w.RefreshBounds()

	ray := spatial.NewRay(vmath.V3(origin[0], origin[1], origin[2]), vmath.V3(direction[0], direction[1], direction[2]))
	e, dist, ok := w.Raycast(ray)
	if !ok {
		fmt.Println("no hit")
		return nil
	}
	p := ray.At(dist)
	fmt.Printf("nearest: %s (id %d) at distance %.4f, point (%.3f, %.3f, %.3f)\n", e.Name, e.ID, dist, p.X, p.Y, p.Z)

	if first, ok := w.RaycastFirst(ray); ok && first != e {
		fmt.Printf("first in scene order: %s (id %d)\n", first.Name, first.ID)
	}
	return nil
}
