package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/scenecore/internal/config"
	"github.com/san-kum/scenecore/internal/logging"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logFormat  string

	sceneFile string
	fixedStep float64
	duration  float64
	frameRate float64
	maxDelta  float64
	maxSteps  int
	seed      int64
	count     int
	gravityY  float64
	damping   float64
	method    string

	ensemble int
	jsonOut  bool
	output   string

	svgOut      string
	snapshotOut string
	viewName    string
	origin      []float64
	direction   []float64

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	grid       []string
	metricName string

	logger = zap.NewNop()
)

// main registers the commands and runs the root command, exiting with status
// 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "scenecore",
		Short:         "real-time scene engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.FromStrings(logLevel, logFormat)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE: runPicker,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".scenecore", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", config.DefaultLogFormat, "log format (console, json)")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headlessly and store the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().IntVar(&ensemble, "ensemble", 0, "run N seeds concurrently instead of a single stored run")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "print the trajectory as JSON instead of storing it")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot entity heights of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata, or trajectories as SVG with --svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&svgOut, "svg", "", "write entity trajectories to this SVG file")
	exportCmd.Flags().StringVar(&viewName, "view", "side", "trajectory plane (side: x/y, top: x/z)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "report the dominant height oscillation of each entity in a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [scene]",
		Short: "step a scene for --time seconds and render it to SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshotScene,
	}
	addSceneFlags(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&snapshotOut, "output", "o", "scene.svg", "output SVG path")
	snapshotCmd.Flags().StringVar(&viewName, "view", "side", "camera view (side, top, orbit)")

	exportSceneCmd := &cobra.Command{
		Use:   "export-scene [scene]",
		Short: "write a built-in scene to a YAML or JSON scene file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportScene,
	}
	addSceneFlags(exportSceneCmd)
	exportSceneCmd.Flags().StringVarP(&output, "output", "o", "scene.yaml", "output path (.yaml, .yml or .json)")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene in real time in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a YAML scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "run a scene across a range of one parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addSceneFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "gravity", "parameter to vary")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", -20, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of samples")

	tuneCmd := &cobra.Command{
		Use:   "tune [scene]",
		Short: "grid search parameters that minimize a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTune,
	}
	addSceneFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&grid, "grid", nil, "param=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to minimize")

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "benchmark a scene",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	addSceneFlags(benchCmd)

	raycastCmd := &cobra.Command{
		Use:   "raycast [scene]",
		Short: "cast a ray into a scene and report the hit",
		Args:  cobra.MaximumNArgs(1),
		RunE:  raycastScene,
	}
	addSceneFlags(raycastCmd)
	raycastCmd.Flags().Float64SliceVar(&origin, "origin", []float64{0, 5, 20}, "ray origin x,y,z")
	raycastCmd.Flags().Float64SliceVar(&direction, "dir", []float64{0, 0, -1}, "ray direction x,y,z")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, analyzeCmd, exportSceneCmd, snapshotCmd,
		scenarioCmd, sweepCmd, tuneCmd, liveCmd, presetsCmd, benchCmd, raycastCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&sceneFile, "scene-file", "", "load the scene from a YAML or JSON scene file")
	cmd.Flags().Float64Var(&fixedStep, "dt", config.DefaultFixedStep, "fixed step in seconds")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated duration in seconds")
	cmd.Flags().Float64Var(&frameRate, "fps", config.DefaultFrameRate, "render ticks per second")
	cmd.Flags().Float64Var(&maxDelta, "max-delta", config.DefaultMaxDelta, "largest frame delta accepted, in seconds")
	cmd.Flags().IntVar(&maxSteps, "max-steps", config.DefaultMaxSteps, "most fixed steps per frame")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntVar(&count, "count", config.DefaultCount, "number of dynamic entities")
	cmd.Flags().Float64Var(&gravityY, "gravity", config.DefaultGravityY, "vertical gravity")
	cmd.Flags().Float64Var(&damping, "damping", 0, "linear velocity damping")
	cmd.Flags().StringVar(&method, "method", "euler", "physics stepping method (euler, verlet)")
}

// resolveConfig layers defaults, then a preset, then a config file, then any
// flag the user set explicitly.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Scene = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scene, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scene))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if len(args) > 0 {
			cfg.Scene = args[0]
		}
	}

	flags := cmd.Flags()
	if flags.Changed("scene-file") {
		cfg.SceneFile = sceneFile
	}
	if flags.Changed("dt") {
		cfg.Engine.FixedStep = fixedStep
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("fps") {
		cfg.FrameRate = frameRate
	}
	if flags.Changed("max-delta") {
		cfg.Engine.MaxDelta = maxDelta
	}
	if flags.Changed("max-steps") {
		cfg.Engine.MaxSteps = maxSteps
	}
	if flags.Changed("count") {
		cfg.Count = count
	}
	if flags.Changed("gravity") {
		cfg.Physics.Gravity[1] = gravityY
	}
	if flags.Changed("damping") {
		cfg.Physics.Damping = damping
	}
	if flags.Changed("method") {
		cfg.Physics.Method = method
	}
	if flags.Changed("seed") || (configFile == "" && preset == "") {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !flags.Changed("log-level") && !flags.Changed("log-format") && configFile != "" {
		l, err := logging.FromStrings(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return nil, err
		}
		logger = l
	}
	return cfg, nil
}
