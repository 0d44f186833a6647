package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/engine"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	systemFile string
	model      string
	integrator string
	dt         float64
	steps      int
	timeScale  float64
	gravity    float64
	seed       int64
	logLevel   string
	theme      string
	theta      float64

	sampleEvery int
	plot        bool
	noSave      bool
	recordPath  string
	recordEvery int
	outPath     string
	addr        string
	svgPath     string
	delta       float64
	bodyName    string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "orbitsim",
		Short:         "2-D gravitational n-body simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runWatch,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".orbitsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", config.DefaultPreset, "preset system")
	pf.StringVar(&systemFile, "system", "", "system file (json or yaml), overrides --preset")
	pf.StringVar(&model, "model", string(engine.ModelNewtonian), "force model")
	pf.StringVar(&integrator, "integrator", string(engine.IntegratorVerlet), "integrator")
	pf.Float64Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
	pf.Float64Var(&timeScale, "time-scale", config.DefaultTimeScale, "time scale multiplier")
	pf.Float64Var(&gravity, "g", celestial.G, "gravitational constant")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	pf.StringVar(&logLevel, "log-level", "", "log to stderr at this level (debug, info, warn, error)")
	pf.StringVar(&theme, "theme", viz.ThemeNebula.Name, "colour theme: "+strings.Join(viz.ThemeNames(), ", "))
	pf.Float64Var(&theta, "theta", physics.DefaultTheta, "Barnes-Hut opening angle, 0 for exact sums")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and save the result",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of ticks")
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "energy sample interval in ticks")
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot energy drift after the run")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().StringVar(&recordPath, "record", "", "record body states into a new sqlite file")
	runCmd.Flags().IntVar(&recordEvery, "record-every", 10, "record interval in ticks")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the final trails as svg")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare integrators on the same system",
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of ticks")
	compareCmd.Flags().BoolVar(&plot, "plot", false, "overlay relative energy drift")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "advance a simulation live in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "host a simulation over HTTP and websocket",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	serveCmd.Flags().StringVar(&recordPath, "record", "", "record body states into a new sqlite file")
	serveCmd.Flags().IntVar(&recordEvery, "record-every", 60, "record interval in ticks")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset systems",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and angular momentum of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file, - for stdout")

	dumpCmd := &cobra.Command{
		Use:   "dump [path]",
		Short: "write the configured system to a json or yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  dumpSystem,
	}

	framesCmd := &cobra.Command{
		Use:   "frames [db] [body]",
		Short: "inspect a recorded frame database",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  showFrames,
	}
	framesCmd.Flags().StringVar(&svgPath, "svg", "", "draw the recorded tracks as svg")

	chaosCmd := &cobra.Command{
		Use:   "chaos",
		Short: "estimate the Lyapunov exponent by perturbing one body",
		Args:  cobra.NoArgs,
		RunE:  estimateChaos,
	}
	chaosCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of ticks")
	chaosCmd.Flags().Float64Var(&delta, "delta", 1e3, "initial displacement in metres")
	chaosCmd.Flags().StringVar(&bodyName, "body", "", "body to displace (default: first non-central body)")

	rootCmd.AddCommand(runCmd, compareCmd, watchCmd, serveCmd, presetsCmd, runsCmd, plotCmd, exportCmd, dumpCmd, framesCmd, chaosCmd)
	return rootCmd
}

// loadConfig layers defaults, the config file and explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("preset") {
		cfg.Preset = preset
		cfg.SystemFile = ""
	}
	if flags.Changed("system") {
		cfg.SystemFile = systemFile
	}
	if flags.Changed("model") {
		cfg.Model = model
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	} else if p := config.GetPreset(cfg.Preset); p != nil && p.Dt > 0 && configFile == "" && cfg.SystemFile == "" {
		cfg.Dt = p.Dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("time-scale") {
		cfg.TimeScale = timeScale
	}
	if flags.Changed("g") {
		cfg.G = gravity
	}
	if flags.Changed("theta") {
		cfg.Theta = theta
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("addr") {
		cfg.Server.Addr = addr
	}
	if flags.Changed("record-every") {
		cfg.Server.RecordEvery = recordEvery
	}
	return cfg, cfg.Validate()
}

// newEngine builds an engine configured by cfg with its system active.
func newEngine(cfg *config.Config) (*engine.Engine, error) {
	eng := engine.New()
	eng.SetLogger(newLogger())
	if err := cfg.Apply(eng); err != nil {
		return nil, err
	}
	sys, err := cfg.System(eng)
	if err != nil {
		return nil, err
	}
	eng.AddSystem(sys, true)
	return eng, nil
}

func newLogger() *slog.Logger {
	if logLevel == "" {
		return slog.New(slog.DiscardHandler)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// boundRadius is twice the largest initial distance from the central body,
// or from the centre of mass when there is none.
func boundRadius(sys *celestial.System) float64 {
	center, _ := sys.CenterOfMass()
	if c := sys.Central(); c != nil {
		center = c.Position
	}
	r := 0.0
	for _, b := range sys.Bodies {
		r = math.Max(r, b.Position.Distance(center))
	}
	if r == 0 {
		return celestial.AU
	}
	return 2 * r
}

func styles() viz.Styles {
	return viz.NewStyles(viz.GetTheme(theme))
}

func elapsedMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
