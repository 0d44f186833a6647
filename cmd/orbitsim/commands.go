package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/analysis"
	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/engine"
	"github.com/san-kum/orbitsim/internal/ensemble"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/server"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/vector"
	"github.com/san-kum/orbitsim/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}
	sys := eng.ActiveSystem()

	ms := metrics.Defaults(boundRadius(sys))
	metrics.Attach(eng, ms...)
	trace := metrics.NewTrace(cfg.SampleEvery)
	eng.AddObserver(trace)

	var frames *storage.FrameDB
	if recordPath != "" {
		frames, err = storage.OpenFrameDB(recordPath, recordEvery)
		if err != nil {
			return err
		}
		defer frames.Close()
		eng.AddObserver(frames)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("running %s with %s/%s for %d steps of %gs...\n", sys.Name, cfg.Model, cfg.Integrator, cfg.Steps, cfg.Dt)
	start := time.Now()
	n, err := eng.Run(ctx, cfg.Dt, cfg.Steps)
	elapsed := time.Since(start)
	if err != nil {
		var runErr *engine.RunError
		if !errors.As(err, &runErr) {
			return err
		}
		fmt.Printf("interrupted after %d ticks\n", n)
	}
	if frames != nil {
		if err := frames.Err(); err != nil {
			return fmt.Errorf("record frames: %w", err)
		}
	}

	st := styles()
	fmt.Println(lipgloss.JoinHorizontal(lipgloss.Top, viz.StatsPanel(st, eng.Statistics()), " ", viz.BodyTable(st, sys)))
	fmt.Printf("completed %d ticks in %.2fms\n", n, elapsedMs(elapsed))

	values := metrics.Values(ms...)
	fmt.Println("\nmetrics:")
	for _, name := range slices.Sorted(maps.Keys(values)) {
		fmt.Printf("  %s: %.6e\n", name, values[name])
	}

	if plot {
		fmt.Println()
		fmt.Println(viz.Plot(viz.Relative(trace.Energies()), viz.PlotOptions{
			Width:   80,
			Height:  10,
			Caption: "relative energy drift",
		}))
	}

	if svgPath != "" {
		if err := writeSVG(svgPath, export.SystemTracks(sys)); err != nil {
			return err
		}
	}

	if noSave {
		return nil
	}
	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(storage.RunMetadata{
		Preset:     cfg.Preset,
		Model:      cfg.Model,
		Integrator: cfg.Integrator,
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Steps:      n,
		TimeScale:  cfg.TimeScale,
		G:          cfg.G,
		Metrics:    values,
	}, sys, trace.Samples())
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

// writeSVG draws tracks into path.
func writeSVG(path string, tracks []export.Track) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteSVG(f, tracks, 800, 800); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	keys := args
	if len(keys) == 0 {
		for _, k := range engine.New().IntegratorKeys() {
			keys = append(keys, string(k))
		}
	}

	type candidate struct {
		drift  *metrics.EnergyDrift
		ldrift *metrics.AngularMomentumDrift
		trace  *metrics.Trace
	}
	var members []ensemble.Member
	var candidates []candidate
	var failed []string
	for _, key := range keys {
		c := *cfg
		c.Integrator = key
		eng, err := newEngine(&c)
		if err != nil {
			failed = append(failed, fmt.Sprintf("%s\terror: %v", key, err))
			continue
		}
		cand := candidate{
			drift:  metrics.NewEnergyDrift(),
			ldrift: metrics.NewAngularMomentumDrift(),
			trace:  metrics.NewTrace(c.SampleEvery),
		}
		metrics.Attach(eng, cand.drift, cand.ldrift)
		eng.AddObserver(cand.trace)
		members = append(members, ensemble.Member{Name: key, Engine: eng})
		candidates = append(candidates, cand)
	}

	fmt.Printf("comparing integrators (dt=%gs, steps=%d)\n\n", cfg.Dt, cfg.Steps)
	results := ensemble.Run(cmd.Context(), members, cfg.Dt, cfg.Steps, 0)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tENERGY DRIFT\tL DRIFT\tSIM TIME\tWALL MS")

	var series [][]float64
	var names []string
	for i, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", r.Name, r.Err)
			continue
		}
		cand := candidates[i]
		fmt.Fprintf(w, "%s\t%.3e\t%.3e\t%s\t%.2f\n",
			r.Name,
			cand.drift.Value(),
			cand.ldrift.Value(),
			viz.FormatDuration(r.Engine.ActiveSystem().Time),
			elapsedMs(r.Wall),
		)
		series = append(series, viz.Relative(cand.trace.Energies()))
		names = append(names, r.Name)
	}
	for _, line := range failed {
		fmt.Fprintln(w, line)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if plot && len(series) > 0 {
		fmt.Println()
		fmt.Println(viz.PlotMany(series, names, viz.PlotOptions{
			Width:   80,
			Height:  12,
			Caption: "relative energy drift",
		}))
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}
	w := viz.NewWatch(eng, viz.WatchOptions{Dt: cfg.Dt, FPS: cfg.FPS, Theme: theme})
	_, err = tea.NewProgram(w, tea.WithAltScreen()).Run()
	return err
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector, err := metrics.NewCollector(reg)
	if err != nil {
		return err
	}
	eng.AddObserver(collector)

	if recordPath != "" {
		frames, err := storage.OpenFrameDB(recordPath, cfg.Server.RecordEvery)
		if err != nil {
			return err
		}
		defer frames.Close()
		eng.AddObserver(frames)
	}

	// Without an explicit --dt the host advances one frame of wall time per
	// tick and --time-scale sets the speed.
	opts := server.Options{FPS: cfg.FPS, Logger: newLogger()}
	if cmd.Flags().Changed("dt") {
		opts.Dt = cfg.Dt
	}
	host := server.NewHost(eng, opts)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	fmt.Printf("serving %s on %s\n", eng.ActiveSystem().Name, cfg.Server.Addr)
	return host.ListenAndServe(ctx, cfg.Server.Addr, reg)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDT\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%gs\t%s\n", name, p.Dt, p.Description)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSYSTEM\tTIME\tMODEL\tINTEG\tSTEPS\tDT\tSIM TIME")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%gs\t%s\n",
			run.ID,
			run.System,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Model,
			run.Integrator,
			run.Steps,
			run.Dt,
			viz.FormatDuration(run.SimulationTime),
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := store.LoadSamples(meta.ID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("run %s has no samples", meta.ID)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("system: %s (%s/%s)\n", meta.System, meta.Model, meta.Integrator)
	fmt.Printf("samples: %d\n\n", len(samples))

	energy := make([]float64, len(samples))
	angular := make([]float64, len(samples))
	for i, s := range samples {
		energy[i] = s.Energy
		angular[i] = s.AngularMomentum
	}
	opts := viz.PlotOptions{Width: 80, Height: 10}
	opts.Caption = "relative energy drift"
	fmt.Println(viz.Plot(viz.Relative(energy), opts))
	fmt.Println()
	opts.Caption = "relative angular momentum drift"
	fmt.Println(viz.Plot(viz.Relative(angular), opts))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	sys, err := store.LoadSystem(meta.ID)
	if err != nil {
		return err
	}
	samples, err := store.LoadSamples(meta.ID)
	if err != nil {
		return err
	}
	return storage.ExportJSON(outPath, storage.NewExport(*meta, sys, samples))
}

func dumpSystem(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}
	if err := celestial.SaveFile(args[0], eng.ActiveSystem()); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bodies)\n", args[0], eng.ActiveSystem().Len())
	return nil
}

func showFrames(cmd *cobra.Command, args []string) error {
	db, err := storage.ReadFrameDB(args[0])
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.Frames()
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d frames\n", args[0], n)

	if svgPath != "" {
		tracks, err := frameTracks(db, args[1:])
		if err != nil {
			return err
		}
		if err := writeSVG(svgPath, tracks); err != nil {
			return err
		}
	}
	if len(args) < 2 {
		return nil
	}

	rows, err := db.Track(args[1])
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FRAME\tTICK\tTIME\tX\tY\tSPEED")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%d\t%s\t%.4e\t%.4e\t%.4e\n",
			r.Frame, r.Tick, viz.FormatDuration(r.Time), r.X, r.Y, math.Hypot(r.VX, r.VY))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(rows) >= analysis.MinSamples {
		xs := make([]float64, len(rows))
		for i, r := range rows {
			xs[i] = r.X
		}
		interval := (rows[len(rows)-1].Time - rows[0].Time) / float64(len(rows)-1)
		if period, err := analysis.DominantPeriod(xs, interval); err == nil {
			fmt.Printf("\nestimated period: %s\n", viz.FormatDuration(period))
		}
	}
	return nil
}

// frameTracks loads the named bodies' tracks, or every body of the first
// frame when names is empty.
func frameTracks(db *storage.FrameDB, names []string) ([]export.Track, error) {
	if len(names) == 0 {
		first, err := db.Frame(0)
		if err != nil {
			return nil, err
		}
		for _, r := range first {
			names = append(names, r.Name)
		}
	}
	tracks := make([]export.Track, 0, len(names))
	for i, name := range names {
		rows, err := db.Track(name)
		if err != nil {
			return nil, err
		}
		hue := 360 * float64(i) / float64(len(names))
		t := export.Track{Name: name, Color: colorful.Hsv(hue, 0.6, 1).Hex()}
		for _, r := range rows {
			t.Points = append(t.Points, vector.New(r.X, r.Y))
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}

func estimateChaos(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	a, err := newEngine(cfg)
	if err != nil {
		return err
	}
	b, err := newEngine(cfg)
	if err != nil {
		return err
	}

	sys := b.ActiveSystem()
	target := sys.Body(bodyName)
	if bodyName == "" {
		for _, body := range sys.Bodies {
			if body != sys.Central() && !body.FixedPosition {
				target = body
				break
			}
		}
	}
	if target == nil {
		return fmt.Errorf("no body to displace in %s", sys.Name)
	}
	target.Place(target.Position.Add(vector.New(delta, 0)), target.Velocity)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("displacing %s by %gm in %s (%s/%s, %d steps of %gs)\n",
		target.Name, delta, sys.Name, cfg.Model, cfg.Integrator, cfg.Steps, cfg.Dt)
	lambda, err := analysis.LyapunovExponent(ctx, a, b, cfg.Dt, cfg.Steps)
	if err != nil {
		return err
	}
	final, err := analysis.Separation(a.ActiveSystem(), sys)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "lyapunov exponent\t%.4e 1/s\n", lambda)
	if lambda > 0 {
		fmt.Fprintf(w, "e-folding time\t%s\n", viz.FormatDuration(1/lambda))
	}
	fmt.Fprintf(w, "final separation\t%.4e m\n", final)
	return w.Flush()
}
