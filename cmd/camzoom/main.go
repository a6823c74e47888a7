package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dirksavage88/camzoom/internal/analysis"
	"github.com/dirksavage88/camzoom/internal/automation"
	"github.com/dirksavage88/camzoom/internal/config"
	"github.com/dirksavage88/camzoom/internal/diag"
	"github.com/dirksavage88/camzoom/internal/export"
	"github.com/dirksavage88/camzoom/internal/metrics"
	"github.com/dirksavage88/camzoom/internal/optim"
	"github.com/dirksavage88/camzoom/internal/scenario"
	"github.com/dirksavage88/camzoom/internal/storage"
	"github.com/dirksavage88/camzoom/internal/tui"
	"github.com/dirksavage88/camzoom/internal/viz"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	dt         float64
	duration   float64
	verbose    bool
	slewRate   float64
	maxZoom    float64
	zoomTo     float64
	zoomAt     float64
	saveRun    bool
	// Live view and follow renderer
	follow     bool
	watchFiles bool
	frameRate  int
	// Sweep and tune
	rateList   string
	workers    int
	tuneMetric string
	// Export options
	exportFormat string
	outFile      string
)

// main is the entry point for the camzoom CLI; it registers commands and flags, launches the interactive preset picker when no subcommand is provided, and executes the root command.
// It exits the process with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "camzoom",
		Short: "camera zoom controller lab",
		Run: func(cmd *cobra.Command, args []string) {
			// Default to the interactive preset picker when no command given
			diag.SetOutput(io.Discard)
			p := tea.NewProgram(viz.NewApp())
			if _, err := p.Run(); err != nil {
				os.Exit(1)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".camzoom", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
	rootCmd.PersistentFlags().Float64Var(&duration, "duration", config.DefaultDuration, "scenario duration in seconds")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			diag.SetLevel(diag.LevelDebug)
		}
	}

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scenario headless",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().Float64Var(&slewRate, "slew", math.Inf(1), "slew rate in focal units per second (Inf jumps instantly)")
	runCmd.Flags().Float64Var(&maxZoom, "max-zoom", config.DefaultMaxZoom, "maximum zoom factor")
	runCmd.Flags().Float64Var(&zoomTo, "zoom", 0, "append a zoom command")
	runCmd.Flags().Float64Var(&zoomAt, "at", 0.5, "time of the appended zoom command")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "persist samples and metrics")
	runCmd.Flags().BoolVar(&follow, "follow", false, "draw frames while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --follow")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a scenario with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLiveView,
	}
	liveCmd.Flags().Float64Var(&slewRate, "slew", math.Inf(1), "slew rate in focal units per second (Inf jumps instantly)")
	liveCmd.Flags().Float64Var(&maxZoom, "max-zoom", config.DefaultMaxZoom, "maximum zoom factor")
	liveCmd.Flags().Float64Var(&zoomTo, "zoom", 0, "append a zoom command")
	liveCmd.Flags().Float64Var(&zoomAt, "at", 0.5, "time of the appended zoom command")
	liveCmd.Flags().BoolVar(&watchFiles, "watch", false, "reload when the config or script file changes")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "run the scenario across slew rates in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepRates,
	}
	sweepCmd.Flags().StringVar(&rateList, "rates", "0.5,1,2,5,10", "comma separated slew rates")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "worker pool size (0 picks one per spare cpu)")
	sweepCmd.Flags().Float64Var(&maxZoom, "max-zoom", config.DefaultMaxZoom, "maximum zoom factor")
	sweepCmd.Flags().Float64Var(&zoomTo, "zoom", 0, "append a zoom command")
	sweepCmd.Flags().Float64Var(&zoomAt, "at", 0.5, "time of the appended zoom command")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run data",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format: json, csv, svg, wedge")
	exportCmd.Flags().StringVar(&outFile, "out", "", "write to file instead of stdout")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, name := range config.ListPresets() {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark tick throughput",
		RunE:  benchController,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [preset1] [preset2] ...",
		Short: "compare presets on the same metric set",
		RunE:  comparePresets,
	}

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "run a yaml batch of scenarios",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatchFile,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune [preset]",
		Short: "grid search the slew rate",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneSlew,
	}
	tuneCmd.Flags().StringVar(&rateList, "rates", "0.5,1,2,5,10,20", "comma separated candidate rates")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "settling_time", "metric to minimize")
	tuneCmd.Flags().Float64Var(&zoomTo, "zoom", 0, "append a zoom command")
	tuneCmd.Flags().Float64Var(&zoomAt, "at", 0.5, "time of the appended zoom command")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "step response and frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	rootCmd.AddCommand(runCmd, liveCmd, sweepCmd, plotCmd, listCmd, exportCmd, presetsCmd, benchCmd, compareCmd, batchCmd, tuneCmd, analyzeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildRunConfig resolves the configuration for a scenario command: preset
// argument first, then config file, then any explicitly set flags on top.
func buildRunConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if len(args) > 0 {
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
	}

	// Load config file if specified (overrides preset)
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Run.Dt = dt
	}
	if cmd.Flags().Changed("duration") {
		cfg.Run.Duration = duration
	}
	if cmd.Flags().Changed("slew") {
		cfg.Zoom.SlewRate = slewRate
	}
	if cmd.Flags().Changed("max-zoom") {
		cfg.Zoom.MaxZoom = maxZoom
	}
	if cmd.Flags().Changed("zoom") {
		cfg.Commands = append(cfg.Commands, config.CommandConfig{At: zoomAt, Zoom: zoomTo})
	}

	return cfg, nil
}

// defaultStep gives an otherwise idle scenario one command to track.
func defaultStep(cfg *config.Config) {
	if len(cfg.Commands) == 0 && cfg.Script == "" && cfg.ScriptText == "" {
		cfg.Commands = []config.CommandConfig{{At: 0.5, Zoom: cfg.Zoom.MaxZoom / 2}}
	}
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := buildRunConfig(cmd, args)
	if err != nil {
		return err
	}

	scn, err := scenario.New(cfg)
	if err != nil {
		return err
	}

	if follow {
		r := tui.NewFollowRenderer(os.Stdout, scn.Sensor(), scn.System(), cfg.ReferenceHfov(), frameRate)
		scn.Observe(r)
		r.Start()
		defer r.Stop()
	} else {
		fmt.Printf("running %s/%s scenario...\n", cfg.Camera.Model, cfg.Camera.Sensor)
	}

	start := time.Now()
	res, err := scn.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if follow {
		fmt.Println()
	}
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d\n", len(res.Samples))

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, res.Samples, res.Values)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Println("\nmetrics:")
	for name, val := range res.Values {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func runLiveView(cmd *cobra.Command, args []string) error {
	cfg, err := buildRunConfig(cmd, args)
	if err != nil {
		return err
	}

	scn, err := scenario.New(cfg)
	if err != nil {
		return err
	}

	var watcher *scenario.Watcher
	if watchFiles {
		var dirs []string
		if configFile != "" {
			dirs = append(dirs, filepath.Dir(configFile))
		}
		if cfg.Script != "" {
			dirs = append(dirs, filepath.Dir(cfg.Script))
		}
		if len(dirs) == 0 {
			return fmt.Errorf("--watch needs --config or a preset with a script file")
		}
		watcher, err = scenario.NewWatcher(dirs...)
		if err != nil {
			return err
		}
		defer watcher.Close()
	}

	// Route controller warnings away from the frames
	diag.SetOutput(io.Discard)

	p := tea.NewProgram(viz.NewModel(scn, watcher))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func sweepRates(cmd *cobra.Command, args []string) error {
	cfg, err := buildRunConfig(cmd, args)
	if err != nil {
		return err
	}
	defaultStep(cfg)

	rates, err := parseRates(rateList)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %d slew rates...\n\n", len(rates))
	points := scenario.SweepSlewRates(context.Background(), cfg, rates, workers)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLEW\tSETTLING\tFINAL ERR\tPEAK RATE\tWRITES")

	for _, pt := range points {
		if pt.Err != nil {
			fmt.Fprintf(w, "%g\terror: %v\n", pt.SlewRate, pt.Err)
			continue
		}
		fmt.Fprintf(w, "%g\t%.4fs\t%.2e\t%.4f\t%.0f\n",
			pt.SlewRate,
			pt.Values["settling_time"],
			pt.Values["final_error"],
			pt.Values["slew_peak"],
			pt.Values["write_count"],
		)
	}

	return w.Flush()
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
	fmt.Fprintln(w, "ID\tMODEL\tSENSOR\tTIME\tDURATION\tDT\tMAX ZOOM\tSLEW")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%.1fx\t%s\n",
			run.ID,
			run.Model,
			run.Sensor,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.MaxZoom,
			run.SlewRate,
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

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("camera: %s/%s\n", meta.Model, meta.Sensor)
	fmt.Printf("samples: %d\n\n", len(samples))

	hfov := make([]float64, len(samples))
	zoomFactor := make([]float64, len(samples))
	goal := make([]float64, len(samples))
	hasGoal := false
	for i, smp := range samples {
		hfov[i] = smp.Hfov
		zoomFactor[i] = smp.Zoom
		goal[i] = smp.GoalHfov
		if smp.GoalHfov > 0 {
			hasGoal = true
		}
	}

	graph := asciigraph.Plot(hfov,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("horizontal fov (rad)"),
	)
	fmt.Println(graph)
	fmt.Println()

	if hasGoal {
		start := 0
		for start < len(goal) && goal[start] == 0 {
			start++
		}
		graph = asciigraph.Plot(goal[start:],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("goal fov (rad)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	graph = asciigraph.Plot(zoomFactor,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("zoom factor"),
	)
	fmt.Println(graph)

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	switch exportFormat {
	case "json":
		if outFile != "" {
			return export.ExportJSON(outFile, *meta, samples)
		}
		return export.ExportJSONStdout(*meta, samples)

	case "csv":
		out := os.Stdout
		if outFile != "" {
			f, err := os.Create(outFile)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		return writeCSV(out, samples)

	case "svg":
		svg := export.TrajectoryToSVG(samples, 640, 320)
		if svg == "" {
			return fmt.Errorf("not enough samples for svg")
		}
		return writeText(svg)

	case "wedge":
		if len(samples) == 0 {
			return fmt.Errorf("no samples")
		}
		last := samples[len(samples)-1]
		svg := export.CanvasToSVG(viz.WedgeSnapshot(last.Hfov, last.GoalHfov, 48, 24), 6)
		return writeText(svg)

	default:
		return fmt.Errorf("unknown format: %s (json, csv, svg, wedge)", exportFormat)
	}
}

func writeText(s string) error {
	if outFile != "" {
		return os.WriteFile(outFile, []byte(s), 0644)
	}
	fmt.Println(s)
	return nil
}

func writeCSV(out io.Writer, samples []metrics.Sample) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	header := []string{"time", "hfov", "focal_length", "goal_hfov", "zoom", "changed"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, smp := range samples {
		row := []string{
			strconv.FormatFloat(smp.T, 'f', 6, 64),
			strconv.FormatFloat(smp.Hfov, 'f', 6, 64),
			strconv.FormatFloat(smp.FocalLength, 'f', 6, 64),
			strconv.FormatFloat(smp.GoalHfov, 'f', 6, 64),
			strconv.FormatFloat(smp.Zoom, 'f', 6, 64),
			strconv.FormatBool(smp.Changed),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func benchController(cmd *cobra.Command, args []string) error {
	durations := []float64{1.0, 5.0, 10.0}
	dts := []float64{0.001, 0.01, 0.1}

	fmt.Printf("benchmarking zoom controller\n\n")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, dt := range dts {
			cfg := config.DefaultConfig()
			cfg.Run.Dt = dt
			cfg.Run.Duration = dur
			cfg.Zoom.SlewRate = 2.0
			cfg.Commands = []config.CommandConfig{{At: 0, Zoom: 5.0}}

			scn, err := scenario.New(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			res, err := scn.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			steps := len(res.Samples)
			stepsPerSec := float64(steps) / elapsed.Seconds()

			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%v\t%.0f\n",
				dur, dt, steps, elapsed, stepsPerSec)
		}
	}

	return w.Flush()
}

func comparePresets(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = config.ListPresets()
	}

	fmt.Printf("comparing presets\n\n")
	fmt.Printf("%-12s  %-14s  %-12s  %-12s  %-8s\n", "preset", "settling_time", "final_error", "slew_peak", "writes")
	fmt.Println(strings.Repeat("-", 66))

	for _, name := range names {
		cfg := config.GetPreset(name)
		if cfg == nil {
			fmt.Printf("%-12s  unknown preset\n", name)
			continue
		}

		scn, err := scenario.New(cfg)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		res, err := scn.Run(context.Background())
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		fmt.Printf("%-12s  %14.4f  %12.2e  %12.4f  %8.0f\n",
			name,
			res.Values["settling_time"],
			res.Values["final_error"],
			res.Values["slew_peak"],
			res.Values["write_count"],
		)
	}

	return nil
}

func runBatchFile(cmd *cobra.Command, args []string) error {
	batch, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("batch: %s (%d steps)\n", batch.Name, len(batch.Steps))
	if batch.Description != "" {
		fmt.Println(batch.Description)
	}
	fmt.Println()

	results := automation.RunBatch(context.Background(), batch, st)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSOURCE\tRUN\tSETTLING\tFINAL ERR")

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(w, "%d\t%s\terror: %v\n", r.Step, r.Source, r.Err)
			continue
		}
		runID := r.RunID
		if runID == "" {
			runID = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.4fs\t%.2e\n",
			r.Step, r.Source, runID, r.Values["settling_time"], r.Values["final_error"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d steps failed", failed, len(results))
	}
	return nil
}

func tuneSlew(cmd *cobra.Command, args []string) error {
	cfg, err := buildRunConfig(cmd, args)
	if err != nil {
		return err
	}
	defaultStep(cfg)

	rates, err := parseRates(rateList)
	if err != nil {
		return err
	}

	fmt.Printf("tuning slew rate over %d candidates (metric: %s)\n", len(rates), tuneMetric)

	search := optim.NewGridSearch([]string{"slew_rate"}, [][]float64{rates})
	best, val, err := search.Search(context.Background(), func(params map[string]float64) (*config.Config, error) {
		c := *cfg
		c.Zoom.SlewRate = params["slew_rate"]
		return &c, nil
	}, tuneMetric)
	if err != nil {
		return err
	}

	fmt.Printf("best slew rate: %g\n", best["slew_rate"])
	fmt.Printf("%s: %.6f\n", tuneMetric, val)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("camera: %s/%s\n\n", meta.Model, meta.Sensor)

	if info, ok := analysis.Step(samples); ok {
		fmt.Printf("step at t=%.2fs: %.4f -> %.4f rad\n", info.At, info.From, info.To)
		if info.RiseTime >= 0 {
			fmt.Printf("  rise time (10-90%%): %.4fs\n", info.RiseTime)
		} else {
			fmt.Println("  rise time (10-90%): not reached")
		}
		fmt.Printf("  overshoot: %.2f%%\n", info.Overshoot*100)
		if tau := analysis.TimeConstant(samples, 1e-9); tau > 0 {
			fmt.Printf("  time constant: %.4fs\n", tau)
		}
	} else {
		fmt.Println("no zoom step found")
	}

	freqs, power := analysis.PowerSpectrum(samples, meta.Dt)
	if len(power) > 1 {
		plotData := power[1:]
		if len(plotData) > 200 {
			plotData = plotData[:200]
		}

		graph := asciigraph.Plot(plotData,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("power spectrum to %.1f hz", freqs[len(plotData)])),
		)
		fmt.Println()
		fmt.Println(graph)

		if f := analysis.DominantFrequency(samples, meta.Dt); f > 0 {
			fmt.Printf("\ndominant frequency: %.3f hz (period %.3f s)\n", f, 1.0/f)
		}
	}

	return nil
}

func parseRates(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	rates := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad rate %q: %w", p, err)
		}
		rates = append(rates, v)
	}
	return rates, nil
}
