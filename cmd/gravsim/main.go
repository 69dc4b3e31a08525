package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
)

var (
	dataDir string
	verbose bool

	// config overrides
	preset    string
	maxDt     float64
	steps     int
	writeStep int
	threshold float64
	gravity   float64
	stepper   string
	estimator string
	workers   int

	outFile  string
	inFile   string
	theme    string
	noSave   bool
	steppers []string
	width    int
	height   int
	saveTo   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "gravsim",
		Short:         "2D n-body gravity simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [config]",
		Short: "run a simulation from a config file or preset",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().StringVarP(&outFile, "out", "o", "", "write snapshots as \"t, x0, y0, ...\" lines (- for stdout)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body coordinates of a stored run or a snapshot file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&inFile, "file", "", "plot a \"t, x0, y0, ...\" file written by run --out")

	energyCmd := &cobra.Command{
		Use:   "energy [config]",
		Short: "run without saving and plot energy drift and timestep",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotEnergy,
	}
	addConfigFlags(energyCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [config]",
		Short: "run the same configuration with several steppers",
		Args:  cobra.MaximumNArgs(1),
		RunE:  compareSteppers,
	}
	addConfigFlags(compareCmd)
	compareCmd.Flags().StringSliceVar(&steppers, "steppers", nil, "steppers to compare (default all)")

	liveCmd := &cobra.Command{
		Use:   "live [config]",
		Short: "step a simulation in an interactive terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", viz.CurrentTheme.Name, fmt.Sprintf("color theme (%s)", strings.Join(viz.ThemeNames(), ", ")))

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored trajectory as \"t, x0, y0, ...\" lines",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "-", "output file (- for stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "-", "output file (- for stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw the trajectories of a stored run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&width, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&height, "height", 800, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets, or write one out as a config file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}
	presetsCmd.Flags().StringVar(&saveTo, "save", "", "write the named preset to this .yaml or .toml file")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, energyCmd, compareCmd, liveCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "start from a named preset")
	cmd.Flags().Float64Var(&maxDt, "dt", config.DefaultMaxTimeStep, "max time step")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultNumberOfSteps, "number of steps")
	cmd.Flags().IntVar(&writeStep, "write-step", config.DefaultWriteStep, "snapshot every n steps")
	cmd.Flags().Float64Var(&threshold, "threshold", config.DefaultDistThreshold, "distance threshold")
	cmd.Flags().Float64Var(&gravity, "g", nbody.DefaultG, "gravitational constant")
	cmd.Flags().StringVar(&stepper, "stepper", config.DefaultStepper, "stepper (leapfrog, euler)")
	cmd.Flags().StringVar(&estimator, "estimator", config.DefaultEstimator, "timestep estimator (separation, closest-approach)")
	cmd.Flags().IntVar(&workers, "workers", 1, "goroutines per step")
}

// loadConfig reads the config file argument or the preset, then applies
// every flag the user set explicitly.
func loadConfig(cmd *cobra.Command, args []string) (string, *config.Config, error) {
	var (
		name string
		cfg  *config.Config
	)
	switch {
	case len(args) == 1:
		c, err := config.Load(args[0])
		if err != nil {
			return "", nil, fmt.Errorf("failed to load config: %w", err)
		}
		name, cfg = runName(args[0]), c
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return "", nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		name = preset
	default:
		return "", nil, errors.New("need a config file or --preset")
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.MaxTimeStep = maxDt
	}
	if flags.Changed("steps") {
		cfg.NumberOfSteps = steps
	}
	if flags.Changed("write-step") {
		cfg.WriteStep = writeStep
	}
	if flags.Changed("threshold") {
		cfg.DistThreshold = threshold
	}
	if flags.Changed("g") {
		cfg.G = gravity
	}
	if flags.Changed("stepper") {
		cfg.Stepper = stepper
	}
	if flags.Changed("estimator") {
		cfg.Estimator = estimator
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}

	slog.Debug("config loaded", "name", name, "bodies", len(cfg.Bodies), "steps", cfg.NumberOfSteps,
		"max_dt", cfg.MaxTimeStep, "stepper", cfg.Stepper, "estimator", cfg.Estimator)
	return name, cfg, nil
}

func runName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	exp, err := experiment.New(experiment.NewRegistry(), cfg, true)
	if err != nil {
		return err
	}

	rec := sim.NewRecorder()
	sinks := []sim.Sink{rec}

	var lines *export.LineSink
	if outFile != "" {
		w, closeOut, err := openOutput(outFile)
		if err != nil {
			return err
		}
		defer closeOut()
		lines = export.NewLineSink(w)
		sinks = append(sinks, lines)
	}

	ctx, cancel := signalContext()
	defer cancel()

	slog.Info("running", "name", name, "bodies", len(cfg.Bodies), "steps", cfg.NumberOfSteps)
	start := time.Now()

	result, runErr := exp.Run(ctx, sim.Tee(sinks...))
	if lines != nil {
		if err := lines.Flush(); err != nil && runErr == nil {
			runErr = err
		}
	}
	if result == nil {
		return runErr
	}
	if runErr != nil {
		slog.Warn("run stopped early", "step", result.StepsTaken, "err", runErr)
	}
	slog.Debug("run finished", "elapsed", time.Since(start), "snapshots", result.Snapshots)

	if !noSave {
		runID, err := saveRun(name, cfg, result, rec.Snapshots, runErr)
		if err != nil {
			return err
		}
		slog.Debug("run saved", "dir", dataDir, "id", runID)
		if outFile != "-" {
			fmt.Printf("run id: %s\n", runID)
		}
	}

	if outFile != "-" {
		fmt.Println(viz.Summary(name, cfg.Stepper, cfg.Estimator, result))
	}
	return runErr
}

// saveRun stores a finished or failed run. A storage error is joined with
// runErr so the reason the run stopped is still reported.
func saveRun(name string, cfg *config.Config, result *sim.Result, snaps []sim.Snapshot, runErr error) (string, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return "", errors.Join(runErr, err)
	}
	runID, err := st.Save(name, cfg, result, snaps)
	if err != nil {
		return "", errors.Join(runErr, fmt.Errorf("failed to save run: %w", err))
	}
	return runID, nil
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tBODIES\tSTEPS\tSTEPPER\tESTIMATOR\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t%.2e\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Steps,
			run.Stepper,
			run.Estimator,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	var (
		label string
		snaps []sim.Snapshot
		err   error
	)
	switch {
	case inFile != "" && len(args) == 0:
		label = inFile
		snaps, err = readSnapshotFile(inFile)
	case inFile == "" && len(args) == 1:
		var meta *storage.RunMetadata
		meta, snaps, err = loadRun(args[0])
		if meta != nil {
			label = meta.ID
		}
	default:
		return errors.New("need either a run id or --file")
	}
	if err != nil {
		return err
	}

	if len(snaps) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Println(viz.Row("Run", label))
	fmt.Println(viz.Row("Bodies", fmt.Sprint(len(snaps[0].Positions))))
	fmt.Println(viz.Row("Snapshots", fmt.Sprint(len(snaps))))
	fmt.Println()
	fmt.Println(viz.CoordinateGraph(snaps, false, 70, 12, "x per body"))
	fmt.Println()
	fmt.Println(viz.CoordinateGraph(snaps, true, 70, 12, "y per body"))
	return nil
}

func plotEnergy(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	exp, err := experiment.New(experiment.NewRegistry(), cfg, false)
	if err != nil {
		return err
	}
	rec := &viz.EnergyRecorder{G: cfg.G}
	exp.GetSimulator().AddObserver(rec)

	ctx, cancel := signalContext()
	defer cancel()

	result, runErr := exp.Run(ctx, nil)
	if result == nil {
		return runErr
	}

	fmt.Println(viz.Title(strings.ToUpper(name)))
	fmt.Println(viz.Graph(rec.RelativeDrift(), 70, 12, "relative energy drift"))
	fmt.Println()
	fmt.Println(viz.Graph(rec.Dt, 70, 8, "timestep"))
	fmt.Println()
	fmt.Println(viz.Row("Energy drift", fmt.Sprintf("%.3e", result.EnergyDrift)))
	return runErr
}

func compareSteppers(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	names := steppers
	if len(names) == 0 {
		names = registry.ListSteppers()
	}

	jobs := make([]sim.Job, 0, len(names))
	for _, st := range names {
		c := cfg.Clone()
		c.Stepper = st
		exp, err := experiment.New(registry, c, true)
		if err != nil {
			return err
		}
		jobs = append(jobs, exp.Job(st, nil))
	}

	ctx, cancel := signalContext()
	defer cancel()

	slog.Info("comparing steppers", "name", name, "steppers", names)
	results, err := sim.RunAll(ctx, jobs)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEPPER\tSTEPS\tTIME\tMIN DT\tENERGY DRIFT\tMOMENTUM DRIFT\tMIN SEPARATION")
	for i, res := range results {
		fmt.Fprintf(w, "%s\t%d\t%.4f\t%.3e\t%.3e\t%.3e\t%.4g\n",
			jobs[i].Name,
			res.StepsTaken,
			res.Time,
			res.MinDt,
			res.EnergyDrift,
			res.Metrics["momentum_drift"],
			res.Metrics["min_separation"],
		)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	if !slices.Contains(viz.ThemeNames(), theme) {
		return fmt.Errorf("unknown theme: %s (available: %v)", theme, viz.ThemeNames())
	}
	viz.SetTheme(theme)

	exp, err := experiment.New(experiment.NewRegistry(), cfg, false)
	if err != nil {
		return err
	}
	return viz.Run(name, cfg.G, exp.Start)
}

func readSnapshotFile(path string) ([]sim.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	snaps, err := export.ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snaps, nil
}

func loadRun(runID string) (*storage.RunMetadata, []sim.Snapshot, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	snaps, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, snaps, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, snaps, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w, closeOut, err := openOutput(outFile)
	if err != nil {
		return err
	}
	defer closeOut()

	sink := export.NewLineSink(w)
	for _, s := range snaps {
		if err := sink.Write(s); err != nil {
			return err
		}
	}
	return sink.Flush()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, snaps, err := loadRun(args[0])
	if err != nil {
		return err
	}

	cfg := meta.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	data := export.NewExportData(cfg, meta.Result(), snaps)

	if outFile == "" || outFile == "-" {
		return export.WriteJSON(os.Stdout, data)
	}
	if err := export.ExportJSON(outFile, data); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outFile)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	_, snaps, err := loadRun(runID)
	if err != nil {
		return err
	}

	svg := export.TrajectoriesToSVG(export.Tracks(snaps), width, height)
	if svg == "" {
		return fmt.Errorf("no data to draw")
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tBODIES\tSTEPS\tMAX DT")
		for _, name := range config.ListPresets() {
			p := config.GetPreset(name)
			fmt.Fprintf(w, "%s\t%d\t%d\t%g\n", name, len(p.Bodies), p.NumberOfSteps, p.MaxTimeStep)
		}
		return w.Flush()
	}

	p := config.GetPreset(args[0])
	if p == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
	}
	if saveTo == "" {
		return fmt.Errorf("use --save to write preset %s to a file", args[0])
	}
	if err := config.Save(saveTo, p); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", saveTo)
	return nil
}

// openOutput opens path for writing; "-" is stdout.
func openOutput(path string) (*os.File, func(), error) {
	if path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
