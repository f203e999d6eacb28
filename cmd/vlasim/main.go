package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/vlasim/internal/analysis"
	"github.com/san-kum/vlasim/internal/automation"
	"github.com/san-kum/vlasim/internal/compute"
	"github.com/san-kum/vlasim/internal/config"
	"github.com/san-kum/vlasim/internal/export"
	"github.com/san-kum/vlasim/internal/kinetic"
	"github.com/san-kum/vlasim/internal/metrics"
	"github.com/san-kum/vlasim/internal/sim"
	"github.com/san-kum/vlasim/internal/spectral"
	"github.com/san-kum/vlasim/internal/storage"
	"github.com/san-kum/vlasim/internal/viz"
)

var (
	dataDir     string
	logLevel    string
	logFormat   string
	configFile  string
	preset      string
	dt          float64
	steps       int
	alpha       float64
	backendName string
	workers     int
	dumpFields  bool
	metricsFile string
	tableLimit  int
	benchSteps  int
	csvOut      string
	svgOut      string
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepPoints int
	sweepJobs   int
	noSave      bool
)

var log = logrus.New()

func main() {
	rootCmd := &cobra.Command{
		Use:           "vlasim",
		Short:         "spectral velocity-space advection for kinetic plasma runs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".vlasim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store its energy series",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write prometheus metrics to this textfile after the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with a live terminal view",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	fieldCmd := &cobra.Command{
		Use:   "field",
		Short: "solve the field of the configured potential and print Ex then Ey",
		RunE:  printField,
	}
	addSimFlags(fieldCmd)

	tablesCmd := &cobra.Command{
		Use:   "tables",
		Short: "print the wavenumber tables of the configured grid",
		RunE:  printTables,
	}
	addSimFlags(tablesCmd)
	tablesCmd.Flags().IntVar(&tableLimit, "limit", 32, "maximum rows (0 for all)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time advances on each compute backend",
		RunE:  benchBackends,
	}
	addSimFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchSteps, "n", 50, "advances per backend")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tVELOCITY\tCONFIG\tNDEV\tDT\tSTEPS\tPOTENTIAL\tDISTRIBUTION")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%dx%d\t%dx%d\t%d\t%g\t%d\t%s\t%s\n",
					name,
					p.Params.N[0], p.Params.N[1],
					p.Params.NAll[2], p.Params.NAll[3],
					p.Params.NDev,
					p.Dt, p.Steps,
					p.Potential.Kind, p.Distribution.Kind,
				)
			}
			return w.Flush()
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the energy series of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency and growth analysis of a run's field",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run's energy series to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			if csvOut == "" {
				return st.ExportCSV(os.Stdout, args[0])
			}
			if err := st.ExportCSVFile(csvOut, args[0]); err != nil {
				return err
			}
			log.WithField("path", csvOut).Info("exported")
			return nil
		},
	}
	exportCSVCmd.Flags().StringVarP(&csvOut, "output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a run's energy and field series as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "output", "o", "", "output file (default <run_id>.svg)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store results")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one configuration across a range of a parameter",
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "amplitude", fmt.Sprintf("parameter to sweep %v", automation.SweepParams))
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.05, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.5, "last value")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 5, "number of values")
	sweepCmd.Flags().IntVar(&sweepJobs, "jobs", 0, "concurrent runs (0 for all cores)")

	rootCmd.AddCommand(runCmd, liveCmd, fieldCmd, tablesCmd, benchCmd, presetsCmd, listCmd, plotCmd, analyzeCmd, exportCmd, exportCSVCmd, exportSVGCmd, scenarioCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of advances")
	cmd.Flags().Float64Var(&alpha, "alpha", config.DefaultAlpha, "rotation fraction of the timestep")
	cmd.Flags().StringVar(&backendName, "backend", config.DefaultBackend, "compute backend (auto, cpu, serial, cuda)")
	cmd.Flags().IntVar(&workers, "workers", 0, "cpu backend workers (0 for all cores)")
	cmd.Flags().BoolVar(&dumpFields, "dump-fields", false, "write the latest field to <data>/field.txt after every solve")
}

func setupLogging() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	logrus.SetLevel(level)

	switch logFormat {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format: %s", logFormat)
	}
	log.SetOutput(os.Stderr)
	logrus.SetOutput(os.Stderr)
	return nil
}

// loadConfig resolves defaults, then preset, then config file, then any
// flag set explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("alpha") {
		cfg.Alpha = alpha
	}
	if flags.Changed("backend") {
		cfg.Backend = backendName
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("dump-fields") {
		cfg.DumpFields = dumpFields
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildSimulator(cfg *config.Config) (*sim.Simulator, []float64, error) {
	var opts []spectral.Option
	if cfg.DumpFields {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, nil, err
		}
		dump := storage.NewFieldDump(filepath.Join(dataDir, "field.txt"))
		opts = append(opts, spectral.WithFieldHook(dump.Write))
	}

	s, f0, err := sim.FromConfig(cfg, opts...)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Backend == "cuda" && !compute.ByName("cuda", 0).Available() {
		log.WithField("using", s.Engine().Backend().Name()).Warn("cuda backend unavailable")
	}
	s.SetLogger(log.WithField("run", cfg.Name))
	return s, f0, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, f0, err := buildSimulator(cfg)
	if err != nil {
		return err
	}
	defer s.Engine().Backend().Cleanup()

	g := s.Engine().Grid()
	collector := metrics.NewCollector(cfg.Name)
	s.AddObserver(collector)
	s.AddMetric(metrics.NewEnergyDrift())
	s.AddMetric(metrics.NewMeanFieldEnergy(g.DX1, g.DX2))
	s.AddMetric(metrics.NewPeakField())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	result, err := s.Run(ctx, f0, sim.Config{Dt: cfg.Dt, Steps: cfg.Steps})
	if err != nil && !errors.Is(err, kinetic.ErrCanceled) {
		return err
	}
	if err != nil {
		log.WithError(err).Warn("storing partial run")
	}
	elapsed := time.Since(start)

	runID, saveErr := st.Save(storage.RunMetadata{
		Name:         cfg.Name,
		Params:       cfg.Params,
		Dt:           cfg.Dt,
		Alpha:        cfg.Alpha,
		Backend:      s.Engine().Backend().Name(),
		Potential:    cfg.Potential.Kind,
		Distribution: cfg.Distribution.Kind,
	}, result)
	if saveErr != nil {
		return saveErr
	}

	if metricsFile != "" {
		if err := collector.WriteTextfile(metricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6e\n", name, result.Metrics[name])
	}
	return err
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Logs would tear the alternate screen.
	log.SetOutput(io.Discard)
	logrus.SetOutput(io.Discard)

	s, f0, err := buildSimulator(cfg)
	if err != nil {
		return err
	}
	defer s.Engine().Backend().Cleanup()

	m, err := viz.NewModel(s, f0, cfg.Dt, cfg.Steps, cfg.Name)
	if err != nil {
		return err
	}
	return viz.Run(m)
}

func printField(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s, _, err := buildSimulator(cfg)
	if err != nil {
		return err
	}
	g := s.Engine().Grid()

	phi := make([]float64, g.PotentialSize())
	s.Source().Potential(0, 0, phi)
	if err := s.Engine().SolveField(phi); err != nil {
		return err
	}

	ex, ey := s.Engine().Ex(), s.Engine().Ey()
	shape := s.Engine().FieldShape()
	log.WithFields(logrus.Fields{
		"shape":  fmt.Sprintf("%dx%d", shape[0], shape[1]),
		"max_ex": metrics.MaxAbs(ex),
		"max_ey": metrics.MaxAbs(ey),
		"energy": metrics.FieldEnergy(ex, ey, g.DX1, g.DX2),
	}).Info("field solved")
	return storage.WriteField(os.Stdout, ex, ey)
}

func printTables(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	g, err := cfg.Grid()
	if err != nil {
		return err
	}

	waves := spectral.NewWavenumbers(g)
	half := g.NV1 / 2
	fmt.Printf("dl1 = %.6g  dl2 = %.6g  coefficients per cell = %d\n\n", waves.Dl1, waves.Dl2, g.HalfSpectrum())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tI\tJ\tLAM1\tLAM2")
	for idx := range waves.Lam1 {
		if tableLimit > 0 && idx >= tableLimit {
			fmt.Fprintf(w, "...\t\t\t\t\n")
			break
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%.6g\t%.6g\n", idx, idx%half, idx/half, waves.Lam1[idx], waves.Lam2[idx])
	}
	return w.Flush()
}

func benchBackends(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	g, err := cfg.Grid()
	if err != nil {
		return err
	}

	source, err := sim.NewPotential(cfg.Potential, g)
	if err != nil {
		return err
	}
	phi := make([]float64, g.PotentialSize())
	source.Potential(0, 0, phi)

	backends := []compute.Backend{
		compute.ByName("serial", 0),
		compute.ByName("cpu", cfg.Workers),
	}
	if cuda := compute.ByName("cuda", 0); cuda.Available() {
		backends = append(backends, cuda)
	}

	fmt.Printf("benchmarking %d cells x %d coefficients\n\n", g.LocalCells(), g.HalfSpectrum())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BACKEND\tWORKERS\tSTEPS\tTIME\tSTEPS/SEC")

	for _, b := range backends {
		engine, err := spectral.NewFromGrid(g, cfg.Dt, spectral.WithAlpha(cfg.Alpha), spectral.WithBackend(b))
		if err != nil {
			return err
		}
		buf := make([]complex128, g.SpectralLen())
		for k := range buf {
			buf[k] = 1
		}

		start := time.Now()
		for n := 0; n < benchSteps; n++ {
			if err := engine.Step(buf, phi); err != nil {
				return err
			}
		}
		elapsed := time.Since(start)

		label := "-"
		if cpu, ok := b.(*compute.CPUBackend); ok {
			label = fmt.Sprintf("%d", cpu.Workers())
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%v\t%.0f\n", b.Name(), label, benchSteps, elapsed, float64(benchSteps)/elapsed.Seconds())
		b.Cleanup()
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tGRID\tSTEPS\tDT\tBACKEND\tDRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d/%dx%d\t%d\t%.4f\t%s\t%.2e\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.NAll[2], run.Params.NAll[3], run.Params.N[0], run.Params.N[1],
			run.Steps,
			run.Dt,
			run.Backend,
			run.EnergyDrift,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(series.Times) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(series.Times))

	plots := []struct {
		caption string
		data    []float64
	}{
		{"spectral energy", series.Energy},
		{"field energy", series.FieldEnergy[1:]},
		{"max |Ex|", series.MaxEx[1:]},
		{"max |Ey|", series.MaxEy[1:]},
	}
	for _, p := range plots {
		fmt.Println(asciigraph.Plot(p.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		))
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(series.Times) < 3 {
		return fmt.Errorf("no data")
	}

	fieldEnergy := series.FieldEnergy[1:]
	ps := analysis.PowerSpectrum(fieldEnergy)

	fmt.Printf("analysis: %s\n\n", meta.ID)
	if len(ps) > 1 {
		fmt.Println(asciigraph.Plot(ps,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("field energy spectrum"),
		))
		fmt.Println()
	}

	omega := analysis.DominantFrequency(fieldEnergy, meta.Dt)
	gamma := analysis.GrowthRate(series.Times[1:], fieldEnergy)
	fmt.Printf("dominant angular frequency: %.4f\n", omega)
	if omega > 0 {
		fmt.Printf("period: %.4f\n", 2*math.Pi/omega)
	}
	if !math.IsNaN(gamma) {
		fmt.Printf("field energy growth rate: %.4e\n", gamma)
	}
	fmt.Printf("energy drift: %.3e\n", meta.EnergyDrift)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	series, err := storage.New(dataDir).LoadSeries(args[0])
	if err != nil {
		return err
	}

	// Normalise so both curves share the axes.
	norm := func(vals []float64) []float64 {
		out := make([]float64, len(vals))
		peak := 0.0
		for _, v := range vals {
			peak = math.Max(peak, math.Abs(v))
		}
		for i, v := range vals {
			if peak > 0 {
				out[i] = v / peak
			}
		}
		return out
	}

	svg := export.SeriesToSVG(series.Times, []export.Series{
		{Name: "spectral energy", Color: "#00ffff", Values: norm(series.Energy)},
		{Name: "field energy", Color: "#ff00ff", Values: norm(series.FieldEnergy)},
	}, 800, 400)
	if svg == "" {
		return fmt.Errorf("no data to render")
	}

	path := svgOut
	if path == "" {
		path = args[0] + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	log.WithField("path", path).Info("exported")
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	var st *storage.Store
	if !noSave {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, ids, err := automation.RunScenario(ctx, sc, st, log.WithField("scenario", sc.Name))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP	RUN	STEPS	DRIFT")
	for i, res := range results {
		id := "-"
		if i < len(ids) {
			id = ids[i]
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%.2e\n", i+1, id, res.StepsTaken, res.EnergyDrift)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sw := &automation.ParameterSweep{
		Base:     cfg,
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		Points:   sweepPoints,
		Parallel: sweepJobs,
	}
	log.WithFields(logrus.Fields{"param": sweepParam, "points": sweepPoints}).Info("sweep started")
	results, err := automation.RunSweep(ctx, sw)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tDRIFT\tPEAK |E|\tGROWTH\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%.2e\t%.4e\t%.4e\n", r.Value, r.EnergyDrift, r.PeakField, r.GrowthRate)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best, ok := automation.Best(results, func(r automation.SweepResult) float64 { return r.GrowthRate }); ok {
		fmt.Printf("\nstrongest damping at %s = %.4g (rate %.4e)\n", sweepParam, best.Value, best.GrowthRate)
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
