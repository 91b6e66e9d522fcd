package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/cisim/internal/analysis"
	"github.com/san-kum/cisim/internal/automation"
	"github.com/san-kum/cisim/internal/config"
	"github.com/san-kum/cisim/internal/experiment"
	"github.com/san-kum/cisim/internal/export"
	"github.com/san-kum/cisim/internal/methods"
	"github.com/san-kum/cisim/internal/sim"
	"github.com/san-kum/cisim/internal/storage"
)

// resolveConfig layers defaults, then a preset, then a config file decoded
// over it, then any flag the user set explicitly.
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
	if flags.Changed("method") {
		cfg.Method = method
	}
	if flags.Changed("sample-size") {
		cfg.SampleSize = sampleSize
	}
	if flags.Changed("mean") {
		cfg.PopulationMean = populationMean
	}
	if flags.Changed("std") {
		cfg.PopulationStd = populationStd
	}
	if flags.Changed("sims") {
		cfg.NumSimulations = numSimulations
	}
	if flags.Changed("confidence") {
		cfg.ConfidenceLevel = confidence
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}

	logger.Debug("resolved config",
		"preset", preset, "config", configFile, "method", cfg.Method,
		"sample_size", cfg.SampleSize, "sims", cfg.NumSimulations, "seed", cfg.Seed)
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ec, err := cfg.Experiment()
	if err != nil {
		return err
	}

	exp, err := experiment.Build(experiment.NewRegistry(), ec, experiment.WithLogger(logger))
	if err != nil {
		return err
	}

	start := time.Now()
	out, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if err := export.WriteSummary(os.Stdout, out); err != nil {
		return err
	}
	if !noPlot {
		fmt.Println()
		fmt.Println(export.PlotIntervals(out, export.DefaultPlotOptions()))
	}
	fmt.Printf("\ncompleted in %v\n", elapsed)

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(out)
		if err != nil {
			return err
		}
		logger.Info("run saved", "id", runID, "dir", dataDir)
		fmt.Printf("run id: %s\n", runID)
	}

	if chartPath != "" {
		if err := writeChart(chartPath, out); err != nil {
			return err
		}
		fmt.Printf("chart: %s\n", chartPath)
	}
	return nil
}

func writeChart(path string, out *sim.Outcome) error {
	format, err := export.FormatForPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.RenderChart(f, out, format, export.DefaultChartOptions()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
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
	fmt.Fprintln(w, "ID\tMETHOD\tTIME\tN\tMEAN\tSTD\tSIMS\tLEVEL\tCAPTURED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%g\t%g\t%d\t%g%%\t%.1f%%\n",
			run.ID,
			run.Method,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.SampleSize,
			run.Params.PopulationMean,
			run.Params.PopulationStd,
			run.Params.NumSimulations,
			run.Params.ConfidenceLevel*100,
			run.CaptureRate*100,
		)
	}

	return w.Flush()
}

func loadOutcome(runID string) (*storage.RunMetadata, *sim.Outcome, error) {
	st := storage.New(dataDir)
	meta, out, err := st.LoadOutcome(runID)
	if err != nil {
		return nil, nil, fmt.Errorf("load run %s: %w", runID, err)
	}
	return meta, out, nil
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, out, err := loadOutcome(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("run %s (%s)\n\n", meta.ID, meta.Timestamp.Format("2006-01-02 15:04:05"))
	return export.WriteSummary(os.Stdout, out)
}

func plotRun(cmd *cobra.Command, args []string) error {
	_, out, err := loadOutcome(args[0])
	if err != nil {
		return err
	}
	if len(out.Results) == 0 {
		fmt.Println("no intervals recorded")
		return nil
	}
	fmt.Println(export.PlotIntervals(out, export.DefaultPlotOptions()))
	return nil
}

func chartRun(cmd *cobra.Command, args []string) error {
	_, out, err := loadOutcome(args[0])
	if err != nil {
		return err
	}
	if err := writeChart(args[1], out); err != nil {
		return err
	}
	fmt.Printf("chart: %s\n", args[1])
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	results, err := st.LoadIntervals(args[0])
	if err != nil {
		return err
	}
	return storage.ExportCSV(os.Stdout, results)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, out, err := loadOutcome(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta.ID, out)
}

func exportXLSX(cmd *cobra.Command, args []string) error {
	meta, out, err := loadOutcome(args[0])
	if err != nil {
		return err
	}
	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	if err := storage.ExportXLSX(f, meta.ID, out); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("workbook: %s\n", args[1])
	return nil
}

func writeReport(cmd *cobra.Command, args []string) error {
	meta, out, err := loadOutcome(args[0])
	if err != nil {
		return err
	}
	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	title := fmt.Sprintf("cisim run %s", meta.ID)
	if err := export.WriteReport(f, title, out); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("report: %s\n", args[1])
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	base, err := cfg.Params()
	if err != nil {
		return err
	}
	axis, err := analysis.ParseAxis(sweepAxis)
	if err != nil {
		return err
	}

	from, to := sweepFrom, sweepTo
	if axis == analysis.AxisSampleSize {
		if !cmd.Flags().Changed("from") {
			from = 2
		}
		if !cmd.Flags().Changed("to") {
			to = 50
		}
	}

	values := analysis.Linspace(from, to, sweepSteps)
	if axis == analysis.AxisConfidence {
		for i, v := range values {
			if values[i], err = config.Fraction(v); err != nil {
				return err
			}
		}
	}

	m, err := experiment.NewRegistry().GetMethod(cfg.Method)
	if err != nil {
		return err
	}

	logger.Debug("sweep started", "axis", axis, "from", from, "to", to, "steps", sweepSteps)
	points, err := analysis.Sweep(cmd.Context(), sim.New(m), base, cfg.Seed, axis, values, cfg.Workers)
	if err != nil {
		return err
	}

	if err := analysis.WriteTable(os.Stdout, axis, points); err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(analysis.PlotCoverage(points, 70, 12))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tMETHOD\tN\tMEAN\tSTD\tSIMS\tLEVEL")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%d\t%g\t%g\t%d\t%g%%\n",
			name, p.Method, p.SampleSize, p.PopulationMean, p.PopulationStd, p.NumSimulations, p.ConfidenceLevel)
	}
	return w.Flush()
}

func listMethods(cmd *cobra.Command, args []string) error {
	for _, name := range experiment.NewRegistry().ListMethods() {
		fmt.Printf("  %-10s %s\n", name, methods.Kind(name).Description())
	}
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if _, err := cfg.Params(); err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	p, err := cfg.Params()
	if err != nil {
		return err
	}
	m, err := experiment.NewRegistry().GetMethod(cfg.Method)
	if err != nil {
		return err
	}

	res, err := analysis.Ensemble(cmd.Context(), m, p, cfg.Seed, ensembleRuns, cfg.Workers)
	if err != nil {
		return err
	}

	fmt.Printf("%d runs, seeds %d..%d, nominal %g%%\n\n",
		len(res.Rates), res.Seeds[0], res.Seeds[len(res.Seeds)-1], cfg.ConfidenceLevel)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "mean\t%.2f%%\n", res.Mean*100)
	fmt.Fprintf(w, "std dev\t%.2f%%\n", res.StdDev*100)
	fmt.Fprintf(w, "min\t%.2f%%\n", res.Min*100)
	fmt.Fprintf(w, "p05\t%.2f%%\n", res.P05*100)
	fmt.Fprintf(w, "p95\t%.2f%%\n", res.P95*100)
	fmt.Fprintf(w, "max\t%.2f%%\n", res.Max*100)
	return w.Flush()
}

func runBatch(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	results, err := automation.RunScenario(cmd.Context(), sc, experiment.NewRegistry(), st, logger)

	if sc.Name != "" {
		fmt.Printf("%s\n\n", sc.Name)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tMETHOD\tN\tSIMS\tLEVEL\tCAPTURED\tRUN")
	for _, r := range results {
		p := r.Outcome.Params
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%g%%\t%.1f%%\t%s\n",
			r.Name, r.Outcome.Method, p.SampleSize, p.NumSimulations,
			p.ConfidenceLevel*100, r.Outcome.CapturePercent(), r.RunID)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}
