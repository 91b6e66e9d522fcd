package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/san-kum/cisim/internal/config"
	"github.com/san-kum/cisim/internal/tui"
)

var (
	dataDir  string
	logLevel string

	configFile string
	preset     string

	method         string
	sampleSize     int
	populationMean float64
	populationStd  float64
	numSimulations int
	confidence     float64
	seed           int64
	workers        int

	save      bool
	chartPath string
	noPlot    bool

	sweepAxis  string
	sweepFrom  float64
	sweepTo    float64
	sweepSteps int

	ensembleRuns int

	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

// addParamFlags binds the simulation inputs; values only override the loaded
// config when explicitly set.
func addParamFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&method, "method", config.DefaultMethod, "interval method")
	f.IntVarP(&sampleSize, "sample-size", "n", config.DefaultSampleSize, "observations per sample")
	f.Float64Var(&populationMean, "mean", config.DefaultPopulationMean, "population mean")
	f.Float64Var(&populationStd, "std", config.DefaultPopulationStd, "population standard deviation")
	f.IntVar(&numSimulations, "sims", config.DefaultNumSimulations, "number of simulations")
	f.Float64Var(&confidence, "confidence", config.DefaultConfidenceLevel, "confidence level in percent")
	f.Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	f.IntVar(&workers, "workers", config.DefaultWorkers, "parallel workers (0 = all cpus)")
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "cisim",
		Short:         "confidence interval coverage simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var lvl slog.Level
			if err := lvl.UnmarshalText([]byte(logLevel)); err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
			slog.SetDefault(logger)
			return nil
		},
		RunE: runTUI,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".cisim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	addParamFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulations and summarise coverage",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addParamFlags(runCmd)
	runCmd.Flags().BoolVar(&save, "save", false, "save the run under the data directory")
	runCmd.Flags().StringVar(&chartPath, "chart", "", "write an interval chart (.svg or .png)")
	runCmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip the ascii plot")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "ascii plot of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	chartCmd := &cobra.Command{
		Use:   "chart [run_id] [file]",
		Short: "render a saved run as .svg or .png",
		Args:  cobra.ExactArgs(2),
		RunE:  chartRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export intervals to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportXLSXCmd := &cobra.Command{
		Use:   "export-xlsx [run_id] [file]",
		Short: "export a run to an Excel workbook",
		Args:  cobra.ExactArgs(2),
		RunE:  exportXLSX,
	}

	reportCmd := &cobra.Command{
		Use:   "report [run_id] [file.html]",
		Short: "write an html report with tables and the interval chart",
		Args:  cobra.ExactArgs(2),
		RunE:  writeReport,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "compare nominal and empirical coverage across a range",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addParamFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepAxis, "axis", "confidence", "parameter to sweep (confidence, sample-size)")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 80, "first value (percent for confidence)")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 99, "last value (percent for confidence)")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 20, "number of points")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "repeat a run over consecutive seeds and summarise the capture rate",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addParamFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&ensembleRuns, "runs", 20, "number of seeds")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run every step of a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	methodsCmd := &cobra.Command{
		Use:   "methods",
		Short: "list interval methods",
		Args:  cobra.NoArgs,
		RunE:  listMethods,
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [file]",
		Short: "write the resolved configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	addParamFlags(initConfigCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive slider view",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
	addParamFlags(tuiCmd)

	rootCmd.AddCommand(runCmd, listCmd, showCmd, plotCmd, chartCmd, exportCSVCmd, exportJSONCmd, exportXLSXCmd, reportCmd,
		sweepCmd, ensembleCmd, batchCmd, presetsCmd, methodsCmd, initConfigCmd, tuiCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return tui.RunInteractive(cfg)
}
