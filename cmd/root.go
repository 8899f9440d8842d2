package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dedupsim/dedupsim/sim"
)

var logLevel string // Log verbosity level

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "dedupsim",
	Short: "Deduplication and retention storage sizing simulator",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runOptions holds the flags of the run command.
type runOptions struct {
	sourceSizeTiB    float64 // Initial logical dataset size
	dailyChangeRate  float64 // Fraction of the source changing per day
	compressionRatio float64 // Fraction saved by compression after ramp-up
	dailyDays        int     // Daily retention in days
	weeklyCount      int     // Weekly backups kept
	monthlyCount     int     // Monthly backups kept
	yearlyCount      int     // Yearly backups kept
	months           int     // Simulation length in months of 30 days
	days             int     // Simulation length in days; overrides months
	cloudDelayDays   int     // Age at which bytes count as cloud

	preset       string // Named preset in the defaults file
	defaultsPath string // Path to defaults.yaml
	configPath   string // Single-scenario YAML file
	output       string // table, json, yaml or csv
	series       string // daily, monthly or none
}

var runOpts runOptions

// bind registers the run flags on cmd.
func (o *runOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&o.sourceSizeTiB, "source-size", 10, "Initial dataset logical size in TiB")
	f.Float64Var(&o.dailyChangeRate, "change-rate", 0.02, "Fraction (0-1) of the source that changes per day")
	f.Float64Var(&o.compressionRatio, "compression", 0.5, "Fraction (0-1) of bytes saved by compression once ramped up")
	f.IntVar(&o.dailyDays, "daily", 12, "Daily retention in days")
	f.IntVar(&o.weeklyCount, "weekly", 4, "Number of weekly backups retained")
	f.IntVar(&o.monthlyCount, "monthly", 11, "Number of monthly backups retained")
	f.IntVar(&o.yearlyCount, "yearly", 7, "Number of yearly backups retained")
	f.IntVar(&o.months, "months", 12, "Simulation length in months of 30 days")
	f.IntVar(&o.days, "days", 0, "Simulation length in days (overrides --months)")
	f.IntVar(&o.cloudDelayDays, "cloud-delay", 5, "Age in days at which retained bytes move to cloud")

	f.StringVar(&o.preset, "preset", "", "Named scenario from the defaults file")
	f.StringVar(&o.defaultsPath, "defaults", "defaults.yaml", "Path to the defaults file holding presets")
	f.StringVar(&o.configPath, "config", "", "Path to a single-scenario YAML file")
	f.StringVar(&o.output, "output", "table", "Output format (table, json, yaml, csv)")
	f.StringVar(&o.series, "series", "monthly", "Per-day series to include (daily, monthly, none); csv requires daily or monthly")
}

// parameters builds simulation parameters from a preset or scenario file,
// then applies flags. With a base scenario only flags the user set
// explicitly override it; otherwise every flag value (including defaults) is used.
func (o *runOptions) parameters(cmd *cobra.Command) (sim.SimulationParameters, error) {
	var (
		base    Scenario
		hasBase bool
		err     error
	)
	switch {
	case o.preset != "" && o.configPath != "":
		return sim.SimulationParameters{}, fmt.Errorf("--preset and --config are mutually exclusive")
	case o.preset != "":
		base, err = loadPreset(o.defaultsPath, o.preset)
		hasBase = true
	case o.configPath != "":
		base, err = loadScenarioFile(o.configPath)
		hasBase = true
	}
	if err != nil {
		return sim.SimulationParameters{}, err
	}

	p := base.Parameters()
	flags := cmd.Flags()
	use := func(name string) bool { return !hasBase || flags.Changed(name) }

	if use("source-size") {
		p.SourceSizeTiB = o.sourceSizeTiB
	}
	if use("change-rate") {
		p.DailyChangeRate = o.dailyChangeRate
	}
	if use("compression") {
		p.CompressionRatio = o.compressionRatio
	}
	if use("daily") {
		p.DailyRetentionDays = o.dailyDays
	}
	if use("weekly") {
		p.WeeklyRetentionCount = o.weeklyCount
	}
	if use("monthly") {
		p.MonthlyRetentionCount = o.monthlyCount
	}
	if use("yearly") {
		p.YearlyRetentionCount = o.yearlyCount
	}
	if use("cloud-delay") {
		p.CloudDelayDays = o.cloudDelayDays
	}
	switch {
	case flags.Changed("days"):
		p.SimulationDays = o.days
	case use("months"):
		p.SimulationDays = o.months * sim.DaysPerMonth
	}
	return p, nil
}

// runCmd executes the simulation using parameters from flags, presets or a scenario file
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the retention simulation",
	Run: func(cmd *cobra.Command, args []string) {
		if !validOutputs[runOpts.output] {
			logrus.Fatalf("Unknown output format %q; valid: table, json, yaml, csv", runOpts.output)
		}
		if !validSeries[runOpts.series] {
			logrus.Fatalf("Unknown series %q; valid: daily, monthly, none", runOpts.series)
		}
		if runOpts.output == "csv" && runOpts.series == "none" {
			logrus.Fatalf("Invalid flags: %v", errCSVNeedsSeries)
		}

		params, err := runOpts.parameters(cmd)
		if err != nil {
			logrus.Fatalf("Unable to resolve simulation parameters: %v", err)
		}

		result, err := sim.Simulate(params)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		if err := writeResult(cmd.OutOrStdout(), result, runOpts.output, runOpts.series); err != nil {
			logrus.Fatalf("Writing results failed: %v", err)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runOpts.bind(runCmd)

	rootCmd.AddCommand(runCmd)
}
