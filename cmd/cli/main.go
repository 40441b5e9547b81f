package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"digihealth/domain/behavior"
	"digihealth/internal/analysis"
	"digihealth/internal/config"
	"digihealth/internal/container"
	"digihealth/internal/errors"
	"digihealth/internal/profiling"
	"digihealth/internal/report"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// globalFlags override values loaded from the config file and environment
type globalFlags struct {
	cfgFile   string
	input     string
	sheet     string
	outputDir string
	logLevel  string
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(errors.ExitCode(err))
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "digihealth",
		Short:         "Social media behaviour vs. psychological state cohort analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.cfgFile, "config", "", "config file (default: ./digihealth.yaml if present)")
	pf.StringVar(&flags.input, "input", "", "input spreadsheet (.xlsx or .csv)")
	pf.StringVar(&flags.sheet, "sheet", "", "worksheet name (default: first sheet)")
	pf.StringVar(&flags.outputDir, "output-dir", "", "directory for generated files")
	pf.StringVar(&flags.logLevel, "log-level", "", "ERROR, WARN, INFO, DEBUG or TRACE")

	rootCmd.AddCommand(
		newAnalyzeCmd(flags),
		newThresholdsCmd(flags),
		newCohortsCmd(flags),
		newProfileCmd(flags),
		newConfigCmd(),
	)
	return rootCmd
}

// loadConfig reads configuration and applies command-line overrides.
func loadConfig(cmd *cobra.Command, flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.cfgFile)
	if err != nil {
		return nil, err
	}
	pf := cmd.Flags()
	if pf.Changed("input") {
		cfg.Paths.InputFile = flags.input
	}
	if pf.Changed("sheet") {
		cfg.Paths.Sheet = flags.sheet
	}
	if pf.Changed("output-dir") {
		cfg.Output.Dir = flags.outputDir
	}
	if pf.Changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	return cfg, nil
}

func newContainer(cmd *cobra.Command, flags *globalFlags, progress io.Writer) (*container.Container, error) {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return nil, err
	}
	return container.New(cfg, progress)
}

func newAnalyzeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Run the full analysis and write the cleaned data, charts and reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), cmd, flags)
		},
	}
}

func runAnalyze(ctx context.Context, cmd *cobra.Command, flags *globalFlags) error {
	out := cmd.OutOrStdout()
	c, err := newContainer(cmd, flags, out)
	if err != nil {
		return err
	}

	c.Progress.Banner("Digital Health Assistant - data analysis")
	result, err := c.AnalysisService.Run(ctx)
	if err != nil {
		return err
	}
	report.WriteFinalSummary(out, result.Analysis, result.Outputs)
	return nil
}

func newThresholdsCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "thresholds",
		Short: "Print the usage and sleep thresholds derived from the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(cmd, flags, io.Discard)
			if err != nil {
				return err
			}
			ds, err := c.AnalysisService.LoadDataset(cmd.Context())
			if err != nil {
				return err
			}
			t, err := analysis.ComputeThresholds(ds)
			if err != nil {
				return errors.Wrap(err, "failed to compute thresholds")
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(t)
			}
			report.WriteThresholds(out, t)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print thresholds as JSON")
	return cmd
}

func newCohortsCmd(flags *globalFlags) *cobra.Command {
	var listMembers bool

	cmd := &cobra.Command{
		Use:   "cohorts",
		Short: "Partition users into high-risk and low-risk cohorts and compare them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(cmd, flags, io.Discard)
			if err != nil {
				return err
			}
			ds, err := c.AnalysisService.LoadDataset(cmd.Context())
			if err != nil {
				return err
			}
			a, err := analysis.Analyze(ds)
			if err != nil {
				return errors.Wrap(err, "analysis failed")
			}

			out := cmd.OutOrStdout()
			report.WriteThresholds(out, a.Thresholds)
			fmt.Fprintln(out)
			report.WriteComparison(out, a)
			for _, issue := range a.Comparison.Warnings() {
				fmt.Fprintf(out, "⚠️  %s\n", issue)
			}
			if listMembers {
				for _, cohort := range []behavior.Cohort{a.HighRisk, a.LowRisk} {
					fmt.Fprintf(out, "\n%s rows (1-based):", cohort.Name.Label())
					for _, idx := range cohort.Indices {
						fmt.Fprintf(out, " %d", idx+1)
					}
					fmt.Fprintln(out)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&listMembers, "list", false, "list the data rows in each cohort")
	return cmd
}

func newProfileCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Print descriptive statistics for the seven core columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(cmd, flags, io.Discard)
			if err != nil {
				return err
			}
			ds, err := c.AnalysisService.LoadDataset(cmd.Context())
			if err != nil {
				return err
			}
			profiles, err := profiling.NewDataProfiler().ProfileDataset(ds)
			if err != nil {
				return errors.Wrap(err, "profiling failed")
			}

			report.WriteProfiles(cmd.OutOrStdout(), profiles)
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a configuration file with the default settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "digihealth.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.ConfigInvalid(fmt.Sprintf("%s already exists (use --force to overwrite)", path))
			}
			if err := config.Save(config.Default(), path); err != nil {
				return errors.OutputError(path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
