// cmd/langbench/run.go
package langbench

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mwiater/langbench/internal/analysis"
	"github.com/mwiater/langbench/internal/config"
	"github.com/mwiater/langbench/internal/harness"
	"github.com/mwiater/langbench/internal/results"
	"github.com/mwiater/langbench/internal/tui"
)

// newExecutor is replaced in tests.
var newExecutor = func() harness.Executor { return harness.ProcessExecutor{} }

var runBindings = map[string]string{
	"runs":        "runs",
	"warmup":      "warmup",
	"memory_runs": "memory-runs",
	"baseline":    "baseline",
	"output_dir":  "output-dir",
	"source_dir":  "source-dir",
}

// runCmd implements 'run', the full benchmark pipeline.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Benchmark every task and write the results",
	Long: `The 'run' command times every configured task with hyperfine, samples each task's peak memory under time(1),
counts source lines, aggregates per (language, analysis) and writes timings.json, replicas.csv, summary.csv,
report.json and the time/memory charts to the output directory. When an upload bucket is configured the files are
copied to Cloud Storage afterwards.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, runBindings)
		if err != nil {
			return err
		}
		if noChart, _ := cmd.Flags().GetBool("no-chart"); noChart {
			cfg.Chart = false
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		useTUI, _ := cmd.Flags().GetBool("tui")
		return runBenchmark(commandContext(cmd), cmd, cfg, useTUI)
	},
}

func init() {
	runCmd.Flags().Int("runs", 10, "timed replicas per task")
	runCmd.Flags().Int("warmup", 3, "discarded warm-up runs per task")
	runCmd.Flags().Int("memory-runs", 1, "memory samples per task")
	runCmd.Flags().String("baseline", "R", "language other languages are compared against")
	runCmd.Flags().String("output-dir", "results", "directory for result files")
	runCmd.Flags().String("source-dir", "", "directory task sources are relative to (default: working directory)")
	runCmd.Flags().Bool("tui", false, "show an interactive progress view")
	runCmd.Flags().Bool("no-chart", false, "skip writing the PNG charts")
	rootCmd.AddCommand(runCmd)
}

func suiteConfig(cfg config.Config) harness.SuiteConfig {
	return harness.SuiteConfig{
		Options: harness.Options{
			Hyperfine:     cfg.Hyperfine,
			TimeBinary:    cfg.TimeBinary,
			Shell:         cfg.Shell,
			Runs:          cfg.Runs,
			Warmup:        cfg.Warmup,
			MemoryRuns:    cfg.MemoryRuns,
			MemoryTimeout: cfg.MemoryTimeout,
			ExportPath:    filepath.Join(cfg.OutputDir, timingsFile),
			SourceDir:     cfg.SourceDir,
			Builtin:       analysis.Sources,
		},
		Tasks:    cfg.Tasks,
		Baseline: cfg.Baseline,
	}
}

func runBenchmark(ctx context.Context, cmd *cobra.Command, cfg config.Config, useTUI bool) error {
	ex := newExecutor()
	suite := func(ctx context.Context, observe func(harness.Event)) (harness.SuiteResult, error) {
		sc := suiteConfig(cfg)
		sc.Observer = observe
		return harness.RunSuite(ctx, ex, sc)
	}

	var (
		res harness.SuiteResult
		err error
	)
	if useTUI {
		res, err = tui.Run(ctx, "langbench run", suite)
	} else {
		res, err = suite(ctx, nil)
	}
	if err != nil {
		return err
	}

	files, err := writeArtifacts(cfg, res.Replicas, res.Summaries, res.GeneratedAt)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, results.RenderTable(res.Summaries, cfg.Baseline))
	fmt.Fprintf(out, "Results written to %s\n", cfg.OutputDir)

	uploaded, err := publishArtifacts(ctx, cfg, files)
	if err != nil {
		return fmt.Errorf("upload results: %w", err)
	}
	if len(uploaded) > 0 {
		fmt.Fprintf(out, "Uploaded %d files to gs://%s/%s\n", len(uploaded), cfg.Upload.Bucket, cfg.Upload.Prefix)
	}
	return nil
}
