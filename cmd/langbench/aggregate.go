// cmd/langbench/aggregate.go
package langbench

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwiater/langbench/internal/results"
)

// aggregateCmd re-aggregates a raw replica table without running anything.
var aggregateCmd = &cobra.Command{
	Use:   "aggregate <replicas.csv>",
	Short: "Re-aggregate a raw replicas.csv into summary tables",
	Long: `The 'aggregate' command reads a replicas.csv written by 'run' and recomputes summary.csv, report.json and the
charts in the output directory. Aggregating the same input twice produces identical summaries.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, map[string]string{
			"baseline":   "baseline",
			"output_dir": "output-dir",
		})
		if err != nil {
			return err
		}
		if noChart, _ := cmd.Flags().GetBool("no-chart"); noChart {
			cfg.Chart = false
		}

		replicas, err := results.LoadReplicas(args[0])
		if err != nil {
			return err
		}
		summaries, err := results.Aggregate(replicas, cfg.Tasks, cfg.Baseline)
		if err != nil {
			return err
		}
		if _, err := writeArtifacts(cfg, replicas, summaries, time.Now()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), results.RenderTable(summaries, cfg.Baseline))
		return nil
	},
}

func init() {
	aggregateCmd.Flags().String("baseline", "R", "language other languages are compared against")
	aggregateCmd.Flags().String("output-dir", "results", "directory for result files")
	aggregateCmd.Flags().Bool("no-chart", false, "skip writing the PNG charts")
	rootCmd.AddCommand(aggregateCmd)
}
