// cmd/langbench/analyze_anova.go
package langbench

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mwiater/langbench/internal/analysis"
)

// analyzeANOVACmd implements 'analyze anova': Y ~ C(GRUPO).
var analyzeANOVACmd = &cobra.Command{
	Use:   "anova",
	Short: "One-way ANOVA of Y by GRUPO",
	Long: `The 'anova' subcommand partitions the variance of Y by the GRUPO column, prints the ANOVA table and writes
the ",sum_sq,df,F,PR(>F)" table.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(cmd)
		if err != nil {
			return err
		}
		tbl, err := analysis.ANOVA(ds)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		var rows [][]string
		for _, r := range tbl.Rows() {
			rows = append(rows, []string{r.Source, fmtStat(r.SumSq), fmtStat(r.DF), fmtStat(r.F), fmtStat(r.PValue)})
		}
		fmt.Fprintln(out, renderTable([]string{"", "sum_sq", "df", "F", "PR(>F)"}, rows))

		path, _ := cmd.Flags().GetString("out")
		if err := analysis.SaveCSV(path, func(w io.Writer) error { return analysis.WriteANOVACSV(w, tbl) }); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printPeakMemory(out)
		return nil
	},
}

func init() {
	analyzeANOVACmd.Flags().String("out", analysis.ANOVAFile, "ANOVA table output")
	analyzeCmd.AddCommand(analyzeANOVACmd)
}
