// cmd/langbench/analyze_regression.go
package langbench

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mwiater/langbench/internal/analysis"
)

// analyzeRegressionCmd implements 'analyze regression': Y ~ X1 + X2.
var analyzeRegressionCmd = &cobra.Command{
	Use:   "regression",
	Short: "Fit Y ~ X1 + X2 by ordinary least squares",
	Long: `The 'regression' subcommand fits Y ~ X1 + X2 with an intercept, prints coefficients, standard errors,
t statistics and p-values, and writes the ",coef,std_err,pvalue" table.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(cmd)
		if err != nil {
			return err
		}
		res, err := analysis.Regression(ds)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		rows := make([][]string, 0, len(res.Coefficients))
		for _, c := range res.Coefficients {
			rows = append(rows, []string{c.Name, fmtStat(c.Coef), fmtStat(c.StdErr), fmtStat(c.T), fmtStat(c.PValue)})
		}
		fmt.Fprintln(out, renderTable([]string{"", "coef", "std err", "t", "P>|t|"}, rows))
		fmt.Fprintf(out, "No. Observations: %d  Df Residuals: %d  R-squared: %s  Adj. R-squared: %s\n",
			res.N, res.DFResid, fmtStat(res.RSquared), fmtStat(res.AdjRSquared))

		path, _ := cmd.Flags().GetString("out")
		if err := analysis.SaveCSV(path, func(w io.Writer) error { return analysis.WriteCoefficientsCSV(w, res) }); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printPeakMemory(out)
		return nil
	},
}

func init() {
	analyzeRegressionCmd.Flags().String("out", analysis.RegressionFile, "coefficient table output")
	analyzeCmd.AddCommand(analyzeRegressionCmd)
}
