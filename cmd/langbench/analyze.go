// cmd/langbench/analyze.go
package langbench

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mwiater/langbench/internal/analysis"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// analyzeCmd represents the 'analyze' command group: the Go runtime's
// entries in the benchmark.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the statistical analyses natively in Go",
	Long: `The 'analyze' command groups the Go implementations of the benchmarked analyses. Each subcommand reads the shared
dataset, prints its table, writes a CSV in the same layout as the other runtimes and reports PEAK_MEMORY in MB.`,
}

func init() {
	analyzeCmd.PersistentFlags().String("data", "data.csv", "input dataset")
	rootCmd.AddCommand(analyzeCmd)
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		String()
}

func fmtStat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func printPeakMemory(w io.Writer) {
	fmt.Fprintf(w, "PEAK_MEMORY:%v\n", analysis.PeakMemoryMB())
}

func loadDataset(cmd *cobra.Command) (analysis.Dataset, error) {
	path, _ := cmd.Flags().GetString("data")
	return analysis.LoadDataset(path)
}
