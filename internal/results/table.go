// internal/results/table.go
// Package: results
package results

import (
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableHeaders are the column titles of the rendered summary table. They
// follow SummaryHeader, with mean and standard deviation merged.
var TableHeaders = []string{"Language", "Analysis", "Time (s)", "Δ Time", "Memory (MB)", "Δ Memory", "Lines", "Observation"}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	baselineStyle = cellStyle.Foreground(lipgloss.Color("86"))
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// TableRows formats summaries as plain string rows in TableHeaders order.
func TableRows(summaries []Summary) [][]string {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Language,
			s.Analysis,
			plusMinus(s.TimeMean, s.TimeStd, 4),
			signedPct(s.TimeDeltaPct),
			plusMinus(s.MemoryMean, s.MemoryStd, 1),
			signedPct(s.MemoryDeltaPct),
			strconv.Itoa(s.Lines),
			s.Observation,
		})
	}
	return rows
}

// RenderTable renders summaries as a bordered terminal table with the
// baseline language's rows highlighted.
func RenderTable(summaries []Summary, baseline string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(TableHeaders...).
		Rows(TableRows(summaries)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(summaries) && summaries[row].Language == baseline {
				return baselineStyle
			}
			return cellStyle
		})
	return t.String()
}

func plusMinus(mean, std float64, prec int) string {
	if math.IsNaN(mean) {
		return missing
	}
	if math.IsNaN(std) {
		return strconv.FormatFloat(mean, 'f', prec, 64)
	}
	return fmt.Sprintf("%.*f ± %.*f", prec, mean, prec, std)
}

func signedPct(v float64) string {
	if math.IsNaN(v) {
		return missing
	}
	return fmt.Sprintf("%+.1f%%", v)
}
