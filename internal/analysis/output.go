// internal/analysis/output.go
// Package: analysis
package analysis

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"runtime"
	"strconv"
)

// Default result files, named like the ones the other runtimes write.
const (
	RegressionFile = "resultados_regresion_Go.csv"
	ANOVAFile      = "resultados_anova_Go.csv"
)

// csvFloat writes NaN as an empty cell, the way pandas does.
func csvFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCoefficientsCSV writes the ",coef,std_err,pvalue" table.
func WriteCoefficientsCSV(w io.Writer, res OLSResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"", "coef", "std_err", "pvalue"}); err != nil {
		return err
	}
	for _, c := range res.Coefficients {
		if err := cw.Write([]string{c.Name, csvFloat(c.Coef), csvFloat(c.StdErr), csvFloat(c.PValue)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteANOVACSV writes the ",sum_sq,df,F,PR(>F)" table.
func WriteANOVACSV(w io.Writer, t ANOVATable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"", "sum_sq", "df", "F", "PR(>F)"}); err != nil {
		return err
	}
	for _, r := range t.Rows() {
		if err := cw.Write([]string{r.Source, csvFloat(r.SumSq), csvFloat(r.DF), csvFloat(r.F), csvFloat(r.PValue)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV creates path and fills it with write.
func SaveCSV(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// PeakMemoryMB reports the memory obtained from the OS by the Go runtime,
// in MB. It is what the analyze commands print as PEAK_MEMORY.
func PeakMemoryMB() float64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return float64(ms.Sys) / (1024 * 1024)
}
