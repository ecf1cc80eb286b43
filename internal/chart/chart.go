// internal/chart/chart.go
// Package chart renders summary bar charts as PNG files.
package chart

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/mwiater/langbench/internal/results"
)

// Metric selects the summary column to plot.
type Metric string

const (
	Time   Metric = "time"
	Memory Metric = "memory"
)

// File is the default file name of the chart for m.
func (m Metric) File() string { return string(m) + ".png" }

func (m Metric) label() string {
	if m == Memory {
		return "Peak memory (MB)"
	}
	return "Mean time (s)"
}

func (m Metric) value(s results.Summary) float64 {
	v := s.TimeMean
	if m == Memory {
		v = s.MemoryMean
	}
	// missing bars are drawn at zero height
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// WriteBarChart writes a grouped bar chart to path: one group per analysis
// on the X axis and one bar series per language.
func WriteBarChart(summaries []results.Summary, metric Metric, path string) error {
	if len(summaries) == 0 {
		return errors.New("no summaries to plot")
	}
	if metric != Time && metric != Memory {
		return fmt.Errorf("unknown metric %q", metric)
	}

	var analyses, languages []string
	seenA, seenL := map[string]bool{}, map[string]bool{}
	values := map[string]map[string]float64{}
	for _, s := range summaries {
		if !seenA[s.Analysis] {
			seenA[s.Analysis] = true
			analyses = append(analyses, s.Analysis)
		}
		if !seenL[s.Language] {
			seenL[s.Language] = true
			languages = append(languages, s.Language)
			values[s.Language] = map[string]float64{}
		}
		values[s.Language][s.Analysis] = metric.value(s)
	}

	p := plot.New()
	p.Title.Text = metric.label() + " by language"
	p.Y.Label.Text = metric.label()
	p.Legend.Top = true

	width := vg.Points(20)
	for i, lang := range languages {
		vals := make(plotter.Values, len(analyses))
		for j, a := range analyses {
			vals[j] = values[lang][a]
		}
		bar, err := plotter.NewBarChart(vals, width)
		if err != nil {
			return fmt.Errorf("bar chart for %s: %w", lang, err)
		}
		bar.LineStyle.Width = vg.Length(0)
		bar.Color = plotutil.Color(i)
		bar.Offset = vg.Length(float64(i)-float64(len(languages)-1)/2) * width
		p.Add(bar)
		p.Legend.Add(lang, bar)
	}
	p.NominalX(analyses...)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	w := vg.Length(2+len(analyses)*len(languages)) * vg.Inch / 2
	if w < 6*vg.Inch {
		w = 6 * vg.Inch
	}
	return p.Save(w, 4*vg.Inch, path)
}
