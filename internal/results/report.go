// internal/results/report.go
// Package: results
package results

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	json "github.com/goccy/go-json"
)

// The JSON forms use pointers so missing (NaN) values encode as null.

type jsonReplica struct {
	Language    string   `json:"language"`
	Analysis    string   `json:"analysis"`
	Replica     int      `json:"replica"`
	TimeSec     *float64 `json:"time_s"`
	MemoryMB    *float64 `json:"memory_mb"`
	Lines       int      `json:"lines"`
	Observation string   `json:"observation"`
}

type jsonSummary struct {
	Language       string   `json:"language"`
	Analysis       string   `json:"analysis"`
	Replicas       int      `json:"replicas"`
	TimeMean       *float64 `json:"time_mean_s"`
	TimeStd        *float64 `json:"time_std_s"`
	TimeDeltaPct   *float64 `json:"time_delta_pct"`
	MemoryMean     *float64 `json:"memory_mean_mb"`
	MemoryStd      *float64 `json:"memory_std_mb"`
	MemoryDeltaPct *float64 `json:"memory_delta_pct"`
	Lines          int      `json:"lines"`
	Observation    string   `json:"observation"`
	TimeMedian     *float64 `json:"time_median_s"`
	TimeLo         *float64 `json:"time_ci_lo_s"`
	TimeHi         *float64 `json:"time_ci_hi_s"`
	TimePValue     *float64 `json:"time_p_value"`
}

type jsonReport struct {
	Baseline    string        `json:"baseline"`
	Config      any           `json:"config,omitempty"`
	Replicas    []jsonReplica `json:"replicas"`
	Summaries   []jsonSummary `json:"summaries"`
	GeneratedAt time.Time     `json:"generated_at"`
}

func ptr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func val(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

// MarshalJSON encodes the report with missing values as null.
func (r Report) MarshalJSON() ([]byte, error) {
	jr := jsonReport{
		Baseline:    r.Baseline,
		Config:      r.Config,
		Replicas:    make([]jsonReplica, len(r.Replicas)),
		Summaries:   make([]jsonSummary, len(r.Summaries)),
		GeneratedAt: r.GeneratedAt,
	}
	for i, rep := range r.Replicas {
		jr.Replicas[i] = jsonReplica{
			Language:    rep.Language,
			Analysis:    rep.Analysis,
			Replica:     rep.Replica,
			TimeSec:     ptr(rep.TimeSec),
			MemoryMB:    ptr(rep.MemoryMB),
			Lines:       rep.Lines,
			Observation: rep.Observation,
		}
	}
	for i, s := range r.Summaries {
		jr.Summaries[i] = jsonSummary{
			Language:       s.Language,
			Analysis:       s.Analysis,
			Replicas:       s.Replicas,
			TimeMean:       ptr(s.TimeMean),
			TimeStd:        ptr(s.TimeStd),
			TimeDeltaPct:   ptr(s.TimeDeltaPct),
			MemoryMean:     ptr(s.MemoryMean),
			MemoryStd:      ptr(s.MemoryStd),
			MemoryDeltaPct: ptr(s.MemoryDeltaPct),
			Lines:          s.Lines,
			Observation:    s.Observation,
			TimeMedian:     ptr(s.TimeMedian),
			TimeLo:         ptr(s.TimeLo),
			TimeHi:         ptr(s.TimeHi),
			TimePValue:     ptr(s.TimePValue),
		}
	}
	return json.Marshal(jr)
}

// UnmarshalJSON decodes a report, turning null values back into NaN.
func (r *Report) UnmarshalJSON(b []byte) error {
	var jr jsonReport
	if err := json.Unmarshal(b, &jr); err != nil {
		return err
	}
	r.Baseline = jr.Baseline
	r.Config = jr.Config
	r.GeneratedAt = jr.GeneratedAt
	r.Replicas = make([]Replica, len(jr.Replicas))
	for i, rep := range jr.Replicas {
		r.Replicas[i] = Replica{
			Language:    rep.Language,
			Analysis:    rep.Analysis,
			Replica:     rep.Replica,
			TimeSec:     val(rep.TimeSec),
			MemoryMB:    val(rep.MemoryMB),
			Lines:       rep.Lines,
			Observation: rep.Observation,
		}
	}
	r.Summaries = make([]Summary, len(jr.Summaries))
	for i, s := range jr.Summaries {
		r.Summaries[i] = Summary{
			Language:       s.Language,
			Analysis:       s.Analysis,
			Replicas:       s.Replicas,
			TimeMean:       val(s.TimeMean),
			TimeStd:        val(s.TimeStd),
			TimeDeltaPct:   val(s.TimeDeltaPct),
			MemoryMean:     val(s.MemoryMean),
			MemoryStd:      val(s.MemoryStd),
			MemoryDeltaPct: val(s.MemoryDeltaPct),
			Lines:          s.Lines,
			Observation:    s.Observation,
			TimeMedian:     val(s.TimeMedian),
			TimeLo:         val(s.TimeLo),
			TimeHi:         val(s.TimeHi),
			TimePValue:     val(s.TimePValue),
		}
	}
	return nil
}

// SaveReport writes the report as indented JSON.
func SaveReport(path string, r Report) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return writeFile(path, func(w io.Writer) error {
		_, err := w.Write(append(b, '\n'))
		return err
	})
}

// LoadReport reads a report written by SaveReport.
func LoadReport(path string) (Report, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("could not read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(b, &r); err != nil {
		return Report{}, fmt.Errorf("could not parse report %s: %w", path, err)
	}
	return r, nil
}
