// internal/results/types.go
// Package: results
package results

import (
	"time"

	"github.com/mwiater/langbench/internal/tasks"
)

// Replica is one measured execution of a task command. MemoryMB is NaN when
// the memory sample for this replica is missing.
type Replica struct {
	Language    string
	Analysis    string
	Replica     int // 1-based
	TimeSec     float64
	MemoryMB    float64
	Lines       int
	Observation string
}

// Key returns the (language, analysis) group the replica belongs to.
func (r Replica) Key() tasks.Key {
	return tasks.Key{Language: r.Language, Analysis: r.Analysis}
}

// Summary aggregates all replicas of one (language, analysis) group.
// Missing statistics are NaN.
type Summary struct {
	Language string
	Analysis string
	Replicas int

	TimeMean     float64 // seconds
	TimeStd      float64 // seconds, sample standard deviation
	TimeDeltaPct float64 // relative to the baseline language

	MemoryMean     float64 // MB
	MemoryStd      float64 // MB
	MemoryDeltaPct float64

	Lines       int
	Observation string

	// Median time and its 95% confidence interval (distribution-free).
	TimeMedian float64
	TimeLo     float64
	TimeHi     float64
	// TimePValue is the Mann-Whitney U p-value of this group's times against
	// the baseline group's times. NaN for the baseline itself.
	TimePValue float64
}

// Key returns the (language, analysis) group of the summary.
func (s Summary) Key() tasks.Key {
	return tasks.Key{Language: s.Language, Analysis: s.Analysis}
}

// Report is the JSON artifact written next to the CSV tables.
type Report struct {
	Baseline    string
	Config      any
	Replicas    []Replica
	Summaries   []Summary
	GeneratedAt time.Time
}
