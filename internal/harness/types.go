// internal/harness/types.go
// Package: harness
package harness

import (
	"io/fs"
	"time"

	"github.com/mwiater/langbench/internal/results"
	"github.com/mwiater/langbench/internal/tasks"
)

// Options controls how the external tools are invoked.
type Options struct {
	// Hyperfine is the benchmarking tool binary.
	Hyperfine string `json:"hyperfine"`
	// TimeBinary is the resource-usage utility wrapped around each command
	// for memory sampling, e.g. "/usr/bin/time".
	TimeBinary string `json:"time_binary"`
	// Shell runs the task command strings ("sh -c <command>").
	Shell string `json:"shell"`

	// Runs is the number of timed replicas per command.
	Runs int `json:"runs"`
	// Warmup is the number of discarded runs per command before timing.
	Warmup int `json:"warmup"`
	// MemoryRuns is the number of memory samples per command.
	MemoryRuns int `json:"memory_runs"`
	// MemoryTimeout bounds each memory sample; a timeout yields a missing value.
	MemoryTimeout time.Duration `json:"memory_timeout"`

	// ExportPath is where hyperfine writes its JSON timing report.
	ExportPath string `json:"export_path"`
	// SourceDir resolves relative task source paths for line counting.
	SourceDir string `json:"source_dir"`
	// Builtin holds sources compiled into the binary; it is consulted
	// when a task source is not found on disk.
	Builtin fs.FS `json:"-"`
}

// SuiteConfig configures a complete benchmark run.
type SuiteConfig struct {
	Options

	Tasks    []tasks.Task `json:"tasks"`
	Baseline string       `json:"baseline"`

	// Observer, when set, receives progress events as the run advances.
	Observer func(Event) `json:"-"`
}

// Stage names a step of the pipeline.
type Stage string

const (
	StageTiming    Stage = "timing"
	StageMemory    Stage = "memory"
	StageLines     Stage = "lines"
	StageAggregate Stage = "aggregate"
	StageDone      Stage = "done"
)

// Event reports progress. Task is the zero value for stage-level events.
type Event struct {
	Stage   Stage
	Task    tasks.Task
	Message string
	Done    bool
	Err     error
}

// HyperfineOutput is the JSON structure produced by hyperfine --export-json.
type HyperfineOutput struct {
	Results []HyperfineResult `json:"results"`
}

type HyperfineResult struct {
	Command string    `json:"command"`
	Mean    float64   `json:"mean"`   // seconds
	Stddev  float64   `json:"stddev"` // seconds
	Median  float64   `json:"median"` // seconds
	Min     float64   `json:"min"`    // seconds
	Max     float64   `json:"max"`    // seconds
	Times   []float64 `json:"times"`  // all samples in seconds
}

// SuiteResult is everything a run produced.
type SuiteResult struct {
	// Timings maps a command to its elapsed-time samples in seconds.
	Timings map[string][]float64
	// Memory maps a command to its peak-memory samples in MB (NaN = missing).
	Memory map[string][]float64
	// Lines maps a command to the line count of its source file.
	Lines map[string]int

	Replicas    []results.Replica
	Summaries   []results.Summary
	GeneratedAt time.Time
}
