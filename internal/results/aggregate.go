// internal/results/aggregate.go
// Package: results
package results

import (
	"errors"
	"fmt"
	"math"

	"github.com/mwiater/langbench/internal/tasks"
)

var (
	// ErrUnknownTask is returned when a replica's (language, analysis) pair
	// matches no task.
	ErrUnknownTask = errors.New("replica does not match any task")
	// ErrMissingBaseline is returned when an analysis has no row for the
	// baseline language.
	ErrMissingBaseline = errors.New("baseline summary missing")
)

// Aggregate joins replicas with task metadata and summarizes each
// (language, analysis) group. The result has one row per task, in task
// order, with percentage deltas against the baseline language's row for the
// same analysis. Aggregate has no side effects; the same input always yields
// the same summaries.
func Aggregate(replicas []Replica, list []tasks.Task, baseline string) ([]Summary, error) {
	if err := tasks.Validate(list); err != nil {
		return nil, fmt.Errorf("invalid task list: %w", err)
	}

	groups := make(map[tasks.Key][]Replica, len(list))
	known := make(map[tasks.Key]bool, len(list))
	for _, t := range list {
		known[t.Key()] = true
	}
	for _, r := range replicas {
		if !known[r.Key()] {
			return nil, fmt.Errorf("%w: %s (replica %d)", ErrUnknownTask, r.Key(), r.Replica)
		}
		groups[r.Key()] = append(groups[r.Key()], r)
	}

	out := make([]Summary, 0, len(list))
	index := make(map[tasks.Key]int, len(list))
	for _, t := range list {
		index[t.Key()] = len(out)
		out = append(out, summarize(t, groups[t.Key()]))
	}

	for i := range out {
		s := &out[i]
		baseKey := tasks.Key{Language: baseline, Analysis: s.Analysis}
		bi, ok := index[baseKey]
		if !ok {
			return nil, fmt.Errorf("%w: no %s row for analysis %q", ErrMissingBaseline, baseline, s.Analysis)
		}
		if s.Language == baseline {
			s.TimeDeltaPct = 0
			s.MemoryDeltaPct = 0
			s.TimePValue = math.NaN()
			continue
		}
		base := out[bi]
		s.TimeDeltaPct = percentDelta(s.TimeMean, base.TimeMean)
		s.MemoryDeltaPct = percentDelta(s.MemoryMean, base.MemoryMean)
		s.TimePValue = pValue(times(groups[s.Key()]), times(groups[baseKey]))
	}
	return out, nil
}

func summarize(t tasks.Task, rows []Replica) Summary {
	s := Summary{
		Language:    t.Language,
		Analysis:    t.Analysis,
		Replicas:    len(rows),
		Observation: t.Observation,
	}
	if len(rows) > 0 {
		s.Lines = rows[0].Lines
	}

	ts := times(rows)
	s.TimeMean, s.TimeStd = meanStd(ts)
	s.TimeMedian, s.TimeLo, s.TimeHi = medianInterval(ts)

	mem := make([]float64, len(rows))
	for i, r := range rows {
		mem[i] = r.MemoryMB
	}
	s.MemoryMean, s.MemoryStd = meanStd(mem)
	return s
}

func times(rows []Replica) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.TimeSec
	}
	return out
}
