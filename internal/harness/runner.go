// internal/harness/runner.go
// Package: harness
package harness

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mwiater/langbench/internal/results"
	"github.com/mwiater/langbench/internal/tasks"
)

// RunSuite is the single exported entrypoint of the benchmark pipeline.
// Commands run one after another: hyperfine over all tasks, then memory
// samples per task, then line counts, then aggregation.
func RunSuite(ctx context.Context, ex Executor, cfg SuiteConfig) (SuiteResult, error) {
	if err := tasks.Validate(cfg.Tasks); err != nil {
		return SuiteResult{}, err
	}
	if cfg.Baseline == "" {
		return SuiteResult{}, errors.New("baseline language is required")
	}
	if cfg.Runs <= 0 {
		cfg.Runs = 10
	}
	if cfg.Hyperfine == "" {
		cfg.Hyperfine = "hyperfine"
	}
	if cfg.TimeBinary == "" {
		cfg.TimeBinary = "/usr/bin/time"
	}
	if cfg.MemoryTimeout <= 0 {
		cfg.MemoryTimeout = 5 * time.Minute
	}

	notify := func(ev Event) {
		if cfg.Observer != nil {
			cfg.Observer(ev)
		}
	}
	fail := func(stage Stage, err error) (SuiteResult, error) {
		notify(Event{Stage: stage, Err: err, Done: true})
		return SuiteResult{}, err
	}

	notify(Event{Stage: StageTiming, Message: fmt.Sprintf("%d commands × %d runs", len(cfg.Tasks), cfg.Runs)})
	timings, err := CollectTimings(ctx, ex, cfg.Options, cfg.Tasks)
	if err != nil {
		return fail(StageTiming, err)
	}
	notify(Event{Stage: StageTiming, Done: true})

	memory := make(map[string][]float64, len(cfg.Tasks))
	for _, t := range cfg.Tasks {
		notify(Event{Stage: StageMemory, Task: t})
		for i := 0; i < cfg.MemoryRuns; i++ {
			if err := ctx.Err(); err != nil {
				return fail(StageMemory, err)
			}
			memory[t.Command] = append(memory[t.Command], SampleMemory(ctx, ex, cfg.Options, t.Command))
		}
		notify(Event{Stage: StageMemory, Task: t, Done: true})
	}

	notify(Event{Stage: StageLines})
	lines := make(map[string]int, len(cfg.Tasks))
	counter := tasks.LineCounter{Dir: cfg.SourceDir, Builtin: cfg.Builtin}
	for _, t := range cfg.Tasks {
		lines[t.Command] = countSourceLines(counter, t)
	}
	notify(Event{Stage: StageLines, Done: true})

	notify(Event{Stage: StageAggregate})
	replicas := BuildReplicas(cfg.Tasks, timings, memory, lines)
	summaries, err := results.Aggregate(replicas, cfg.Tasks, cfg.Baseline)
	if err != nil {
		return fail(StageAggregate, err)
	}
	notify(Event{Stage: StageAggregate, Done: true})
	notify(Event{Stage: StageDone, Done: true})

	return SuiteResult{
		Timings:     timings,
		Memory:      memory,
		Lines:       lines,
		Replicas:    replicas,
		Summaries:   summaries,
		GeneratedAt: time.Now(),
	}, nil
}

// BuildReplicas zips each task's timing samples with its memory samples.
// Replica i takes memory sample i when one exists; the rest are missing.
func BuildReplicas(list []tasks.Task, timings, memory map[string][]float64, lines map[string]int) []results.Replica {
	var out []results.Replica
	for _, t := range list {
		mem := memory[t.Command]
		for i, sec := range timings[t.Command] {
			mb := math.NaN()
			if i < len(mem) {
				mb = mem[i]
			}
			out = append(out, results.Replica{
				Language:    t.Language,
				Analysis:    t.Analysis,
				Replica:     i + 1,
				TimeSec:     sec,
				MemoryMB:    mb,
				Lines:       lines[t.Command],
				Observation: t.Observation,
			})
		}
	}
	return out
}

func countSourceLines(counter tasks.LineCounter, t tasks.Task) int {
	n, err := counter.Lines(t)
	if err != nil {
		log.WithFields(log.Fields{"task": t.Key().String(), "source": t.Source, "source_dir": counter.Dir}).WithError(err).Warn("could not count source lines")
		return 0
	}
	return n
}
