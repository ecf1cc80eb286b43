// internal/harness/hyperfine.go
// Package: harness
package harness

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"

	"github.com/mwiater/langbench/internal/tasks"
)

var (
	// ErrHyperfine wraps any failure of the timing tool invocation.
	ErrHyperfine = errors.New("hyperfine failed")
	// ErrMissingSamples is returned when the timing report lacks a command.
	ErrMissingSamples = errors.New("no timing samples for command")
)

// hyperfineArgs builds the argument list for one hyperfine invocation
// covering every task command.
func hyperfineArgs(opts Options, list []tasks.Task) []string {
	args := []string{
		"--warmup", strconv.Itoa(opts.Warmup),
		"--runs", strconv.Itoa(opts.Runs),
		"--export-json", opts.ExportPath,
	}
	if opts.Shell != "" {
		args = append(args, "--shell", opts.Shell)
	}
	for _, t := range list {
		args = append(args, t.Command)
	}
	return args
}

// CollectTimings runs hyperfine once over all task commands and returns the
// elapsed-time samples (seconds) per command. Warm-up runs are discarded by
// hyperfine itself. Any failure is fatal for the run.
func CollectTimings(ctx context.Context, ex Executor, opts Options, list []tasks.Task) (map[string][]float64, error) {
	if opts.ExportPath == "" {
		return nil, errors.New("hyperfine export path is required")
	}
	if err := os.MkdirAll(filepath.Dir(opts.ExportPath), 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	args := hyperfineArgs(opts, list)
	log.WithFields(log.Fields{
		"binary":   opts.Hyperfine,
		"commands": len(list),
		"runs":     opts.Runs,
		"warmup":   opts.Warmup,
	}).Info("running hyperfine")

	out, err := ex.Run(ctx, opts.Hyperfine, args...)
	log.Debug(string(out.Stdout))
	if err != nil {
		stderr := strings.TrimSpace(string(out.Stderr))
		if stderr == "" {
			return nil, fmt.Errorf("%w: %v", ErrHyperfine, err)
		}
		return nil, fmt.Errorf("%w: %v: %s", ErrHyperfine, err, stderr)
	}

	report, err := ReadHyperfineExport(opts.ExportPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHyperfine, err)
	}

	samples := make(map[string][]float64, len(report.Results))
	for _, r := range report.Results {
		samples[r.Command] = r.Times
	}
	for _, t := range list {
		if len(samples[t.Command]) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrMissingSamples, t.Command)
		}
	}
	return samples, nil
}

// ReadHyperfineExport parses a hyperfine --export-json file.
func ReadHyperfineExport(path string) (HyperfineOutput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return HyperfineOutput{}, fmt.Errorf("read timing report: %w", err)
	}
	var out HyperfineOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return HyperfineOutput{}, fmt.Errorf("parse timing report %s: %w", path, err)
	}
	return out, nil
}
