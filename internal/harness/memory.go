// internal/harness/memory.go
// Package: harness
package harness

import (
	"context"
	"errors"
	"math"
	"regexp"
	"runtime"
	"strconv"

	log "github.com/sirupsen/logrus"
)

var (
	// GNU time -v: "Maximum resident set size (kbytes): 12345"
	gnuPeakRSS = regexp.MustCompile(`Maximum resident set size \(kbytes\):\s*(\d+)`)
	// BSD/macOS time -l: "  12345678  maximum resident set size"
	// (bytes on macOS, kilobytes on the BSDs)
	bsdPeakRSS = regexp.MustCompile(`(?m)^\s*(\d+)\s+maximum resident set size`)
	// Printed by the benchmarked scripts themselves, in MB.
	peakMarker = regexp.MustCompile(`PEAK_MEMORY:\s*([0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?)`)
)

// timeFlag returns the verbose flag of the platform's time(1).
func timeFlag() string {
	switch runtime.GOOS {
	case "darwin", "freebsd", "netbsd", "openbsd":
		return "-l"
	}
	return "-v"
}

// bsdRSSUnit is the size in bytes of one unit of the BSD rusage report.
func bsdRSSUnit(goos string) float64 {
	if goos == "darwin" {
		return 1
	}
	return 1024
}

// ParsePeakMemory extracts peak resident memory in MB. The resource report
// on stderr is preferred; the PEAK_MEMORY marker on stdout is the fallback.
func ParsePeakMemory(stdout, stderr string) (float64, bool) {
	return parsePeakMemory(stdout, stderr, runtime.GOOS)
}

func parsePeakMemory(stdout, stderr, goos string) (float64, bool) {
	if m := gnuPeakRSS.FindStringSubmatch(stderr); m != nil {
		if kb, err := strconv.ParseFloat(m[1], 64); err == nil {
			return kb / 1024, true
		}
	}
	if m := bsdPeakRSS.FindStringSubmatch(stderr); m != nil {
		if n, err := strconv.ParseFloat(m[1], 64); err == nil {
			return n * bsdRSSUnit(goos) / (1024 * 1024), true
		}
	}
	for _, text := range []string{stdout, stderr} {
		if m := peakMarker.FindStringSubmatch(text); m != nil {
			if mb, err := strconv.ParseFloat(m[1], 64); err == nil {
				return mb, true
			}
		}
	}
	return 0, false
}

// SampleMemory runs command once under the time utility and returns its
// peak resident memory in MB. Failures, timeouts and unparseable output
// yield NaN instead of an error.
func SampleMemory(ctx context.Context, ex Executor, opts Options, command string) float64 {
	if opts.MemoryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.MemoryTimeout)
		defer cancel()
	}

	shell := opts.Shell
	if shell == "" {
		shell = "sh"
	}
	entry := log.WithField("command", command)

	out, err := ex.Run(ctx, opts.TimeBinary, timeFlag(), shell, "-c", command)
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		entry.WithField("timeout", opts.MemoryTimeout).Warn("memory sample timed out")
		return math.NaN()
	case err != nil:
		entry.WithError(err).Warn("memory sample failed")
		return math.NaN()
	}

	mb, ok := ParsePeakMemory(string(out.Stdout), string(out.Stderr))
	if !ok {
		entry.Warn("no peak memory in output")
		return math.NaN()
	}
	entry.WithField("peak_mb", mb).Debug("memory sampled")
	return mb
}
