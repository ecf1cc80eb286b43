// internal/results/csv.go
// Package: results
package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// missing is how NaN values are written to CSV.
const missing = "NA"

// ReplicaHeader is the column order of the raw replica CSV.
var ReplicaHeader = []string{"language", "analysis", "replica", "time_s", "memory_mb", "lines", "observation"}

// SummaryHeader is the column order of the summary CSV.
var SummaryHeader = []string{
	"language", "analysis",
	"time_mean_s", "time_std_s", "time_delta_pct",
	"memory_mean_mb", "memory_std_mb", "memory_delta_pct",
	"lines", "observation",
}

func formatFloat(v float64, prec int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return missing
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, missing) || strings.EqualFold(s, "nan") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// WriteReplicasCSV writes raw replica records. Floats are written with full
// precision so that re-aggregating the file reproduces the same summary.
func WriteReplicasCSV(w io.Writer, replicas []Replica) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ReplicaHeader); err != nil {
		return err
	}
	for _, r := range replicas {
		rec := []string{
			r.Language,
			r.Analysis,
			strconv.Itoa(r.Replica),
			formatFloat(r.TimeSec, -1),
			formatFloat(r.MemoryMB, -1),
			strconv.Itoa(r.Lines),
			r.Observation,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadReplicasCSV reads a file written by WriteReplicasCSV. Columns are
// matched by header name.
func ReadReplicasCSV(r io.Reader) ([]Replica, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read replicas: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("replica CSV is empty")
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range ReplicaHeader {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("replica CSV is missing column %q", name)
		}
	}

	out := make([]Replica, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) < len(records[0]) {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", line, len(records[0]), len(rec))
		}
		rep := Replica{
			Language:    rec[col["language"]],
			Analysis:    rec[col["analysis"]],
			Observation: rec[col["observation"]],
		}
		if rep.Replica, err = strconv.Atoi(strings.TrimSpace(rec[col["replica"]])); err != nil {
			return nil, fmt.Errorf("line %d: replica: %w", line, err)
		}
		if rep.TimeSec, err = parseFloat(rec[col["time_s"]]); err != nil {
			return nil, fmt.Errorf("line %d: time_s: %w", line, err)
		}
		if rep.MemoryMB, err = parseFloat(rec[col["memory_mb"]]); err != nil {
			return nil, fmt.Errorf("line %d: memory_mb: %w", line, err)
		}
		if rep.Lines, err = strconv.Atoi(strings.TrimSpace(rec[col["lines"]])); err != nil {
			return nil, fmt.Errorf("line %d: lines: %w", line, err)
		}
		out = append(out, rep)
	}
	return out, nil
}

// WriteSummaryCSV writes the summary table in SummaryHeader order.
func WriteSummaryCSV(w io.Writer, summaries []Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryHeader); err != nil {
		return err
	}
	for _, s := range summaries {
		rec := []string{
			s.Language,
			s.Analysis,
			formatFloat(s.TimeMean, 6),
			formatFloat(s.TimeStd, 6),
			formatFloat(s.TimeDeltaPct, 2),
			formatFloat(s.MemoryMean, 3),
			formatFloat(s.MemoryStd, 3),
			formatFloat(s.MemoryDeltaPct, 2),
			strconv.Itoa(s.Lines),
			s.Observation,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// LoadReplicas reads a replica CSV from disk.
func LoadReplicas(path string) ([]Replica, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open replicas: %w", err)
	}
	defer f.Close()
	return ReadReplicasCSV(f)
}

// SaveReplicas writes a replica CSV to disk, creating parent directories.
func SaveReplicas(path string, replicas []Replica) error {
	return writeFile(path, func(w io.Writer) error { return WriteReplicasCSV(w, replicas) })
}

// SaveSummary writes a summary CSV to disk, creating parent directories.
func SaveSummary(path string, summaries []Summary) error {
	return writeFile(path, func(w io.Writer) error { return WriteSummaryCSV(w, summaries) })
}

func writeFile(path string, fn func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
